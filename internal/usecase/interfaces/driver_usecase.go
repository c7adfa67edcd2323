package interfaces

import (
	"context"
	"time"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
)

type DriverHoursUseCase interface {
	Detail(ctx context.Context, ownerID, driverID string, referenceDate time.Time) (*entity.DriverHoursCompliance, error)
	// AllDrivers returns the detail for every active driver, skipping drivers that fail.
	AllDrivers(ctx context.Context, ownerID string, referenceDate time.Time) ([]*entity.DriverHoursCompliance, error)
}

type DriverMetricsUseCase interface {
	Metrics(ctx context.Context, ownerID, driverID string, from, to time.Time) (*entity.DriverMetrics, error)
}
