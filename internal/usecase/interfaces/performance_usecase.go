package interfaces

import (
	"context"
	"time"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
)

type PerformanceUseCase interface {
	// Rankings returns at most limit drivers sorted by composite score; limit <= 0 means the default.
	Rankings(ctx context.Context, ownerID string, from, to time.Time, limit int) ([]*entity.DriverRanking, error)
	Trends(ctx context.Context, ownerID, driverID string, from, to time.Time) ([]*entity.TrendPoint, error)
	TeamSummary(ctx context.Context, ownerID string, from, to time.Time) (*entity.TeamSummary, error)
	Alerts(ctx context.Context, ownerID string, from, to time.Time) ([]*entity.PerformanceAlert, error)
	Compare(ctx context.Context, ownerID, driverA, driverB string, from, to time.Time) (*entity.DriverComparison, error)
}
