package repository

import (
	"context"
	"time"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
)

// Record store ports. The fleet record store owns this data; the engine only queries it.

type VehicleRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Vehicle, error)
}

// RouteQuery selects routes by route date. Both bounds are inclusive.
type RouteQuery struct {
	OwnerID  string
	DriverID *string
	From     time.Time
	To       time.Time
	// OnlyDriven keeps routes with both actual start and actual end set.
	OnlyDriven bool
	// OnlyAssigned keeps routes that have a driver.
	OnlyAssigned bool
}

type RouteRepository interface {
	// Find returns routes with their stops loaded.
	Find(ctx context.Context, q RouteQuery) ([]*entity.Route, error)
}

type DriverRepository interface {
	// GetByID returns (nil, nil) when the driver does not exist for the owner.
	GetByID(ctx context.Context, ownerID, driverID string) (*entity.Driver, error)
	ListByOwner(ctx context.Context, ownerID string, status *entity.DriverStatus) ([]*entity.Driver, error)
}

type FuelLogRepository interface {
	// ListForVehicles returns fuel logs of the given vehicles fueled within [from, to].
	ListForVehicles(ctx context.Context, vehicleIDs []string, from, to time.Time) ([]*entity.FuelLog, error)
}

type MaintenanceRepository interface {
	// LatestServiceDates maps vehicle id to its most recent service date.
	// Vehicles without any maintenance record are absent from the map.
	LatestServiceDates(ctx context.Context, vehicleIDs []string) (map[string]time.Time, error)
}
