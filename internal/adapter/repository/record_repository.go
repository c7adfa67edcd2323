package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
	"github.com/wekeepgrowing/semo-fleet/internal/domain/model"
	"github.com/wekeepgrowing/semo-fleet/internal/domain/repository"
)

// vehicleRepository reads vehicles from the record store
type vehicleRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewVehicleRepository(db *gorm.DB, logger *zap.Logger) repository.VehicleRepository {
	return &vehicleRepository{db: db, logger: logger}
}

func (r *vehicleRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Vehicle, error) {
	var rows []model.Vehicle
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("license_plate ASC").
		Find(&rows).Error; err != nil {
		r.logger.Error("failed to list vehicles", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	vehicles := make([]*entity.Vehicle, 0, len(rows))
	for i := range rows {
		vehicles = append(vehicles, rows[i].ToEntity())
	}
	return vehicles, nil
}

// routeRepository reads routes with their stops
type routeRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewRouteRepository(db *gorm.DB, logger *zap.Logger) repository.RouteRepository {
	return &routeRepository{db: db, logger: logger}
}

func (r *routeRepository) Find(ctx context.Context, q repository.RouteQuery) ([]*entity.Route, error) {
	query := r.db.WithContext(ctx).
		Preload("Stops").
		Where("user_id = ?", q.OwnerID).
		Where("route_date >= ? AND route_date <= ?", q.From, q.To).
		Order("route_date ASC").
		Order("id ASC")

	if q.DriverID != nil {
		query = query.Where("driver_id = ?", *q.DriverID)
	}
	if q.OnlyAssigned {
		query = query.Where("driver_id IS NOT NULL")
	}
	if q.OnlyDriven {
		query = query.Where("actual_start_time IS NOT NULL AND actual_end_time IS NOT NULL")
	}

	var rows []model.DeliveryRoute
	if err := query.Find(&rows).Error; err != nil {
		r.logger.Error("failed to find routes",
			zap.String("owner_id", q.OwnerID),
			zap.Time("from", q.From),
			zap.Time("to", q.To),
			zap.Error(err))
		return nil, fmt.Errorf("failed to find routes: %w", err)
	}

	routes := make([]*entity.Route, 0, len(rows))
	for i := range rows {
		routes = append(routes, rows[i].ToEntity())
	}
	return routes, nil
}

// driverRepository reads employees with the driver role
type driverRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewDriverRepository(db *gorm.DB, logger *zap.Logger) repository.DriverRepository {
	return &driverRepository{db: db, logger: logger}
}

func (r *driverRepository) drivers(ctx context.Context, ownerID string) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", ownerID, model.EmployeeRoleDriver)
}

func (r *driverRepository) GetByID(ctx context.Context, ownerID, driverID string) (*entity.Driver, error) {
	var row model.Employee
	err := r.drivers(ctx, ownerID).Where("id = ?", driverID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to get driver", zap.String("driver_id", driverID), zap.Error(err))
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}
	return row.ToEntity(), nil
}

func (r *driverRepository) ListByOwner(ctx context.Context, ownerID string, status *entity.DriverStatus) ([]*entity.Driver, error) {
	query := r.drivers(ctx, ownerID).Order("last_name ASC, first_name ASC")
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}

	var rows []model.Employee
	if err := query.Find(&rows).Error; err != nil {
		r.logger.Error("failed to list drivers", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}

	drivers := make([]*entity.Driver, 0, len(rows))
	for i := range rows {
		drivers = append(drivers, rows[i].ToEntity())
	}
	return drivers, nil
}

type fuelLogRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewFuelLogRepository(db *gorm.DB, logger *zap.Logger) repository.FuelLogRepository {
	return &fuelLogRepository{db: db, logger: logger}
}

func (r *fuelLogRepository) ListForVehicles(ctx context.Context, vehicleIDs []string, from, to time.Time) ([]*entity.FuelLog, error) {
	if len(vehicleIDs) == 0 {
		return nil, nil
	}

	var rows []model.FuelLog
	if err := r.db.WithContext(ctx).
		Where("vehicle_id IN ?", vehicleIDs).
		Where("fueled_at >= ? AND fueled_at <= ?", from, to).
		Order("fueled_at ASC").
		Find(&rows).Error; err != nil {
		r.logger.Error("failed to list fuel logs", zap.Strings("vehicle_ids", vehicleIDs), zap.Error(err))
		return nil, fmt.Errorf("failed to list fuel logs: %w", err)
	}

	logs := make([]*entity.FuelLog, 0, len(rows))
	for i := range rows {
		logs = append(logs, rows[i].ToEntity())
	}
	return logs, nil
}

type maintenanceRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewMaintenanceRepository(db *gorm.DB, logger *zap.Logger) repository.MaintenanceRepository {
	return &maintenanceRepository{db: db, logger: logger}
}

func (r *maintenanceRepository) LatestServiceDates(ctx context.Context, vehicleIDs []string) (map[string]time.Time, error) {
	latest := make(map[string]time.Time, len(vehicleIDs))
	if len(vehicleIDs) == 0 {
		return latest, nil
	}

	var rows []struct {
		VehicleID   string
		LastService time.Time
	}
	if err := r.db.WithContext(ctx).
		Model(&model.MaintenanceLog{}).
		Select("vehicle_id, MAX(service_date) AS last_service").
		Where("vehicle_id IN ?", vehicleIDs).
		Group("vehicle_id").
		Scan(&rows).Error; err != nil {
		r.logger.Error("failed to load maintenance dates", zap.Error(err))
		return nil, fmt.Errorf("failed to load maintenance dates: %w", err)
	}

	for _, row := range rows {
		latest[row.VehicleID] = row.LastService
	}
	return latest, nil
}
