package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wekeepgrowing/semo-fleet/internal/adapter/repository"
	domainRepo "github.com/wekeepgrowing/semo-fleet/internal/domain/repository"
)

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) domainRepo.Repositories {
	return domainRepo.Repositories{
		Vehicles:    repository.NewVehicleRepository(db, logger),
		Routes:      repository.NewRouteRepository(db, logger),
		Drivers:     repository.NewDriverRepository(db, logger),
		FuelLogs:    repository.NewFuelLogRepository(db, logger),
		Maintenance: repository.NewMaintenanceRepository(db, logger),
		AuditLogs:   repository.NewAuditLogRepository(db, logger),
		Issues:      repository.NewComplianceIssueRepository(db, logger),
	}
}
