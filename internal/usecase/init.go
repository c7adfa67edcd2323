package usecase

import (
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-fleet/internal/config"
	"github.com/wekeepgrowing/semo-fleet/internal/domain/repository"
	"github.com/wekeepgrowing/semo-fleet/internal/usecase/interfaces"
)

// UseCases holds every use case of the fleet service.
type UseCases struct {
	Audit       interfaces.AuditTrailUseCase
	Compliance  interfaces.ComplianceUseCase
	DriverHours interfaces.DriverHoursUseCase
	Metrics     interfaces.DriverMetricsUseCase
	Performance interfaces.PerformanceUseCase
}

// Dependencies are the infrastructure pieces use cases need besides repositories.
type Dependencies struct {
	Locker    interfaces.OwnerLocker
	Publisher interfaces.EventPublisher
	Recorder  interfaces.MetricsRecorder
	Clock     Clock
}

// SetupUseCases wires the use cases leaves first.
func SetupUseCases(
	logger *zap.Logger,
	cfg *config.Config,
	repos repository.Repositories,
	deps Dependencies,
) *UseCases {
	loc := NewLocalizer(cfg.Compliance.Locale)

	audit := NewAuditTrailUseCase(logger.Named("audit"), repos.AuditLogs, deps.Publisher, cfg.Compliance.AuditChannel, deps.Clock)
	hours := NewDriverHoursUseCase(logger.Named("driver_hours"), repos.Drivers, repos.Routes, loc)
	metrics := NewDriverMetricsUseCase(logger.Named("driver_metrics"), repos.Drivers, repos.Routes, repos.FuelLogs)
	compliance := NewComplianceUseCase(logger.Named("compliance"), repos, audit, hours, deps.Locker, deps.Recorder, loc, deps.Clock)
	performance := NewPerformanceUseCase(logger.Named("performance"), repos.Drivers, repos.Routes, metrics, deps.Recorder, loc)

	return &UseCases{
		Audit:       audit,
		Compliance:  compliance,
		DriverHours: hours,
		Metrics:     metrics,
		Performance: performance,
	}
}
