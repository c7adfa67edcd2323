package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
	domainerrors "github.com/wekeepgrowing/semo-fleet/internal/domain/errors"
	"github.com/wekeepgrowing/semo-fleet/internal/domain/repository"
	apperrors "github.com/wekeepgrowing/semo-fleet/pkg/errors"
)

var (
	hoursPerDay       = decimal.NewFromInt(24)
	dailyHoursLimit   = decimal.NewFromInt(entity.MaxDailyDrivingHours)
	biweeklyHoursCap  = decimal.NewFromInt(entity.MaxBiweeklyDrivingHours)
	minDailyRestHours = decimal.NewFromInt(entity.MinDailyRestHours)
)

// DriverHoursUseCase computes rolling driving-time windows for a driver.
type DriverHoursUseCase struct {
	logger  *zap.Logger
	drivers repository.DriverRepository
	routes  repository.RouteRepository
	loc     *Localizer
}

func NewDriverHoursUseCase(
	logger *zap.Logger,
	drivers repository.DriverRepository,
	routes repository.RouteRepository,
	loc *Localizer,
) *DriverHoursUseCase {
	return &DriverHoursUseCase{
		logger:  logger,
		drivers: drivers,
		routes:  routes,
		loc:     loc,
	}
}

// Detail aggregates the day, the ISO week and the two-week window ending on referenceDate.
// Windows are built from referenceDate's calendar day; route dates are compared by their own day.
func (uc *DriverHoursUseCase) Detail(ctx context.Context, ownerID, driverID string, referenceDate time.Time) (*entity.DriverHoursCompliance, error) {
	driver, err := uc.drivers.GetByID(ctx, ownerID, driverID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load driver")
	}
	if driver == nil {
		return nil, domainerrors.DriverNotFound(driverID)
	}
	return uc.detail(ctx, ownerID, driver, referenceDate)
}

func (uc *DriverHoursUseCase) detail(ctx context.Context, ownerID string, driver *entity.Driver, referenceDate time.Time) (*entity.DriverHoursCompliance, error) {
	day := calendarDay(referenceDate)
	weekStart := isoWeekStart(day)
	windowStart := weekStart.AddDate(0, 0, -7)

	driverID := driver.ID
	routes, err := uc.routes.Find(ctx, repository.RouteQuery{
		OwnerID:    ownerID,
		DriverID:   &driverID,
		From:       windowStart,
		To:         endOfDay(day),
		OnlyDriven: true,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load routes")
	}

	var daily, weekly, biweekly decimal.Decimal
	for _, r := range routes {
		d, ok := r.DrivingDuration()
		if !ok {
			continue
		}
		h := hoursOf(d)
		routeDay := calendarDay(r.RouteDate)
		if sameDay(routeDay, day) {
			daily = daily.Add(h)
		}
		if !routeDay.Before(weekStart) {
			weekly = weekly.Add(h)
		}
		biweekly = biweekly.Add(h)
	}
	rest := hoursPerDay.Sub(daily)

	violations := []string{}
	if daily.GreaterThan(dailyHoursLimit) {
		violations = append(violations, uc.loc.Sprintf(msgDailyViolation, roundTenth(daily), entity.MaxDailyDrivingHours))
	}
	if weekly.GreaterThan(weeklyHoursLimit) {
		violations = append(violations, uc.loc.Sprintf(msgWeeklyViolation, roundTenth(weekly), entity.MaxWeeklyDrivingHours))
	}
	if biweekly.GreaterThan(biweeklyHoursCap) {
		violations = append(violations, uc.loc.Sprintf(msgBiweeklyViolation, roundTenth(biweekly), entity.MaxBiweeklyDrivingHours))
	}
	if rest.LessThan(minDailyRestHours) {
		violations = append(violations, uc.loc.Sprintf(msgRestViolation, roundTenth(rest), entity.MinDailyRestHours))
	}

	return &entity.DriverHoursCompliance{
		DriverID:             driver.ID,
		DriverName:           driver.FullName(),
		Date:                 day,
		DailyDrivingHours:    roundTenth(daily),
		RestHours:            roundTenth(rest),
		WeeklyDrivingHours:   roundTenth(weekly),
		BiweeklyDrivingHours: roundTenth(biweekly),
		IsCompliant:          len(violations) == 0,
		Violations:           violations,
	}, nil
}

// AllDrivers skips a driver whose detail fails and keeps going.
func (uc *DriverHoursUseCase) AllDrivers(ctx context.Context, ownerID string, referenceDate time.Time) ([]*entity.DriverHoursCompliance, error) {
	active := entity.DriverStatusActive
	drivers, err := uc.drivers.ListByOwner(ctx, ownerID, &active)
	if err != nil {
		apperrors.LogError(uc.logger, err, "Failed to list drivers", zap.String("owner_id", ownerID))
		return nil, apperrors.Wrap(err, "failed to list drivers")
	}

	result := make([]*entity.DriverHoursCompliance, 0, len(drivers))
	for _, driver := range drivers {
		detail, err := uc.detail(ctx, ownerID, driver, referenceDate)
		if err != nil {
			uc.logger.Warn("Skipping driver hours",
				zap.String("owner_id", ownerID),
				zap.String("driver_id", driver.ID),
				zap.Error(err),
			)
			continue
		}
		result = append(result, detail)
	}
	return result, nil
}
