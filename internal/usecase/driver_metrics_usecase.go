package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
	domainerrors "github.com/wekeepgrowing/semo-fleet/internal/domain/errors"
	"github.com/wekeepgrowing/semo-fleet/internal/domain/repository"
	apperrors "github.com/wekeepgrowing/semo-fleet/pkg/errors"
)

// DriverMetricsUseCase aggregates delivery, timing, proof and fuel metrics for one driver.
type DriverMetricsUseCase struct {
	logger   *zap.Logger
	drivers  repository.DriverRepository
	routes   repository.RouteRepository
	fuelLogs repository.FuelLogRepository
}

func NewDriverMetricsUseCase(
	logger *zap.Logger,
	drivers repository.DriverRepository,
	routes repository.RouteRepository,
	fuelLogs repository.FuelLogRepository,
) *DriverMetricsUseCase {
	return &DriverMetricsUseCase{
		logger:   logger,
		drivers:  drivers,
		routes:   routes,
		fuelLogs: fuelLogs,
	}
}

func validatePeriod(from, to time.Time) error {
	if from.IsZero() || to.IsZero() || from.After(to) {
		return domainerrors.Detail(domainerrors.ErrInvalidPeriod, "from %s to %s",
			from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	return nil
}

func (uc *DriverMetricsUseCase) Metrics(ctx context.Context, ownerID, driverID string, from, to time.Time) (*entity.DriverMetrics, error) {
	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}

	driver, err := uc.drivers.GetByID(ctx, ownerID, driverID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load driver")
	}
	if driver == nil {
		return nil, domainerrors.DriverNotFound(driverID)
	}

	routes, err := uc.routes.Find(ctx, repository.RouteQuery{
		OwnerID:  ownerID,
		DriverID: &driverID,
		From:     from,
		To:       to,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load routes")
	}

	var fuel []*entity.FuelLog
	if vehicleIDs := vehiclesUsed(routes); len(vehicleIDs) > 0 {
		fuel, err = uc.fuelLogs.ListForVehicles(ctx, vehicleIDs, from, to)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to load fuel logs")
		}
	}

	return buildDriverMetrics(driver, entity.Period{From: from, To: to}, routes, fuel), nil
}

func vehiclesUsed(routes []*entity.Route) []string {
	seen := make(map[string]struct{})
	for _, r := range routes {
		if r.VehicleID != nil {
			seen[*r.VehicleID] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// buildDriverMetrics is the pure aggregation over already loaded records.
func buildDriverMetrics(driver *entity.Driver, period entity.Period, routes []*entity.Route, fuel []*entity.FuelLog) *entity.DriverMetrics {
	var (
		total, delivered, failed     int
		onTime, timed                int
		withSig, withPhoto, withBoth int
		completedRoutes              int
		completedRouteMinutes        decimal.Decimal
		deliveredOnCompletedRoutes   int
		distance                     decimal.Decimal
	)

	for _, r := range routes {
		distance = distance.Add(r.Distance())

		routeDelivered := 0
		for i := range r.Stops {
			s := &r.Stops[i]
			total++
			switch s.Status {
			case entity.StopStatusDelivered:
				delivered++
				routeDelivered++
				if ok, hasTimes := s.IsOnTime(); hasTimes {
					timed++
					if ok {
						onTime++
					}
				}
				if s.HasSignature {
					withSig++
				}
				if s.HasPhoto {
					withPhoto++
				}
				if s.HasSignature && s.HasPhoto {
					withBoth++
				}
			case entity.StopStatusFailed:
				failed++
			}
		}

		if r.Status == entity.RouteStatusCompleted {
			completedRoutes++
			if d, ok := r.DrivingDuration(); ok {
				completedRouteMinutes = completedRouteMinutes.Add(minutesOf(d))
			}
			deliveredOnCompletedRoutes += routeDelivered
		}
	}

	avgMinutes := ratio(completedRouteMinutes, decimal.NewFromInt(int64(deliveredOnCompletedRoutes)))
	perHour := ratio(secsPerMin, avgMinutes)

	m := &entity.DriverMetrics{
		DriverID:   driver.ID,
		DriverName: driver.FullName(),
		Period:     period,
		Deliveries: entity.DeliveryStats{
			Total:          total,
			Completed:      delivered,
			Failed:         failed,
			Pending:        total - delivered - failed,
			CompletionRate: percent(delivered, total),
			FailureRate:    percent(failed, total),
		},
		Timing: entity.TimingStats{
			OnTime:                    onTime,
			Late:                      timed - onTime,
			OnTimeRate:                percent(onTime, delivered),
			AverageMinutesPerDelivery: roundTenth(avgMinutes),
			AverageDeliveriesPerHour:  roundTenth(perHour),
		},
		// POD rate counts the union of signed and photographed deliveries
		Proof: entity.ProofStats{
			WithSignature:     withSig,
			WithPhoto:         withPhoto,
			WithBoth:          withBoth,
			PODCompletionRate: percent(withSig+withPhoto-withBoth, delivered),
		},
		Routes: entity.RouteStats{
			Total:                len(routes),
			Completed:            completedRoutes,
			AverageStopsPerRoute: roundTenth(ratio(decimal.NewFromInt(int64(total)), decimal.NewFromInt(int64(len(routes))))),
			TotalDistanceKm:      roundTenth(distance),
		},
	}

	if len(fuel) > 0 {
		var liters, cost decimal.Decimal
		for _, f := range fuel {
			liters = liters.Add(f.Liters)
			cost = cost.Add(f.TotalCost)
		}
		m.Efficiency = &entity.EfficiencyStats{
			FuelConsumptionL:   roundTenth(liters),
			KmPerLiter:         roundTenth(ratio(distance, liters)),
			CostPerDeliveryEur: roundCents(ratio(cost, decimal.NewFromInt(int64(delivered)))),
		}
	}
	return m
}
