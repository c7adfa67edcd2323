package usecase

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
	apperrors "github.com/wekeepgrowing/semo-fleet/pkg/errors"
)

// alertRule fires WARNING past warning and CRITICAL past critical.
// below means lower values are worse.
type alertRule struct {
	alertType entity.AlertType
	message   string
	below     bool
	warning   float64
	critical  float64
	value     func(m *entity.DriverMetrics) (float64, bool)
}

var alertRules = []alertRule{
	{
		alertType: entity.AlertLowCompletion, message: msgAlertCompletion,
		below: true, warning: 90, critical: 80,
		value: func(m *entity.DriverMetrics) (float64, bool) { return m.Deliveries.CompletionRate, true },
	},
	{
		alertType: entity.AlertHighFailureRate, message: msgAlertFailure,
		warning: 10, critical: 15,
		value: func(m *entity.DriverMetrics) (float64, bool) { return m.Deliveries.FailureRate, true },
	},
	{
		alertType: entity.AlertLowPODRate, message: msgAlertPOD,
		below: true, warning: 85, critical: 70,
		value: func(m *entity.DriverMetrics) (float64, bool) { return m.Proof.PODCompletionRate, true },
	},
	{
		alertType: entity.AlertSlowDelivery, message: msgAlertSlow,
		warning: 20, critical: 25,
		value: func(m *entity.DriverMetrics) (float64, bool) { return m.Timing.AverageMinutesPerDelivery, true },
	},
	{
		alertType: entity.AlertLowFuelEfficiency, message: msgAlertFuel,
		below: true, warning: 8, critical: 6,
		value: func(m *entity.DriverMetrics) (float64, bool) {
			if m.Efficiency == nil {
				return 0, false
			}
			return m.Efficiency.KmPerLiter, true
		},
	},
}

func (r alertRule) evaluate(v float64) (entity.AlertSeverity, float64, bool) {
	breached := func(limit float64) bool {
		if r.below {
			return v < limit
		}
		return v > limit
	}
	switch {
	case breached(r.critical):
		return entity.AlertSeverityCritical, r.critical, true
	case breached(r.warning):
		return entity.AlertSeverityWarning, r.warning, true
	}
	return "", 0, false
}

// Alerts checks every active driver with deliveries in the period.
// A driver whose metrics fail is logged and skipped.
func (uc *PerformanceUseCase) Alerts(ctx context.Context, ownerID string, from, to time.Time) ([]*entity.PerformanceAlert, error) {
	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}

	active := entity.DriverStatusActive
	drivers, err := uc.drivers.ListByOwner(ctx, ownerID, &active)
	if err != nil {
		apperrors.LogError(uc.logger, err, "Failed to list drivers", zap.String("owner_id", ownerID))
		return nil, apperrors.Wrap(err, "failed to list drivers")
	}

	period := entity.Period{From: from, To: to}
	alerts := []*entity.PerformanceAlert{}
	for _, d := range drivers {
		m, err := uc.metrics.Metrics(ctx, ownerID, d.ID, from, to)
		if err != nil {
			uc.logger.Warn("Skipping driver alerts",
				zap.String("owner_id", ownerID),
				zap.String("driver_id", d.ID),
				zap.Error(err),
			)
			continue
		}
		if m.Deliveries.Total == 0 {
			continue
		}

		for _, rule := range alertRules {
			v, ok := rule.value(m)
			if !ok {
				continue
			}
			severity, threshold, fired := rule.evaluate(v)
			if !fired {
				continue
			}
			alerts = append(alerts, &entity.PerformanceAlert{
				DriverID:     m.DriverID,
				DriverName:   m.DriverName,
				AlertType:    rule.alertType,
				Severity:     severity,
				Message:      uc.loc.Sprintf(rule.message, v, threshold),
				CurrentValue: v,
				Threshold:    threshold,
				Period:       period,
			})
		}
	}

	// CRITICAL first, then driver name; rule order is kept within a driver
	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if a.Severity != b.Severity {
			return a.Severity == entity.AlertSeverityCritical
		}
		return a.DriverName < b.DriverName
	})

	uc.rec.ObserveAlerts(alerts)
	return alerts, nil
}

// Compare scores both drivers on their own metrics. A gap within one point is a tie.
func (uc *PerformanceUseCase) Compare(ctx context.Context, ownerID, driverA, driverB string, from, to time.Time) (*entity.DriverComparison, error) {
	a, err := uc.metrics.Metrics(ctx, ownerID, driverA, from, to)
	if err != nil {
		return nil, err
	}
	b, err := uc.metrics.Metrics(ctx, ownerID, driverB, from, to)
	if err != nil {
		return nil, err
	}

	scoreA := compositeScore(a.Deliveries.CompletionRate, a.Timing.OnTimeRate, a.Proof.PODCompletionRate)
	scoreB := compositeScore(b.Deliveries.CompletionRate, b.Timing.OnTimeRate, b.Proof.PODCompletionRate)

	winner := entity.WinnerTie
	delta := dec(scoreA).Sub(dec(scoreB))
	switch {
	case delta.GreaterThan(winnerDeadband):
		winner = entity.WinnerA
	case delta.LessThan(winnerDeadband.Neg()):
		winner = entity.WinnerB
	}

	return &entity.DriverComparison{
		DriverA: a,
		DriverB: b,
		Diffs: entity.ComparisonDiffs{
			CompletionRate:    diff(a.Deliveries.CompletionRate, b.Deliveries.CompletionRate),
			OnTimeRate:        diff(a.Timing.OnTimeRate, b.Timing.OnTimeRate),
			PODRate:           diff(a.Proof.PODCompletionRate, b.Proof.PODCompletionRate),
			DeliveriesPerHour: diff(a.Timing.AverageDeliveriesPerHour, b.Timing.AverageDeliveriesPerHour),
		},
		ScoreA: scoreA,
		ScoreB: scoreB,
		Winner: winner,
	}, nil
}

func diff(a, b float64) float64 {
	return roundTenth(dec(a).Sub(dec(b)))
}
