package usecase

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
	domainerrors "github.com/wekeepgrowing/semo-fleet/internal/domain/errors"
	"github.com/wekeepgrowing/semo-fleet/internal/domain/repository"
	"github.com/wekeepgrowing/semo-fleet/internal/usecase/interfaces"
	apperrors "github.com/wekeepgrowing/semo-fleet/pkg/errors"
)

const (
	DefaultRankingLimit = 10
	// maxTrendDays bounds the daily series.
	maxTrendDays = 366
)

var (
	trendDeadband  = dec(1)
	winnerDeadband = dec(1)
)

// PerformanceUseCase ranks, alerts on and compares drivers.
type PerformanceUseCase struct {
	logger  *zap.Logger
	drivers repository.DriverRepository
	routes  repository.RouteRepository
	metrics interfaces.DriverMetricsUseCase
	rec     interfaces.MetricsRecorder
	loc     *Localizer
}

func NewPerformanceUseCase(
	logger *zap.Logger,
	drivers repository.DriverRepository,
	routes repository.RouteRepository,
	metrics interfaces.DriverMetricsUseCase,
	rec interfaces.MetricsRecorder,
	loc *Localizer,
) *PerformanceUseCase {
	if rec == nil {
		rec = NopMetrics{}
	}
	return &PerformanceUseCase{
		logger:  logger,
		drivers: drivers,
		routes:  routes,
		metrics: metrics,
		rec:     rec,
		loc:     loc,
	}
}

// deliveryTally accumulates the ranking inputs for one driver.
type deliveryTally struct {
	total, completed, onTime, withPOD int
}

func (t *deliveryTally) add(r *entity.Route) {
	for i := range r.Stops {
		s := &r.Stops[i]
		t.total++
		if s.Status != entity.StopStatusDelivered {
			continue
		}
		t.completed++
		if ok, _ := s.IsOnTime(); ok {
			t.onTime++
		}
		if s.HasProof() {
			t.withPOD++
		}
	}
}

func (t *deliveryTally) rates() entity.RankingMetrics {
	return entity.RankingMetrics{
		CompletionRate: percent(t.completed, t.total),
		OnTimeRate:     percent(t.onTime, t.completed),
		PODRate:        percent(t.withPOD, t.completed),
	}
}

func (t *deliveryTally) score() float64 {
	m := t.rates()
	return compositeScore(m.CompletionRate, m.OnTimeRate, m.PODRate)
}

// tallyByDriver groups the period's assigned routes by driver.
func (uc *PerformanceUseCase) tallyByDriver(ctx context.Context, ownerID string, period entity.Period) (map[string]*deliveryTally, error) {
	routes, err := uc.routes.Find(ctx, repository.RouteQuery{
		OwnerID:      ownerID,
		From:         period.From,
		To:           period.To,
		OnlyAssigned: true,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load routes")
	}

	tallies := make(map[string]*deliveryTally)
	for _, r := range routes {
		if r.DriverID == nil {
			continue
		}
		t, ok := tallies[*r.DriverID]
		if !ok {
			t = &deliveryTally{}
			tallies[*r.DriverID] = t
		}
		t.add(r)
	}
	return tallies, nil
}

// rankAll returns every driver with routes in the period, fully sorted and ranked.
func (uc *PerformanceUseCase) rankAll(ctx context.Context, ownerID string, period entity.Period) ([]*entity.DriverRanking, map[string]*deliveryTally, error) {
	tallies, err := uc.tallyByDriver(ctx, ownerID, period)
	if err != nil {
		return nil, nil, err
	}
	names := uc.driverNames(ctx, ownerID)

	rankings := make([]*entity.DriverRanking, 0, len(tallies))
	for driverID, t := range tallies {
		name := names[driverID]
		if name == "" {
			name = driverID
		}
		rankings = append(rankings, &entity.DriverRanking{
			DriverID:   driverID,
			DriverName: name,
			Score:      t.score(),
			Metrics:    t.rates(),
			Trend:      entity.TrendStable,
		})
	}

	// score descending, driver id ascending on ties
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Score != rankings[j].Score {
			return rankings[i].Score > rankings[j].Score
		}
		return rankings[i].DriverID < rankings[j].DriverID
	})
	for i, r := range rankings {
		r.Rank = i + 1
	}
	return rankings, tallies, nil
}

func (uc *PerformanceUseCase) Rankings(ctx context.Context, ownerID string, from, to time.Time, limit int) ([]*entity.DriverRanking, error) {
	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRankingLimit
	}

	period := entity.Period{From: from, To: to}
	rankings, _, err := uc.rankAll(ctx, ownerID, period)
	if err != nil {
		apperrors.LogError(uc.logger, err, "Failed to compute rankings", zap.String("owner_id", ownerID))
		return nil, err
	}
	if len(rankings) > limit {
		rankings = rankings[:limit]
	}

	uc.applyTrends(ctx, ownerID, period, rankings)
	return rankings, nil
}

// applyTrends compares each score with the previous equal-length window.
// A failed lookup leaves every trend STABLE.
func (uc *PerformanceUseCase) applyTrends(ctx context.Context, ownerID string, period entity.Period, rankings []*entity.DriverRanking) {
	if len(rankings) == 0 {
		return
	}
	previous, err := uc.tallyByDriver(ctx, ownerID, period.Previous())
	if err != nil {
		uc.logger.Warn("Skipping ranking trends", zap.String("owner_id", ownerID), zap.Error(err))
		return
	}
	for _, r := range rankings {
		prev, ok := previous[r.DriverID]
		if !ok {
			continue
		}
		delta := dec(r.Score).Sub(dec(prev.score()))
		switch {
		case delta.GreaterThan(trendDeadband):
			r.Trend = entity.TrendUp
		case delta.LessThan(trendDeadband.Neg()):
			r.Trend = entity.TrendDown
		}
	}
}

// Trends returns one point per calendar day of [from, to], as seen in from's location.
func (uc *PerformanceUseCase) Trends(ctx context.Context, ownerID, driverID string, from, to time.Time) ([]*entity.TrendPoint, error) {
	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}
	first, last := calendarDay(from), calendarDay(to.In(from.Location()))
	if days := calendarDays(from, to); days > maxTrendDays {
		return nil, domainerrors.Detail(domainerrors.ErrInvalidPeriod, "%d days exceeds %d", days, maxTrendDays)
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
		From:     first,
		To:       endOfDay(last),
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load routes")
	}

	byDay := make(map[string]*deliveryTally)
	for _, r := range routes {
		key := calendarDay(r.RouteDate).Format("2006-01-02")
		t, ok := byDay[key]
		if !ok {
			t = &deliveryTally{}
			byDay[key] = t
		}
		t.add(r)
	}

	var points []*entity.TrendPoint
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		t, ok := byDay[day.Format("2006-01-02")]
		if !ok {
			t = &deliveryTally{}
		}
		m := t.rates()
		points = append(points, &entity.TrendPoint{
			Date:           day,
			Deliveries:     t.total,
			Completed:      t.completed,
			CompletionRate: m.CompletionRate,
			OnTimeRate:     m.OnTimeRate,
			PODRate:        m.PODRate,
			Score:          t.score(),
		})
	}
	return points, nil
}

// TeamSummary aggregates the fleet-wide view for the period.
func (uc *PerformanceUseCase) TeamSummary(ctx context.Context, ownerID string, from, to time.Time) (*entity.TeamSummary, error) {
	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}
	period := entity.Period{From: from, To: to}

	drivers, err := uc.drivers.ListByOwner(ctx, ownerID, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list drivers")
	}
	rankings, tallies, err := uc.rankAll(ctx, ownerID, period)
	if err != nil {
		return nil, err
	}

	summary := &entity.TeamSummary{
		Period:         period,
		TotalDrivers:   len(drivers),
		NeedsAttention: []string{},
	}
	for _, d := range drivers {
		if d.Status == entity.DriverStatusActive {
			summary.ActiveDrivers++
		}
	}

	var completion, onTime, pod []float64
	for _, r := range rankings {
		t := tallies[r.DriverID]
		summary.TotalDeliveries += t.total
		summary.CompletedDeliveries += t.completed
		if t.total == 0 {
			continue
		}
		completion = append(completion, r.Metrics.CompletionRate)
		onTime = append(onTime, r.Metrics.OnTimeRate)
		pod = append(pod, r.Metrics.PODRate)
	}
	summary.AverageCompletionRate = mean(completion)
	summary.AverageOnTimeRate = mean(onTime)
	summary.AveragePODRate = mean(pod)
	if len(rankings) > 0 {
		summary.TopPerformer = rankings[0]
	}

	alerts, err := uc.Alerts(ctx, ownerID, from, to)
	if err != nil {
		uc.logger.Warn("Team summary without alerts", zap.String("owner_id", ownerID), zap.Error(err))
		return summary, nil
	}
	seen := make(map[string]bool)
	for _, a := range alerts {
		if a.Severity == entity.AlertSeverityCritical && !seen[a.DriverID] {
			seen[a.DriverID] = true
			summary.NeedsAttention = append(summary.NeedsAttention, a.DriverName)
		}
	}
	return summary, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := dec(0)
	for _, v := range values {
		sum = sum.Add(dec(v))
	}
	return roundTenth(sum.Div(dec(float64(len(values)))))
}

func (uc *PerformanceUseCase) driverNames(ctx context.Context, ownerID string) map[string]string {
	return driverNameIndex(ctx, uc.logger, uc.drivers, ownerID)
}

// driverNameIndex is best effort; a failed lookup falls back to ids.
func driverNameIndex(ctx context.Context, logger *zap.Logger, drivers repository.DriverRepository, ownerID string) map[string]string {
	names := make(map[string]string)
	list, err := drivers.ListByOwner(ctx, ownerID, nil)
	if err != nil {
		logger.Warn("Failed to load driver names", zap.String("owner_id", ownerID), zap.Error(err))
		return names
	}
	for _, d := range list {
		names[d.ID] = d.FullName()
	}
	return names
}
