package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-fleet/internal/adapter/repository/memory"
	"github.com/wekeepgrowing/semo-fleet/internal/config"
	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
	"github.com/wekeepgrowing/semo-fleet/internal/infrastructure/lock"
)

const testOwner = "owner-1"

// refNow is a Wednesday.
var refNow = time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store *memory.Store
	uc    *UseCases
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithLocale(t, "en")
}

func newFixtureWithLocale(t *testing.T, locale string) *fixture {
	t.Helper()
	store := memory.NewStore()
	cfg := &config.Config{Compliance: config.ComplianceConfig{Locale: locale}}
	uc := SetupUseCases(zap.NewNop(), cfg, store.Repositories(), Dependencies{
		Locker: lock.NewMemoryLocker(),
		Clock:  func() time.Time { return refNow },
	})
	return &fixture{store: store, uc: uc}
}

// march returns a UTC time on the given day of March 2026.
func march(day, hour, minute int) time.Time {
	return time.Date(2026, 3, day, hour, minute, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func newDriver(id, first, last string) *entity.Driver {
	return &entity.Driver{ID: id, OwnerID: testOwner, FirstName: first, LastName: last, Status: entity.DriverStatusActive}
}

// deliveredStop is delivered lateBy after its estimate.
func deliveredStop(eta time.Time, lateBy time.Duration, sig, photo bool) entity.Stop {
	actual := eta.Add(lateBy)
	return entity.Stop{
		Status:           entity.StopStatusDelivered,
		EstimatedArrival: &eta,
		ActualArrival:    &actual,
		HasSignature:     sig,
		HasPhoto:         photo,
	}
}

func failedStop() entity.Stop {
	return entity.Stop{Status: entity.StopStatusFailed}
}

func repeat(n int, s entity.Stop) []entity.Stop {
	out := make([]entity.Stop, n)
	for i := range out {
		out[i] = s
	}
	return out
}

type routeSpec struct {
	id        string
	driverID  string
	vehicleID string
	day       int
	startHour int
	duration  time.Duration
	status    entity.RouteStatus
	distance  string
	stops     []entity.Stop
}

func newRoute(s routeSpec) *entity.Route {
	start := march(s.day, s.startHour, 0)
	end := start.Add(s.duration)
	r := &entity.Route{
		ID:          s.id,
		OwnerID:     testOwner,
		RouteDate:   march(s.day, 0, 0),
		Status:      s.status,
		ActualStart: &start,
		ActualEnd:   &end,
		Stops:       s.stops,
	}
	if r.ID == "" {
		r.ID = fmt.Sprintf("r-%s-%d-%d", s.driverID, s.day, s.startHour)
	}
	if r.Status == "" {
		r.Status = entity.RouteStatusCompleted
	}
	if s.driverID != "" {
		r.DriverID = ptr(s.driverID)
	}
	if s.vehicleID != "" {
		r.VehicleID = ptr(s.vehicleID)
	}
	if s.distance != "" {
		r.ActualDistanceKm = ptr(decimal.RequireFromString(s.distance))
	}
	for i := range r.Stops {
		r.Stops[i].ID = fmt.Sprintf("%s-s%d", r.ID, i+1)
		r.Stops[i].RouteID = r.ID
	}
	return r
}

// drivenRoute is a stopless route used for driving-time checks.
func drivenRoute(driverID string, day int, duration time.Duration) *entity.Route {
	return newRoute(routeSpec{driverID: driverID, day: day, startHour: 6, duration: duration})
}

// perfectStops are delivered on time with a signature.
func perfectStops(n int, day int) []entity.Stop {
	return repeat(n, deliveredStop(march(day, 9, 0), 5*time.Minute, true, false))
}
