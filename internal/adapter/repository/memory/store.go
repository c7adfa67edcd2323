// Package memory holds map-backed repositories for tests and local demos.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
	"github.com/wekeepgrowing/semo-fleet/internal/domain/repository"
)

// Store is an in-process record store. The zero value is not usable; call NewStore.
type Store struct {
	mu          sync.RWMutex
	vehicles    []*entity.Vehicle
	routes      []*entity.Route
	drivers     []*entity.Driver
	fuelLogs    []*entity.FuelLog
	maintenance []*entity.MaintenanceLog
	audit       []*entity.AuditLogEntry
	issues      map[string][]*entity.ComplianceIssue
}

func NewStore() *Store {
	return &Store{issues: make(map[string][]*entity.ComplianceIssue)}
}

// Repositories exposes every port backed by this store.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Vehicles:    (*vehicleRepo)(s),
		Routes:      (*routeRepo)(s),
		Drivers:     (*driverRepo)(s),
		FuelLogs:    (*fuelLogRepo)(s),
		Maintenance: (*maintenanceRepo)(s),
		AuditLogs:   (*auditLogRepo)(s),
		Issues:      (*issueRepo)(s),
	}
}

func (s *Store) AddVehicles(vs ...*entity.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles = append(s.vehicles, vs...)
}

func (s *Store) AddRoutes(rs ...*entity.Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes = append(s.routes, rs...)
}

func (s *Store) AddDrivers(ds ...*entity.Driver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drivers = append(s.drivers, ds...)
}

func (s *Store) AddFuelLogs(fs ...*entity.FuelLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fuelLogs = append(s.fuelLogs, fs...)
}

func (s *Store) AddMaintenance(ms ...*entity.MaintenanceLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maintenance = append(s.maintenance, ms...)
}

type vehicleRepo Store

func (r *vehicleRepo) ListByOwner(_ context.Context, ownerID string) ([]*entity.Vehicle, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entity.Vehicle
	for _, v := range s.vehicles {
		if v.OwnerID == ownerID {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

type routeRepo Store

func (r *routeRepo) Find(_ context.Context, q repository.RouteQuery) ([]*entity.Route, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entity.Route
	for _, rt := range s.routes {
		if rt.OwnerID != q.OwnerID {
			continue
		}
		if rt.RouteDate.Before(q.From) || rt.RouteDate.After(q.To) {
			continue
		}
		if q.DriverID != nil && (rt.DriverID == nil || *rt.DriverID != *q.DriverID) {
			continue
		}
		if q.OnlyAssigned && rt.DriverID == nil {
			continue
		}
		if q.OnlyDriven && (rt.ActualStart == nil || rt.ActualEnd == nil) {
			continue
		}
		cp := *rt
		cp.Stops = append([]entity.Stop(nil), rt.Stops...)
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RouteDate.Before(out[j].RouteDate) })
	return out, nil
}

type driverRepo Store

func (r *driverRepo) GetByID(_ context.Context, ownerID, driverID string) (*entity.Driver, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.drivers {
		if d.OwnerID == ownerID && d.ID == driverID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *driverRepo) ListByOwner(_ context.Context, ownerID string, status *entity.DriverStatus) ([]*entity.Driver, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entity.Driver
	for _, d := range s.drivers {
		if d.OwnerID != ownerID {
			continue
		}
		if status != nil && d.Status != *status {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

type fuelLogRepo Store

func (r *fuelLogRepo) ListForVehicles(_ context.Context, vehicleIDs []string, from, to time.Time) ([]*entity.FuelLog, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := toSet(vehicleIDs)
	var out []*entity.FuelLog
	for _, f := range s.fuelLogs {
		if _, ok := ids[f.VehicleID]; !ok {
			continue
		}
		if f.FueledAt.Before(from) || f.FueledAt.After(to) {
			continue
		}
		cp := *f
		out = append(out, &cp)
	}
	return out, nil
}

type maintenanceRepo Store

func (r *maintenanceRepo) LatestServiceDates(_ context.Context, vehicleIDs []string) (map[string]time.Time, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := toSet(vehicleIDs)
	latest := make(map[string]time.Time)
	for _, m := range s.maintenance {
		if _, ok := ids[m.VehicleID]; !ok {
			continue
		}
		if cur, ok := latest[m.VehicleID]; !ok || m.ServiceDate.After(cur) {
			latest[m.VehicleID] = m.ServiceDate
		}
	}
	return latest, nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
