package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Records below are owned by the fleet record store. This service only reads them.

type VehicleStatus string

const (
	VehicleStatusAvailable    VehicleStatus = "AVAILABLE"
	VehicleStatusInUse        VehicleStatus = "IN_USE"
	VehicleStatusMaintenance  VehicleStatus = "MAINTENANCE"
	VehicleStatusOutOfService VehicleStatus = "OUT_OF_SERVICE"
)

type Vehicle struct {
	ID               string
	OwnerID          string
	LicensePlate     string
	Status           VehicleStatus
	InspectionExpiry *time.Time
	InsuranceExpiry  *time.Time
}

type RouteStatus string

const (
	RouteStatusPlanned    RouteStatus = "PLANNED"
	RouteStatusInProgress RouteStatus = "IN_PROGRESS"
	RouteStatusCompleted  RouteStatus = "COMPLETED"
	RouteStatusPartial    RouteStatus = "PARTIAL"
	RouteStatusCancelled  RouteStatus = "CANCELLED"
)

type Route struct {
	ID               string
	OwnerID          string
	DriverID         *string
	VehicleID        *string
	RouteDate        time.Time
	Status           RouteStatus
	ActualStart      *time.Time
	ActualEnd        *time.Time
	ActualDistanceKm *decimal.Decimal
	Stops            []Stop
}

// DrivingDuration is end minus start. ok is false unless both timestamps are set.
func (r *Route) DrivingDuration() (d time.Duration, ok bool) {
	if r.ActualStart == nil || r.ActualEnd == nil {
		return 0, false
	}
	return r.ActualEnd.Sub(*r.ActualStart), true
}

// Distance returns the recorded distance or zero.
func (r *Route) Distance() decimal.Decimal {
	if r.ActualDistanceKm == nil {
		return decimal.Zero
	}
	return *r.ActualDistanceKm
}

type StopStatus string

const (
	StopStatusPending    StopStatus = "PENDING"
	StopStatusInProgress StopStatus = "IN_PROGRESS"
	StopStatusDelivered  StopStatus = "DELIVERED"
	StopStatusFailed     StopStatus = "FAILED"
	StopStatusAttempted  StopStatus = "ATTEMPTED"
	StopStatusReturned   StopStatus = "RETURNED"
)

type Stop struct {
	ID               string
	RouteID          string
	Status           StopStatus
	EstimatedArrival *time.Time
	ActualArrival    *time.Time
	HasSignature     bool
	HasPhoto         bool
}

// OnTimeGrace is the tolerance after the estimated arrival that still counts as on time.
const OnTimeGrace = 15 * time.Minute

// IsOnTime reports whether a delivered stop arrived within the grace period.
// timed is false when either timestamp is missing.
func (s *Stop) IsOnTime() (onTime, timed bool) {
	if s.Status != StopStatusDelivered || s.EstimatedArrival == nil || s.ActualArrival == nil {
		return false, false
	}
	return !s.ActualArrival.After(s.EstimatedArrival.Add(OnTimeGrace)), true
}

// HasProof reports signature or photo on the stop.
func (s *Stop) HasProof() bool {
	return s.HasSignature || s.HasPhoto
}

type DriverStatus string

const (
	DriverStatusActive   DriverStatus = "ACTIVE"
	DriverStatusInactive DriverStatus = "INACTIVE"
	DriverStatusOnLeave  DriverStatus = "ON_LEAVE"
)

type Driver struct {
	ID        string
	OwnerID   string
	FirstName string
	LastName  string
	Status    DriverStatus
}

func (d *Driver) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

type FuelLog struct {
	ID        string
	VehicleID string
	Liters    decimal.Decimal
	TotalCost decimal.Decimal
	FueledAt  time.Time
}

type MaintenanceLog struct {
	ID          string
	VehicleID   string
	ServiceDate time.Time
}
