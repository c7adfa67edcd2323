package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
)

// Read-only mappings of the fleet record store tables. They are never migrated here.

type Vehicle struct {
	ID               string     `gorm:"column:id;primaryKey"`
	OwnerID          string     `gorm:"column:user_id;index"`
	LicensePlate     string     `gorm:"column:license_plate"`
	Status           string     `gorm:"column:status"`
	InspectionExpiry *time.Time `gorm:"column:tuv_expiry"`
	InsuranceExpiry  *time.Time `gorm:"column:insurance_expiry"`
}

func (Vehicle) TableName() string { return "vehicles" }

func (m *Vehicle) ToEntity() *entity.Vehicle {
	return &entity.Vehicle{
		ID:               m.ID,
		OwnerID:          m.OwnerID,
		LicensePlate:     m.LicensePlate,
		Status:           entity.VehicleStatus(m.Status),
		InspectionExpiry: m.InspectionExpiry,
		InsuranceExpiry:  m.InsuranceExpiry,
	}
}

type DeliveryRoute struct {
	ID               string              `gorm:"column:id;primaryKey"`
	OwnerID          string              `gorm:"column:user_id;index"`
	DriverID         *string             `gorm:"column:driver_id;index"`
	VehicleID        *string             `gorm:"column:vehicle_id"`
	RouteDate        time.Time           `gorm:"column:route_date;type:date"`
	Status           string              `gorm:"column:status"`
	ActualStartTime  *time.Time          `gorm:"column:actual_start_time"`
	ActualEndTime    *time.Time          `gorm:"column:actual_end_time"`
	ActualDistanceKm decimal.NullDecimal `gorm:"column:actual_distance_km;type:numeric(10,2)"`
	Stops            []DeliveryStop      `gorm:"foreignKey:RouteID"`
}

func (DeliveryRoute) TableName() string { return "delivery_routes" }

func (m *DeliveryRoute) ToEntity() *entity.Route {
	r := &entity.Route{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		DriverID:    m.DriverID,
		VehicleID:   m.VehicleID,
		RouteDate:   m.RouteDate,
		Status:      entity.RouteStatus(m.Status),
		ActualStart: m.ActualStartTime,
		ActualEnd:   m.ActualEndTime,
		Stops:       make([]entity.Stop, 0, len(m.Stops)),
	}
	if m.ActualDistanceKm.Valid {
		d := m.ActualDistanceKm.Decimal
		r.ActualDistanceKm = &d
	}
	for i := range m.Stops {
		r.Stops = append(r.Stops, m.Stops[i].ToEntity())
	}
	return r
}

type DeliveryStop struct {
	ID               string     `gorm:"column:id;primaryKey"`
	RouteID          string     `gorm:"column:route_id;index"`
	Status           string     `gorm:"column:status"`
	EstimatedArrival *time.Time `gorm:"column:estimated_arrival"`
	ActualArrival    *time.Time `gorm:"column:actual_arrival"`
	SignatureURL     *string    `gorm:"column:signature_url"`
	PhotoURL         *string    `gorm:"column:photo_url"`
}

func (DeliveryStop) TableName() string { return "delivery_stops" }

func (m *DeliveryStop) ToEntity() entity.Stop {
	return entity.Stop{
		ID:               m.ID,
		RouteID:          m.RouteID,
		Status:           entity.StopStatus(m.Status),
		EstimatedArrival: m.EstimatedArrival,
		ActualArrival:    m.ActualArrival,
		HasSignature:     m.SignatureURL != nil && *m.SignatureURL != "",
		HasPhoto:         m.PhotoURL != nil && *m.PhotoURL != "",
	}
}

// Employee rows with role DRIVER are the drivers.
type Employee struct {
	ID        string `gorm:"column:id;primaryKey"`
	OwnerID   string `gorm:"column:user_id;index"`
	FirstName string `gorm:"column:first_name"`
	LastName  string `gorm:"column:last_name"`
	Role      string `gorm:"column:role"`
	Status    string `gorm:"column:status"`
}

func (Employee) TableName() string { return "employees" }

const EmployeeRoleDriver = "DRIVER"

func (m *Employee) ToEntity() *entity.Driver {
	return &entity.Driver{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Status:    entity.DriverStatus(m.Status),
	}
}

type FuelLog struct {
	ID        string          `gorm:"column:id;primaryKey"`
	VehicleID string          `gorm:"column:vehicle_id;index"`
	Liters    decimal.Decimal `gorm:"column:liters;type:numeric(10,2)"`
	TotalCost decimal.Decimal `gorm:"column:total_cost;type:numeric(10,2)"`
	FueledAt  time.Time       `gorm:"column:fueled_at"`
}

func (FuelLog) TableName() string { return "fuel_logs" }

func (m *FuelLog) ToEntity() *entity.FuelLog {
	return &entity.FuelLog{
		ID:        m.ID,
		VehicleID: m.VehicleID,
		Liters:    m.Liters,
		TotalCost: m.TotalCost,
		FueledAt:  m.FueledAt,
	}
}

type MaintenanceLog struct {
	ID          string    `gorm:"column:id;primaryKey"`
	VehicleID   string    `gorm:"column:vehicle_id;index"`
	ServiceDate time.Time `gorm:"column:service_date"`
}

func (MaintenanceLog) TableName() string { return "maintenance_logs" }
