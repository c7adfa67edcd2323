package entity

import "time"

// Simplified EU driving-time limits, in hours.
const (
	MaxDailyDrivingHours    = 9
	MaxWeeklyDrivingHours   = 56
	MaxBiweeklyDrivingHours = 90
	MinDailyRestHours       = 11
)

type DriverHoursCompliance struct {
	DriverID             string    `json:"driverId"`
	DriverName           string    `json:"driverName"`
	Date                 time.Time `json:"date"`
	DailyDrivingHours    float64   `json:"dailyDrivingHours"`
	RestHours            float64   `json:"restHours"`
	WeeklyDrivingHours   float64   `json:"weeklyDrivingHours"`
	BiweeklyDrivingHours float64   `json:"biweeklyDrivingHours"`
	IsCompliant          bool      `json:"isCompliant"`
	Violations           []string  `json:"violations"`
}
