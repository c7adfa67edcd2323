package entity

import "time"

type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Previous returns the equal-length window that ends right before p.From.
func (p Period) Previous() Period {
	length := p.To.Sub(p.From)
	return Period{From: p.From.Add(-length - time.Nanosecond), To: p.From.Add(-time.Nanosecond)}
}

type DeliveryStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Failed         int     `json:"failed"`
	Pending        int     `json:"pending"`
	CompletionRate float64 `json:"completionRate"`
	FailureRate    float64 `json:"failureRate"`
}

type TimingStats struct {
	OnTime                    int     `json:"onTimeDeliveries"`
	Late                      int     `json:"lateDeliveries"`
	OnTimeRate                float64 `json:"onTimeRate"`
	AverageMinutesPerDelivery float64 `json:"avgDeliveryTimeMinutes"`
	AverageDeliveriesPerHour  float64 `json:"avgDeliveriesPerHour"`
}

type ProofStats struct {
	WithSignature     int     `json:"withSignature"`
	WithPhoto         int     `json:"withPhoto"`
	WithBoth          int     `json:"withBoth"`
	PODCompletionRate float64 `json:"podCompletionRate"`
}

type RouteStats struct {
	Total                int     `json:"totalRoutes"`
	Completed            int     `json:"completedRoutes"`
	AverageStopsPerRoute float64 `json:"avgStopsPerRoute"`
	TotalDistanceKm      float64 `json:"totalDistanceKm"`
}

type EfficiencyStats struct {
	FuelConsumptionL   float64 `json:"fuelConsumptionL"`
	KmPerLiter         float64 `json:"kmPerLiter"`
	CostPerDeliveryEur float64 `json:"costPerDeliveryEur"`
}

// DriverMetrics is recomputed on every request.
type DriverMetrics struct {
	DriverID   string           `json:"driverId"`
	DriverName string           `json:"driverName"`
	Period     Period           `json:"period"`
	Deliveries DeliveryStats    `json:"deliveries"`
	Timing     TimingStats      `json:"timing"`
	Proof      ProofStats       `json:"proofOfDelivery"`
	Routes     RouteStats       `json:"routes"`
	Efficiency *EfficiencyStats `json:"efficiency,omitempty"`
}

type Trend string

const (
	TrendUp     Trend = "UP"
	TrendDown   Trend = "DOWN"
	TrendStable Trend = "STABLE"
)

type RankingMetrics struct {
	CompletionRate float64 `json:"completionRate"`
	OnTimeRate     float64 `json:"onTimeRate"`
	PODRate        float64 `json:"podRate"`
}

type DriverRanking struct {
	Rank       int            `json:"rank"`
	DriverID   string         `json:"driverId"`
	DriverName string         `json:"driverName"`
	Score      float64        `json:"score"`
	Metrics    RankingMetrics `json:"metrics"`
	Trend      Trend          `json:"trend"`
}

// TrendPoint is one day of a driver's performance series.
type TrendPoint struct {
	Date           time.Time `json:"date"`
	Deliveries     int       `json:"deliveries"`
	Completed      int       `json:"completed"`
	CompletionRate float64   `json:"completionRate"`
	OnTimeRate     float64   `json:"onTimeRate"`
	PODRate        float64   `json:"podRate"`
	Score          float64   `json:"score"`
}

type AlertType string

const (
	AlertLowCompletion     AlertType = "LOW_COMPLETION"
	AlertHighFailureRate   AlertType = "HIGH_FAILURE_RATE"
	AlertLowPODRate        AlertType = "LOW_POD_RATE"
	AlertSlowDelivery      AlertType = "SLOW_DELIVERY"
	AlertLowFuelEfficiency AlertType = "LOW_FUEL_EFFICIENCY"
)

type AlertSeverity string

const (
	AlertSeverityWarning  AlertSeverity = "WARNING"
	AlertSeverityCritical AlertSeverity = "CRITICAL"
)

type PerformanceAlert struct {
	DriverID     string        `json:"driverId"`
	DriverName   string        `json:"driverName"`
	AlertType    AlertType     `json:"alertType"`
	Severity     AlertSeverity `json:"severity"`
	Message      string        `json:"message"`
	CurrentValue float64       `json:"currentValue"`
	Threshold    float64       `json:"threshold"`
	Period       Period        `json:"period"`
}

type Winner string

const (
	WinnerA   Winner = "A"
	WinnerB   Winner = "B"
	WinnerTie Winner = "TIE"
)

type ComparisonDiffs struct {
	CompletionRate    float64 `json:"completionRate"`
	OnTimeRate        float64 `json:"onTimeRate"`
	PODRate           float64 `json:"podRate"`
	DeliveriesPerHour float64 `json:"deliveriesPerHour"`
}

type DriverComparison struct {
	DriverA *DriverMetrics  `json:"driverA"`
	DriverB *DriverMetrics  `json:"driverB"`
	Diffs   ComparisonDiffs `json:"comparison"`
	ScoreA  float64         `json:"scoreA"`
	ScoreB  float64         `json:"scoreB"`
	Winner  Winner          `json:"winner"`
}

type TeamSummary struct {
	Period                Period         `json:"period"`
	TotalDrivers          int            `json:"totalDrivers"`
	ActiveDrivers         int            `json:"activeDrivers"`
	TotalDeliveries       int            `json:"totalDeliveries"`
	CompletedDeliveries   int            `json:"completedDeliveries"`
	AverageCompletionRate float64        `json:"avgCompletionRate"`
	AverageOnTimeRate     float64        `json:"avgOnTimeRate"`
	AveragePODRate        float64        `json:"avgPodRate"`
	TopPerformer          *DriverRanking `json:"topPerformer,omitempty"`
	NeedsAttention        []string       `json:"needsAttention"`
}
