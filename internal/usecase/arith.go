package usecase

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	decTen      = decimal.NewFromInt(10)
	decHundred  = decimal.NewFromInt(100)
	decThousand = decimal.NewFromInt(1000)
	secsPerHour = decimal.NewFromInt(3600)
	secsPerMin  = decimal.NewFromInt(60)

	scoreWeightCompletion = decimal.RequireFromString("0.4")
	scoreWeightOnTime     = decimal.RequireFromString("0.3")
	scoreWeightPOD        = decimal.RequireFromString("0.3")
)

// ratio is num/den, or zero when den is zero.
func ratio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

// percent returns num/den as a percentage with one decimal, rounded per mille.
func percent(num, den int) float64 {
	r := ratio(decimal.NewFromInt(int64(num)), decimal.NewFromInt(int64(den)))
	return r.Mul(decThousand).Round(0).Div(decTen).InexactFloat64()
}

func roundTenth(v decimal.Decimal) float64 {
	return v.Mul(decTen).Round(0).Div(decTen).InexactFloat64()
}

func roundCents(v decimal.Decimal) float64 {
	return v.Round(2).InexactFloat64()
}

// dec lifts an already rounded rate back into decimal without binary noise.
func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func hoursOf(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d / time.Second)).Div(secsPerHour)
}

func minutesOf(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d / time.Second)).Div(secsPerMin)
}

// compositeScore weights completion 0.4, on-time 0.3 and POD 0.3, one decimal.
func compositeScore(completion, onTime, pod float64) float64 {
	return roundTenth(compositeScoreDec(completion, onTime, pod))
}

func compositeScoreDec(completion, onTime, pod float64) decimal.Decimal {
	return dec(completion).Mul(scoreWeightCompletion).
		Add(dec(onTime).Mul(scoreWeightOnTime)).
		Add(dec(pod).Mul(scoreWeightPOD))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// calendarDay keeps t's own year, month and day at UTC midnight, the form route dates are stored in.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// calendarDays counts the calendar days of [from, to] as seen in from's location, both ends included.
func calendarDays(from, to time.Time) int {
	first, last := calendarDay(from), calendarDay(to.In(from.Location()))
	return int(last.Sub(first)/(24*time.Hour)) + 1
}

// isoWeekStart is Monday 00:00 of the ISO week containing t, in t's location.
func isoWeekStart(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
