package usecase

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys are the English formats; other locales translate them.
const (
	msgInspectionExpiredTitle   = "Inspection expired"
	msgInspectionExpiredDesc    = "Inspection for %s expired on %s"
	msgInspectionExpiringTitle  = "Inspection expiring soon"
	msgInspectionExpiringDesc   = "Inspection for %s expires on %s"
	msgInsuranceExpiredTitle    = "Insurance expired"
	msgInsuranceExpiredDesc     = "Insurance for %s expired on %s"
	msgInsuranceExpiringTitle   = "Insurance expiring soon"
	msgInsuranceExpiringDesc    = "Insurance for %s expires on %s"
	msgMaintenanceOverdueTitle  = "Maintenance overdue"
	msgMaintenanceOverdueDesc   = "Last service for %s was %d days ago"
	msgOutOfServiceTitle        = "Vehicle out of service"
	msgOutOfServiceDesc         = "%s is marked out of service"
	msgDrivingTimeExceededTitle = "Driving time exceeded"
	msgDrivingTimeWarningTitle  = "Driving time limit nearly reached"
	msgDrivingTimeDesc          = "%s drove %.1f hours in the last 7 days (limit %d)"

	msgDailyViolation    = "Daily driving time %.1f h exceeds %d h"
	msgWeeklyViolation   = "Weekly driving time %.1f h exceeds %d h"
	msgBiweeklyViolation = "Two-week driving time %.1f h exceeds %d h"
	msgRestViolation     = "Rest time %.1f h is below the minimum of %d h"

	msgAlertCompletion = "Completion rate %.1f%% is below %.0f%%"
	msgAlertFailure    = "Failure rate %.1f%% is above %.0f%%"
	msgAlertPOD        = "Proof of delivery rate %.1f%% is below %.0f%%"
	msgAlertSlow       = "Average of %.1f minutes per delivery is above %.0f"
	msgAlertFuel       = "Fuel efficiency of %.1f km/l is below %.0f"
)

var germanMessages = map[string]string{
	msgInspectionExpiredTitle:   "TÜV abgelaufen",
	msgInspectionExpiredDesc:    "TÜV für %s ist am %s abgelaufen",
	msgInspectionExpiringTitle:  "TÜV läuft bald ab",
	msgInspectionExpiringDesc:   "TÜV für %s läuft am %s ab",
	msgInsuranceExpiredTitle:    "Versicherung abgelaufen",
	msgInsuranceExpiredDesc:     "Versicherung für %s ist am %s abgelaufen",
	msgInsuranceExpiringTitle:   "Versicherung läuft bald ab",
	msgInsuranceExpiringDesc:    "Versicherung für %s läuft am %s ab",
	msgMaintenanceOverdueTitle:  "Wartung überfällig",
	msgMaintenanceOverdueDesc:   "Letzte Wartung für %s liegt %d Tage zurück",
	msgOutOfServiceTitle:        "Fahrzeug außer Betrieb",
	msgOutOfServiceDesc:         "%s ist als außer Betrieb gemeldet",
	msgDrivingTimeExceededTitle: "Lenkzeit überschritten",
	msgDrivingTimeWarningTitle:  "Lenkzeitgrenze fast erreicht",
	msgDrivingTimeDesc:          "%s ist in den letzten 7 Tagen %.1f Stunden gefahren (Grenze %d)",

	msgDailyViolation:    "Tageslenkzeit %.1f Std. überschreitet %d Std.",
	msgWeeklyViolation:   "Wochenlenkzeit %.1f Std. überschreitet %d Std.",
	msgBiweeklyViolation: "Doppelwochenlenkzeit %.1f Std. überschreitet %d Std.",
	msgRestViolation:     "Ruhezeit %.1f Std. unterschreitet das Minimum von %d Std.",

	msgAlertCompletion: "Abschlussquote %.1f%% liegt unter %.0f%%",
	msgAlertFailure:    "Fehlerquote %.1f%% liegt über %.0f%%",
	msgAlertPOD:        "Zustellnachweisquote %.1f%% liegt unter %.0f%%",
	msgAlertSlow:       "Durchschnittlich %.1f Minuten pro Zustellung liegt über %.0f",
	msgAlertFuel:       "Kraftstoffeffizienz %.1f km/l liegt unter %.0f",
}

var messageCatalog = func() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range germanMessages {
		if err := b.SetString(language.German, key, msg); err != nil {
			panic(err)
		}
	}
	return b
}()

// Localizer renders issue, violation and alert texts in one locale.
type Localizer struct {
	printer    *message.Printer
	dateLayout string
}

// NewLocalizer accepts a BCP 47 tag; anything that is not German renders English.
func NewLocalizer(locale string) *Localizer {
	tag := language.English
	layout := "2006-01-02"
	if parsed, err := language.Parse(locale); err == nil {
		if base, _ := parsed.Base(); base.String() == "de" {
			tag = language.German
			layout = "02.01.2006"
		}
	}
	return &Localizer{
		printer:    message.NewPrinter(tag, message.Catalog(messageCatalog)),
		dateLayout: layout,
	}
}

func (l *Localizer) Sprintf(key string, args ...interface{}) string {
	return l.printer.Sprintf(key, args...)
}

func (l *Localizer) Date(t time.Time) string {
	return t.Format(l.dateLayout)
}
