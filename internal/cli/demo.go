package cli

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-fleet/internal/adapter/repository/memory"
	"github.com/wekeepgrowing/semo-fleet/internal/config"
	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
	"github.com/wekeepgrowing/semo-fleet/internal/infrastructure/lock"
	"github.com/wekeepgrowing/semo-fleet/internal/usecase"
)

const demoOwner = "demo-owner"

var demoLocale string

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().StringVar(&demoLocale, "locale", "de", "Message locale (de or en)")
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the engine against a seeded in-memory fleet",
	Long:  "Seeds an in-memory record store with a small fleet, runs a compliance check and prints status, rankings and alerts. No database is needed.",
	RunE:  runDemo,
}

type demoReport struct {
	Compliance *entity.ComplianceStatus   `json:"compliance"`
	Rankings   []*entity.DriverRanking    `json:"rankings"`
	Alerts     []*entity.PerformanceAlert `json:"alerts"`
	Audit      *entity.AuditPage          `json:"audit"`
}

func runDemo(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	now := time.Now()

	log, err := newLogger(&config.Config{})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	store := memory.NewStore()
	seedDemoFleet(store, now)

	cfg := &config.Config{Compliance: config.ComplianceConfig{Locale: demoLocale}}
	uc := usecase.SetupUseCases(log, cfg, store.Repositories(), usecase.Dependencies{
		Locker: lock.NewMemoryLocker(),
	})

	report := demoReport{}
	if report.Compliance, err = uc.Compliance.RunAll(ctx, demoOwner, entity.Actor{ID: "fleetctl-demo"}); err != nil {
		return err
	}
	from := now.AddDate(0, 0, -7)
	if report.Rankings, err = uc.Performance.Rankings(ctx, demoOwner, from, now, 0); err != nil {
		return err
	}
	if report.Alerts, err = uc.Performance.Alerts(ctx, demoOwner, from, now); err != nil {
		return err
	}
	if report.Audit, err = uc.Audit.Query(ctx, demoOwner, entity.AuditFilter{}); err != nil {
		return err
	}

	log.Info("Demo finished",
		zap.Int("score", report.Compliance.Score),
		zap.Int("rankings", len(report.Rankings)),
		zap.Int("alerts", len(report.Alerts)))

	return printJSON(cmd, report)
}

func seedDemoFleet(store *memory.Store, now time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	at := func(daysAgo, hour int) *time.Time {
		t := day.AddDate(0, 0, -daysAgo).Add(time.Duration(hour) * time.Hour)
		return &t
	}
	km := func(v int64) *decimal.Decimal {
		d := decimal.NewFromInt(v)
		return &d
	}
	str := func(s string) *string { return &s }

	store.AddVehicles(
		&entity.Vehicle{ID: "v-1", OwnerID: demoOwner, LicensePlate: "B-FL 101", Status: entity.VehicleStatusInUse,
			InspectionExpiry: at(10, 0), InsuranceExpiry: at(-200, 0)},
		&entity.Vehicle{ID: "v-2", OwnerID: demoOwner, LicensePlate: "B-FL 102", Status: entity.VehicleStatusAvailable,
			InspectionExpiry: at(-300, 0), InsuranceExpiry: at(-20, 0)},
		&entity.Vehicle{ID: "v-3", OwnerID: demoOwner, LicensePlate: "B-FL 103", Status: entity.VehicleStatusOutOfService},
	)
	store.AddMaintenance(
		&entity.MaintenanceLog{ID: "m-1", VehicleID: "v-1", ServiceDate: *at(30, 0)},
		&entity.MaintenanceLog{ID: "m-2", VehicleID: "v-2", ServiceDate: *at(220, 0)},
	)
	store.AddDrivers(
		&entity.Driver{ID: "d-1", OwnerID: demoOwner, FirstName: "Anna", LastName: "Becker", Status: entity.DriverStatusActive},
		&entity.Driver{ID: "d-2", OwnerID: demoOwner, FirstName: "Jonas", LastName: "Weber", Status: entity.DriverStatusActive},
	)

	stops := func(routeID string, delivered, failed int, start *time.Time) []entity.Stop {
		var out []entity.Stop
		for i := 0; i < delivered+failed; i++ {
			eta := start.Add(time.Duration(i+1) * 30 * time.Minute)
			arrival := eta.Add(time.Duration(i%3) * 10 * time.Minute)
			s := entity.Stop{
				ID:               fmt.Sprintf("%s-s%d", routeID, i+1),
				RouteID:          routeID,
				Status:           entity.StopStatusDelivered,
				EstimatedArrival: &eta,
				ActualArrival:    &arrival,
				HasSignature:     i%2 == 0,
				HasPhoto:         i%3 == 0,
			}
			if i >= delivered {
				s.Status = entity.StopStatusFailed
				s.ActualArrival = nil
			}
			out = append(out, s)
		}
		return out
	}

	for daysAgo := 1; daysAgo <= 6; daysAgo++ {
		for _, d := range []struct {
			driver, vehicle string
			delivered       int
			failed          int
			hours           int
		}{
			{"d-1", "v-1", 9, 1, 8},
			{"d-2", "v-2", 6, 4, 10},
		} {
			id := fmt.Sprintf("r-%s-%d", d.driver, daysAgo)
			start, end := at(daysAgo, 7), at(daysAgo, 7+d.hours)
			store.AddRoutes(&entity.Route{
				ID:               id,
				OwnerID:          demoOwner,
				DriverID:         str(d.driver),
				VehicleID:        str(d.vehicle),
				RouteDate:        *at(daysAgo, 0),
				Status:           entity.RouteStatusCompleted,
				ActualStart:      start,
				ActualEnd:        end,
				ActualDistanceKm: km(int64(20 * d.hours)),
				Stops:            stops(id, d.delivered, d.failed, start),
			})
		}
		store.AddFuelLogs(
			&entity.FuelLog{ID: fmt.Sprintf("f-1-%d", daysAgo), VehicleID: "v-1", Liters: decimal.NewFromInt(15),
				TotalCost: decimal.RequireFromString("26.85"), FueledAt: *at(daysAgo, 18)},
			&entity.FuelLog{ID: fmt.Sprintf("f-2-%d", daysAgo), VehicleID: "v-2", Liters: decimal.NewFromInt(40),
				TotalCost: decimal.RequireFromString("71.60"), FueledAt: *at(daysAgo, 18)},
		)
	}
}
