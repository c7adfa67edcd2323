package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

var (
	perfOwner string
	perfFrom  string
	perfTo    string
	perfLimit int
)

func init() {
	rootCmd.AddCommand(performanceCmd)
	performanceCmd.AddCommand(performanceRankingsCmd, performanceAlertsCmd)
	performanceCmd.PersistentFlags().StringVar(&perfOwner, "owner", "", "Fleet owner id")
	performanceCmd.PersistentFlags().StringVar(&perfFrom, "from", "", "Period start, YYYY-MM-DD (default: 30 days before --to)")
	performanceCmd.PersistentFlags().StringVar(&perfTo, "to", "", "Period end, YYYY-MM-DD (default: today)")
	performanceRankingsCmd.Flags().IntVar(&perfLimit, "limit", 10, "Maximum number of drivers")
}

var performanceCmd = &cobra.Command{
	Use:   "performance",
	Short: "Driver performance reports",
}

var performanceRankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Rank drivers by composite score",
	RunE:  runPerformanceRankings,
}

var performanceAlertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List drivers below performance thresholds",
	RunE:  runPerformanceAlerts,
}

// period resolves --from/--to. --to covers its whole day.
func period(now time.Time) (time.Time, time.Time, error) {
	to := now
	if perfTo != "" {
		t, err := time.ParseInLocation(dateLayout, perfTo, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
		}
		to = t.Add(24*time.Hour - time.Nanosecond)
	}
	from := to.AddDate(0, 0, -30)
	if perfFrom != "" {
		t, err := time.ParseInLocation(dateLayout, perfFrom, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
		}
		from = t
	}
	return from, to, nil
}

func runPerformanceRankings(cmd *cobra.Command, _ []string) error {
	if err := requireOwnerFlag(perfOwner); err != nil {
		return err
	}
	from, to, err := period(time.Now())
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	rankings, err := rt.useCases.Performance.Rankings(cmd.Context(), perfOwner, from, to, perfLimit)
	if err != nil {
		return err
	}
	return printJSON(cmd, rankings)
}

func runPerformanceAlerts(cmd *cobra.Command, _ []string) error {
	if err := requireOwnerFlag(perfOwner); err != nil {
		return err
	}
	from, to, err := period(time.Now())
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	alerts, err := rt.useCases.Performance.Alerts(cmd.Context(), perfOwner, from, to)
	if err != nil {
		return err
	}
	return printJSON(cmd, alerts)
}
