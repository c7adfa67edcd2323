package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
)

var (
	complianceOwner  string
	complianceStatus string
)

func init() {
	rootCmd.AddCommand(complianceCmd)
	complianceCmd.AddCommand(complianceCheckCmd, complianceStatusCmd, complianceIssuesCmd)
	complianceCmd.PersistentFlags().StringVar(&complianceOwner, "owner", "", "Fleet owner id")
	complianceIssuesCmd.Flags().StringVar(&complianceStatus, "status", "", "Filter by status (OPEN, IN_PROGRESS, RESOLVED, WAIVED)")
}

var complianceCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Compliance evaluation and issues",
}

var complianceCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Run every compliance check and store the reconciled issue set",
	RunE:  runComplianceCheck,
}

var complianceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the score derived from the stored issues",
	RunE:  runComplianceStatus,
}

var complianceIssuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "List stored compliance issues",
	RunE:  runComplianceIssues,
}

func runComplianceCheck(cmd *cobra.Command, _ []string) error {
	if err := requireOwnerFlag(complianceOwner); err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	status, err := rt.useCases.Compliance.RunAll(cmd.Context(), complianceOwner, entity.Actor{ID: "fleetctl"})
	if err != nil {
		return err
	}
	return printJSON(cmd, status)
}

func runComplianceStatus(cmd *cobra.Command, _ []string) error {
	if err := requireOwnerFlag(complianceOwner); err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	status, err := rt.useCases.Compliance.GetStatus(cmd.Context(), complianceOwner)
	if err != nil {
		return err
	}
	return printJSON(cmd, status)
}

func runComplianceIssues(cmd *cobra.Command, _ []string) error {
	if err := requireOwnerFlag(complianceOwner); err != nil {
		return err
	}

	var filter entity.IssueFilter
	if complianceStatus != "" {
		s := entity.IssueStatus(strings.ToUpper(complianceStatus))
		if !s.Valid() {
			return fmt.Errorf("unknown status %q", complianceStatus)
		}
		filter.Status = &s
	}

	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	issues, err := rt.useCases.Compliance.ListIssues(cmd.Context(), complianceOwner, filter)
	if err != nil {
		return err
	}
	return printJSON(cmd, issues)
}
