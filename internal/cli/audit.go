package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
)

var (
	auditOwner  string
	auditLimit  int
	auditOffset int
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd, auditTailCmd)
	auditListCmd.Flags().StringVar(&auditOwner, "owner", "", "Fleet owner id")
	auditListCmd.Flags().IntVarP(&auditLimit, "limit", "n", entity.DefaultAuditLimit, "Number of entries to show")
	auditListCmd.Flags().IntVar(&auditOffset, "offset", 0, "Number of newest entries to skip")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit trail operations",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent audit entries, newest first",
	RunE:  runAuditList,
}

var auditTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow audit entries as they are published",
	Long:  "Subscribes to the configured audit channel on Redis and prints every entry until interrupted.",
	RunE:  runAuditTail,
}

func runAuditList(cmd *cobra.Command, _ []string) error {
	if err := requireOwnerFlag(auditOwner); err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	page, err := rt.useCases.Audit.Query(cmd.Context(), auditOwner, entity.AuditFilter{
		Limit:  auditLimit,
		Offset: auditOffset,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd, page)
}

func runAuditTail(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.redis == nil {
		return fmt.Errorf("audit tail requires redis.addr to be configured")
	}

	messages, err := rt.redis.Subscribe(ctx, rt.cfg.Compliance.AuditChannel)
	if err != nil {
		return err
	}

	for msg := range messages {
		var entry entity.AuditLogEntry
		if err := msg.Decode(&entry); err != nil {
			rt.logger.Warn("Skipping undecodable audit event", zap.Error(err))
			continue
		}
		if err := printJSON(cmd, entry); err != nil {
			return err
		}
	}
	return nil
}
