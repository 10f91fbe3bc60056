package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"firewatch/internal/bootstrap"
	"firewatch/internal/bootstrap/logging"
	"firewatch/internal/errs"
	"firewatch/internal/usecase/inspection"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the newest audit entries of a tenant",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *inspection.Service) error {
		tenantID, _ := cmd.Flags().GetString("tenant")
		ctx := logging.WithTenant(logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath())), tenantID)

		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		entries, err := svc.AuditLog(ctx, tenantID, limit)
		if err != nil {
			logging.Error(ctx, "audit log failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "load audit log")
		}

		out := cmd.OutOrStdout()
		if done, err := writeStructured(out, format, newAuditViews(entries)); done {
			return err
		}

		table := newTable(out)
		fmt.Fprintln(table, "AT\tACTOR\tACTION\tTARGET\tDETAIL")
		for _, entry := range entries {
			fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\n", entry.CreatedAt, entry.Actor, entry.Action, entry.Target, entry.Detail)
		}
		if err := table.Flush(); err != nil {
			return errs.Wrap(err, "write audit output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().String("tenant", "", "Tenant id")
	auditCmd.Flags().Int("limit", 20, "How many entries to show")
	_ = auditCmd.MarkFlagRequired("tenant")
	addOutputFlag(auditCmd)
}
