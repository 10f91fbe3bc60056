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

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List overdue and soon-due services of a tenant",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *inspection.Service) error {
		tenantID, _ := cmd.Flags().GetString("tenant")
		ctx := logging.WithTenant(logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath())), tenantID)

		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		horizon := app.Config.Schedule.DueHorizonDays
		if cmd.Flags().Changed("horizon") {
			horizon, _ = cmd.Flags().GetInt("horizon")
		}

		report, err := svc.DueReport(ctx, tenantID, horizon)
		if err != nil {
			logging.Error(ctx, "due report failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "build due report")
		}

		out := cmd.OutOrStdout()
		if done, err := writeStructured(out, format, report); done {
			return err
		}

		if _, err := fmt.Fprintf(out, "tenant %s, today %s, horizon %d days: %d items, %d overdue\n",
			report.TenantID, report.Today, report.HorizonDays, len(report.Items), report.Overdue()); err != nil {
			return errs.Wrap(err, "write due output")
		}
		table := newTable(out)
		fmt.Fprintln(table, "DUE\tDAYS\tURGENCY\tASSET\tFAMILY\tCATEGORY\tLOCATION")
		for _, item := range report.Items {
			fmt.Fprintf(table, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
				item.DueDate, item.DaysLeft, item.Urgency, item.AssetID, item.Family, item.Category, item.Location)
		}
		if err := table.Flush(); err != nil {
			return errs.Wrap(err, "write due output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(dueCmd)

	dueCmd.Flags().String("tenant", "", "Tenant id")
	dueCmd.Flags().Int("horizon", 0, "Days ahead to include (default from schedule.due_horizon_days)")
	_ = dueCmd.MarkFlagRequired("tenant")
	addOutputFlag(dueCmd)
}
