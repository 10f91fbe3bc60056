package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"firewatch/internal/bootstrap"
	"firewatch/internal/bootstrap/logging"
	"firewatch/internal/domain/maintenance"
	"firewatch/internal/errs"
	"firewatch/internal/usecase/inspection"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Record and query inspections and maintenance",
}

var serviceRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record an inspection, maintenance or substitution",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *inspection.Service) error {
		tenantID, _ := cmd.Flags().GetString("tenant")
		ctx := logging.WithTenant(logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath())), tenantID)

		assetID, _ := cmd.Flags().GetString("asset")
		date, _ := cmd.Flags().GetString("date")
		level, _ := cmd.Flags().GetString("level")
		approved, _ := cmd.Flags().GetString("approved")
		observation, _ := cmd.Flags().GetString("observation")
		replacement, _ := cmd.Flags().GetString("replacement")
		hydrostatic, _ := cmd.Flags().GetString("hydrostatic-due")
		actor, _ := cmd.Flags().GetString("actor")

		result, err := svc.RecordService(ctx, inspection.RecordServiceInput{
			TenantID:           tenantID,
			AssetID:            assetID,
			ServiceDate:        date,
			Level:              level,
			Approved:           approved,
			Observation:        observation,
			ReplacementAssetID: replacement,
			HydrostaticDue:     hydrostatic,
			Actor:              actor,
		})
		if err != nil {
			logging.Error(ctx, "service record failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "record service")
		}

		out := cmd.OutOrStdout()
		if result.Retired != nil {
			if _, err := fmt.Fprintf(out, "asset %s retired, replaced by %s\n", result.Retired.AssetID, result.Record.AssetID); err != nil {
				return errs.Wrap(err, "write service record output")
			}
		}
		if err := printRecord(out, inspection.NewRecordView(result.Record)); err != nil {
			return errs.Wrap(err, "write service record output")
		}
		return nil
	}),
}

var serviceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the consolidated state of an asset",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *inspection.Service) error {
		tenantID, _ := cmd.Flags().GetString("tenant")
		ctx := logging.WithTenant(logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath())), tenantID)

		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		assetID, _ := cmd.Flags().GetString("asset")

		state, err := svc.CurrentState(ctx, tenantID, assetID)
		if err != nil {
			logging.Error(ctx, "service status failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "load asset state")
		}

		out := cmd.OutOrStdout()
		if done, err := writeStructured(out, format, state); done {
			return err
		}

		replaced := ""
		if state.ReplacedBy != "" {
			replaced = ", replaced by " + state.ReplacedBy
		}
		if _, err := fmt.Fprintf(out, "asset %s (%s) at %s: %s%s, %d records\n", state.Latest.AssetID, state.Family, state.Location, state.Status, replaced, state.RecordCount); err != nil {
			return errs.Wrap(err, "write service status output")
		}
		if err := printRecord(out, state.Latest); err != nil {
			return errs.Wrap(err, "write service status output")
		}
		return nil
	}),
}

var serviceHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List every record of an asset in insertion order",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *inspection.Service) error {
		tenantID, _ := cmd.Flags().GetString("tenant")
		ctx := logging.WithTenant(logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath())), tenantID)

		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		assetID, _ := cmd.Flags().GetString("asset")

		history, err := svc.History(ctx, tenantID, assetID)
		if err != nil {
			logging.Error(ctx, "service history failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "load asset history")
		}

		views := make([]inspection.RecordView, 0, len(history))
		for _, record := range history {
			views = append(views, inspection.NewRecordView(record))
		}

		out := cmd.OutOrStdout()
		if done, err := writeStructured(out, format, views); done {
			return err
		}

		table := newTable(out)
		fmt.Fprintln(table, "DATE\tLEVEL\tAPPROVED\tNEXT INSPECTION\tNEXT TIER2\tNEXT TIER3\tNEXT HYDRO\tACTION PLAN")
		for _, view := range views {
			fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				view.ServiceDate, view.ServiceLevel, view.Approved,
				orDash(view.NextInspection), orDash(view.NextTier2), orDash(view.NextTier3), orDash(view.NextHydrostatic),
				view.ActionPlan)
		}
		if err := table.Flush(); err != nil {
			return errs.Wrap(err, "write service history output")
		}
		return nil
	}),
}

func printRecord(w io.Writer, view inspection.RecordView) error {
	table := newTable(w)
	fmt.Fprintf(table, "record\t%s\n", view.RecordID)
	fmt.Fprintf(table, "service\t%s %s (approved: %s)\n", view.ServiceDate, view.ServiceLevel, view.Approved)
	if view.Observation != "" {
		fmt.Fprintf(table, "observation\t%s\n", view.Observation)
	}
	fmt.Fprintf(table, "action plan\t%s\n", view.ActionPlan)
	due := maintenance.DueDatesFromPtrs(view.NextInspection, view.NextTier2, view.NextTier3, view.NextHydrostatic)
	for _, category := range maintenance.Categories {
		fmt.Fprintf(table, "%s\t%s\n", category, orDash(due.Ptr(category)))
	}
	return table.Flush()
}

func init() {
	rootCmd.AddCommand(serviceCmd)
	serviceCmd.AddCommand(serviceRecordCmd)
	serviceCmd.AddCommand(serviceStatusCmd)
	serviceCmd.AddCommand(serviceHistoryCmd)

	serviceCmd.PersistentFlags().String("tenant", "", "Tenant id")
	serviceCmd.PersistentFlags().String("asset", "", "Asset id")
	_ = serviceCmd.MarkPersistentFlagRequired("tenant")
	_ = serviceCmd.MarkPersistentFlagRequired("asset")

	serviceRecordCmd.Flags().String("date", "", "Service date (YYYY-MM-DD or DD/MM/YYYY)")
	serviceRecordCmd.Flags().String("level", "", "Inspection, Maintenance-Tier2, Maintenance-Tier3 or Substitution")
	serviceRecordCmd.Flags().String("approved", "", "Inspection outcome (yes, no, n/a)")
	serviceRecordCmd.Flags().String("observation", "", "Free-text inspector notes")
	serviceRecordCmd.Flags().String("replacement", "", "Replacement asset id, required for Substitution")
	serviceRecordCmd.Flags().String("hydrostatic-due", "", "Next hydrostatic test date from a certificate")
	serviceRecordCmd.Flags().String("actor", "", "Who performed the service")
	_ = serviceRecordCmd.MarkFlagRequired("date")
	_ = serviceRecordCmd.MarkFlagRequired("level")

	addOutputFlag(serviceStatusCmd)
	addOutputFlag(serviceHistoryCmd)
}
