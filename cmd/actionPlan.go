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

var actionPlanCmd = &cobra.Command{
	Use:   "action-plan",
	Short: "Inspect the action plan keyword tables",
}

var actionPlanResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Preview the action plan for an inspection outcome",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *inspection.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		family, _ := cmd.Flags().GetString("family")
		approved, _ := cmd.Flags().GetString("approved")
		observation, _ := cmd.Flags().GetString("observation")

		result, err := svc.ResolveActionPlan(family, approved, observation)
		if err != nil {
			logging.Error(ctx, "action plan resolve failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "resolve action plan")
		}

		out := cmd.OutOrStdout()
		if done, err := writeStructured(out, format, result); done {
			return err
		}
		if _, err := fmt.Fprintf(out, "%s (%s, approved %s): %s\n", result.Family, result.TableVersion, result.Approved, result.ActionPlan); err != nil {
			return errs.Wrap(err, "write action plan output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(actionPlanCmd)
	actionPlanCmd.AddCommand(actionPlanResolveCmd)

	actionPlanResolveCmd.Flags().String("family", "", "Equipment family")
	actionPlanResolveCmd.Flags().String("approved", "", "Inspection outcome (yes, no, n/a)")
	actionPlanResolveCmd.Flags().String("observation", "", "Free-text inspector notes")
	_ = actionPlanResolveCmd.MarkFlagRequired("family")
	addOutputFlag(actionPlanResolveCmd)
}
