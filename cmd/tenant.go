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

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Manage operational units",
}

var tenantCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register an operational unit",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *inspection.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		tenantID, _ := cmd.Flags().GetString("id")
		name, _ := cmd.Flags().GetString("name")
		plan, _ := cmd.Flags().GetString("plan")
		actor, _ := cmd.Flags().GetString("actor")

		tenant, err := svc.RegisterTenant(ctx, inspection.RegisterTenantInput{
			TenantID: tenantID,
			Name:     name,
			Plan:     plan,
			Actor:    actor,
		})
		if err != nil {
			logging.Error(ctx, "tenant create failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "create tenant")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "tenant created: %s (%s, plan %s)\n", tenant.TenantID, tenant.Name, tenant.Plan); err != nil {
			return errs.Wrap(err, "write tenant create output")
		}
		return nil
	}),
}

var tenantListCmd = &cobra.Command{
	Use:   "list",
	Short: "List operational units",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *inspection.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}

		tenants, err := svc.ListTenants(ctx)
		if err != nil {
			logging.Error(ctx, "tenant list failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list tenants")
		}

		out := cmd.OutOrStdout()
		if done, err := writeStructured(out, format, newTenantViews(tenants)); done {
			return err
		}

		table := newTable(out)
		fmt.Fprintln(table, "TENANT\tNAME\tPLAN\tCREATED")
		for _, tenant := range tenants {
			fmt.Fprintf(table, "%s\t%s\t%s\t%s\n", tenant.TenantID, tenant.Name, tenant.Plan, tenant.CreatedAt)
		}
		if err := table.Flush(); err != nil {
			return errs.Wrap(err, "write tenant list output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(tenantCmd)
	tenantCmd.AddCommand(tenantCreateCmd)
	tenantCmd.AddCommand(tenantListCmd)

	tenantCreateCmd.Flags().String("id", "", "Tenant id (no spaces or colons)")
	tenantCreateCmd.Flags().String("name", "", "Display name (defaults to the id)")
	tenantCreateCmd.Flags().String("plan", "", "Subscription plan (defaults to basic)")
	tenantCreateCmd.Flags().String("actor", "", "Who is making the change")
	_ = tenantCreateCmd.MarkFlagRequired("id")

	addOutputFlag(tenantListCmd)
}
