package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"firewatch/internal/bootstrap"
	"firewatch/internal/bootstrap/logging"
	"firewatch/internal/errs"
	"firewatch/internal/ports"
	"firewatch/internal/usecase/inspection"
)

var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "Manage fire-safety equipment",
}

var assetRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register or update an asset",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *inspection.Service) error {
		tenantID, _ := cmd.Flags().GetString("tenant")
		ctx := logging.WithTenant(logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath())), tenantID)

		assetID, _ := cmd.Flags().GetString("asset")
		family, _ := cmd.Flags().GetString("family")
		location, _ := cmd.Flags().GetString("location")
		actor, _ := cmd.Flags().GetString("actor")

		asset, err := svc.RegisterAsset(ctx, inspection.RegisterAssetInput{
			TenantID: tenantID,
			AssetID:  assetID,
			Family:   family,
			Location: location,
			Actor:    actor,
		})
		if err != nil {
			logging.Error(ctx, "asset register failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "register asset")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "asset registered: %s (%s) at %s, status %s\n", asset.AssetID, asset.Family, asset.Location, asset.Status); err != nil {
			return errs.Wrap(err, "write asset register output")
		}
		return nil
	}),
}

var assetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List assets of a tenant",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *inspection.Service) error {
		tenantID, _ := cmd.Flags().GetString("tenant")
		ctx := logging.WithTenant(logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath())), tenantID)

		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		family, _ := cmd.Flags().GetString("family")
		all, _ := cmd.Flags().GetBool("all")

		assets, err := svc.ListAssets(ctx, tenantID, ports.AssetFilter{Family: family, IncludeRetired: all})
		if err != nil {
			logging.Error(ctx, "asset list failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list assets")
		}

		out := cmd.OutOrStdout()
		if done, err := writeStructured(out, format, newAssetViews(assets)); done {
			return err
		}

		table := newTable(out)
		fmt.Fprintln(table, "ASSET\tFAMILY\tLOCATION\tSTATUS\tREPLACED BY")
		for _, asset := range assets {
			fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\n", asset.AssetID, asset.Family, asset.Location, asset.Status, orDash(asset.ReplacedBy))
		}
		if err := table.Flush(); err != nil {
			return errs.Wrap(err, "write asset list output")
		}
		return nil
	}),
}

var assetDisposeCmd = &cobra.Command{
	Use:   "dispose",
	Short: "Retire an asset without a replacement",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *inspection.Service) error {
		tenantID, _ := cmd.Flags().GetString("tenant")
		ctx := logging.WithTenant(logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath())), tenantID)

		assetID, _ := cmd.Flags().GetString("asset")
		reason, _ := cmd.Flags().GetString("reason")
		actor, _ := cmd.Flags().GetString("actor")

		if err := svc.DisposeAsset(ctx, inspection.DisposeAssetInput{
			TenantID: tenantID,
			AssetID:  assetID,
			Reason:   reason,
			Actor:    actor,
		}); err != nil {
			logging.Error(ctx, "asset dispose failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "dispose asset")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "asset retired: %s\n", assetID); err != nil {
			return errs.Wrap(err, "write asset dispose output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(assetCmd)
	assetCmd.AddCommand(assetRegisterCmd)
	assetCmd.AddCommand(assetListCmd)
	assetCmd.AddCommand(assetDisposeCmd)

	assetCmd.PersistentFlags().String("tenant", "", "Tenant id")
	_ = assetCmd.MarkPersistentFlagRequired("tenant")

	assetRegisterCmd.Flags().String("asset", "", "Asset id")
	assetRegisterCmd.Flags().String("family", "", "Equipment family (extinguisher, hose, shelter, scba, eyewash, foam_chamber, gas_detector, alarm)")
	assetRegisterCmd.Flags().String("location", "", "Where the asset is installed")
	assetRegisterCmd.Flags().String("actor", "", "Who is making the change")
	_ = assetRegisterCmd.MarkFlagRequired("asset")
	_ = assetRegisterCmd.MarkFlagRequired("family")

	assetListCmd.Flags().String("family", "", "Only list this family")
	assetListCmd.Flags().Bool("all", false, "Include retired assets")
	addOutputFlag(assetListCmd)

	assetDisposeCmd.Flags().String("asset", "", "Asset id")
	assetDisposeCmd.Flags().String("reason", "", "Why the asset is retired")
	assetDisposeCmd.Flags().String("actor", "", "Who is making the change")
	_ = assetDisposeCmd.MarkFlagRequired("asset")
}
