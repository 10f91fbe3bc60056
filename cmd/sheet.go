package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"firewatch/internal/bootstrap"
	"firewatch/internal/bootstrap/logging"
	"firewatch/internal/errs"
	"firewatch/internal/usecase/inspection"
)

var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Import or export service records as an .xlsx workbook",
}

var sheetImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import historical service records from a workbook",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *inspection.Service) error {
		tenantID, _ := cmd.Flags().GetString("tenant")
		ctx := logging.WithTenant(logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath())), tenantID)

		path, _ := cmd.Flags().GetString("file")
		actor, _ := cmd.Flags().GetString("actor")

		file, err := os.Open(path)
		if err != nil {
			return errs.Wrapf(err, "open workbook %s", path)
		}
		defer file.Close()

		result, err := svc.ImportSheet(ctx, inspection.ImportSheetInput{
			TenantID: tenantID,
			Reader:   file,
			Actor:    actor,
		})
		if err != nil {
			logging.Error(ctx, "sheet import failed", slog.String("file", path), slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "import sheet")
		}

		out := cmd.OutOrStdout()
		if _, err := fmt.Fprintf(out, "imported %d records from sheet %q, %d assets created, %d rows skipped\n",
			result.Imported, result.Sheet, result.AssetsCreated, len(result.Skipped)); err != nil {
			return errs.Wrap(err, "write sheet import output")
		}
		for _, skipped := range result.Skipped {
			if _, err := fmt.Fprintf(out, "  row %d: %s\n", skipped.Number, skipped.Reason); err != nil {
				return errs.Wrap(err, "write sheet import output")
			}
		}
		return nil
	}),
}

var sheetExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every service record of a tenant to a workbook",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *inspection.Service) error {
		tenantID, _ := cmd.Flags().GetString("tenant")
		ctx := logging.WithTenant(logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath())), tenantID)

		path, _ := cmd.Flags().GetString("file")

		file, err := os.Create(path)
		if err != nil {
			return errs.Wrapf(err, "create workbook %s", path)
		}

		count, err := svc.ExportSheet(ctx, tenantID, file)
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = errs.Wrapf(closeErr, "close workbook %s", path)
		}
		if err != nil {
			logging.Error(ctx, "sheet export failed", slog.String("file", path), slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "export sheet")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "exported %d records to %s\n", count, path); err != nil {
			return errs.Wrap(err, "write sheet export output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(sheetCmd)
	sheetCmd.AddCommand(sheetImportCmd)
	sheetCmd.AddCommand(sheetExportCmd)

	sheetCmd.PersistentFlags().String("tenant", "", "Tenant id")
	sheetCmd.PersistentFlags().String("file", "", "Workbook path")
	_ = sheetCmd.MarkPersistentFlagRequired("tenant")
	_ = sheetCmd.MarkPersistentFlagRequired("file")

	sheetImportCmd.Flags().String("actor", "", "Who is importing the workbook")
}
