package cmd

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"firewatch/internal/bootstrap"
	"firewatch/internal/bootstrap/logging"
	"firewatch/internal/errs"
	"firewatch/internal/usecase/dueconsole"
	"firewatch/internal/usecase/inspection"
)

var consoleDueCmd = &cobra.Command{
	Use:   "due",
	Short: "Start the due-date console of a tenant",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *inspection.Service) error {
		tenantID, _ := cmd.Flags().GetString("tenant")
		ctx := logging.WithTenant(logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath())), tenantID)

		horizon := app.Config.Schedule.DueHorizonDays
		if cmd.Flags().Changed("horizon") {
			horizon, _ = cmd.Flags().GetInt("horizon")
		}
		refreshInterval, _ := cmd.Flags().GetDuration("refresh-interval")
		if refreshInterval <= 0 {
			refreshInterval = 30 * time.Second
		}

		model := dueconsole.NewDueModel(ctx, svc, dueconsole.Options{
			TenantID:        tenantID,
			HorizonDays:     horizon,
			RefreshInterval: refreshInterval,
		})

		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run due console")
		}
		return nil
	}),
}

func init() {
	consoleCmd.AddCommand(consoleDueCmd)
	consoleDueCmd.Flags().String("tenant", "", "Tenant id")
	consoleDueCmd.Flags().Int("horizon", 0, "Days ahead to include (default from schedule.due_horizon_days)")
	consoleDueCmd.Flags().Duration("refresh-interval", 30*time.Second, "Auto refresh interval")
	_ = consoleDueCmd.MarkFlagRequired("tenant")
}
