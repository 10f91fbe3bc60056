package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"firewatch/internal/bootstrap"
	"firewatch/internal/bootstrap/logging"
	"firewatch/internal/errs"
	"firewatch/internal/usecase/inspection"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *inspection.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		addr := app.Config.HTTP.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}
		addr = strings.TrimSpace(addr)
		if addr == "" {
			addr = ":8080"
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		if tablesFile := strings.TrimSpace(app.Config.ActionPlan.TablesFile); tablesFile != "" && app.Config.ActionPlan.Watch {
			watcher, err := watchActionPlanTables(ctx, tablesFile, app.Catalog)
			if err != nil {
				return errs.Wrap(err, "watch action plan tables")
			}
			defer watcher.Close()
		}

		server := &http.Server{
			Addr: addr,
			Handler: newAPIHandler(ctx, svc, apiOptions{
				MaxUploadBytes:     app.Config.HTTP.MaxUploadMB << 20,
				DefaultHorizonDays: app.Config.Schedule.DueHorizonDays,
			}),
			ReadTimeout:  app.Config.HTTP.ReadTimeout,
			WriteTimeout: app.Config.HTTP.WriteTimeout,
		}

		serveErr := make(chan error, 1)
		go func() {
			serveErr <- server.ListenAndServe()
		}()

		logging.Info(ctx, "http api started", slog.String("addr", addr))

		select {
		case err := <-serveErr:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error(ctx, "http api failed", slog.Any("err", errs.Loggable(err)))
				return errs.Wrap(err, "serve http api")
			}
			return nil
		case <-ctx.Done():
		}

		logging.Info(ctx, "http api shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logging.Error(ctx, "http api shutdown failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "shutdown http api")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from http.addr)")
}
