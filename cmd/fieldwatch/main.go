// Command fieldwatch is a terminal dashboard client for the field-risk
// backend. It polls the backend for fields and alerts, keeps a marker per
// field, and renders severity-colored lists, refreshing on a fixed interval
// until stopped.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/agrisight/fieldwatch/internal/adapter/console"
	httpadapter "github.com/agrisight/fieldwatch/internal/adapter/http"
	"github.com/agrisight/fieldwatch/internal/app"
	"github.com/agrisight/fieldwatch/internal/backend"
	"github.com/agrisight/fieldwatch/internal/config"
	"github.com/agrisight/fieldwatch/internal/observability"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "fieldwatch",
		Short:         "Live dashboard client for the field-risk backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file (env vars override)")

	root.AddCommand(newRunCmd(), newSnapshotCmd(), newAddCmd(), newRecomputeCmd())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// engine bundles the wired-up client components shared by all commands.
type engine struct {
	cfg        *config.Config
	logger     *slog.Logger
	view       *console.View
	controller *app.Controller
	bridge     *app.Bridge
	scheduler  *app.Scheduler
}

func newEngine() (*engine, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	v := console.NewView(os.Stdout)
	client := backend.NewClient(cfg.BackendURL, cfg.HTTPTimeout, logger, metrics)

	state := app.NewState()
	registry := app.NewMarkerRegistry(v, metrics)
	renderer := app.NewListRenderer(v, v)
	controller := app.NewController(client, state, registry, renderer, logger, metrics)
	bridge := app.NewBridge(controller, v, logger)
	scheduler := app.NewScheduler(controller, clockwork.NewRealClock(), cfg.RefreshInterval, logger, metrics)

	return &engine{
		cfg:        cfg,
		logger:     logger,
		view:       v,
		controller: controller,
		bridge:     bridge,
		scheduler:  scheduler,
	}, nil
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the dashboard: recurring refresh, command input, health endpoints",
		RunE: func(_ *cobra.Command, _ []string) error {
			e, err := newEngine()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			srv := httpadapter.NewServer(e.cfg.HTTPAddr, e.controller, e.logger)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					e.logger.Error("http server error", "error", err)
				}
			}()

			go e.scheduler.Run(ctx)

			// The command loop owns stdin; when it exits (quit or EOF) the
			// whole client shuts down.
			loop := console.NewCommandLoop(e.view, e.bridge, e.controller, os.Stdin, e.logger)
			go func() {
				loop.Run(ctx)
				cancel()
			}()

			<-ctx.Done()
			e.logger.Info("shutting down")

			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), e.cfg.ShutdownTimeout)
			defer cancelShutdown()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				e.logger.Error("http server shutdown error", "error", err)
			}
			return nil
		},
	}
}

func newSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch and render the dashboard once, then exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEngine()
			if err != nil {
				return err
			}
			return e.controller.Refresh(cmd.Context())
		},
	}
}

func newAddCmd() *cobra.Command {
	var name, lat, lon string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new field and render the refreshed dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEngine()
			if err != nil {
				return err
			}
			// Same permissive contract as the form: unparseable input is a
			// silent no-op.
			return e.controller.SubmitField(cmd.Context(), name, parseOrNaN(lat), parseOrNaN(lon))
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "field display name")
	cmd.Flags().StringVar(&lat, "lat", "", "latitude")
	cmd.Flags().StringVar(&lon, "lon", "", "longitude")
	return cmd
}

func newRecomputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute",
		Short: "Trigger a backend risk recomputation and render the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEngine()
			if err != nil {
				return err
			}
			return e.controller.Recompute(cmd.Context())
		},
	}
}

func parseOrNaN(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
