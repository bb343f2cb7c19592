package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/andrelcunha/rascal-go"
	rascalconfig "github.com/andrelcunha/rascal-go/config"
	"github.com/andrelcunha/rascal-go/internal/logging"
	"github.com/andrelcunha/rascal-go/internal/management"
	"github.com/andrelcunha/rascal-go/internal/metrics"
)

// newRunCmd wires a Broker plus its optional management/metrics HTTP
// servers up and runs until an OS signal arrives, the way the teacher's
// cmd/ottermq/main.go bootstraps the broker and web server side by side.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <topology.yaml>",
		Short: "Load a topology, start every configured shovel, and serve management/metrics until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rascalconfig.LoadConfig()
			logging.Init(cfg.LogLevel)

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			topologyCfg, err := rascal.LoadConfig(data)
			if err != nil {
				return err
			}

			components := rascal.Components{}
			if cfg.MetricsEnabled {
				reg := prometheus.NewRegistry()
				components.Collector = metrics.NewCollector(reg)
				go func() {
					if err := metrics.Serve(context.Background(), cfg.MetricsAddr, reg); err != nil {
						log.Error().Err(err).Msg("metrics server stopped")
					}
				}()
			}

			b, err := rascal.Create(topologyCfg, components)
			if err != nil {
				return fmt.Errorf("creating broker: %w", err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if err := b.RunShovels(ctx); err != nil {
				return err
			}

			if cfg.ManagementEnabled {
				mgmt := management.New(b.ManagementView(), cfg.ManagementAuthToken)
				go func() {
					log.Info().Str("addr", cfg.ManagementAddr).Msg("starting management server")
					if err := mgmt.App().Listen(cfg.ManagementAddr); err != nil {
						log.Error().Err(err).Msg("management server stopped")
					}
				}()
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop

			log.Info().Msg("shutting down rascalctl")
			b.Shutdown()
			return nil
		},
	}
}
