// Package cmd defines and implements the CLI commands for the reviewpipe executable.
package cmd

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/filmgrain/reviewpipe/internal/logging"
	"github.com/filmgrain/reviewpipe/pkg/config"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviewpipe",
		Short: "Scrapes, cleans, and loads user-submitted movie reviews.",
		Long: `reviewpipe is the ingestion pipeline for user-submitted movie reviews.
It scrapes paginated review listings into normalized JSON, filters the
records for length and font renderability, and loads the survivors into
a relational store together with derived movie and crew metadata.`,

		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			startMetricsServer()
		},
	}

	// Initialize Viper configuration.
	cobra.OnInitialize(config.InitConfig)

	// Define persistent flags.
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.reviewpipe/config.yaml)")

	// Add subcommands.
	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newCleanCmd())
	cmd.AddCommand(newLoadCmd())

	return cmd
}

// startMetricsServer exposes Prometheus counters when an address is
// configured; runs can opt out by leaving metrics.listen_addr empty.
func startMetricsServer() {
	addr := viper.GetString("metrics.listen_addr")
	if addr == "" {
		return
	}
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logging.L.Info("Starting metrics server", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			logging.L.Error("Metrics server failed", zap.Error(err))
		}
	}()
}

// Execute is the main entry point.
func Execute() {
	// Initialize the logger once at the very start.
	logging.InitLogger()

	// Create and execute the root command.
	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}
