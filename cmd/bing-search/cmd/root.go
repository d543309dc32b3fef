// Package cmd provides the CLI commands for bing-search.
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kitbuilder587/bing-search/internal/config"
	"github.com/kitbuilder587/bing-search/internal/metrics"
	"github.com/kitbuilder587/bing-search/pkg/search/bing"
)

var (
	debugMode   bool
	metricsMode bool
)

// NewRootCmd creates the root command for the bing-search CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bing-search",
		Short: "Query the Bing Search API from the command line",
		Long: `bing-search sends queries to the Bing Search API and prints the
answers on stdout.

Configuration comes from BING_* environment variables, optionally
layered over a YAML file named by BING_CONFIG_FILE.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging on stderr")
	cmd.PersistentFlags().BoolVar(&metricsMode, "metrics", false, "Write request metrics to stderr in Prometheus text format when done")

	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newResultsCmd())
	cmd.AddCommand(newURICmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// session is one command run: a configured client and the metrics it
// records into.
type session struct {
	client  *bing.Client
	metrics *metrics.Metrics
}

// withSession loads configuration, builds the client and runs fn. Metrics
// are written after fn returns, whether or not it failed.
func withSession(cmd *cobra.Command, requireKey bool, fn func(*session) error) (err error) {
	load := config.Load
	if !requireKey {
		load = config.LoadWithoutKey
	}
	cfg, err := load()
	if err != nil {
		return err
	}
	if debugMode {
		cfg.Log.Level = "debug"
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	s := &session{metrics: metrics.New(nil)}
	s.client = bing.New(cfg.Bing.ClientConfig(),
		bing.WithLogger(logger),
		bing.WithRecorder(s.metrics),
	)
	logger.Debug("client ready",
		zap.String("endpoint", cfg.Bing.Endpoint),
		zap.Int("count", cfg.Bing.Count),
		zap.Int("offset", cfg.Bing.Offset),
	)

	defer func() {
		if !metricsMode {
			return
		}
		if werr := s.metrics.WriteText(cmd.ErrOrStderr()); werr != nil && err == nil {
			err = werr
		}
	}()

	return fn(s)
}
