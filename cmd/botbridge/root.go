package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/botbridge"
	"github.com/aretw0/botbridge/internal/logging"
	"github.com/aretw0/botbridge/pkg/domain"
	"github.com/aretw0/botbridge/pkg/observability"
	"github.com/aretw0/botbridge/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// execute runs the CLI and returns the process exit code.
// stdout receives the response envelope and nothing else; help, version and
// logs go to stderr.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	code := domain.ExitOK
	var (
		logLevel string
		metrics  bool
	)

	rootCmd := &cobra.Command{
		Use:   "botbridge [flags] <plugin-path>",
		Short: "Run one bot plugin against one update",
		Long: `botbridge reads a single JSON update from stdin, hands it to the handle
function of the Lua plugin at <plugin-path> and writes one JSON envelope line to
stdout listing the actions the plugin requested.

<plugin-path> is a .lua file or a directory holding main.lua or a plugin.yaml
manifest.`,
		Version:       botbridge.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrUsage, err)
			}
			logger := logging.NewWriter(stderr, level)

			bridgeOpts := []botbridge.Option{botbridge.WithLogger(logger)}
			var reg *prometheus.Registry
			if metrics {
				reg = prometheus.NewRegistry()
				m := observability.NewMetrics(reg)
				bridgeOpts = append(bridgeOpts, botbridge.WithLifecycleHooks(m.Hooks()))
			}

			r := runner.New(
				runner.WithInput(stdin),
				runner.WithOutput(stdout),
				runner.WithLogger(logger),
				runner.WithBridge(botbridge.New(bridgeOpts...)),
			)
			code = r.Run(cmd.Context(), args)

			if reg != nil {
				snapshot := logging.NewWriter(stderr, slog.LevelInfo)
				if err := observability.Log(cmd.Context(), snapshot, reg); err != nil {
					logger.Error("failed to gather metrics", "error", err)
				}
			}
			return nil
		},
	}

	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stderr)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", domain.ErrUsage, err)
	})

	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "Diagnostics level on stderr (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&metrics, "metrics", false, "Log invocation metrics to stderr when done")

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		r := runner.New(runner.WithInput(stdin), runner.WithOutput(stdout))
		return r.Fail(err)
	}
	return code
}
