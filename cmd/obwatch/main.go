// Command obwatch watches an order book and prints LONG, SHORT or NEUTRAL
// signals from the bid/ask volume balance and the accumulation phase of the
// daily price history.
//
// Usage:
//
//	obwatch --config config.yaml        (same as obwatch run)
//	obwatch once                        single evaluation
//	obwatch history --csv > history.csv rolling statistics per day
//	obwatch setup                       interactive config wizard
//
// Settings may also come from OBW_* environment variables or a .env file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/obwatch/config"
	"github.com/vadiminshakov/obwatch/internal"
	"github.com/vadiminshakov/obwatch/internal/events"
	"github.com/vadiminshakov/obwatch/internal/logging"
	"github.com/vadiminshakov/obwatch/internal/metrics"
	"github.com/vadiminshakov/obwatch/internal/render"
	"github.com/vadiminshakov/obwatch/internal/report"
	"github.com/vadiminshakov/obwatch/internal/services/pipeline"
	"github.com/vadiminshakov/obwatch/internal/setup"
	"github.com/vadiminshakov/obwatch/internal/web"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "obwatch",
	Short:         "Order book liquidity and accumulation signal watcher",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runWatch,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Poll the order book and publish a signal every interval",
	RunE:  runWatch,
}

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Evaluate a single tick and exit",
	RunE:  runOnce,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print support, resistance, average volume and accumulation per day",
	RunE:  runHistory,
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create a config file interactively",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, err := cmd.Flags().GetString("out")
		if err != nil {
			return err
		}
		return setup.RunTUI(out)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	historyCmd.Flags().Bool("csv", false, "write CSV instead of a table")
	setupCmd.Flags().String("out", setup.DefaultOutput, "file to write")

	rootCmd.AddCommand(runCmd, onceCmd, historyCmd, setupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app everything a subcommand needs, built from the loaded config.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	feeds    *internal.Feeds
	pipeline *pipeline.Pipeline
}

func (a *app) close() {
	if err := a.feeds.Close(); err != nil {
		a.logger.Warn("close feeds", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	feeds, err := internal.NewFeeds(cfg, logger)
	if err != nil {
		return nil, err
	}
	p, err := internal.NewPipeline(cfg, feeds)
	if err != nil {
		_ = feeds.Close()
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, feeds: feeds, pipeline: p}, nil
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signalContext(cmd)
	defer stop()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	broadcaster := events.NewSignalBroadcaster(0)

	watcher := internal.NewWatcher(a.pipeline, broadcaster, a.logger, internal.WatcherOptions{
		PollInterval:    a.cfg.PollInterval,
		RefreshInterval: a.cfg.HistoryRefreshInterval,
		TickTimeout:     a.cfg.TickTimeout,
		Metrics:         m,
	})

	console := render.NewConsole(cmd.OutOrStdout())
	signals := broadcaster.Subscribe()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return watcher.Run(gctx) })
	g.Go(func() error {
		defer broadcaster.Unsubscribe(signals)
		return console.Run(gctx, signals)
	})
	if a.cfg.WebAddr != "" {
		server := web.NewServer(a.cfg.WebAddr, broadcaster, m.Handler(), a.logger)
		g.Go(func() error {
			if len(a.cfg.WebTLSDomains) > 0 {
				return server.StartWithAutoTLS(gctx, a.cfg.WebTLSDomains, a.cfg.WebTLSCacheDir)
			}
			return server.Start(gctx)
		})
	}

	err = g.Wait()
	if ctx.Err() != nil {
		a.logger.Info("shutting down")
		return nil
	}
	return err
}

func runOnce(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signalContext(cmd)
	defer stop()

	watcher := internal.NewWatcher(a.pipeline, events.NewSignalBroadcaster(1), a.logger, internal.WatcherOptions{
		TickTimeout: a.cfg.TickTimeout,
	})
	eval, err := watcher.Tick(ctx)
	if err != nil {
		return err
	}
	return render.NewConsole(cmd.OutOrStdout()).Print(eval.Signal)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	asCSV, err := cmd.Flags().GetBool("csv")
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signalContext(cmd)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, a.cfg.TickTimeout)
	defer cancel()

	series, err := a.pipeline.RefreshHistory(ctx)
	if err != nil {
		return err
	}

	rows := report.HistoryRows(series)
	if asCSV {
		return report.WriteCSV(cmd.OutOrStdout(), rows)
	}
	report.WriteTable(cmd.OutOrStdout(), rows)
	fmt.Fprintf(cmd.OutOrStdout(), "accumulation at indices: %v\n", series.AccumulationIndices())
	return nil
}
