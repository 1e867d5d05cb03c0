package internal

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/obwatch/internal/domain"
	"github.com/vadiminshakov/obwatch/internal/services/pipeline"
)

type evaluator interface {
	Tick(ctx context.Context, series *domain.HistoricalSeries) (*pipeline.Evaluation, error)
	Pair() domain.Pair
}

type signalPublisher interface {
	Publish(sig domain.Signal) int
}

type tickObserver interface {
	ObserveSignal(sig domain.Signal, took time.Duration)
	ObserveFailure(err error, took time.Duration)
}

// ErrorHandler receives every failed tick. The watcher keeps running
// whatever the handler does.
type ErrorHandler func(ctx context.Context, err error)

// WatcherOptions tunes a Watcher. Zero durations are replaced by the config
// defaults.
type WatcherOptions struct {
	PollInterval    time.Duration
	RefreshInterval time.Duration
	TickTimeout     time.Duration
	Metrics         tickObserver
	OnError         ErrorHandler
	Now             func() time.Time
}

// Watcher re-evaluates the order book every poll interval and refreshes the
// price history when it is older than the refresh interval.
type Watcher struct {
	pipeline  evaluator
	publisher signalPublisher
	metrics   tickObserver
	onError   ErrorHandler
	logger    *zap.Logger

	pollInterval    time.Duration
	refreshInterval time.Duration
	tickTimeout     time.Duration
	now             func() time.Time

	series      *domain.HistoricalSeries
	refreshedAt time.Time
}

// NewWatcher creates a watcher publishing signals of p to publisher.
func NewWatcher(p evaluator, publisher signalPublisher, logger *zap.Logger, opts WatcherOptions) *Watcher {
	w := &Watcher{
		pipeline:        p,
		publisher:       publisher,
		metrics:         opts.Metrics,
		onError:         opts.OnError,
		logger:          logger.With(zap.String("pair", p.Pair().String())),
		pollInterval:    opts.PollInterval,
		refreshInterval: opts.RefreshInterval,
		tickTimeout:     opts.TickTimeout,
		now:             opts.Now,
	}
	if w.pollInterval <= 0 {
		w.pollInterval = 5 * time.Second
	}
	if w.refreshInterval <= 0 {
		w.refreshInterval = time.Hour
	}
	if w.tickTimeout <= 0 {
		w.tickTimeout = 20 * time.Second
	}
	if w.now == nil {
		w.now = time.Now
	}
	if w.onError == nil {
		w.onError = w.logError
	}
	return w
}

// Run ticks immediately and then every poll interval until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("starting watcher loop",
		zap.Duration("poll_interval", w.pollInterval),
		zap.Duration("history_refresh_interval", w.refreshInterval))

	w.runTick(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("context done, stopping watcher loop")
			return ctx.Err()
		case <-ticker.C:
			w.runTick(ctx)
		}
	}
}

// Tick runs one evaluation under the tick timeout and returns its result.
// The price history is refreshed first when it is missing or stale.
func (w *Watcher) Tick(ctx context.Context) (*pipeline.Evaluation, error) {
	tctx, cancel := context.WithTimeout(ctx, w.tickTimeout)
	defer cancel()

	series := w.series
	stale := series == nil || w.now().Sub(w.refreshedAt) >= w.refreshInterval
	if stale {
		series = nil
		w.logger.Debug("refreshing price history")
	}

	eval, err := w.pipeline.Tick(tctx, series)
	if err != nil {
		return nil, err
	}

	if stale {
		w.series = eval.Series
		w.refreshedAt = w.now()
		w.logger.Info("price history refreshed",
			zap.Int("points", eval.Series.Len()),
			zap.Ints("accumulation_indices", eval.Series.AccumulationIndices()))
	}
	return eval, nil
}

func (w *Watcher) runTick(ctx context.Context) {
	start := w.now()
	eval, err := w.Tick(ctx)
	took := w.now().Sub(start)

	if err != nil {
		// shutdown in progress
		if ctx.Err() != nil {
			return
		}
		if w.metrics != nil {
			w.metrics.ObserveFailure(err, took)
		}
		w.onError(ctx, err)
		return
	}

	sig := eval.Signal
	if w.metrics != nil {
		w.metrics.ObserveSignal(sig, took)
	}
	if dropped := w.publisher.Publish(sig); dropped > 0 {
		w.logger.Debug("slow signal subscribers skipped", zap.Int("dropped", dropped))
	}

	w.logger.Info("signal",
		zap.String("tick_id", sig.TickID),
		zap.Float64("current_price", sig.CurrentPrice),
		zap.Float64("bid_pct", sig.BidPct),
		zap.Float64("ask_pct", sig.AskPct),
		zap.Bool("accumulating", sig.IsAccumulating),
		zap.Stringer("action", sig.Action),
		zap.Duration("took", took))
}

func (w *Watcher) logError(_ context.Context, err error) {
	fields := []zap.Field{zap.String("kind", domain.ErrorKind(err)), zap.Error(err)}
	switch {
	case errors.Is(err, domain.ErrDataFetch), errors.Is(err, context.DeadlineExceeded):
		w.logger.Warn("tick failed, will retry next interval", fields...)
	default:
		w.logger.Error("tick failed", fields...)
	}
}
