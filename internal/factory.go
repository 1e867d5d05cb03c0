package internal

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/obwatch/config"
	"github.com/vadiminshakov/obwatch/internal/clients"
	"github.com/vadiminshakov/obwatch/internal/domain"
	"github.com/vadiminshakov/obwatch/internal/services/market/analysis"
	"github.com/vadiminshakov/obwatch/internal/services/pipeline"
	"github.com/vadiminshakov/obwatch/internal/storage/historycache"
	"github.com/vadiminshakov/obwatch/pkg/retrier"
)

const hyperliquidMainnetURL = "https://api.hyperliquid.xyz"

// clientSet builds each venue client at most once.
type clientSet struct {
	built map[string]any
}

func newClientSet() *clientSet {
	return &clientSet{built: make(map[string]any)}
}

func (s *clientSet) get(venue string) (any, error) {
	if c, ok := s.built[venue]; ok {
		return c, nil
	}

	var (
		client any
		err    error
	)
	switch venue {
	case config.PlatformBinance:
		client = clients.NewBinanceClient()
	case config.PlatformBybit:
		client = clients.NewBybitClient()
	case config.HistoryHyperliquid:
		client, err = clients.NewHyperliquidClient(hyperliquidMainnetURL)
	case config.HistoryCoinGecko:
		client = clients.NewCoinGeckoClient()
	default:
		err = errors.Errorf("unsupported venue %q", venue)
	}
	if err != nil {
		return nil, err
	}

	s.built[venue] = client
	return client, nil
}

func (s *clientSet) provider(venue string) (serviceProvider, error) {
	client, err := s.get(venue)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s client", venue)
	}
	return newServiceProvider(client)
}

// Feeds history and order book feeds selected by the config.
type Feeds struct {
	History   historyService
	OrderBook orderBookService

	cache *historycache.WALStore
}

// Close releases the history cache if one is open.
func (f *Feeds) Close() error {
	if f.cache == nil {
		return nil
	}
	return f.cache.Close()
}

// NewFeeds builds the configured feeds. The history feed is wrapped with
// retries on fetch failures and, when a cache dir is set, with the on-disk
// history cache.
func NewFeeds(cfg config.Config, logger *zap.Logger) (*Feeds, error) {
	set := newClientSet()

	bookProvider, err := set.provider(cfg.Platform)
	if err != nil {
		return nil, err
	}
	book, err := bookProvider.OrderBookFeed(cfg.OrderBookDepth)
	if err != nil {
		return nil, err
	}

	historyProvider, err := set.provider(cfg.HistorySource)
	if err != nil {
		return nil, err
	}
	history, err := historyProvider.HistoryFeed()
	if err != nil {
		return nil, err
	}

	logger = logger.With(zap.String("source", cfg.HistorySource))
	feeds := &Feeds{
		History:   newRetryingHistoryFeed(history, logger),
		OrderBook: book,
	}

	if cfg.HistoryCacheDir != "" {
		if feeds.cache, err = historycache.NewWALStore(cfg.HistoryCacheDir); err != nil {
			return nil, err
		}
		feeds.History = newCachingHistoryFeed(feeds.History, feeds.cache, cfg.HistorySource, cfg.HistoryCacheTTL, logger)
	}
	return feeds, nil
}

// NewPipeline builds the evaluation pipeline for cfg on top of feeds.
func NewPipeline(cfg config.Config, feeds *Feeds) (*pipeline.Pipeline, error) {
	detector, err := analysis.NewAccumulationDetector(cfg.RollingWindow, cfg.VolumeMultiplier)
	if err != nil {
		return nil, errors.Wrap(err, "accumulation detector")
	}
	clusters, err := analysis.NewClusterAnalyzer(cfg.NumBins, cfg.SmoothingSigma, cfg.SmoothingMode)
	if err != nil {
		return nil, errors.Wrap(err, "cluster analyzer")
	}

	return pipeline.New(feeds.History, feeds.OrderBook, detector, clusters, cfg.HistoryRequest(), pipeline.Options{
		Threshold: cfg.ActionThresholdPct,
	}), nil
}

// retryingHistoryFeed retries history fetches that failed on the network.
// Malformed or insufficient data is returned at once.
type retryingHistoryFeed struct {
	next    historyService
	retrier *retrier.Retrier
}

func newRetryingHistoryFeed(next historyService, logger *zap.Logger, opts ...retrier.Option) *retryingHistoryFeed {
	base := []retrier.Option{
		retrier.WithMaxRetries(3),
		retrier.WithInitialInterval(time.Second),
		retrier.WithMaxInterval(10 * time.Second),
		retrier.WithRetryIf(func(err error) bool { return errors.Is(err, domain.ErrDataFetch) }),
		retrier.WithOnRetry(func(attempt int, err error, wait time.Duration) {
			logger.Warn("history fetch failed, retrying",
				zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(err))
		}),
	}
	return &retryingHistoryFeed{next: next, retrier: retrier.New(append(base, opts...)...)}
}

func (f *retryingHistoryFeed) FetchHistory(ctx context.Context, req domain.HistoryRequest) ([]domain.PricePoint, error) {
	return retrier.DoWithData(f.retrier, ctx, func(ctx context.Context) ([]domain.PricePoint, error) {
		return f.next.FetchHistory(ctx, req)
	})
}

type historyStore interface {
	Save(key string, points []domain.PricePoint, fetchedAt time.Time) error
	Latest(key string) (historycache.Entry, bool, error)
}

// cachingHistoryFeed serves history younger than ttl from the store and
// records every fresh fetch.
type cachingHistoryFeed struct {
	next   historyService
	store  historyStore
	source string
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

func newCachingHistoryFeed(next historyService, store historyStore, source string, ttl time.Duration, logger *zap.Logger) *cachingHistoryFeed {
	return &cachingHistoryFeed{next: next, store: store, source: source, ttl: ttl, now: time.Now, logger: logger}
}

func (f *cachingHistoryFeed) FetchHistory(ctx context.Context, req domain.HistoryRequest) ([]domain.PricePoint, error) {
	key := historycache.Key(f.source, req)

	entry, ok, err := f.store.Latest(key)
	switch {
	case err != nil:
		f.logger.Warn("history cache read failed", zap.String("key", key), zap.Error(err))
	case ok && f.now().Sub(entry.FetchedAt) < f.ttl:
		f.logger.Debug("history served from cache", zap.String("key", key), zap.Time("fetched_at", entry.FetchedAt))
		return entry.Points, nil
	}

	points, err := f.next.FetchHistory(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := f.store.Save(key, points, f.now()); err != nil {
		f.logger.Warn("history cache write failed", zap.String("key", key), zap.Error(err))
	}
	return points, nil
}
