// Package pipeline runs one evaluation tick: fetch the order book (and the
// price history when asked), derive accumulation and book balance, decide.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/obwatch/internal/domain"
	"github.com/vadiminshakov/obwatch/internal/services/market/analysis"
	"github.com/vadiminshakov/obwatch/internal/services/strategy"
)

type historyFeed interface {
	FetchHistory(ctx context.Context, req domain.HistoryRequest) ([]domain.PricePoint, error)
}

type orderBookFeed interface {
	FetchOrderBook(ctx context.Context, pair domain.Pair) (domain.OrderBookSnapshot, error)
}

// Evaluation everything one tick produced.
type Evaluation struct {
	Signal    domain.Signal
	Series    *domain.HistoricalSeries
	Histogram *domain.ClusterHistogram
	Balance   domain.Balance
}

// Options tunes a Pipeline. Nil Now and NewID fall back to time.Now and
// random UUIDs.
type Options struct {
	Threshold float64
	Now       func() time.Time
	NewID     func() string
}

// Pipeline wires feeds and analyzers for one pair.
type Pipeline struct {
	history  historyFeed
	book     orderBookFeed
	detector *analysis.AccumulationDetector
	clusters *analysis.ClusterAnalyzer
	request  domain.HistoryRequest

	threshold float64
	now       func() time.Time
	newID     func() string
}

// New creates a pipeline evaluating request.Pair.
func New(
	history historyFeed,
	book orderBookFeed,
	detector *analysis.AccumulationDetector,
	clusters *analysis.ClusterAnalyzer,
	request domain.HistoryRequest,
	opts Options,
) *Pipeline {
	p := &Pipeline{
		history:   history,
		book:      book,
		detector:  detector,
		clusters:  clusters,
		request:   request,
		threshold: opts.Threshold,
		now:       opts.Now,
		newID:     opts.NewID,
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.newID == nil {
		p.newID = uuid.NewString
	}
	return p
}

// Pair returns the evaluated pair.
func (p *Pipeline) Pair() domain.Pair { return p.request.Pair }

// RefreshHistory fetches the price history and runs accumulation detection.
func (p *Pipeline) RefreshHistory(ctx context.Context) (*domain.HistoricalSeries, error) {
	points, err := p.history.FetchHistory(ctx, p.request)
	if err != nil {
		return nil, errors.Wrap(err, "fetch history")
	}
	series, err := p.detector.Detect(points)
	if err != nil {
		return nil, errors.Wrap(err, "detect accumulation")
	}
	return series, nil
}

// Tick evaluates the current order book against series. A nil series makes
// the tick refresh history concurrently with the order book fetch.
func (p *Pipeline) Tick(ctx context.Context, series *domain.HistoricalSeries) (*Evaluation, error) {
	var snapshot domain.OrderBookSnapshot

	g, gctx := errgroup.WithContext(ctx)
	if series == nil {
		g.Go(func() error {
			s, err := p.RefreshHistory(gctx)
			if err != nil {
				return err
			}
			series = s
			return nil
		})
	}
	g.Go(func() error {
		s, err := p.book.FetchOrderBook(gctx, p.request.Pair)
		if err != nil {
			return errors.Wrap(err, "fetch order book")
		}
		snapshot = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	eval, err := p.Evaluate(series, snapshot)
	if err != nil {
		return nil, err
	}

	// a tick cancelled while in flight produces nothing
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return eval, nil
}

// Evaluate runs the pure part of a tick on already fetched data.
func (p *Pipeline) Evaluate(series *domain.HistoricalSeries, snapshot domain.OrderBookSnapshot) (*Evaluation, error) {
	if series.Len() == 0 {
		return nil, &domain.InsufficientHistoryError{Have: 0, Need: p.detector.Window()}
	}

	hist, err := p.clusters.Analyze(snapshot)
	if err != nil {
		return nil, errors.Wrap(err, "liquidity clusters")
	}
	balance, err := analysis.VolumeBalance(hist)
	if err != nil {
		return nil, errors.Wrap(err, "volume balance")
	}

	accumulating := series.LatestAccumulation()
	latest, _ := series.LatestPoint()

	return &Evaluation{
		Signal: domain.Signal{
			TickID:         p.newID(),
			Pair:           p.request.Pair.String(),
			CurrentPrice:   snapshot.CurrentPrice(),
			BidPct:         balance.BidPct,
			AskPct:         balance.AskPct,
			IsAccumulating: accumulating,
			Action:         strategy.Decide(accumulating, balance.BidPct, balance.AskPct, p.threshold),
			HistoryAsOf:    latest.Timestamp,
			EvaluatedAt:    p.now(),
		},
		Series:    series,
		Histogram: hist,
		Balance:   balance,
	}, nil
}
