package depth

import (
	"context"
	"time"

	bybit "github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/obwatch/internal/domain"
)

const bybitSpotMaxLimit = 200

// BybitOrderBookFeed spot order book snapshots from Bybit V5.
type BybitOrderBookFeed struct {
	client *bybit.Client
	limit  int
	now    func() time.Time
}

// NewBybitOrderBookFeed creates a feed fetching limit levels per side,
// capped at what the spot endpoint serves.
func NewBybitOrderBookFeed(client *bybit.Client, limit int) *BybitOrderBookFeed {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > bybitSpotMaxLimit:
		limit = bybitSpotMaxLimit
	}
	return &BybitOrderBookFeed{client: client, limit: limit, now: time.Now}
}

// FetchOrderBook returns the current book for pair. The bybit client takes
// no context, so cancellation is only checked before the call.
func (f *BybitOrderBookFeed) FetchOrderBook(ctx context.Context, pair domain.Pair) (domain.OrderBookSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.OrderBookSnapshot{}, err
	}

	limit := f.limit
	res, err := f.client.V5().Market().GetOrderbook(bybit.V5GetOrderbookParam{
		Category: bybit.CategoryV5Spot,
		Symbol:   bybit.SymbolV5(pair.Symbol()),
		Limit:    &limit,
	})
	if err != nil {
		return domain.OrderBookSnapshot{}, domain.NewDataFetchError(SourceBybit, errors.Wrapf(err, "fetch orderbook for %s", pair.String()))
	}
	if res == nil {
		return domain.OrderBookSnapshot{}, domain.NewMalformedDataError(SourceBybit, "empty orderbook response for %s", pair.String())
	}

	bids := make([]level, len(res.Result.Bids))
	for i, b := range res.Result.Bids {
		bids[i] = level{Price: b.Price, Quantity: b.Quantity}
	}
	asks := make([]level, len(res.Result.Asks))
	for i, a := range res.Result.Asks {
		asks[i] = level{Price: a.Price, Quantity: a.Quantity}
	}

	return buildSnapshot(SourceBybit, pair, bids, asks, f.now())
}
