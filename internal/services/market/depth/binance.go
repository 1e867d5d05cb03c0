package depth

import (
	"context"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/obwatch/internal/domain"
)

// binanceLimits depth sizes accepted by the Binance REST API.
var binanceLimits = []int{5, 10, 20, 50, 100, 500, 1000, 5000}

// BinanceOrderBookFeed spot order book snapshots from Binance.
type BinanceOrderBookFeed struct {
	client *binance.Client
	limit  int
	now    func() time.Time
}

// NewBinanceOrderBookFeed creates a feed fetching limit levels per side.
// limit is rounded up to the nearest size Binance accepts.
func NewBinanceOrderBookFeed(client *binance.Client, limit int) *BinanceOrderBookFeed {
	return &BinanceOrderBookFeed{client: client, limit: binanceLimit(limit), now: time.Now}
}

// FetchOrderBook returns the current book for pair.
func (f *BinanceOrderBookFeed) FetchOrderBook(ctx context.Context, pair domain.Pair) (domain.OrderBookSnapshot, error) {
	res, err := f.client.NewDepthService().
		Symbol(pair.Symbol()).
		Limit(f.limit).
		Do(ctx)
	if err != nil {
		return domain.OrderBookSnapshot{}, domain.NewDataFetchError(SourceBinance, errors.Wrapf(err, "fetch depth for %s", pair.String()))
	}

	bids := make([]level, len(res.Bids))
	for i, b := range res.Bids {
		bids[i] = level{Price: b.Price, Quantity: b.Quantity}
	}
	asks := make([]level, len(res.Asks))
	for i, a := range res.Asks {
		asks[i] = level{Price: a.Price, Quantity: a.Quantity}
	}

	return buildSnapshot(SourceBinance, pair, bids, asks, f.now())
}

func binanceLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	for _, l := range binanceLimits {
		if limit <= l {
			return l
		}
	}
	return binanceLimits[len(binanceLimits)-1]
}
