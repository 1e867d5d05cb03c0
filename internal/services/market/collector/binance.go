package collector

import (
	"context"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/obwatch/internal/domain"
)

// BinanceHistoryFeed daily klines from Binance spot.
type BinanceHistoryFeed struct {
	client *binance.Client
}

// NewBinanceHistoryFeed creates a new Binance history feed.
func NewBinanceHistoryFeed(client *binance.Client) *BinanceHistoryFeed {
	return &BinanceHistoryFeed{client: client}
}

// FetchHistory returns req.Days daily closes for req.Pair.
func (f *BinanceHistoryFeed) FetchHistory(ctx context.Context, req domain.HistoryRequest) ([]domain.PricePoint, error) {
	if req.Days <= 0 {
		return nil, errors.Errorf("days must be positive, got %d", req.Days)
	}

	klines, err := f.client.NewKlinesService().
		Symbol(req.Pair.Symbol()).
		Interval("1d").
		Limit(req.Days).
		Do(ctx)
	if err != nil {
		return nil, domain.NewDataFetchError(SourceBinance, errors.Wrapf(err, "fetch klines for %s", req.Pair.String()))
	}

	candles := make([]candle, len(klines))
	for i, k := range klines {
		candles[i] = candle{
			OpenTime: time.UnixMilli(k.OpenTime),
			Close:    k.Close,
			Volume:   k.Volume,
		}
	}

	return candlesToPoints(SourceBinance, candles, req.Days)
}
