package collector

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	hyperliquid "github.com/sonirico/go-hyperliquid"
	"github.com/vadiminshakov/obwatch/internal/domain"
)

// HyperliquidHistoryFeed daily candles from Hyperliquid. Hyperliquid quotes
// every market in USD, so only the base coin of the pair is used.
type HyperliquidHistoryFeed struct {
	info *hyperliquid.Info
	now  func() time.Time
}

// NewHyperliquidHistoryFeed creates a new Hyperliquid history feed.
func NewHyperliquidHistoryFeed(info *hyperliquid.Info) *HyperliquidHistoryFeed {
	return &HyperliquidHistoryFeed{info: info, now: time.Now}
}

// FetchHistory returns req.Days daily closes for the base coin of req.Pair.
func (f *HyperliquidHistoryFeed) FetchHistory(ctx context.Context, req domain.HistoryRequest) ([]domain.PricePoint, error) {
	if f.info == nil {
		return nil, errors.New("hyperliquid info is nil")
	}
	if req.Days <= 0 {
		return nil, errors.Errorf("days must be positive, got %d", req.Days)
	}

	endMs, startMs := candleWindow(f.now(), req.Days)
	coin := strings.ToUpper(req.Pair.From)

	raw, err := f.info.CandlesSnapshot(ctx, coin, "1d", startMs, endMs)
	if err != nil {
		return nil, domain.NewDataFetchError(SourceHyperliquid, errors.Wrapf(err, "fetch candles for %s", coin))
	}

	candles := make([]candle, len(raw))
	for i, c := range raw {
		candles[i] = candle{
			OpenTime: time.UnixMilli(c.TimeOpen),
			Close:    c.Close,
			Volume:   c.Volume,
		}
	}

	return candlesToPoints(SourceHyperliquid, candles, req.Days)
}

// candleWindow returns the [start, end] range in milliseconds covering days
// daily candles with two extra days of slack for rounding.
func candleWindow(now time.Time, days int) (endMs, startMs int64) {
	endMs = now.UnixMilli()
	startMs = endMs - int64(days+2)*(24*time.Hour).Milliseconds()
	return endMs, startMs
}
