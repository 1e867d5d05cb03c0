package collector

import (
	"context"
	"fmt"
	"time"

	bybit "github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/obwatch/internal/domain"
)

const bybitMaxKlines = 1000

// BybitHistoryFeed daily klines from Bybit spot.
type BybitHistoryFeed struct {
	client *bybit.Client
}

// NewBybitHistoryFeed creates a new Bybit history feed.
func NewBybitHistoryFeed(client *bybit.Client) *BybitHistoryFeed {
	return &BybitHistoryFeed{client: client}
}

// FetchHistory returns req.Days daily closes for req.Pair. Bybit lists
// klines newest first; the result is re-sorted ascending.
func (f *BybitHistoryFeed) FetchHistory(ctx context.Context, req domain.HistoryRequest) ([]domain.PricePoint, error) {
	if req.Days <= 0 || req.Days > bybitMaxKlines {
		return nil, errors.Errorf("days must be in [1, %d], got %d", bybitMaxKlines, req.Days)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	interval, err := convertIntervalToBybit("1d")
	if err != nil {
		return nil, err
	}

	limit := req.Days
	result, err := f.client.V5().Market().GetKline(bybit.V5GetKlineParam{
		Category: bybit.CategoryV5Spot,
		Symbol:   bybit.SymbolV5(req.Pair.Symbol()),
		Interval: bybit.Interval(interval),
		Limit:    &limit,
	})
	if err != nil {
		return nil, domain.NewDataFetchError(SourceBybit, errors.Wrapf(err, "fetch klines for %s", req.Pair.String()))
	}
	if result == nil {
		return nil, domain.NewMalformedDataError(SourceBybit, "empty kline response for %s", req.Pair.String())
	}

	candles := make([]candle, len(result.Result.List))
	for i, k := range result.Result.List {
		openTime, err := parseTimestamp(k.StartTime)
		if err != nil {
			return nil, domain.NewMalformedDataError(SourceBybit, "kline %d: %v", i, err)
		}
		candles[i] = candle{OpenTime: openTime, Close: k.Close, Volume: k.Volume}
	}

	return candlesToPoints(SourceBybit, candles, req.Days)
}

// convertIntervalToBybit converts "1m", "4h", "1d" style intervals to the
// Bybit notation ("1", "240", "D").
func convertIntervalToBybit(interval string) (string, error) {
	if len(interval) < 2 {
		return "", fmt.Errorf("invalid interval format: %s", interval)
	}

	unit := interval[len(interval)-1]
	n, err := parseCount(interval[:len(interval)-1])
	if err != nil {
		return "", fmt.Errorf("invalid interval number: %s", interval)
	}

	switch unit {
	case 'm':
		return fmt.Sprintf("%d", n), nil
	case 'h':
		return fmt.Sprintf("%d", n*60), nil
	case 'd':
		return "D", nil
	case 'w':
		return "W", nil
	default:
		return "", fmt.Errorf("unsupported interval unit: %c", unit)
	}
}

func parseCount(s string) (int64, error) {
	if s == "" {
		return 0, errors.New("empty number")
	}
	var n int64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errors.Errorf("not a number: %s", s)
		}
		n = n*10 + int64(r-'0')
	}
	return n, nil
}

// parseTimestamp converts a Bybit millisecond timestamp string.
func parseTimestamp(ts string) (time.Time, error) {
	if ts == "" {
		return time.Time{}, errors.New("empty timestamp")
	}

	msec, err := parseCount(ts)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "failed to parse timestamp: %s", ts)
	}

	return time.UnixMilli(msec), nil
}
