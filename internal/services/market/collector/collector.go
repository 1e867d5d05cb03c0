// Package collector provides history feeds: daily close and volume series
// pulled from CoinGecko or an exchange's kline endpoint.
package collector

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/obwatch/internal/domain"
)

const (
	SourceCoinGecko   = "coingecko"
	SourceBinance     = "binance"
	SourceBybit       = "bybit"
	SourceHyperliquid = "hyperliquid"
)

// candle raw exchange kline reduced to the fields the series needs.
type candle struct {
	OpenTime time.Time
	Close    string
	Volume   string
}

// candlesToPoints parses exchange numeric strings into price points sorted by
// open time and keeps at most the last limit of them.
func candlesToPoints(source string, candles []candle, limit int) ([]domain.PricePoint, error) {
	if len(candles) == 0 {
		return nil, domain.NewMalformedDataError(source, "no candles returned")
	}

	points := make([]domain.PricePoint, len(candles))
	for i, c := range candles {
		closePrice, err := decimal.NewFromString(c.Close)
		if err != nil {
			return nil, domain.NewMalformedDataError(source, "parse close at index %d: %v", i, err)
		}
		volume, err := decimal.NewFromString(c.Volume)
		if err != nil {
			return nil, domain.NewMalformedDataError(source, "parse volume at index %d: %v", i, err)
		}
		points[i] = domain.PricePoint{
			Timestamp: c.OpenTime.UTC(),
			Close:     closePrice.InexactFloat64(),
			Volume:    volume.InexactFloat64(),
		}
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Timestamp.Before(points[j].Timestamp) })

	if limit > 0 && len(points) > limit {
		points = points[len(points)-limit:]
	}

	if err := domain.ValidatePricePoints(source, points); err != nil {
		return nil, err
	}
	return points, nil
}
