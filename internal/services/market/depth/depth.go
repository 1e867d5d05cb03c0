// Package depth provides order book feeds for the supported exchanges.
package depth

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/obwatch/internal/domain"
)

const (
	SourceBinance = "binance"
	SourceBybit   = "bybit"

	DefaultLimit = 100
)

// level raw price/quantity strings as returned by an exchange.
type level struct {
	Price    string
	Quantity string
}

// buildSnapshot parses both sides and returns a validated snapshot with bids
// sorted descending and asks ascending.
func buildSnapshot(source string, pair domain.Pair, bids, asks []level, at time.Time) (domain.OrderBookSnapshot, error) {
	parsedBids, err := parseLevels(source, "bid", bids)
	if err != nil {
		return domain.OrderBookSnapshot{}, err
	}
	parsedAsks, err := parseLevels(source, "ask", asks)
	if err != nil {
		return domain.OrderBookSnapshot{}, err
	}
	return domain.NewOrderBookSnapshot(pair, parsedBids, parsedAsks, at)
}

func parseLevels(source, side string, levels []level) ([]domain.OrderBookLevel, error) {
	out := make([]domain.OrderBookLevel, len(levels))
	for i, l := range levels {
		price, err := decimal.NewFromString(l.Price)
		if err != nil {
			return nil, domain.NewMalformedDataError(source, "%s price at level %d: %v", side, i, err)
		}
		qty, err := decimal.NewFromString(l.Quantity)
		if err != nil {
			return nil, domain.NewMalformedDataError(source, "%s quantity at level %d: %v", side, i, err)
		}
		out[i] = domain.OrderBookLevel{Price: price.InexactFloat64(), Volume: qty.InexactFloat64()}
	}
	return out, nil
}
