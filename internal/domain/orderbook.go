package domain

import (
	"math"
	"sort"
	"time"
)

// OrderBookLevel single price level of resting volume.
type OrderBookLevel struct {
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`
}

// OrderBookSnapshot live bids (descending) and asks (ascending) for a pair.
type OrderBookSnapshot struct {
	Pair      Pair
	Bids      []OrderBookLevel
	Asks      []OrderBookLevel
	FetchedAt time.Time
}

// NewOrderBookSnapshot validates both sides and returns a snapshot holding
// sorted copies of them.
func NewOrderBookSnapshot(pair Pair, bids, asks []OrderBookLevel, fetchedAt time.Time) (OrderBookSnapshot, error) {
	s := OrderBookSnapshot{
		Pair:      pair,
		Bids:      append([]OrderBookLevel(nil), bids...),
		Asks:      append([]OrderBookLevel(nil), asks...),
		FetchedAt: fetchedAt,
	}
	if err := s.Validate(); err != nil {
		return OrderBookSnapshot{}, err
	}
	sort.SliceStable(s.Bids, func(i, j int) bool { return s.Bids[i].Price > s.Bids[j].Price })
	sort.SliceStable(s.Asks, func(i, j int) bool { return s.Asks[i].Price < s.Asks[j].Price })
	return s, nil
}

// Validate checks that both sides are non-empty and every level is sane.
func (s OrderBookSnapshot) Validate() error {
	if len(s.Bids) == 0 {
		return NewDegenerateInputError("order book for %s has no bids", s.Pair.String())
	}
	if len(s.Asks) == 0 {
		return NewDegenerateInputError("order book for %s has no asks", s.Pair.String())
	}
	if err := validateLevels("bids", s.Bids); err != nil {
		return err
	}
	return validateLevels("asks", s.Asks)
}

func validateLevels(side string, levels []OrderBookLevel) error {
	for i, l := range levels {
		if math.IsNaN(l.Price) || math.IsInf(l.Price, 0) || l.Price <= 0 {
			return NewMalformedDataError("order book", "%s price at level %d must be positive, got %v", side, i, l.Price)
		}
		if math.IsNaN(l.Volume) || math.IsInf(l.Volume, 0) || l.Volume < 0 {
			return NewMalformedDataError("order book", "%s volume at level %d must be non-negative, got %v", side, i, l.Volume)
		}
	}
	return nil
}

// CurrentPrice returns the best (lowest) ask price.
func (s OrderBookSnapshot) CurrentPrice() float64 {
	best := math.Inf(1)
	for _, a := range s.Asks {
		best = math.Min(best, a.Price)
	}
	if math.IsInf(best, 1) {
		return 0
	}
	return best
}

// PriceRange returns the lowest and highest price across both sides.
func (s OrderBookSnapshot) PriceRange() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, side := range [][]OrderBookLevel{s.Bids, s.Asks} {
		for _, l := range side {
			lo = math.Min(lo, l.Price)
			hi = math.Max(hi, l.Price)
		}
	}
	return lo, hi
}
