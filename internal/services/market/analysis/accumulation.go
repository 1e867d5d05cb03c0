// Package analysis turns market data into the statistics the decision
// strategy consumes: accumulation phases from price history, liquidity
// clusters and volume balance from the order book.
package analysis

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/obwatch/internal/domain"
	"github.com/vadiminshakov/obwatch/pkg/indicators"
)

const (
	DefaultRollingWindow    = 15
	DefaultVolumeMultiplier = 1.5
)

// AccumulationDetector flags points where price trades strictly inside its
// trailing range while volume runs above a multiple of its trailing mean.
type AccumulationDetector struct {
	window     int
	multiplier float64
}

// NewAccumulationDetector creates a detector over a trailing window of
// window points.
func NewAccumulationDetector(window int, multiplier float64) (*AccumulationDetector, error) {
	if window <= 0 {
		return nil, fmt.Errorf("rolling window must be positive, got %d", window)
	}
	if multiplier <= 0 {
		return nil, fmt.Errorf("volume multiplier must be positive, got %v", multiplier)
	}
	return &AccumulationDetector{window: window, multiplier: multiplier}, nil
}

// Window returns the trailing window size.
func (d *AccumulationDetector) Window() int { return d.window }

// Detect builds the full series. Fewer points than the window is an
// InsufficientHistoryError. The first window-1 entries of every derived
// column stay undefined.
func (d *AccumulationDetector) Detect(points []domain.PricePoint) (*domain.HistoricalSeries, error) {
	if err := domain.ValidatePricePoints("history", points); err != nil {
		return nil, err
	}
	n := len(points)
	if n < d.window {
		return nil, &domain.InsufficientHistoryError{Have: n, Need: d.window}
	}

	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, p := range points {
		closes[i] = p.Close
		volumes[i] = p.Volume
	}

	support, err := indicators.RollingMin(closes, d.window)
	if err != nil {
		return nil, errors.Wrap(err, "support level")
	}
	resistance, err := indicators.RollingMax(closes, d.window)
	if err != nil {
		return nil, errors.Wrap(err, "resistance level")
	}
	avgVolume, err := indicators.RollingMean(volumes, d.window)
	if err != nil {
		return nil, errors.Wrap(err, "average volume")
	}

	series := &domain.HistoricalSeries{
		Points:       append([]domain.PricePoint(nil), points...),
		Window:       d.window,
		Multiplier:   d.multiplier,
		Support:      support,
		Resistance:   resistance,
		AvgVolume:    avgVolume,
		Sideways:     make([]domain.Flag, n),
		HighVolume:   make([]domain.Flag, n),
		Accumulation: make([]domain.Flag, n),
	}

	for i := range points {
		series.Sideways[i] = sideways(closes[i], support[i], resistance[i])
		series.HighVolume[i] = highVolume(volumes[i], avgVolume[i], d.multiplier)
		series.Accumulation[i] = both(series.Sideways[i], series.HighVolume[i])
	}

	return series, nil
}

func sideways(close float64, support, resistance domain.Level) domain.Flag {
	if !support.Defined || !resistance.Defined {
		return domain.FlagUndefined
	}
	return domain.FlagOf(support.Value < close && close < resistance.Value)
}

func highVolume(volume float64, avg domain.Level, multiplier float64) domain.Flag {
	if !avg.Defined {
		return domain.FlagUndefined
	}
	return domain.FlagOf(volume > avg.Value*multiplier)
}

func both(a, b domain.Flag) domain.Flag {
	if !a.Defined() || !b.Defined() {
		return domain.FlagUndefined
	}
	return domain.FlagOf(a.True() && b.True())
}
