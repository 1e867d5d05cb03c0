package domain

import (
	"math"
	"time"
)

// PricePoint one sample of the historical series.
type PricePoint struct {
	Timestamp time.Time
	Close     float64
	Volume    float64
}

// HistoryRequest identifies the series a history feed should return.
// Feeds use the fields they understand: CoinGecko reads AssetID and Currency,
// exchanges read Pair.
type HistoryRequest struct {
	AssetID  string
	Currency string
	Pair     Pair
	Days     int
}

// Level rolling statistic that is undefined until the window is full.
type Level struct {
	Value   float64
	Defined bool
}

// DefinedLevel returns a defined Level holding v.
func DefinedLevel(v float64) Level {
	return Level{Value: v, Defined: true}
}

// Flag boolean rule outcome with an explicit undefined state.
type Flag uint8

const (
	FlagUndefined Flag = iota
	FlagFalse
	FlagTrue
)

// FlagOf converts b into a defined Flag.
func FlagOf(b bool) Flag {
	if b {
		return FlagTrue
	}
	return FlagFalse
}

// True reports whether the flag is defined and set. Undefined reads as false.
func (f Flag) True() bool { return f == FlagTrue }

// Defined reports whether the rule could be evaluated.
func (f Flag) Defined() bool { return f != FlagUndefined }

func (f Flag) String() string {
	switch f {
	case FlagTrue:
		return "true"
	case FlagFalse:
		return "false"
	default:
		return "undefined"
	}
}

// HistoricalSeries price points with the rolling support, resistance and
// volume statistics derived from them. Built once per history refresh and
// never modified afterwards.
type HistoricalSeries struct {
	Points     []PricePoint
	Window     int
	Multiplier float64

	Support    []Level
	Resistance []Level
	AvgVolume  []Level

	Sideways     []Flag
	HighVolume   []Flag
	Accumulation []Flag
}

// Len returns the number of points.
func (s *HistoricalSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// LatestAccumulation returns the accumulation flag at the last index.
func (s *HistoricalSeries) LatestAccumulation() bool {
	if s.Len() == 0 {
		return false
	}
	return s.Accumulation[len(s.Accumulation)-1].True()
}

// LatestPoint returns the most recent price point.
func (s *HistoricalSeries) LatestPoint() (PricePoint, bool) {
	if s.Len() == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// AccumulationIndices lists indices where accumulation holds.
func (s *HistoricalSeries) AccumulationIndices() []int {
	if s == nil {
		return nil
	}
	var out []int
	for i, f := range s.Accumulation {
		if f.True() {
			out = append(out, i)
		}
	}
	return out
}

// ValidatePricePoints rejects non-positive or non-finite closes, negative
// volumes and timestamps that are not strictly ascending.
func ValidatePricePoints(source string, points []PricePoint) error {
	for i, p := range points {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) || p.Close <= 0 {
			return NewMalformedDataError(source, "close at index %d must be positive, got %v", i, p.Close)
		}
		if math.IsNaN(p.Volume) || math.IsInf(p.Volume, 0) || p.Volume < 0 {
			return NewMalformedDataError(source, "volume at index %d must be non-negative, got %v", i, p.Volume)
		}
		if i > 0 && !p.Timestamp.After(points[i-1].Timestamp) {
			return NewMalformedDataError(source, "timestamps not ascending at index %d", i)
		}
	}
	return nil
}
