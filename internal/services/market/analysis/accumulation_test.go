package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/obwatch/internal/domain"
)

func pricePoints(closes, volumes []float64) []domain.PricePoint {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]domain.PricePoint, len(closes))
	for i := range closes {
		points[i] = domain.PricePoint{
			Timestamp: start.AddDate(0, 0, i),
			Close:     closes[i],
			Volume:    volumes[i],
		}
	}
	return points
}

func TestNewAccumulationDetector(t *testing.T) {
	_, err := NewAccumulationDetector(0, 1.5)
	assert.Error(t, err)
	_, err = NewAccumulationDetector(15, 0)
	assert.Error(t, err)

	d, err := NewAccumulationDetector(DefaultRollingWindow, DefaultVolumeMultiplier)
	require.NoError(t, err)
	assert.Equal(t, 15, d.Window())
}

func TestDetect_SpikeInsideRange(t *testing.T) {
	closes := make([]float64, 20)
	volumes := make([]float64, 20)
	pattern := []float64{100, 102, 101}
	for i := range closes {
		closes[i] = pattern[i%3]
		volumes[i] = 10
	}
	volumes[17] = 100

	d, err := NewAccumulationDetector(15, 1.5)
	require.NoError(t, err)

	s, err := d.Detect(pricePoints(closes, volumes))
	require.NoError(t, err)
	require.Equal(t, 20, s.Len())

	for i := 0; i < 14; i++ {
		assert.False(t, s.Support[i].Defined, "support %d", i)
		assert.False(t, s.Resistance[i].Defined, "resistance %d", i)
		assert.False(t, s.AvgVolume[i].Defined, "avg volume %d", i)
		assert.Equal(t, domain.FlagUndefined, s.Accumulation[i], "accumulation %d", i)
	}
	for i := 14; i < 20; i++ {
		want := domain.FlagOf(i == 17)
		assert.Equal(t, want, s.Accumulation[i], "accumulation %d", i)
	}

	assert.Equal(t, []int{17}, s.AccumulationIndices())
	assert.InDelta(t, 16.0, s.AvgVolume[17].Value, 1e-9)
	assert.False(t, s.LatestAccumulation())
}

func TestDetect_LatestAccumulation(t *testing.T) {
	closes := []float64{10, 12, 11, 13, 11}
	volumes := []float64{1, 1, 1, 1, 5}

	d, err := NewAccumulationDetector(3, 1.5)
	require.NoError(t, err)

	s, err := d.Detect(pricePoints(closes, volumes))
	require.NoError(t, err)

	// window {11,13,11}: close sits on support, not strictly inside
	assert.Equal(t, domain.FlagFalse, s.Sideways[4])
	assert.Equal(t, domain.FlagTrue, s.HighVolume[4])
	assert.False(t, s.LatestAccumulation())

	closes[4] = 12
	s, err = d.Detect(pricePoints(closes, volumes))
	require.NoError(t, err)
	assert.Equal(t, domain.FlagTrue, s.Sideways[4])
	assert.True(t, s.LatestAccumulation())
}

func TestDetect_FlatPriceNeverSideways(t *testing.T) {
	closes := make([]float64, 5)
	volumes := []float64{1, 1, 1, 1, 50}
	for i := range closes {
		closes[i] = 42
	}

	d, err := NewAccumulationDetector(3, 1.5)
	require.NoError(t, err)

	s, err := d.Detect(pricePoints(closes, volumes))
	require.NoError(t, err)
	assert.Equal(t, domain.FlagTrue, s.HighVolume[4])
	assert.Equal(t, domain.FlagFalse, s.Accumulation[4])
}

func TestDetect_Invariants(t *testing.T) {
	closes := []float64{5, 3, 4, 8, 1, 2, 7, 7, 6, 9}
	volumes := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3}

	d, err := NewAccumulationDetector(4, 1.5)
	require.NoError(t, err)
	s, err := d.Detect(pricePoints(closes, volumes))
	require.NoError(t, err)

	for i := 3; i < len(closes); i++ {
		assert.LessOrEqual(t, s.Support[i].Value, closes[i])
		assert.GreaterOrEqual(t, s.Resistance[i].Value, closes[i])
		if s.Accumulation[i].True() {
			assert.True(t, s.Sideways[i].True())
			assert.True(t, s.HighVolume[i].True())
		}
	}
}

func TestDetect_Errors(t *testing.T) {
	d, err := NewAccumulationDetector(15, 1.5)
	require.NoError(t, err)

	t.Run("short series", func(t *testing.T) {
		_, err := d.Detect(pricePoints([]float64{1, 2, 3}, []float64{1, 1, 1}))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInsufficientHistory)

		var target *domain.InsufficientHistoryError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, 3, target.Have)
		assert.Equal(t, 15, target.Need)
	})

	t.Run("bad close", func(t *testing.T) {
		closes := make([]float64, 15)
		volumes := make([]float64, 15)
		for i := range closes {
			closes[i] = 1
		}
		closes[7] = -1
		_, err := d.Detect(pricePoints(closes, volumes))
		assert.ErrorIs(t, err, domain.ErrMalformedData)
	})
}
