package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/obwatch/internal/domain"
)

func values(levels []domain.Level) []float64 {
	out := make([]float64, 0, len(levels))
	for _, l := range levels {
		if l.Defined {
			out = append(out, l.Value)
		}
	}
	return out
}

func TestRollingMinMax(t *testing.T) {
	closes := []float64{5, 3, 4, 8, 1, 2}

	mins, err := RollingMin(closes, 3)
	require.NoError(t, err)
	maxs, err := RollingMax(closes, 3)
	require.NoError(t, err)

	require.Len(t, mins, len(closes))
	require.Len(t, maxs, len(closes))
	assert.False(t, mins[0].Defined)
	assert.False(t, mins[1].Defined)
	assert.False(t, maxs[1].Defined)
	assert.Equal(t, []float64{3, 3, 1, 1}, values(mins))
	assert.Equal(t, []float64{5, 8, 8, 8}, values(maxs))
}

func TestRollingMean(t *testing.T) {
	vols := []float64{1, 2, 3, 4, 5}

	means, err := RollingMean(vols, 2)
	require.NoError(t, err)

	assert.False(t, means[0].Defined)
	assert.InDeltaSlice(t, []float64{1.5, 2.5, 3.5, 4.5}, values(means), 1e-12)
}

func TestRollingWindowEqualsLength(t *testing.T) {
	closes := []float64{2, 9, 4}

	mins, err := RollingMin(closes, 3)
	require.NoError(t, err)
	maxs, err := RollingMax(closes, 3)
	require.NoError(t, err)

	assert.Equal(t, []float64{2}, values(mins))
	assert.Equal(t, []float64{9}, values(maxs))
	assert.True(t, mins[2].Defined)
}

func TestRollingErrors(t *testing.T) {
	_, err := RollingMin([]float64{1, 2}, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientHistory)

	_, err = RollingMean([]float64{1, 2}, 0)
	assert.Error(t, err)

	_, err = RollingMax(nil, 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientHistory)
}
