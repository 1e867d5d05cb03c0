package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}

func TestGaussianKernel(t *testing.T) {
	k := GaussianKernel(2)
	require.Len(t, k, 17) // radius int(4*2+0.5) = 8
	assert.InDelta(t, 1.0, sum(k), 1e-12)
	assert.InDelta(t, k[0], k[16], 1e-15)
	assert.Greater(t, k[8], k[7])

	assert.Equal(t, []float64{1}, GaussianKernel(0))
}

func TestGaussianSmooth_NonNegative(t *testing.T) {
	in := []float64{0, 0, 5, 0, 0, 0, 3, 0, 0, 0, 0, 7}
	for _, b := range []Boundary{BoundaryNearest, BoundaryReflect} {
		out := GaussianSmooth(in, 2, b)
		require.Len(t, out, len(in))
		for i, v := range out {
			assert.GreaterOrEqual(t, v, 0.0, "%s index %d", b, i)
		}
	}
}

func TestGaussianSmooth_InteriorMassConserved(t *testing.T) {
	// radius 8, so bins 8..11 are far enough from both ends of 20 bins
	in := make([]float64, 20)
	in[9] = 4
	in[10] = 6

	out := GaussianSmooth(in, 2, BoundaryNearest)
	assert.InDelta(t, 10.0, sum(out), 1e-9)
	assert.Greater(t, out[9], out[0])
}

func TestGaussianSmooth_ReflectConservesTotal(t *testing.T) {
	in := []float64{9, 0, 1, 0, 0, 2, 0, 0, 0, 5}
	out := GaussianSmooth(in, 2, BoundaryReflect)
	assert.InDelta(t, sum(in), sum(out), 1e-9)
}

func TestGaussianSmooth_NearestEdgeLeakBounded(t *testing.T) {
	in := make([]float64, 20)
	in[0] = 10

	out := GaussianSmooth(in, 2, BoundaryNearest)
	// edge mass is over-counted by the clamped reads, never by more than the
	// kernel radius worth of copies
	assert.Greater(t, sum(out), 10.0)
	assert.Less(t, sum(out), 10.0*9)
}

func TestGaussianSmooth_ZeroSigmaIsIdentity(t *testing.T) {
	in := []float64{1, 2, 3}
	assert.Equal(t, in, GaussianSmooth(in, 0, BoundaryNearest))
	assert.Empty(t, GaussianSmooth(nil, 2, BoundaryNearest))
}

func TestParseBoundary(t *testing.T) {
	b, err := ParseBoundary("reflect")
	require.NoError(t, err)
	assert.Equal(t, BoundaryReflect, b)

	b, err = ParseBoundary("")
	require.NoError(t, err)
	assert.Equal(t, BoundaryNearest, b)

	_, err = ParseBoundary("wrap")
	assert.Error(t, err)
}
