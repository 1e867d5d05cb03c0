package indicators

import (
	"fmt"
	"math"
	"strings"
)

// truncate kernel radius in standard deviations.
const truncate = 4.0

// Boundary how the filter reads samples beyond either end of the input.
type Boundary int

const (
	// BoundaryNearest repeats the edge sample (a a a | a b c d | d d d).
	BoundaryNearest Boundary = iota
	// BoundaryReflect mirrors around the edge, including it (b a | a b c d | d c).
	BoundaryReflect
)

// ParseBoundary maps "nearest" and "reflect" onto Boundary values.
func ParseBoundary(s string) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nearest", "edge":
		return BoundaryNearest, nil
	case "reflect":
		return BoundaryReflect, nil
	}
	return BoundaryNearest, fmt.Errorf("unknown smoothing boundary %q", s)
}

func (b Boundary) String() string {
	if b == BoundaryReflect {
		return "reflect"
	}
	return "nearest"
}

// GaussianKernel returns normalised weights for offsets -r..r where
// r = int(4*sigma + 0.5). A non-positive sigma yields the identity kernel.
func GaussianKernel(sigma float64) []float64 {
	if sigma <= 0 {
		return []float64{1}
	}
	radius := int(truncate*sigma + 0.5)
	weights := make([]float64, 2*radius+1)
	sum := 0.0
	for k := -radius; k <= radius; k++ {
		w := math.Exp(-0.5 * float64(k*k) / (sigma * sigma))
		weights[k+radius] = w
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// GaussianSmooth convolves values with a Gaussian kernel of standard
// deviation sigma. Weights are non-negative, so non-negative input stays
// non-negative.
//
// With BoundaryReflect the total is preserved. With BoundaryNearest the
// total may drift, but only through mass held within the kernel radius of
// either end; mass further inside is redistributed without loss.
func GaussianSmooth(values []float64, sigma float64, boundary Boundary) []float64 {
	out := make([]float64, len(values))
	n := len(values)
	if n == 0 {
		return out
	}

	weights := GaussianKernel(sigma)
	radius := len(weights) / 2
	for i := range values {
		acc := 0.0
		for k := -radius; k <= radius; k++ {
			acc += weights[k+radius] * values[sourceIndex(i+k, n, boundary)]
		}
		out[i] = acc
	}
	return out
}

func sourceIndex(i, n int, boundary Boundary) int {
	if i >= 0 && i < n {
		return i
	}
	if boundary == BoundaryReflect {
		period := 2 * n
		i = ((i % period) + period) % period
		if i >= n {
			i = period - i - 1
		}
		return i
	}
	if i < 0 {
		return 0
	}
	return n - 1
}
