package analysis

import (
	"fmt"
	"sort"

	"github.com/vadiminshakov/obwatch/internal/domain"
	"github.com/vadiminshakov/obwatch/pkg/indicators"
)

const (
	DefaultNumBins        = 100
	DefaultSmoothingSigma = 2.0
)

// ClusterAnalyzer buckets order book volume into a shared price grid and
// smooths each side with a gaussian filter.
type ClusterAnalyzer struct {
	numBins  int
	sigma    float64
	boundary indicators.Boundary
}

// NewClusterAnalyzer creates an analyzer producing numBins buckets.
func NewClusterAnalyzer(numBins int, sigma float64, boundary indicators.Boundary) (*ClusterAnalyzer, error) {
	if numBins <= 0 {
		return nil, fmt.Errorf("number of bins must be positive, got %d", numBins)
	}
	if sigma < 0 {
		return nil, fmt.Errorf("smoothing sigma must be non-negative, got %v", sigma)
	}
	return &ClusterAnalyzer{numBins: numBins, sigma: sigma, boundary: boundary}, nil
}

// Analyze builds the bid and ask histograms for snapshot. Both sides share
// the grid spanning the lowest to the highest price of the whole book.
func (a *ClusterAnalyzer) Analyze(snapshot domain.OrderBookSnapshot) (*domain.ClusterHistogram, error) {
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	lo, hi := snapshot.PriceRange()
	if lo == hi {
		return nil, domain.NewDegenerateInputError("order book for %s spans a single price %v", snapshot.Pair.String(), lo)
	}

	edges := linspace(lo, hi, a.numBins+1)
	rawBids := bucket(snapshot.Bids, edges)
	rawAsks := bucket(snapshot.Asks, edges)

	return &domain.ClusterHistogram{
		Edges:         edges,
		BidVolumes:    indicators.GaussianSmooth(rawBids, a.sigma, a.boundary),
		AskVolumes:    indicators.GaussianSmooth(rawAsks, a.sigma, a.boundary),
		RawBidVolumes: rawBids,
		RawAskVolumes: rawAsks,
	}, nil
}

// linspace returns n evenly spaced values from lo to hi with the last one
// pinned to hi.
func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// bucket sums level volumes into bins [e_k, e_k+1). The last bin is closed
// on both ends so the highest price is counted.
func bucket(levels []domain.OrderBookLevel, edges []float64) []float64 {
	bins := make([]float64, len(edges)-1)
	for _, l := range levels {
		if k := binIndex(l.Price, edges); k >= 0 {
			bins[k] += l.Volume
		}
	}
	return bins
}

func binIndex(price float64, edges []float64) int {
	last := len(edges) - 1
	if price < edges[0] || price > edges[last] {
		return -1
	}
	if price == edges[last] {
		return last - 1
	}
	return sort.Search(len(edges), func(i int) bool { return edges[i] > price }) - 1
}
