package analysis

import (
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/obwatch/internal/domain"
)

// balanceEpsilon total volume at or below which the book is treated as empty.
const balanceEpsilon = 1e-12

// VolumeBalance returns the share of smoothed bid and ask volume in percent.
// An empty book yields 0/0 rather than an error.
func VolumeBalance(h *domain.ClusterHistogram) (domain.Balance, error) {
	if h == nil {
		return domain.Balance{}, errors.New("nil histogram")
	}

	bids, err := total(h.BidVolumes)
	if err != nil {
		return domain.Balance{}, errors.Wrap(err, "sum bid volume")
	}
	asks, err := total(h.AskVolumes)
	if err != nil {
		return domain.Balance{}, errors.Wrap(err, "sum ask volume")
	}

	all := bids + asks
	if all <= balanceEpsilon {
		return domain.Balance{}, nil
	}

	bidPct := bids / all * 100
	return domain.Balance{BidPct: bidPct, AskPct: 100 - bidPct}, nil
}

func total(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, nil
	}
	return stats.Sum(xs)
}
