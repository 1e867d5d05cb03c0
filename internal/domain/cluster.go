package domain

// ClusterHistogram bid and ask volume bucketed over a shared price grid.
// BidVolumes and AskVolumes are smoothed; the Raw slices hold the exact
// per-bin sums before smoothing.
type ClusterHistogram struct {
	Edges         []float64
	BidVolumes    []float64
	AskVolumes    []float64
	RawBidVolumes []float64
	RawAskVolumes []float64
}

// NumBins returns the number of buckets.
func (h *ClusterHistogram) NumBins() int {
	if h == nil || len(h.Edges) == 0 {
		return 0
	}
	return len(h.Edges) - 1
}

// BinCenter returns the mid price of bucket i.
func (h *ClusterHistogram) BinCenter(i int) float64 {
	return (h.Edges[i] + h.Edges[i+1]) / 2
}

// Balance percentage split of smoothed bid and ask volume.
type Balance struct {
	BidPct float64 `json:"bid_pct"`
	AskPct float64 `json:"ask_pct"`
}
