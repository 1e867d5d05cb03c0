package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/obwatch/internal/domain"
)

func TestVolumeBalance(t *testing.T) {
	tests := []struct {
		name    string
		bids    []float64
		asks    []float64
		wantBid float64
		wantAsk float64
	}{
		{"even", []float64{1, 1}, []float64{2, 0}, 50, 50},
		{"bid heavy", []float64{3, 0}, []float64{0, 1}, 75, 25},
		{"no asks", []float64{1}, []float64{0}, 100, 0},
		{"empty book", []float64{0, 0}, []float64{0, 0}, 0, 0},
		{"below epsilon", []float64{1e-14}, []float64{1e-14}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := VolumeBalance(&domain.ClusterHistogram{BidVolumes: tt.bids, AskVolumes: tt.asks})
			require.NoError(t, err)
			assert.InDelta(t, tt.wantBid, b.BidPct, 1e-9)
			assert.InDelta(t, tt.wantAsk, b.AskPct, 1e-9)
			if tt.wantBid+tt.wantAsk > 0 {
				assert.InDelta(t, 100.0, b.BidPct+b.AskPct, 1e-9)
			}
		})
	}
}

func TestVolumeBalance_NilHistogram(t *testing.T) {
	_, err := VolumeBalance(nil)
	assert.Error(t, err)
}
