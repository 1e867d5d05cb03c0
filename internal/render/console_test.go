package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/obwatch/internal/domain"
)

func TestConsole_Format(t *testing.T) {
	tests := []struct {
		name string
		sig  domain.Signal
		want []string
	}{
		{
			name: "long",
			sig:  domain.Signal{Pair: "ETH_USDT", CurrentPrice: 101, BidPct: 80, AskPct: 20, Action: domain.ActionLong},
			want: []string{"Current Price:", "101.00", "80.00% | 20.00%", "LONG"},
		},
		{
			name: "neutral while accumulating",
			sig:  domain.Signal{Pair: "ETH_USDT", CurrentPrice: 3021.456, BidPct: 45, AskPct: 55, IsAccumulating: true},
			want: []string{"3021.46", "45.00% | 55.00%", "Accumulating:", "yes", "NEUTRAL"},
		},
	}
	c := NewConsole(&bytes.Buffer{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := c.Format(tt.sig)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestConsole_Run(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	ch := make(chan domain.Signal, 2)
	ch <- domain.Signal{Pair: "ETH_USDT", Action: domain.ActionShort}
	ch <- domain.Signal{Pair: "ETH_USDT", Action: domain.ActionLong}
	close(ch)

	require.NoError(t, c.Run(context.Background(), ch))
	assert.Contains(t, buf.String(), "SHORT")
	assert.Contains(t, buf.String(), "LONG")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.Run(ctx, make(chan domain.Signal)), context.Canceled)
}
