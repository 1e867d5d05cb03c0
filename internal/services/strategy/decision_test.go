package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vadiminshakov/obwatch/internal/domain"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name         string
		accumulating bool
		bidPct       float64
		askPct       float64
		want         domain.Action
	}{
		{"accumulating bid heavy", true, 60, 40, domain.ActionLong},
		{"not accumulating ask heavy", false, 40, 60, domain.ActionShort},
		{"accumulating ask heavy", true, 40, 60, domain.ActionNeutral},
		{"not accumulating bid heavy", false, 60, 40, domain.ActionNeutral},
		{"accumulating lead at threshold", true, 55, 45, domain.ActionNeutral},
		{"ask lead at threshold", false, 45, 55, domain.ActionNeutral},
		{"accumulating lead just above threshold", true, 55.01, 44.99, domain.ActionLong},
		{"empty book", false, 0, 0, domain.ActionNeutral},
		{"empty book accumulating", true, 0, 0, domain.ActionNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.accumulating, tt.bidPct, tt.askPct, DefaultActionThreshold))
		})
	}
}

func TestDecide_CustomThreshold(t *testing.T) {
	assert.Equal(t, domain.ActionLong, Decide(true, 52, 48, 1))
	assert.Equal(t, domain.ActionNeutral, Decide(true, 52, 48, 5))
	assert.Equal(t, domain.ActionShort, Decide(false, 30, 70, 39))
}
