package collector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertIntervalToBybit(t *testing.T) {
	tests := []struct {
		input     string
		expected  string
		shouldErr bool
	}{
		{input: "1m", expected: "1"},
		{input: "15m", expected: "15"},
		{input: "1h", expected: "60"},
		{input: "4h", expected: "240"},
		{input: "1d", expected: "D"},
		{input: "1w", expected: "W"},
		{input: "", shouldErr: true},
		{input: "1", shouldErr: true},
		{input: "1x", shouldErr: true},
		{input: "m", shouldErr: true},
		{input: "xh", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := convertIntervalToBybit(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	ts, err := parseTimestamp("1672531200000")
	require.NoError(t, err)
	assert.True(t, ts.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))

	_, err = parseTimestamp("")
	assert.Error(t, err)
	_, err = parseTimestamp("abc")
	assert.Error(t, err)
}
