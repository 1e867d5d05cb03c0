package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAction_String(t *testing.T) {
	assert.Equal(t, "LONG", ActionLong.String())
	assert.Equal(t, "SHORT", ActionShort.String())
	assert.Equal(t, "NEUTRAL", ActionNeutral.String())
	assert.Equal(t, "UNKNOWN", Action(42).String())
}

func TestAction_JSON(t *testing.T) {
	payload, err := json.Marshal(Signal{Pair: "ETH_USDT", Action: ActionShort})
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"action":"SHORT"`)

	var decoded Signal
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, ActionShort, decoded.Action)

	_, err = ParseAction("HOLD")
	assert.Error(t, err)
}

func TestParsePair(t *testing.T) {
	p, err := ParsePair("eth_usdt")
	require.NoError(t, err)
	assert.Equal(t, Pair{From: "ETH", To: "USDT"}, p)
	assert.Equal(t, "ETHUSDT", p.Symbol())
	assert.Equal(t, "ETH_USDT", p.String())

	for _, bad := range []string{"", "ETHUSDT", "ETH_", "A_B_C"} {
		_, err := ParsePair(bad)
		assert.Error(t, err, bad)
	}
}
