// Package strategy turns accumulation state and order book balance into a
// trading action.
package strategy

import "github.com/vadiminshakov/obwatch/internal/domain"

// DefaultActionThreshold minimum lead, in percentage points, one side of the
// book must hold over the other before a directional signal is emitted.
const DefaultActionThreshold = 10.0

// Decide maps the accumulation flag and book balance to an action.
//
// LONG needs an accumulation phase and bids leading asks by more than
// threshold. SHORT needs no accumulation and asks leading bids by more than
// threshold. Everything else, including a bid-heavy book outside
// accumulation, is NEUTRAL.
func Decide(isAccumulating bool, bidPct, askPct, threshold float64) domain.Action {
	switch {
	case isAccumulating && bidPct > askPct+threshold:
		return domain.ActionLong
	case !isAccumulating && askPct > bidPct+threshold:
		return domain.ActionShort
	default:
		return domain.ActionNeutral
	}
}
