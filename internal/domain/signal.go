package domain

import "time"

// Signal result of one evaluation tick.
type Signal struct {
	TickID         string    `json:"tick_id"`
	Pair           string    `json:"pair"`
	CurrentPrice   float64   `json:"current_price"`
	BidPct         float64   `json:"bid_pct"`
	AskPct         float64   `json:"ask_pct"`
	IsAccumulating bool      `json:"is_accumulating"`
	Action         Action    `json:"action"`
	HistoryAsOf    time.Time `json:"history_as_of"`
	EvaluatedAt    time.Time `json:"evaluated_at"`
}
