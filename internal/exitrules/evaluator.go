// Package exitrules evaluates the per-position exit state machine once per
// trading cycle.
package exitrules

import (
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/position"
)

// Reason identifies why a position is being closed.
type Reason string

const (
	ReasonTakeProfit   Reason = "TAKE_PROFIT"
	ReasonStopLoss     Reason = "STOP_LOSS"
	ReasonTrailingStop Reason = "TRAILING_STOP"
	ReasonManual       Reason = "MANUAL"
	ReasonDesync       Reason = "BALANCE_DESYNC"
)

// Params holds the exit thresholds, all expressed as fractions. A zero
// BreakevenTriggerPct disables the breakeven ratchet entirely; a ratchet
// firing at the entry price itself would pin the stop to entry on the first
// cycle and scratch every position on noise.
type Params struct {
	TakeProfitPct       float64
	StopLossPct         float64
	TrailingStopPct     float64
	BreakevenTriggerPct float64
}

// Decision is the at-most-one exit signal produced per cycle. Quantity is the
// full tracked base quantity; the caller re-validates it against the live
// exchange balance before submission.
type Decision struct {
	Quantity float64
	Reason   Reason
}

// Evaluate runs one cycle of the exit state machine against the current
// price. It mutates the position's peak price and breakeven ratchet in place
// and reports whether anything changed, so the caller can schedule a
// debounced save. The rules fire in fixed priority order: take-profit, then
// fixed stop, then trailing stop. Returns nil when the position should be
// held.
func Evaluate(pos *position.Position, currentPrice float64, params Params) (*Decision, bool) {
	changed := false

	// 1. Peak high-water mark
	if currentPrice > pos.PeakPrice {
		pos.PeakPrice = currentPrice
		changed = true
	}

	// 2. Breakeven ratchet: one-way, never reverts even if price falls back
	if !pos.BreakevenApplied && params.BreakevenTriggerPct > 0 &&
		currentPrice >= pos.EntryPrice*(1+params.BreakevenTriggerPct) {
		if pos.EntryPrice > pos.FixedStopLevel {
			pos.FixedStopLevel = pos.EntryPrice
		}
		pos.BreakevenApplied = true
		changed = true
	}

	// 3. Threshold levels for this cycle
	takeProfitLevel := pos.EntryPrice * (1 + params.TakeProfitPct)
	trailingLevel := pos.PeakPrice * (1 - params.TrailingStopPct)

	// 4. First matching rule wins
	switch {
	case currentPrice >= takeProfitLevel:
		return &Decision{Quantity: pos.BaseQuantity, Reason: ReasonTakeProfit}, changed
	case currentPrice <= pos.FixedStopLevel:
		return &Decision{Quantity: pos.BaseQuantity, Reason: ReasonStopLoss}, changed
	case currentPrice <= trailingLevel && currentPrice > pos.EntryPrice:
		// The strict > entry guard keeps the trailing rule from closing at a
		// loss; it only protects gains already made
		return &Decision{Quantity: pos.BaseQuantity, Reason: ReasonTrailingStop}, changed
	}

	return nil, changed
}
