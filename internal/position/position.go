// Package position holds the open-position records and their durable store.
package position

import "time"

// Position tracks one open spot trade. A symbol maps to at most one Position
// at a time; the record is created on a filled buy and removed from the store
// when its full quantity is sold.
type Position struct {
	Symbol       string  `json:"symbol"`
	EntryPrice   float64 `json:"entry_price"`
	BaseQuantity float64 `json:"base_quantity"`

	// PeakPrice is the highest price seen since entry; never below EntryPrice.
	PeakPrice float64 `json:"peak_price"`

	// FixedStopLevel only ever moves up after creation (breakeven ratchet).
	FixedStopLevel   float64 `json:"fixed_stop_level"`
	BreakevenApplied bool    `json:"breakeven_applied"`

	OpenedAt time.Time `json:"opened_at"`
}

// New creates a Position from a filled buy order.
func New(symbol string, entryPrice, quantity, stopLossFrac float64) *Position {
	return &Position{
		Symbol:         symbol,
		EntryPrice:     entryPrice,
		BaseQuantity:   quantity,
		PeakPrice:      entryPrice,
		FixedStopLevel: entryPrice * (1 - stopLossFrac),
		OpenedAt:       time.Now().UTC(),
	}
}

// Backfill defaults optional fields absent from older persisted records.
func (p *Position) Backfill(defaultStopFrac float64) {
	if p.PeakPrice < p.EntryPrice {
		p.PeakPrice = p.EntryPrice
	}
	if p.FixedStopLevel <= 0 {
		p.FixedStopLevel = p.EntryPrice * (1 - defaultStopFrac)
	}
}

// UnrealizedPnL returns the open profit at the given price.
func (p *Position) UnrealizedPnL(currentPrice float64) float64 {
	return (currentPrice - p.EntryPrice) * p.BaseQuantity
}
