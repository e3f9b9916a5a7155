// Package journal is the append-only record of every fill. The trading core
// only writes; the read side exists for reporting.
package journal

import (
	"context"
	"time"
)

// Record is one immutable fill entry.
type Record struct {
	ID          string
	Timestamp   time.Time
	Symbol      string
	Side        string // Buy or Sell, the exchange-side spelling
	Price       float64
	Quantity    float64
	Notional    float64
	RealizedPnL float64 // 0 for BUY
	Motive      string  // e.g. TAKE_PROFIT, TRAILING_STOP, MANUAL
}

// Repository is the append-only transaction sink. No update or delete
// operations exist.
type Repository interface {
	Init(ctx context.Context) error
	Append(ctx context.Context, rec Record) error
	List(ctx context.Context, limit int) ([]Record, error)
	Close() error
}
