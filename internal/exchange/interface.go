package exchange

import "context"

// Side is the direction of a market order.
type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

// Fill is the result of a submitted market order.
type Fill struct {
	Price    float64
	Quantity float64
	Status   string
}

// SymbolFilters holds the order constraints the exchange enforces for a
// trading pair.
type SymbolFilters struct {
	StepSize    float64 // Minimum quantity increment
	MinNotional float64 // Minimum order value in quote currency
}

// Exchange is the market-access capability the trading core consumes. All
// calls may block on the network; callers bound them with a context timeout.
type Exchange interface {
	GetName() string

	// Market data
	GetCurrentPrice(ctx context.Context, symbol string) (float64, error)
	GetRecentCloses(ctx context.Context, symbol, interval string, limit int) ([]float64, error)
	GetSymbolFilters(ctx context.Context, symbol string) (SymbolFilters, error)

	// Account
	GetAssetBalance(ctx context.Context, asset string) (float64, error)

	// Trading
	PlaceMarketOrder(ctx context.Context, symbol string, side Side, quantity float64) (*Fill, error)
}
