package indicators

import "errors"

// ErrInsufficientData signals that a series is too short for the requested
// period. Callers skip the symbol for the cycle; this is not a failure.
var ErrInsufficientData = errors.New("insufficient data for indicator calculation")

// EMA represents the Exponential Moving Average technical indicator
type EMA struct {
	period int
	alpha  float64
}

// NewEMA creates a new EMA indicator
func NewEMA(period int) *EMA {
	return &EMA{
		period: period,
		alpha:  2.0 / float64(period+1), // Standard EMA alpha calculation
	}
}

// Calculate computes the EMA over the full close series, oldest first.
// The first EMA value is seeded with the SMA of the first 'period' closes,
// then each subsequent close is folded in with the standard smoothing step.
// Returns ErrInsufficientData when the series is shorter than the period.
func (e *EMA) Calculate(closes []float64) (float64, error) {
	if len(closes) < e.period {
		return 0, ErrInsufficientData
	}

	sum := 0.0
	for i := 0; i < e.period; i++ {
		sum += closes[i]
	}
	ema := sum / float64(e.period)

	for i := e.period; i < len(closes); i++ {
		ema = (closes[i]-ema)*e.alpha + ema
	}

	return ema, nil
}

// GetName returns the indicator name
func (e *EMA) GetName() string {
	return "EMA"
}

// GetRequiredPeriods returns the minimum number of closes needed
func (e *EMA) GetRequiredPeriods() int {
	return e.period
}
