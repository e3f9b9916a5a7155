package indicators

import "math"

// RSI calculates the Relative Strength Index with Wilder smoothing
type RSI struct {
	period int
}

// NewRSI creates a new RSI instance with the given period
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

// Calculate computes the RSI value over the full close series, oldest first.
// The seed average gain/loss is the simple mean of the first 'period'
// differences; subsequent values use Wilder smoothing
// avg = (avg*(period-1) + new) / period. If the average loss is zero at any
// smoothing step, RSI is pinned to 100 for that step.
// Returns ErrInsufficientData when fewer than period+1 closes are available.
func (r *RSI) Calculate(closes []float64) (float64, error) {
	if len(closes) < r.period+1 {
		return 0, ErrInsufficientData
	}

	changes := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		changes[i-1] = closes[i] - closes[i-1]
	}

	gains := make([]float64, len(changes))
	losses := make([]float64, len(changes))
	for i, change := range changes {
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = math.Abs(change)
		}
	}

	// Seed averages over the first 'period' changes
	avgGain := 0.0
	avgLoss := 0.0
	for i := 0; i < r.period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(r.period)
	avgLoss /= float64(r.period)

	rsi := rsiFromAverages(avgGain, avgLoss)

	for i := r.period; i < len(changes); i++ {
		avgGain = (avgGain*float64(r.period-1) + gains[i]) / float64(r.period)
		avgLoss = (avgLoss*float64(r.period-1) + losses[i]) / float64(r.period)
		rsi = rsiFromAverages(avgGain, avgLoss)
	}

	return rsi, nil
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// GetName returns the indicator name
func (r *RSI) GetName() string {
	return "RSI"
}

// GetRequiredPeriods returns the minimum number of closes needed
func (r *RSI) GetRequiredPeriods() int {
	return r.period + 1
}
