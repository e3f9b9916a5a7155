package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSI_Calculate_InsufficientData(t *testing.T) {
	rsi := NewRSI(14)

	// Needs period+1 closes
	closes := make([]float64, 14)
	_, err := rsi.Calculate(closes)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestRSI_Calculate_WithinBounds(t *testing.T) {
	rsi := NewRSI(14)

	closes := make([]float64, 40)
	for i := range closes {
		// Alternate gains and losses of uneven size
		if i%2 == 0 {
			closes[i] = 100.0 + float64(i)
		} else {
			closes[i] = 98.0 + float64(i)/2
		}
	}

	value, err := rsi.Calculate(closes)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, value, 0.0)
	assert.LessOrEqual(t, value, 100.0)
}

func TestRSI_Calculate_AllGains(t *testing.T) {
	rsi := NewRSI(14)

	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100.0 + float64(i) // Strictly rising
	}

	value, err := rsi.Calculate(closes)
	require.NoError(t, err)

	// Zero average loss pins RSI to 100
	assert.Equal(t, 100.0, value)
}

func TestRSI_Calculate_AllLosses(t *testing.T) {
	rsi := NewRSI(14)

	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100.0 - float64(i) // Strictly falling
	}

	value, err := rsi.Calculate(closes)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, value, 1e-9)
}

func TestRSI_Calculate_WilderSmoothing(t *testing.T) {
	rsi := NewRSI(2)
	closes := []float64{100, 101, 100, 102}

	// Changes: +1, -1, +2
	// Seed: avgGain = 0.5, avgLoss = 0.5
	// Step:  avgGain = (0.5*1 + 2)/2 = 1.25, avgLoss = (0.5*1 + 0)/2 = 0.25
	// RS = 5, RSI = 100 - 100/6
	value, err := rsi.Calculate(closes)
	require.NoError(t, err)
	assert.InDelta(t, 100.0-100.0/6.0, value, 1e-9)
}

func TestRSI_GetRequiredPeriods(t *testing.T) {
	rsi := NewRSI(14)
	assert.Equal(t, 15, rsi.GetRequiredPeriods())
}
