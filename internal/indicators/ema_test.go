package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMA_Calculate_InsufficientData(t *testing.T) {
	ema := NewEMA(10)

	_, err := ema.Calculate([]float64{100, 101, 102})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestEMA_Calculate_SeedIsSimpleAverage(t *testing.T) {
	ema := NewEMA(5)
	closes := []float64{10, 20, 30, 40, 50}

	value, err := ema.Calculate(closes)
	require.NoError(t, err)

	// With exactly 'period' closes the result is the SMA seed
	assert.InDelta(t, 30.0, value, 1e-9)
}

func TestEMA_Calculate_SmoothingStep(t *testing.T) {
	ema := NewEMA(3)
	closes := []float64{10, 20, 30, 40}

	value, err := ema.Calculate(closes)
	require.NoError(t, err)

	// Seed = 20, alpha = 0.5, next = (40-20)*0.5 + 20 = 30
	assert.InDelta(t, 30.0, value, 1e-9)
}

func TestEMA_Calculate_FlatSeries(t *testing.T) {
	ema := NewEMA(7)
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100.0
	}

	value, err := ema.Calculate(closes)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, value, 1e-9)
}

func TestEMA_GetRequiredPeriods(t *testing.T) {
	ema := NewEMA(12)
	assert.Equal(t, 12, ema.GetRequiredPeriods())
}
