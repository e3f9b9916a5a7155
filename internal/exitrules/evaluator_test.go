package exitrules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Automecanic/bot-trading-spoot-sub000/internal/position"
)

func testParams() Params {
	return Params{
		TakeProfitPct:       0.03,
		StopLossPct:         0.02,
		TrailingStopPct:     0.015,
		BreakevenTriggerPct: 0.01,
	}
}

func openPosition() *position.Position {
	return &position.Position{
		Symbol:         "BTCUSDT",
		EntryPrice:     100,
		BaseQuantity:   1,
		PeakPrice:      100,
		FixedStopLevel: 98,
	}
}

func TestEvaluate_TakeProfit(t *testing.T) {
	pos := openPosition()

	decision, _ := Evaluate(pos, 103.5, testParams())
	require.NotNil(t, decision)
	assert.Equal(t, ReasonTakeProfit, decision.Reason)
	assert.InDelta(t, 1.0, decision.Quantity, 1e-9)
}

func TestEvaluate_StopLoss(t *testing.T) {
	pos := openPosition()

	decision, _ := Evaluate(pos, 98, testParams())
	require.NotNil(t, decision)
	assert.Equal(t, ReasonStopLoss, decision.Reason)
}

func TestEvaluate_TrailingStop(t *testing.T) {
	pos := openPosition()
	params := testParams()
	params.TakeProfitPct = 0.15 // Keep take-profit above the rally

	// Rally to 110, then retrace below the trailing level 110*0.985 = 108.35
	decision, changed := Evaluate(pos, 110, params)
	require.Nil(t, decision)
	assert.True(t, changed)
	assert.InDelta(t, 110.0, pos.PeakPrice, 1e-9)

	decision, _ = Evaluate(pos, 108.3, params)
	require.NotNil(t, decision)
	assert.Equal(t, ReasonTrailingStop, decision.Reason)
	// 108.3 still above entry, so the gain-only guard is satisfied
	assert.Greater(t, 108.3, pos.EntryPrice)
}

func TestEvaluate_TrailingStopGainOnlyGuard(t *testing.T) {
	pos := openPosition()
	pos.PeakPrice = 101
	pos.FixedStopLevel = 90 // Out of the way so only the trailing rule could fire

	// 99.4 is below the trailing level 101*0.985 = 99.485 but also below the
	// entry price, so the trailing rule must not close at a loss
	decision, _ := Evaluate(pos, 99.4, testParams())
	assert.Nil(t, decision)
}

func TestEvaluate_TakeProfitPriorityOverStop(t *testing.T) {
	// Contrived: stop level above the take-profit level, price satisfies both
	pos := openPosition()
	pos.FixedStopLevel = 200

	decision, _ := Evaluate(pos, 103.5, testParams())
	require.NotNil(t, decision)
	assert.Equal(t, ReasonTakeProfit, decision.Reason)
}

func TestEvaluate_BreakevenRatchet(t *testing.T) {
	pos := openPosition()
	params := testParams()
	params.TakeProfitPct = 0.10 // Keep take-profit out of the way

	decision, changed := Evaluate(pos, 101.5, params)
	require.Nil(t, decision)
	assert.True(t, changed)
	assert.True(t, pos.BreakevenApplied)
	assert.InDelta(t, 100.0, pos.FixedStopLevel, 1e-9)
}

func TestEvaluate_BreakevenNeverReverts(t *testing.T) {
	pos := openPosition()
	params := testParams()
	params.TakeProfitPct = 0.10

	_, _ = Evaluate(pos, 101.5, params)
	require.True(t, pos.BreakevenApplied)
	stopAfterRatchet := pos.FixedStopLevel

	// Price falls back below the trigger: the stop must not move down, and the
	// position exits as a stop-loss at breakeven
	decision, _ := Evaluate(pos, 99.9, params)
	assert.GreaterOrEqual(t, pos.FixedStopLevel, stopAfterRatchet)
	require.NotNil(t, decision)
	assert.Equal(t, ReasonStopLoss, decision.Reason)
}

func TestEvaluate_BreakevenKeepsHigherStop(t *testing.T) {
	pos := openPosition()
	pos.FixedStopLevel = 100.5 // Already above entry
	params := testParams()
	params.TakeProfitPct = 0.10

	_, _ = Evaluate(pos, 101.2, params)
	assert.True(t, pos.BreakevenApplied)
	// max(stop, entry): the stop never moves down
	assert.InDelta(t, 100.5, pos.FixedStopLevel, 1e-9)
}

func TestEvaluate_BreakevenZeroTriggerDisablesRatchet(t *testing.T) {
	pos := openPosition()
	params := testParams()
	params.TakeProfitPct = 0.10
	params.BreakevenTriggerPct = 0

	decision, _ := Evaluate(pos, 101.5, params)
	require.Nil(t, decision)
	assert.False(t, pos.BreakevenApplied)
	assert.InDelta(t, 98.0, pos.FixedStopLevel, 1e-9)
}

func TestEvaluate_StopMonotoneAcrossCycles(t *testing.T) {
	pos := openPosition()
	params := testParams()
	params.TakeProfitPct = 0.50

	prices := []float64{100.5, 101.2, 100.8, 102, 101.1, 103.5}
	lastStop := pos.FixedStopLevel
	for _, price := range prices {
		decision, _ := Evaluate(pos, price, params)
		assert.GreaterOrEqual(t, pos.FixedStopLevel, lastStop)
		lastStop = pos.FixedStopLevel
		if decision != nil {
			break
		}
	}
}

func TestEvaluate_HoldInsideBand(t *testing.T) {
	pos := openPosition()

	decision, changed := Evaluate(pos, 100.5, Params{
		TakeProfitPct:   0.03,
		StopLossPct:     0.02,
		TrailingStopPct: 0.015,
		// Breakeven disabled
	})
	assert.Nil(t, decision)
	assert.True(t, changed) // Peak moved to 100.5
	assert.InDelta(t, 100.5, pos.PeakPrice, 1e-9)
}

func TestEvaluate_PeakMonotone(t *testing.T) {
	pos := openPosition()
	params := testParams()
	params.TakeProfitPct = 0.50
	params.BreakevenTriggerPct = 0

	_, changed := Evaluate(pos, 105, params)
	assert.True(t, changed)
	_, changed = Evaluate(pos, 104, params)
	assert.False(t, changed)
	assert.InDelta(t, 105.0, pos.PeakPrice, 1e-9)
}
