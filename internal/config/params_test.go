package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Automecanic/bot-trading-spoot-sub000/internal/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	log, err := logger.NewLogger("config_test")
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })

	return NewStore(filepath.Join(t.TempDir(), "config.json"), log)
}

func TestStore_Load_MissingFileWritesDefaults(t *testing.T) {
	store := newTestStore(t)

	params := store.Load()
	assert.Equal(t, DefaultParameters().EMAPeriod, params.EMAPeriod)
	assert.Equal(t, DefaultParameters().CycleIntervalSeconds, params.CycleIntervalSeconds)

	// Defaults must be persisted on first run
	_, err := os.Stat(store.path)
	assert.NoError(t, err)
}

func TestStore_Load_MalformedFallsBackToDefaults(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.path, []byte("broken"), 0644))

	params := store.Load()
	assert.Equal(t, DefaultParameters().RSIPeriod, params.RSIPeriod)
}

func TestParameters_UnknownKeysSurviveRoundTrip(t *testing.T) {
	store := newTestStore(t)

	raw := `{"ema_period": 21, "custom_flag": true, "tuning_notes": "keep me"}`
	require.NoError(t, os.WriteFile(store.path, []byte(raw), 0644))

	params := store.Load()
	assert.Equal(t, 21, params.EMAPeriod)
	// Missing keys filled from defaults
	assert.Equal(t, DefaultParameters().RSIPeriod, params.RSIPeriod)

	require.NoError(t, store.Save(params))

	data, err := os.ReadFile(store.path)
	require.NoError(t, err)

	var reloaded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &reloaded))
	assert.Contains(t, reloaded, "custom_flag")
	assert.Contains(t, reloaded, "tuning_notes")
	assert.JSONEq(t, "true", string(reloaded["custom_flag"]))
}

func TestParameters_Apply_Validation(t *testing.T) {
	params := DefaultParameters()

	require.NoError(t, params.Apply("ema_period", 21))
	assert.Equal(t, 21, params.EMAPeriod)

	require.NoError(t, params.Apply("take_profit_pct", 0.05))
	assert.InDelta(t, 0.05, params.TakeProfitPct, 1e-9)

	assert.Error(t, params.Apply("ema_period", 0))
	assert.Error(t, params.Apply("ema_period", 2.5))
	assert.Error(t, params.Apply("rsi_overbought_threshold", 101))
	assert.Error(t, params.Apply("risk_per_trade_pct", 1))
	assert.Error(t, params.Apply("risk_per_trade_pct", 0))
	assert.Error(t, params.Apply("stop_loss_pct", -0.1))
	assert.Error(t, params.Apply("breakeven_trigger_pct", -1))
	assert.Error(t, params.Apply("cycle_interval_seconds", 0))
	assert.Error(t, params.Apply("no_such_parameter", 1))

	// The ledger is not settable through the command surface
	assert.Error(t, params.Apply("accumulated_realized_pnl", 5))
}

func TestParameters_LedgerRoundTrip(t *testing.T) {
	store := newTestStore(t)

	params := store.Load()
	params.AccumulatedRealizedPnL += 12.34
	require.NoError(t, store.Save(params))

	reloaded := store.Load()
	assert.InDelta(t, 12.34, reloaded.AccumulatedRealizedPnL, 1e-9)
}
