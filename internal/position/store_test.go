package position

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Automecanic/bot-trading-spoot-sub000/internal/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	log, err := logger.NewLogger("store_test")
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })

	return NewStore(filepath.Join(t.TempDir(), "positions.json"), log)
}

func TestStore_Load_MissingFile(t *testing.T) {
	store := newTestStore(t)

	positions := store.Load(0.02)
	assert.Empty(t, positions)
}

func TestStore_Load_MalformedFile(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, os.WriteFile(store.path, []byte("{not json"), 0644))
	positions := store.Load(0.02)
	assert.Empty(t, positions)
}

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	opened := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	positions := map[string]*Position{
		"BTCUSDT": {
			Symbol:           "BTCUSDT",
			EntryPrice:       50000,
			BaseQuantity:     0.01,
			PeakPrice:        51250.5,
			FixedStopLevel:   49000,
			BreakevenApplied: true,
			OpenedAt:         opened,
		},
		"ETHUSDT": {
			Symbol:         "ETHUSDT",
			EntryPrice:     3000,
			BaseQuantity:   0.5,
			PeakPrice:      3000,
			FixedStopLevel: 2940,
			OpenedAt:       opened,
		},
	}

	require.NoError(t, store.SaveImmediate(positions))
	loaded := store.Load(0.02)

	require.Len(t, loaded, 2)
	for symbol, want := range positions {
		got := loaded[symbol]
		require.NotNil(t, got)
		assert.Equal(t, want.Symbol, got.Symbol)
		assert.InDelta(t, want.EntryPrice, got.EntryPrice, 1e-9)
		assert.InDelta(t, want.BaseQuantity, got.BaseQuantity, 1e-9)
		assert.InDelta(t, want.PeakPrice, got.PeakPrice, 1e-9)
		assert.InDelta(t, want.FixedStopLevel, got.FixedStopLevel, 1e-9)
		assert.Equal(t, want.BreakevenApplied, got.BreakevenApplied)
		assert.True(t, want.OpenedAt.Equal(got.OpenedAt))
	}
}

func TestStore_Load_BackfillsOldRecords(t *testing.T) {
	store := newTestStore(t)

	// Record persisted by an older build: no stop level, no breakeven flag,
	// peak below entry
	raw := `{"BTCUSDT": {"symbol": "BTCUSDT", "entry_price": 100, "base_quantity": 1, "peak_price": 0, "opened_at": "2026-01-01T00:00:00Z"}}`
	require.NoError(t, os.WriteFile(store.path, []byte(raw), 0644))

	loaded := store.Load(0.02)
	require.Len(t, loaded, 1)

	pos := loaded["BTCUSDT"]
	assert.False(t, pos.BreakevenApplied)
	assert.InDelta(t, 100.0, pos.PeakPrice, 1e-9)
	assert.InDelta(t, 98.0, pos.FixedStopLevel, 1e-9)
}

func TestStore_SaveDebounced_SkipsInsideWindow(t *testing.T) {
	store := newTestStore(t)
	store.SetDebounceInterval(time.Hour)

	positions := map[string]*Position{
		"BTCUSDT": New("BTCUSDT", 100, 1, 0.02),
	}
	require.NoError(t, store.SaveImmediate(positions))

	positions["BTCUSDT"].PeakPrice = 150
	require.NoError(t, store.SaveDebounced(positions))

	// The debounced save inside the window must not have hit the disk
	loaded := store.Load(0.02)
	assert.InDelta(t, 100.0, loaded["BTCUSDT"].PeakPrice, 1e-9)
}

func TestStore_SaveDebounced_WritesAfterWindow(t *testing.T) {
	store := newTestStore(t)
	store.SetDebounceInterval(10 * time.Millisecond)

	positions := map[string]*Position{
		"BTCUSDT": New("BTCUSDT", 100, 1, 0.02),
	}
	require.NoError(t, store.SaveImmediate(positions))

	time.Sleep(20 * time.Millisecond)
	positions["BTCUSDT"].PeakPrice = 150
	require.NoError(t, store.SaveDebounced(positions))

	loaded := store.Load(0.02)
	assert.InDelta(t, 150.0, loaded["BTCUSDT"].PeakPrice, 1e-9)
}

func TestNew_InitialInvariants(t *testing.T) {
	pos := New("BTCUSDT", 200, 0.5, 0.02)

	assert.InDelta(t, 200.0, pos.PeakPrice, 1e-9)
	assert.InDelta(t, 196.0, pos.FixedStopLevel, 1e-9)
	assert.False(t, pos.BreakevenApplied)
	assert.False(t, pos.OpenedAt.IsZero())
}
