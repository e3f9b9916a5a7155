package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()

	j, err := NewSQLiteJournal(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })

	require.NoError(t, j.Init(context.Background()))
	return j
}

func TestSQLiteJournal_AppendAndList(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	buy := Record{
		Timestamp: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		Symbol:    "BTCUSDT",
		Side:      "Buy",
		Price:     50000,
		Quantity:  0.01,
		Notional:  500,
		Motive:    "entry signal",
	}
	sell := Record{
		Timestamp:   time.Date(2026, 2, 1, 14, 0, 0, 0, time.UTC),
		Symbol:      "BTCUSDT",
		Side:        "Sell",
		Price:       51500,
		Quantity:    0.01,
		Notional:    515,
		RealizedPnL: 15,
		Motive:      "TAKE_PROFIT",
	}

	require.NoError(t, j.Append(ctx, buy))
	require.NoError(t, j.Append(ctx, sell))

	records, err := j.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first
	assert.Equal(t, "Sell", records[0].Side)
	assert.Equal(t, "TAKE_PROFIT", records[0].Motive)
	assert.InDelta(t, 15.0, records[0].RealizedPnL, 1e-9)
	assert.Equal(t, "Buy", records[1].Side)
	assert.Zero(t, records[1].RealizedPnL)

	// IDs are assigned when absent
	assert.NotEmpty(t, records[0].ID)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestSQLiteJournal_ListLimit(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, j.Append(ctx, Record{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Symbol:    "ETHUSDT",
			Side:      "Buy",
			Price:     3000,
			Quantity:  0.1,
			Notional:  300,
			Motive:    "entry signal",
		}))
	}

	records, err := j.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}
