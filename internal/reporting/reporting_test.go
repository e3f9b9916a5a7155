package reporting

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Automecanic/bot-trading-spoot-sub000/internal/config"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/journal"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/position"
)

func TestStatusReportNoPositions(t *testing.T) {
	out := StatusReport(nil, nil, *config.DefaultParameters())

	assert.Contains(t, out, "no open positions")
	assert.Contains(t, out, "PARAMETERS")
	assert.Contains(t, out, "Realized P&L")
}

func TestStatusReportListsPositions(t *testing.T) {
	positions := map[string]*position.Position{
		"BTCUSDT": position.New("BTCUSDT", 50000, 0.01, 0.02),
	}
	prices := map[string]float64{"BTCUSDT": 51000}

	out := StatusReport(positions, prices, *config.DefaultParameters())

	assert.Contains(t, out, "BTCUSDT")
	assert.Contains(t, out, "$10.00") // (51000-50000)*0.01
}

func TestWriteTradeHistoryXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "trades.xlsx")
	records := []journal.Record{
		{
			ID:        "a",
			Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			Symbol:    "BTCUSDT",
			Side:      "Buy",
			Price:     50000,
			Quantity:  0.01,
			Notional:  500,
			Motive:    "entry signal",
		},
		{
			ID:          "b",
			Timestamp:   time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
			Symbol:      "BTCUSDT",
			Side:        "Sell",
			Price:       51500,
			Quantity:    0.01,
			Notional:    515,
			RealizedPnL: 15,
			Motive:      "TAKE_PROFIT",
		},
	}

	require.NoError(t, WriteTradeHistoryXLSX(records, path))

	fx, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer fx.Close()

	rows, err := fx.GetRows("Trades")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Symbol", rows[0][1])
	assert.Equal(t, "BTCUSDT", rows[1][1])
	assert.Equal(t, "Sell", rows[2][2])
}
