// Package reporting renders operator-facing views of the bot state:
// plain-text status summaries for chat delivery and Excel trade
// history workbooks.
package reporting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Automecanic/bot-trading-spoot-sub000/internal/config"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/position"
)

// StatusReport renders the open positions, active parameters and the
// accumulated realized P&L as a monospace table suitable for Telegram.
func StatusReport(positions map[string]*position.Position, prices map[string]float64, params config.Parameters) string {
	var sb strings.Builder

	t := table.NewWriter()
	t.SetOutputMirror(&sb)
	t.SetTitle("OPEN POSITIONS")
	t.SetStyle(table.StyleRounded)

	if len(positions) == 0 {
		t.AppendRow(table.Row{"(no open positions)"})
	} else {
		t.AppendHeader(table.Row{"Symbol", "Entry", "Qty", "Peak", "Stop", "Unrealized"})

		symbols := make([]string, 0, len(positions))
		for symbol := range positions {
			symbols = append(symbols, symbol)
		}
		sort.Strings(symbols)

		for _, symbol := range symbols {
			pos := positions[symbol]
			unrealized := "n/a"
			if price, ok := prices[symbol]; ok {
				unrealized = fmt.Sprintf("$%.2f", pos.UnrealizedPnL(price))
			}
			t.AppendRow(table.Row{
				pos.Symbol,
				fmt.Sprintf("%.4f", pos.EntryPrice),
				fmt.Sprintf("%.6f", pos.BaseQuantity),
				fmt.Sprintf("%.4f", pos.PeakPrice),
				fmt.Sprintf("%.4f", pos.FixedStopLevel),
				unrealized,
			})
		}
	}
	t.Render()
	sb.WriteString("\n")

	p := table.NewWriter()
	p.SetOutputMirror(&sb)
	p.SetTitle("PARAMETERS")
	p.SetStyle(table.StyleRounded)

	p.AppendRows([]table.Row{
		{"📊 EMA Period", fmt.Sprintf("%d", params.EMAPeriod)},
		{"📊 RSI Period", fmt.Sprintf("%d", params.RSIPeriod)},
		{"📊 RSI Overbought", fmt.Sprintf("%.1f", params.RSIOverboughtThreshold)},
		{"💰 Risk Per Trade", fmt.Sprintf("%.2f%%", params.RiskPerTradePct*100)},
		{"🎯 Take Profit", fmt.Sprintf("%.2f%%", params.TakeProfitPct*100)},
		{"🛑 Stop Loss", fmt.Sprintf("%.2f%%", params.StopLossPct*100)},
		{"📉 Trailing Stop", fmt.Sprintf("%.2f%%", params.TrailingStopPct*100)},
		{"⚖️ Breakeven Trigger", fmt.Sprintf("%.2f%%", params.BreakevenTriggerPct*100)},
		{"⏰ Cycle Interval", fmt.Sprintf("%ds", params.CycleIntervalSeconds)},
	})
	p.AppendSeparator()
	p.AppendRow(table.Row{"💵 Realized P&L", fmt.Sprintf("$%.2f", params.AccumulatedRealizedPnL)})

	p.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 20, WidthMax: 20, Align: text.AlignLeft},
		{Number: 2, WidthMin: 12, WidthMax: 20, Align: text.AlignLeft},
	})
	p.Render()

	return sb.String()
}
