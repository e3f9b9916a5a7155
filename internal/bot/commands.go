package bot

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Automecanic/bot-trading-spoot-sub000/internal/commands"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/config"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/exitrules"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/reporting"
)

// handleCommands drains pending operator commands and applies them under
// the same lock as the trading cycle.
func (b *Bot) handleCommands() {
	pending := b.commands.Drain()
	if len(pending) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, cmd := range pending {
		switch cmd.Kind {
		case commands.KindSetParam:
			b.applyParam(cmd.ParamName, cmd.ParamValue)
		case commands.KindStatus:
			b.sendStatus()
		case commands.KindReport:
			b.sendReport()
		case commands.KindSellNow:
			b.manualSell(cmd.Symbol)
		case commands.KindHelp:
			b.sendHelp()
		}
	}
}

func (b *Bot) applyParam(name string, value float64) {
	if err := b.params.Apply(name, value); err != nil {
		b.logger.LogWarning("set parameter", "%s=%v rejected: %v", name, value, err)
		b.notify(fmt.Sprintf("⚠️ %v", err))
		return
	}
	if err := b.configStore.Save(b.params); err != nil {
		b.logger.LogError("config save after set", err)
	}
	b.logger.Status("Parameter updated: %s=%v", name, value)
	b.notify(fmt.Sprintf("✅ %s set to %v", name, value))
}

func (b *Bot) sendStatus() {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
	defer cancel()

	prices := make(map[string]float64, len(b.positions))
	for symbol := range b.positions {
		if price, err := b.exchange.GetCurrentPrice(ctx, symbol); err == nil {
			prices[symbol] = price
		}
	}

	b.notify(reporting.StatusReport(b.positions, prices, *b.params))
}

func (b *Bot) sendReport() {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
	defer cancel()

	records, err := b.journal.List(ctx, 0)
	if err != nil {
		b.logger.LogError("journal list", err)
		b.notify(fmt.Sprintf("⚠️ Could not read trade history: %v", err))
		return
	}

	path := filepath.Join(b.env.Files.ReportDir,
		fmt.Sprintf("trades_%s.xlsx", time.Now().UTC().Format("20060102_150405")))
	if err := reporting.WriteTradeHistoryXLSX(records, path); err != nil {
		b.logger.LogError("write trade report", err)
		b.notify(fmt.Sprintf("⚠️ Could not build report: %v", err))
		return
	}

	caption := fmt.Sprintf("Trade history, %d fills", len(records))
	if err := b.notifier.SendFile(path, caption); err != nil {
		b.logger.LogError("send trade report", err)
		return
	}
	b.logger.Status("Trade report delivered: %s", path)
}

func (b *Bot) manualSell(symbol string) {
	pos, open := b.positions[symbol]
	if !open {
		b.notify(fmt.Sprintf("⚠️ No open position for %s", symbol))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
	defer cancel()

	b.logger.Status("Manual sell requested for %s", symbol)
	b.closePosition(ctx, pos, exitrules.ReasonManual)
}

func (b *Bot) sendHelp() {
	var sb strings.Builder
	sb.WriteString("Commands:\n")
	sb.WriteString("/status - open positions and parameters\n")
	sb.WriteString("/report - trade history workbook\n")
	sb.WriteString("/sell <symbol> - close a position now\n")
	sb.WriteString("/set <parameter> <value> - tune a parameter\n\n")
	sb.WriteString("Settable parameters: ")
	sb.WriteString(strings.Join(config.SettableNames(), ", "))
	b.notify(sb.String())
}
