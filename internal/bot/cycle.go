package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	boterrors "github.com/Automecanic/bot-trading-spoot-sub000/internal/errors"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/exchange"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/exitrules"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/indicators"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/journal"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/monitoring"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/position"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/sizing"
)

// processSymbol runs one cycle step for a single symbol: manage the open
// position if one exists, otherwise look for an entry. Callers hold b.mu.
func (b *Bot) processSymbol(symbol string) {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
	defer cancel()

	currentPrice, err := b.exchange.GetCurrentPrice(ctx, symbol)
	if err != nil {
		b.logger.LogError(fmt.Sprintf("get price %s", symbol), boterrors.NewNetworkError("exchange", "GetCurrentPrice", err))
		monitoring.RecordError("price_fetch")
		return
	}
	monitoring.UpdatePrice(symbol, currentPrice)

	if pos, open := b.positions[symbol]; open {
		b.manageExit(ctx, pos, currentPrice)
		return
	}
	b.tryEnter(ctx, symbol, currentPrice)
}

// tryEnter evaluates the entry signal and opens a position when it fires.
func (b *Bot) tryEnter(ctx context.Context, symbol string, currentPrice float64) {
	required := b.params.RSIPeriod + 1
	if emaReq := b.params.EMAPeriod; emaReq > required {
		required = emaReq
	}
	limit := b.env.Trading.KlineLimit
	if limit < required {
		limit = required
	}

	closes, err := b.exchange.GetRecentCloses(ctx, symbol, b.env.Trading.KlineInterval, limit)
	if err != nil {
		b.logger.LogError(fmt.Sprintf("get closes %s", symbol), err)
		monitoring.RecordError("kline_fetch")
		return
	}

	ema, err := indicators.NewEMA(b.params.EMAPeriod).Calculate(closes)
	if err != nil {
		if errors.Is(err, indicators.ErrInsufficientData) {
			b.logger.Warning("%s: not enough history for EMA(%d), holding off", symbol, b.params.EMAPeriod)
			return
		}
		b.logger.LogError(fmt.Sprintf("ema %s", symbol), err)
		return
	}
	rsi, err := indicators.NewRSI(b.params.RSIPeriod).Calculate(closes)
	if err != nil {
		if errors.Is(err, indicators.ErrInsufficientData) {
			b.logger.Warning("%s: not enough history for RSI(%d), holding off", symbol, b.params.RSIPeriod)
			return
		}
		b.logger.LogError(fmt.Sprintf("rsi %s", symbol), err)
		return
	}

	if currentPrice <= ema || rsi >= b.params.RSIOverboughtThreshold {
		return
	}
	if !b.gate.Allow(symbol, closes) {
		b.logger.Info("%s: entry signal suppressed by regime gate", symbol)
		return
	}

	quoteBalance, err := b.exchange.GetAssetBalance(ctx, b.env.Trading.QuoteAsset)
	if err != nil {
		b.logger.LogError(fmt.Sprintf("get balance %s", b.env.Trading.QuoteAsset), err)
		monitoring.RecordError("balance_fetch")
		return
	}
	if quoteBalance < b.env.Trading.MinTradeFloor {
		b.logger.Warning("%s: balance %.2f below trade floor %.2f, skipping entry",
			symbol, quoteBalance, b.env.Trading.MinTradeFloor)
		return
	}

	filters, err := b.exchange.GetSymbolFilters(ctx, symbol)
	if err != nil {
		b.logger.LogError(fmt.Sprintf("get filters %s", symbol), err)
		return
	}

	quantity := sizing.OrderQuantity(quoteBalance, currentPrice,
		b.params.RiskPerTradePct, b.params.StopLossPct,
		sizing.Constraints{StepSize: filters.StepSize, MinNotional: filters.MinNotional})
	if quantity <= 0 {
		b.logger.Info("%s: sizer returned no tradable quantity (balance %.2f, price %.4f)",
			symbol, quoteBalance, currentPrice)
		return
	}

	fill, err := b.exchange.PlaceMarketOrder(ctx, symbol, exchange.SideBuy, quantity)
	if err != nil {
		b.logger.LogError(fmt.Sprintf("buy %s", symbol), boterrors.NewOrderError("exchange", "PlaceMarketOrder", err))
		monitoring.RecordError("order")
		b.notify(fmt.Sprintf("⚠️ Buy order for %s failed: %v", symbol, err))
		return
	}

	pos := position.New(symbol, fill.Price, fill.Quantity, b.params.StopLossPct)
	b.positions[symbol] = pos
	if err := b.posStore.SaveImmediate(b.positions); err != nil {
		b.logger.LogError("position save after buy", err)
	}

	b.recordFill(exchange.SideBuy, symbol, fill, 0, "entry signal")
	b.logger.Trade("OPENED %s: %.6f @ %.4f (EMA %.4f, RSI %.1f)", symbol, fill.Quantity, fill.Price, ema, rsi)
	b.notify(fmt.Sprintf("🟢 Opened %s: %.6f @ %.4f", symbol, fill.Quantity, fill.Price))
}

// manageExit runs the exit rules for an open position and closes it when
// a rule fires.
func (b *Bot) manageExit(ctx context.Context, pos *position.Position, currentPrice float64) {
	decision, changed := exitrules.Evaluate(pos, currentPrice, exitrules.Params{
		TakeProfitPct:       b.params.TakeProfitPct,
		StopLossPct:         b.params.StopLossPct,
		TrailingStopPct:     b.params.TrailingStopPct,
		BreakevenTriggerPct: b.params.BreakevenTriggerPct,
	})
	if changed {
		if err := b.posStore.SaveDebounced(b.positions); err != nil {
			b.logger.LogError("debounced position save", err)
		}
	}
	if decision == nil {
		return
	}
	b.closePosition(ctx, pos, decision.Reason)
}

// closePosition re-validates the tracked quantity against the live
// balance, submits the sell, settles the ledger and drops the position.
// A failed sell keeps the position so the next cycle retries.
func (b *Bot) closePosition(ctx context.Context, pos *position.Position, reason exitrules.Reason) {
	symbol := pos.Symbol

	available, err := b.exchange.GetAssetBalance(ctx, b.baseAsset(symbol))
	if err != nil {
		b.logger.LogError(fmt.Sprintf("get balance %s", b.baseAsset(symbol)), err)
		monitoring.RecordError("balance_fetch")
		return
	}

	filters, err := b.exchange.GetSymbolFilters(ctx, symbol)
	if err != nil {
		b.logger.LogError(fmt.Sprintf("get filters %s", symbol), err)
		return
	}

	sellQty := pos.BaseQuantity
	if available < sellQty {
		sellQty = available
	}
	sellQty = sizing.QuantizeDown(sellQty, filters.StepSize)

	if sellQty <= 0 {
		// The tracked inventory is gone on the exchange side. Drop the
		// stale record instead of retrying a sell that can never fill.
		b.logger.Warning("%s: tracked %.6f but only %.6f available, reconciling as %s",
			symbol, pos.BaseQuantity, available, exitrules.ReasonDesync)
		delete(b.positions, symbol)
		if err := b.posStore.SaveImmediate(b.positions); err != nil {
			b.logger.LogError("position save after desync", err)
		}
		b.notify(fmt.Sprintf("⚠️ Dropped stale %s position (%s): exchange holds %.6f",
			symbol, exitrules.ReasonDesync, available))
		return
	}

	fill, err := b.exchange.PlaceMarketOrder(ctx, symbol, exchange.SideSell, sellQty)
	if err != nil {
		b.logger.LogError(fmt.Sprintf("sell %s", symbol), boterrors.NewOrderError("exchange", "PlaceMarketOrder", err))
		monitoring.RecordError("order")
		b.notify(fmt.Sprintf("⚠️ Sell order for %s (%s) failed, will retry: %v", symbol, reason, err))
		return
	}

	realized := (fill.Price - pos.EntryPrice) * fill.Quantity
	b.params.AccumulatedRealizedPnL += realized
	if err := b.configStore.Save(b.params); err != nil {
		b.logger.LogError("ledger save after sell", err)
	}
	monitoring.SetRealizedPnL(b.params.AccumulatedRealizedPnL)

	delete(b.positions, symbol)
	if err := b.posStore.SaveImmediate(b.positions); err != nil {
		b.logger.LogError("position save after sell", err)
	}

	b.recordFill(exchange.SideSell, symbol, fill, realized, string(reason))
	b.logger.Trade("CLOSED %s (%s): %.6f @ %.4f, P&L %.2f (total %.2f)",
		symbol, reason, fill.Quantity, fill.Price, realized, b.params.AccumulatedRealizedPnL)
	b.notify(fmt.Sprintf("🔴 Closed %s (%s): %.6f @ %.4f, P&L $%.2f",
		symbol, reason, fill.Quantity, fill.Price, realized))
}

// recordFill appends a journal entry and records the trade metric. The
// journal is append-only history, so a write failure is logged but never
// blocks trading.
func (b *Bot) recordFill(side exchange.Side, symbol string, fill *exchange.Fill, realized float64, motive string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	notional := fill.Price * fill.Quantity
	err := b.journal.Append(ctx, journal.Record{
		Timestamp:   time.Now().UTC(),
		Symbol:      symbol,
		Side:        string(side),
		Price:       fill.Price,
		Quantity:    fill.Quantity,
		Notional:    notional,
		RealizedPnL: realized,
		Motive:      motive,
	})
	if err != nil {
		b.logger.LogError("journal append", err)
	}

	b.logger.LogFill(string(side), symbol, fill.Quantity, fill.Price, notional, realized, motive)
	monitoring.RecordTrade(symbol, string(side))
}
