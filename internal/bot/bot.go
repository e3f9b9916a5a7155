// Package bot wires the trading core together and drives the periodic
// trading cycle for every watched symbol.
package bot

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Automecanic/bot-trading-spoot-sub000/internal/commands"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/config"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/exchange"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/journal"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/logger"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/monitoring"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/notifications"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/position"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/regime"
)

const (
	// apiTimeout bounds every individual exchange call inside a cycle.
	apiTimeout = 30 * time.Second

	// defaultCommandPoll is how often pending operator commands are
	// drained between trading cycles.
	defaultCommandPoll = 5 * time.Second
)

// Deps carries everything the bot needs. All fields are required except
// Notifier, Commands and Gate, which default to no-op implementations.
type Deps struct {
	Env         *config.Env
	ConfigStore *config.Store
	PosStore    *position.Store
	Exchange    exchange.Exchange
	Journal     journal.Repository
	Notifier    notifications.Notifier
	Commands    commands.Source
	Gate        regime.Gate
	Logger      *logger.Logger
}

// Bot owns the trading state. All mutation of positions and parameters
// happens on the cycle goroutine under mu, so command handling and the
// trading cycle never interleave mid-trade.
type Bot struct {
	env         *config.Env
	configStore *config.Store
	posStore    *position.Store
	exchange    exchange.Exchange
	journal     journal.Repository
	notifier    notifications.Notifier
	commands    commands.Source
	gate        regime.Gate
	logger      *logger.Logger

	mu        sync.Mutex
	params    *config.Parameters
	positions map[string]*position.Position

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func New(deps Deps) (*Bot, error) {
	if deps.Env == nil || deps.ConfigStore == nil || deps.PosStore == nil ||
		deps.Exchange == nil || deps.Journal == nil || deps.Logger == nil {
		return nil, fmt.Errorf("bot: missing required dependency")
	}
	if deps.Notifier == nil {
		deps.Notifier = notifications.NopNotifier{}
	}
	if deps.Commands == nil {
		deps.Commands = commands.NopSource{}
	}
	if deps.Gate == nil {
		deps.Gate = regime.PassGate{}
	}

	params := deps.ConfigStore.Load()
	positions := deps.PosStore.Load(params.StopLossPct)

	b := &Bot{
		env:         deps.Env,
		configStore: deps.ConfigStore,
		posStore:    deps.PosStore,
		exchange:    deps.Exchange,
		journal:     deps.Journal,
		notifier:    deps.Notifier,
		commands:    deps.Commands,
		gate:        deps.Gate,
		logger:      deps.Logger,
		params:      params,
		positions:   positions,
		stopChan:    make(chan struct{}),
	}

	monitoring.SetOpenPositions(len(positions))
	monitoring.SetRealizedPnL(params.AccumulatedRealizedPnL)

	return b, nil
}

// Start launches the trading loop and blocks until Stop is called.
func (b *Bot) Start() {
	b.logger.Info("Bot starting on %s, watching %s",
		b.exchange.GetName(), strings.Join(b.env.Trading.Symbols, ", "))
	b.notify(fmt.Sprintf("🤖 Bot started, watching %s", strings.Join(b.env.Trading.Symbols, ", ")))

	b.wg.Add(1)
	go b.tradingLoop()
	b.wg.Wait()
}

// RequestStop signals the loop to end without waiting. Safe to call from
// any goroutine, any number of times.
func (b *Bot) RequestStop() {
	b.stopOnce.Do(func() { close(b.stopChan) })
}

// Stop signals the loop to end and persists state before returning. The
// owning goroutine must call it before letting the process exit so the
// final saves complete.
func (b *Bot) Stop() {
	b.RequestStop()
	b.wg.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.posStore.SaveImmediate(b.positions); err != nil {
		b.logger.LogError("final position save", err)
	}
	if err := b.configStore.Save(b.params); err != nil {
		b.logger.LogError("final config save", err)
	}
	b.logger.Info("Bot stopped")
}

func (b *Bot) tradingLoop() {
	defer b.wg.Done()

	b.runCycle()

	commandPoll := defaultCommandPoll
	if b.env.Trading.CommandPollSec > 0 {
		commandPoll = time.Duration(b.env.Trading.CommandPollSec) * time.Second
	}

	cycleTimer := time.NewTimer(b.cycleInterval())
	defer cycleTimer.Stop()
	commandTicker := time.NewTicker(commandPoll)
	defer commandTicker.Stop()

	for {
		select {
		case <-cycleTimer.C:
			b.runCycle()
			cycleTimer.Reset(b.cycleInterval())
		case <-commandTicker.C:
			b.handleCommands()
		case <-b.stopChan:
			b.logger.Info("Stop signal received, ending trading loop")
			return
		}
	}
}

func (b *Bot) cycleInterval() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	seconds := b.params.CycleIntervalSeconds
	if seconds <= 0 {
		seconds = 300
	}
	return time.Duration(seconds) * time.Second
}

// runCycle processes every watched symbol once. A panic in one cycle is
// logged and absorbed so the loop resumes on the next tick.
func (b *Bot) runCycle() {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in trading cycle: %v", r)
			monitoring.RecordError("panic")
			b.notify(fmt.Sprintf("🚨 Trading cycle crashed, resuming next interval: %v", r))
		}
	}()

	start := time.Now()
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, symbol := range b.env.Trading.Symbols {
		select {
		case <-b.stopChan:
			return
		default:
		}
		b.processSymbol(symbol)
	}

	monitoring.ObserveCycle(time.Since(start).Seconds())
	monitoring.SetOpenPositions(len(b.positions))
}

func (b *Bot) notify(text string) {
	if err := b.notifier.Notify(text); err != nil {
		b.logger.LogError("notification", err)
	}
}

// baseAsset strips the quote suffix from a trading pair, so BTCUSDT
// with quote USDT yields BTC.
func (b *Bot) baseAsset(symbol string) string {
	return strings.TrimSuffix(symbol, b.env.Trading.QuoteAsset)
}
