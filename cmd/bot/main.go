package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Automecanic/bot-trading-spoot-sub000/internal/bot"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/commands"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/config"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/exchange/bybit"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/journal"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/logger"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/monitoring"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/notifications"
	"github.com/Automecanic/bot-trading-spoot-sub000/internal/position"
)

func main() {
	envFile := flag.String("env", ".env", "Environment file path (default: .env)")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("Warning: Could not load %s (%v), using process environment", *envFile, err)
	}

	fmt.Println("🚀 Spot Bot Starting...")

	env := config.LoadEnv()
	if env.Exchange.APIKey == "" || env.Exchange.APISecret == "" {
		log.Fatal("BYBIT_API_KEY and BYBIT_API_SECRET are required")
	}
	if len(env.Trading.Symbols) == 0 {
		log.Fatal("TRADING_SYMBOLS is required")
	}

	sessionLog, err := logger.NewLogger("spot_bot")
	if err != nil {
		log.Fatalf("Failed to open session log: %v", err)
	}
	defer sessionLog.Close()

	jrnl, err := journal.NewSQLiteJournal(env.Files.JournalPath)
	if err != nil {
		log.Fatalf("Failed to open journal: %v", err)
	}
	defer jrnl.Close()

	initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
	if err := jrnl.Init(initCtx); err != nil {
		cancelInit()
		log.Fatalf("Failed to initialize journal: %v", err)
	}
	cancelInit()

	client := bybit.NewClient(bybit.Config{
		APIKey:    env.Exchange.APIKey,
		APISecret: env.Exchange.APISecret,
		Testnet:   env.Exchange.Testnet,
		Demo:      env.Exchange.Demo,
	})
	fmt.Printf("🔧 Exchange: %s (%s)\n", client.GetName(), client.GetEnvironment())

	var notifier notifications.Notifier = notifications.NopNotifier{}
	var commandSource commands.Source = commands.NopSource{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if env.Notifications.TelegramToken != "" && env.Notifications.TelegramChatID != "" {
		notifier = notifications.NewTelegramNotifier(
			env.Notifications.TelegramToken, env.Notifications.TelegramChatID)

		chatID, err := strconv.ParseInt(env.Notifications.TelegramChatID, 10, 64)
		if err != nil {
			log.Fatalf("TELEGRAM_CHAT_ID must be numeric: %v", err)
		}
		tgSource, err := commands.NewTelegramSource(env.Notifications.TelegramToken, chatID, sessionLog)
		if err != nil {
			log.Fatalf("Failed to connect Telegram: %v", err)
		}
		go tgSource.Run(ctx)
		commandSource = tgSource
		fmt.Println("📱 Telegram commands enabled")
	}

	startMonitoringServers(env, sessionLog)

	tradingBot, err := bot.New(bot.Deps{
		Env:         env,
		ConfigStore: config.NewStore(env.Files.ConfigPath, sessionLog),
		PosStore:    position.NewStore(env.Files.PositionsPath, sessionLog),
		Exchange:    client,
		Journal:     jrnl,
		Notifier:    notifier,
		Commands:    commandSource,
		Logger:      sessionLog,
	})
	if err != nil {
		log.Fatalf("Failed to build bot: %v", err)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		fmt.Println("\n🛑 Shutdown signal received...")
		cancel()
		tradingBot.RequestStop()
	}()

	tradingBot.Start()
	// Final saves happen here on the main goroutine, after the loop exits
	tradingBot.Stop()
	fmt.Println("👋 Spot bot stopped")
}

// startMonitoringServers exposes the Prometheus endpoint and a health
// probe on their configured ports.
func startMonitoringServers(env *config.Env, sessionLog *logger.Logger) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", monitoring.Handler())
		addr := fmt.Sprintf(":%d", env.Monitoring.PrometheusPort)
		if err := http.ListenAndServe(addr, mux); err != nil {
			sessionLog.LogError("prometheus server", err)
		}
	}()

	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "ok")
		})
		addr := fmt.Sprintf(":%d", env.Monitoring.HealthPort)
		if err := http.ListenAndServe(addr, mux); err != nil {
			sessionLog.LogError("health server", err)
		}
	}()
}
