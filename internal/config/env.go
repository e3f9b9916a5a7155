package config

import (
	"os"
	"strconv"
	"strings"
)

// Env holds the process bootstrap settings that never change at runtime:
// credentials, file locations, ports and the watch-list. Everything tunable
// while trading lives in Parameters instead.
type Env struct {
	Exchange struct {
		APIKey    string
		APISecret string
		Testnet   bool
		Demo      bool
	}

	Trading struct {
		Symbols        []string
		QuoteAsset     string
		KlineInterval  string
		KlineLimit     int
		MinTradeFloor  float64
		CommandPollSec int
	}

	Files struct {
		ConfigPath    string
		PositionsPath string
		JournalPath   string
		ReportDir     string
	}

	Notifications struct {
		TelegramToken  string
		TelegramChatID string
	}

	Monitoring struct {
		PrometheusPort int
		HealthPort     int
	}
}

// LoadEnv reads the bootstrap settings from the environment.
func LoadEnv() *Env {
	env := &Env{}

	env.Exchange.APIKey = getEnv("BYBIT_API_KEY", "")
	env.Exchange.APISecret = getEnv("BYBIT_API_SECRET", "")
	env.Exchange.Testnet = getEnvBool("BYBIT_TESTNET", true)
	env.Exchange.Demo = getEnvBool("BYBIT_DEMO", false)

	env.Trading.Symbols = splitList(getEnv("TRADING_SYMBOLS", "BTCUSDT,ETHUSDT"))
	env.Trading.QuoteAsset = getEnv("QUOTE_ASSET", "USDT")
	env.Trading.KlineInterval = getEnv("KLINE_INTERVAL", "5")
	env.Trading.KlineLimit = getEnvInt("KLINE_LIMIT", 100)
	env.Trading.MinTradeFloor = getEnvFloat("MIN_TRADE_FLOOR", 10.0)
	env.Trading.CommandPollSec = getEnvInt("COMMAND_POLL_SECONDS", 2)

	env.Files.ConfigPath = getEnv("CONFIG_FILE", "data/config.json")
	env.Files.PositionsPath = getEnv("POSITIONS_FILE", "data/positions.json")
	env.Files.JournalPath = getEnv("JOURNAL_DB", "data/journal.db")
	env.Files.ReportDir = getEnv("REPORT_DIR", "reports")

	env.Notifications.TelegramToken = getEnv("TELEGRAM_TOKEN", "")
	env.Notifications.TelegramChatID = getEnv("TELEGRAM_CHAT_ID", "")

	env.Monitoring.PrometheusPort = getEnvInt("PROMETHEUS_PORT", 8080)
	env.Monitoring.HealthPort = getEnvInt("HEALTH_PORT", 8081)

	return env
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
