// Package bybit implements the exchange contract against the Bybit v5
// unified trading API.
package bybit

import (
	"strconv"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
)

// Config holds the configuration for the Bybit client
type Config struct {
	APIKey    string
	APISecret string
	Testnet   bool
	Demo      bool // Demo trading environment
	Category  string
}

// Client wraps the Bybit API client behind the exchange interface
type Client struct {
	httpClient  *bybit_api.Client
	category    string
	testnet     bool
	demo        bool
	instruments *instrumentCache
}

// NewClient creates a new Bybit client
func NewClient(config Config) *Client {
	var baseURL string
	if config.Demo {
		// Demo trading environment (paper trading)
		baseURL = "https://api-demo.bybit.com"
	} else if config.Testnet {
		baseURL = bybit_api.TESTNET
	} else {
		baseURL = bybit_api.MAINNET
	}

	httpClient := bybit_api.NewBybitHttpClient(
		config.APIKey,
		config.APISecret,
		bybit_api.WithBaseURL(baseURL),
	)

	category := config.Category
	if category == "" {
		category = "spot"
	}

	c := &Client{
		httpClient: httpClient,
		category:   category,
		testnet:    config.Testnet,
		demo:       config.Demo,
	}
	c.instruments = newInstrumentCache(c)
	return c
}

// GetName returns the exchange identifier
func (c *Client) GetName() string {
	return "bybit"
}

// GetEnvironment returns a string describing the current environment
func (c *Client) GetEnvironment() string {
	if c.demo {
		return "demo"
	} else if c.testnet {
		return "testnet"
	}
	return "mainnet"
}

func parseFloat64(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
