package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"

	"github.com/Automecanic/bot-trading-spoot-sub000/internal/exchange"
)

// instrumentCache caches per-symbol order filters; the exchange updates them
// rarely, so an hourly refresh is plenty.
type instrumentCache struct {
	client         *Client
	filters        map[string]exchange.SymbolFilters
	fetchedAt      map[string]time.Time
	mutex          sync.RWMutex
	updateInterval time.Duration
}

func newInstrumentCache(client *Client) *instrumentCache {
	return &instrumentCache{
		client:         client,
		filters:        make(map[string]exchange.SymbolFilters),
		fetchedAt:      make(map[string]time.Time),
		updateInterval: time.Hour,
	}
}

// GetSymbolFilters returns the lot step and minimum notional for a symbol.
func (c *Client) GetSymbolFilters(ctx context.Context, symbol string) (exchange.SymbolFilters, error) {
	return c.instruments.get(ctx, symbol)
}

func (ic *instrumentCache) get(ctx context.Context, symbol string) (exchange.SymbolFilters, error) {
	ic.mutex.RLock()
	if filters, exists := ic.filters[symbol]; exists && time.Since(ic.fetchedAt[symbol]) < ic.updateInterval {
		ic.mutex.RUnlock()
		return filters, nil
	}
	ic.mutex.RUnlock()

	filters, err := ic.fetch(ctx, symbol)
	if err != nil {
		return exchange.SymbolFilters{}, err
	}

	ic.mutex.Lock()
	ic.filters[symbol] = filters
	ic.fetchedAt[symbol] = time.Now()
	ic.mutex.Unlock()

	return filters, nil
}

func (ic *instrumentCache) fetch(ctx context.Context, symbol string) (exchange.SymbolFilters, error) {
	params := map[string]interface{}{
		"category": ic.client.category,
		"symbol":   symbol,
	}

	result, err := ic.client.httpClient.NewUtaBybitServiceWithParams(params).GetInstrumentInfo(ctx)
	if err != nil {
		return exchange.SymbolFilters{}, fmt.Errorf("failed to fetch instrument info: %w", err)
	}

	return ic.parseInstrumentInfoResponse(result, symbol)
}

func (ic *instrumentCache) parseInstrumentInfoResponse(response interface{}, targetSymbol string) (exchange.SymbolFilters, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return exchange.SymbolFilters{}, fmt.Errorf("invalid response type")
	}

	if serverResp.RetCode != 0 {
		return exchange.SymbolFilters{}, fmt.Errorf("API error: %s (code: %d)", serverResp.RetMsg, serverResp.RetCode)
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return exchange.SymbolFilters{}, fmt.Errorf("failed to marshal result: %w", err)
	}

	var instrumentResult struct {
		Category string `json:"category"`
		List     []struct {
			Symbol        string `json:"symbol"`
			LotSizeFilter struct {
				MinNotionalValue string `json:"minNotionalValue"`
				MinOrderQty      string `json:"minOrderQty"`
				QtyStep          string `json:"qtyStep"`
				BasePrecision    string `json:"basePrecision"`
				MinOrderAmt      string `json:"minOrderAmt"`
			} `json:"lotSizeFilter"`
		} `json:"list"`
	}

	if err := json.Unmarshal(resultBytes, &instrumentResult); err != nil {
		return exchange.SymbolFilters{}, fmt.Errorf("failed to unmarshal instrument result: %w", err)
	}

	for _, item := range instrumentResult.List {
		if item.Symbol != targetSymbol {
			continue
		}

		filters := exchange.SymbolFilters{
			StepSize:    parseFloat64(item.LotSizeFilter.QtyStep),
			MinNotional: parseFloat64(item.LotSizeFilter.MinNotionalValue),
		}
		// Spot instruments express the lot step as basePrecision and the
		// notional floor as minOrderAmt
		if filters.StepSize == 0 {
			filters.StepSize = parseFloat64(item.LotSizeFilter.BasePrecision)
		}
		if filters.MinNotional == 0 {
			filters.MinNotional = parseFloat64(item.LotSizeFilter.MinOrderAmt)
		}
		return filters, nil
	}

	return exchange.SymbolFilters{}, fmt.Errorf("instrument %s not found", targetSymbol)
}
