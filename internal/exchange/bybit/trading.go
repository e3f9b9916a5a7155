package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
	"github.com/google/uuid"

	"github.com/Automecanic/bot-trading-spoot-sub000/internal/exchange"
)

// PlaceMarketOrder submits a spot market order, waits for its final status
// and returns the fill. The quantity is formatted against the instrument's
// lot step so the exchange accepts it as-is.
func (c *Client) PlaceMarketOrder(ctx context.Context, symbol string, side exchange.Side, quantity float64) (*exchange.Fill, error) {
	filters, err := c.GetSymbolFilters(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve order filters: %w", err)
	}

	qtyStr := formatQuantity(quantity, filters.StepSize)

	apiParams := map[string]interface{}{
		"category":    c.category,
		"symbol":      symbol,
		"side":        string(side),
		"orderType":   "Market",
		"qty":         qtyStr,
		"orderLinkId": uuid.NewString(),
	}
	// Spot market buys default to quote-denominated quantities; this bot
	// always sizes in base units
	if c.category == "spot" {
		apiParams["marketUnit"] = "baseCoin"
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(apiParams).PlaceOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	orderID, err := c.parsePlaceOrderResponse(result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order response: %w", err)
	}

	return c.awaitFill(ctx, symbol, orderID)
}

// awaitFill polls the order status until it reaches a terminal state. Market
// orders fill almost immediately; the loop is a guard against slow matching.
func (c *Client) awaitFill(ctx context.Context, symbol, orderID string) (*exchange.Fill, error) {
	for attempt := 0; attempt < 10; attempt++ {
		order, err := c.getOrderStatus(ctx, symbol, orderID)
		if err != nil {
			return nil, err
		}

		switch order.Status {
		case "Filled":
			return &exchange.Fill{
				Price:    parseFloat64(order.AvgPrice),
				Quantity: parseFloat64(order.CumExecQty),
				Status:   order.Status,
			}, nil
		case "Rejected", "Cancelled":
			return nil, fmt.Errorf("order %s was %s", orderID, order.Status)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}

	return nil, fmt.Errorf("order %s did not reach a final status", orderID)
}

type orderStatus struct {
	OrderID    string `json:"orderId"`
	Status     string `json:"orderStatus"`
	AvgPrice   string `json:"avgPrice"`
	CumExecQty string `json:"cumExecQty"`
}

func (c *Client) getOrderStatus(ctx context.Context, symbol, orderID string) (*orderStatus, error) {
	params := map[string]interface{}{
		"category": c.category,
		"symbol":   symbol,
		"orderId":  orderID,
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(params).GetOrderHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get order status: %w", err)
	}

	return c.parseOrderStatusResponse(result, orderID)
}

func (c *Client) parseOrderStatusResponse(response interface{}, orderID string) (*orderStatus, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok || serverResp == nil {
		return nil, fmt.Errorf("invalid response type")
	}

	if serverResp.RetCode != 0 {
		return nil, fmt.Errorf("API error: %s (code: %d)", serverResp.RetMsg, serverResp.RetCode)
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	var historyResult struct {
		List []orderStatus `json:"list"`
	}
	if err := json.Unmarshal(resultBytes, &historyResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order history: %w", err)
	}

	for _, order := range historyResult.List {
		if order.OrderID == orderID {
			return &order, nil
		}
	}

	return nil, fmt.Errorf("order %s not found in history", orderID)
}

func (c *Client) parsePlaceOrderResponse(response interface{}) (string, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return "", fmt.Errorf("invalid response type")
	}

	if serverResp.RetCode != 0 {
		return "", fmt.Errorf("API error: %s (code: %d)", serverResp.RetMsg, serverResp.RetCode)
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	var orderResult struct {
		OrderID     string `json:"orderId"`
		OrderLinkID string `json:"orderLinkId"`
	}
	if err := json.Unmarshal(resultBytes, &orderResult); err != nil {
		return "", fmt.Errorf("failed to unmarshal order result: %w", err)
	}

	if orderResult.OrderID == "" {
		return "", fmt.Errorf("order response contained no order ID")
	}

	return orderResult.OrderID, nil
}

// formatQuantity floors a quantity to the lot step and renders it with the
// decimal places the step itself carries, so e.g. step 0.001 gives three
// decimals and step 0.25 gives two. Flooring instead of rounding keeps the
// rendered value step-aligned for steps that are not powers of ten.
func formatQuantity(quantity, step float64) string {
	if step <= 0 {
		return strconv.FormatFloat(quantity, 'f', -1, 64)
	}
	// Small epsilon keeps an exact multiple from flooring one step short
	quantity = math.Floor(quantity/step+1e-9) * step
	return strconv.FormatFloat(quantity, 'f', stepDecimals(step), 64)
}

func stepDecimals(step float64) int {
	s := strconv.FormatFloat(step, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}
