// Package sizing converts available capital and risk settings into
// exchange-legal order quantities. A zero result means "do not trade this
// cycle" and is a valid outcome, never an error.
package sizing

import "math"

// Constraints holds the exchange order filters for a symbol.
type Constraints struct {
	StepSize    float64 // Minimum quantity increment
	MinNotional float64 // Minimum order value in quote currency
}

// QuantizeDown floors a quantity to the nearest step multiple. Never rounds
// up: overshooting the risk budget or the available balance is forbidden.
func QuantizeDown(qty, step float64) float64 {
	if step <= 0 {
		return qty
	}
	// Small epsilon keeps an exact multiple from flooring one step short
	return math.Floor(qty/step+1e-9) * step
}

// OrderQuantity sizes a market buy against the available quote balance.
//
// The target quantity risks balance*riskFrac when the stop at
// price*(1-stopFrac) is hit, floored to the step size and capped at what the
// balance can actually buy. When the result falls below the exchange minimum
// notional, the quantity is raised to the minimum tradable amount only if its
// cost still fits in the balance; otherwise zero is returned.
func OrderQuantity(balance, price, riskFrac, stopFrac float64, c Constraints) float64 {
	if balance <= 0 || price <= 0 {
		return 0
	}

	lossPerUnit := price * stopFrac
	if lossPerUnit <= 0 {
		return 0
	}

	riskBudget := balance * riskFrac
	qty := QuantizeDown(riskBudget/lossPerUnit, c.StepSize)

	// Cannot spend more than the available balance
	maxAffordable := QuantizeDown(balance/price, c.StepSize)
	if qty > maxAffordable {
		qty = maxAffordable
	}

	if qty*price < c.MinNotional {
		// Try the minimum tradable quantity instead; ceil to the step so the
		// notional floor is actually cleared
		minQty := c.MinNotional / price
		if c.StepSize > 0 {
			minQty = math.Ceil(minQty/c.StepSize) * c.StepSize
		}
		if minQty*price > balance {
			return 0
		}
		qty = minQty
	}

	if qty <= 0 {
		return 0
	}
	return qty
}
