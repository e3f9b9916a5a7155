package config

import (
	"encoding/json"
	"fmt"
)

// Parameters is the process-wide trading configuration. It is mutable at
// runtime through the command surface and persisted as a flat, human-editable
// JSON object. Keys not recognized by this build pass through load/save
// unchanged.
type Parameters struct {
	EMAPeriod              int     `json:"ema_period"`
	RSIPeriod              int     `json:"rsi_period"`
	RSIOverboughtThreshold float64 `json:"rsi_overbought_threshold"`
	RiskPerTradePct        float64 `json:"risk_per_trade_pct"`
	TakeProfitPct          float64 `json:"take_profit_pct"`
	StopLossPct            float64 `json:"stop_loss_pct"`
	TrailingStopPct        float64 `json:"trailing_stop_pct"`
	BreakevenTriggerPct    float64 `json:"breakeven_trigger_pct"`
	CycleIntervalSeconds   int     `json:"cycle_interval_seconds"`
	AccumulatedRealizedPnL float64 `json:"accumulated_realized_pnl"`

	// Unrecognized keys from the loaded file, preserved verbatim on save
	extra map[string]json.RawMessage
}

// DefaultParameters returns the defaults written back on first run.
func DefaultParameters() *Parameters {
	return &Parameters{
		EMAPeriod:              10,
		RSIPeriod:              14,
		RSIOverboughtThreshold: 70,
		RiskPerTradePct:        0.01,
		TakeProfitPct:          0.03,
		StopLossPct:            0.02,
		TrailingStopPct:        0.015,
		BreakevenTriggerPct:    0.01,
		CycleIntervalSeconds:   300,
		AccumulatedRealizedPnL: 0,
	}
}

// UnmarshalJSON fills recognized keys, defaults the missing ones, and keeps
// everything else in the passthrough set.
func (p *Parameters) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = *DefaultParameters()
	p.extra = make(map[string]json.RawMessage)

	for key, value := range raw {
		var err error
		switch key {
		case "ema_period":
			err = json.Unmarshal(value, &p.EMAPeriod)
		case "rsi_period":
			err = json.Unmarshal(value, &p.RSIPeriod)
		case "rsi_overbought_threshold":
			err = json.Unmarshal(value, &p.RSIOverboughtThreshold)
		case "risk_per_trade_pct":
			err = json.Unmarshal(value, &p.RiskPerTradePct)
		case "take_profit_pct":
			err = json.Unmarshal(value, &p.TakeProfitPct)
		case "stop_loss_pct":
			err = json.Unmarshal(value, &p.StopLossPct)
		case "trailing_stop_pct":
			err = json.Unmarshal(value, &p.TrailingStopPct)
		case "breakeven_trigger_pct":
			err = json.Unmarshal(value, &p.BreakevenTriggerPct)
		case "cycle_interval_seconds":
			err = json.Unmarshal(value, &p.CycleIntervalSeconds)
		case "accumulated_realized_pnl":
			err = json.Unmarshal(value, &p.AccumulatedRealizedPnL)
		default:
			p.extra[key] = value
		}
		if err != nil {
			return fmt.Errorf("invalid value for %q: %w", key, err)
		}
	}

	return nil
}

// MarshalJSON writes the flat key/value object, recognized keys over the
// preserved passthrough set.
func (p *Parameters) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(p.extra)+10)
	for key, value := range p.extra {
		out[key] = value
	}

	out["ema_period"] = p.EMAPeriod
	out["rsi_period"] = p.RSIPeriod
	out["rsi_overbought_threshold"] = p.RSIOverboughtThreshold
	out["risk_per_trade_pct"] = p.RiskPerTradePct
	out["take_profit_pct"] = p.TakeProfitPct
	out["stop_loss_pct"] = p.StopLossPct
	out["trailing_stop_pct"] = p.TrailingStopPct
	out["breakeven_trigger_pct"] = p.BreakevenTriggerPct
	out["cycle_interval_seconds"] = p.CycleIntervalSeconds
	out["accumulated_realized_pnl"] = p.AccumulatedRealizedPnL

	return json.Marshal(out)
}

// Apply mutates one named parameter after validating its type and range.
// The accumulated ledger is not settable through the command surface.
func (p *Parameters) Apply(name string, value float64) error {
	switch name {
	case "ema_period":
		if value < 1 || value != float64(int(value)) {
			return fmt.Errorf("ema_period must be a positive integer, got %v", value)
		}
		p.EMAPeriod = int(value)
	case "rsi_period":
		if value < 1 || value != float64(int(value)) {
			return fmt.Errorf("rsi_period must be a positive integer, got %v", value)
		}
		p.RSIPeriod = int(value)
	case "rsi_overbought_threshold":
		if value < 0 || value > 100 {
			return fmt.Errorf("rsi_overbought_threshold must be in [0,100], got %v", value)
		}
		p.RSIOverboughtThreshold = value
	case "risk_per_trade_pct":
		if value <= 0 || value >= 1 {
			return fmt.Errorf("risk_per_trade_pct must be in (0,1), got %v", value)
		}
		p.RiskPerTradePct = value
	case "take_profit_pct":
		if value <= 0 {
			return fmt.Errorf("take_profit_pct must be positive, got %v", value)
		}
		p.TakeProfitPct = value
	case "stop_loss_pct":
		if value <= 0 {
			return fmt.Errorf("stop_loss_pct must be positive, got %v", value)
		}
		p.StopLossPct = value
	case "trailing_stop_pct":
		if value <= 0 {
			return fmt.Errorf("trailing_stop_pct must be positive, got %v", value)
		}
		p.TrailingStopPct = value
	case "breakeven_trigger_pct":
		if value < 0 {
			return fmt.Errorf("breakeven_trigger_pct must be non-negative, got %v", value)
		}
		p.BreakevenTriggerPct = value
	case "cycle_interval_seconds":
		if value < 1 || value != float64(int(value)) {
			return fmt.Errorf("cycle_interval_seconds must be a positive integer, got %v", value)
		}
		p.CycleIntervalSeconds = int(value)
	default:
		return fmt.Errorf("unknown parameter %q", name)
	}
	return nil
}

// SettableNames lists the parameters accepted by Apply, for the help text.
func SettableNames() []string {
	return []string{
		"ema_period",
		"rsi_period",
		"rsi_overbought_threshold",
		"risk_per_trade_pct",
		"take_profit_pct",
		"stop_loss_pct",
		"trailing_stop_pct",
		"breakeven_trigger_pct",
		"cycle_interval_seconds",
	}
}
