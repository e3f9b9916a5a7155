// Package commands defines the operator command surface of the bot.
// Commands arrive from an external source (Telegram in production) and
// are drained between trading cycles so a slow operator channel never
// blocks the cycle loop.
package commands

// Kind identifies a parsed operator command.
type Kind string

const (
	KindSetParam Kind = "SET_PARAM"
	KindStatus   Kind = "STATUS"
	KindReport   Kind = "REPORT"
	KindSellNow  Kind = "SELL_NOW"
	KindHelp     Kind = "HELP"
)

// Command is a single parsed operator instruction.
type Command struct {
	Kind Kind

	// ParamName and ParamValue are set for SET_PARAM.
	ParamName  string
	ParamValue float64

	// Symbol is set for SELL_NOW.
	Symbol string
}

// Source delivers operator commands to the bot.
type Source interface {
	// Drain returns all commands received since the last call without
	// blocking. An empty slice means nothing is pending.
	Drain() []Command
}

// NopSource is used when no command channel is configured.
type NopSource struct{}

func (NopSource) Drain() []Command { return nil }
