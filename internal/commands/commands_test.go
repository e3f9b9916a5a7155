package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSetParam(t *testing.T) {
	cmd, _, ok := parseMessage("/set take_profit_pct 0.05")
	require.True(t, ok)
	assert.Equal(t, KindSetParam, cmd.Kind)
	assert.Equal(t, "take_profit_pct", cmd.ParamName)
	assert.Equal(t, 0.05, cmd.ParamValue)
}

func TestParseSetParamRejectsNonNumeric(t *testing.T) {
	_, reply, ok := parseMessage("/set take_profit_pct high")
	assert.False(t, ok)
	assert.Contains(t, reply, "expected a number")
}

func TestParseSetParamRequiresTwoArgs(t *testing.T) {
	_, reply, ok := parseMessage("/set take_profit_pct")
	assert.False(t, ok)
	assert.Contains(t, reply, "Usage")
}

func TestParseSellUppercasesSymbol(t *testing.T) {
	cmd, _, ok := parseMessage("/sell btcusdt")
	require.True(t, ok)
	assert.Equal(t, KindSellNow, cmd.Kind)
	assert.Equal(t, "BTCUSDT", cmd.Symbol)
}

func TestParseSimpleCommands(t *testing.T) {
	for text, kind := range map[string]Kind{
		"/status": KindStatus,
		"/report": KindReport,
		"/help":   KindHelp,
		"/start":  KindHelp,
	} {
		cmd, _, ok := parseMessage(text)
		require.True(t, ok, text)
		assert.Equal(t, kind, cmd.Kind, text)
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, reply, ok := parseMessage("/dance")
	assert.False(t, ok)
	assert.Contains(t, reply, "Unknown command")
}

func TestParseEmptyMessage(t *testing.T) {
	_, reply, ok := parseMessage("   ")
	assert.False(t, ok)
	assert.Empty(t, reply)
}
