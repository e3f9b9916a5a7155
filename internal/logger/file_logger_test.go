package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T, name string) (*Logger, string) {
	t.Helper()

	log, err := NewLogger(name)
	require.NoError(t, err)

	path := filepath.Join("logs", fmt.Sprintf("%s_%s.log", name, time.Now().Format("2006-01-02")))
	t.Cleanup(func() {
		log.Close()
		os.Remove(path)
	})

	return log, path
}

func TestLogger_PercentInArgsLoggedVerbatim(t *testing.T) {
	log, path := newTestLogger(t, "percent_test")

	// External strings (usernames, command kinds) go through format args,
	// never through the format string itself
	log.Info("connected as @%s", "trader_50%_club")
	log.Warning("dropping %s", "SET_PARAM")
	require.NoError(t, log.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(content), "trader_50%_club")
	assert.Contains(t, string(content), "dropping SET_PARAM")
	assert.NotContains(t, string(content), "%!")
}

func TestLogger_LevelTags(t *testing.T) {
	log, path := newTestLogger(t, "level_test")

	log.Info("info line")
	log.Trade("trade line")
	require.NoError(t, log.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(content), "[INFO] info line")
	assert.Contains(t, string(content), "[TRADE] trade line")
}
