package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, 200, c.Strategy.SMAWindow)
	assert.Equal(t, 21, c.Strategy.MomentumSessions)
	assert.Equal(t, 15, c.Strategy.TopK)
	assert.Equal(t, 2, c.Strategy.MaxPositions)
	assert.Equal(t, 7, c.Strategy.RebalanceDayMax)
	assert.Equal(t, "file", c.State.Backend)
	assert.Equal(t, 25000.0, c.State.InitialCash)
	assert.Equal(t, "^NSEI", c.MarketData.Benchmark)
	assert.Len(t, c.MarketData.DefaultUniverse, 5)
	assert.False(t, c.Commands.MergeLots)
}

func TestLoad_OverridesAndBackfills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
strategy:
  max_positions: 3
state:
  backend: sqlite
  path: /tmp/state.db
commands:
  merge_lots: true
`), 0644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, c.Strategy.MaxPositions)
	assert.Equal(t, "sqlite", c.State.Backend)
	assert.True(t, c.Commands.MergeLots)
	// untouched sections still get defaults
	assert.Equal(t, 200, c.Strategy.SMAWindow)
	assert.Equal(t, "https://api.telegram.org", c.Telegram.BaseURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestReadSecrets(t *testing.T) {
	c := Default()

	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	assert.Error(t, c.ReadSecrets())

	t.Setenv("TELEGRAM_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "chat")
	require.NoError(t, c.ReadSecrets())
	assert.Equal(t, "tok", c.Telegram.Token)
	assert.Equal(t, "chat", c.Telegram.ChatID)
}
