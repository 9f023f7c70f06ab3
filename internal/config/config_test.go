package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, 3, c.Coaching.HistoryWindow)
	assert.Equal(t, 10, c.Coaching.MinTranscriptLength)
	assert.Equal(t, "sqlite", c.Database.Driver)
	assert.Equal(t, ":9002", c.Addr())
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 8123
llm:
  provider: anthropic
  model: claude-3-5-haiku-20241022
  timeout: 30s
coaching:
  history_window: 5
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	t.Setenv("PORT", "7000")
	t.Setenv("LLM_API_KEY", "secret")

	c := Load(path)
	assert.Equal(t, 7000, c.Server.Port)
	assert.Equal(t, "anthropic", c.LLM.Provider)
	assert.Equal(t, "claude-3-5-haiku-20241022", c.LLM.Model)
	assert.Equal(t, 30*time.Second, c.LLM.Timeout)
	assert.Equal(t, "secret", c.LLM.APIKey)
	assert.Equal(t, 5, c.Coaching.HistoryWindow)
	// untouched sections keep their defaults
	assert.Equal(t, 10, c.Coaching.MinTranscriptLength)
}

func TestOpenGormDBSQLite(t *testing.T) {
	c := Default()
	c.Database.Path = filepath.Join(t.TempDir(), "test.db")

	db, err := c.OpenGormDB()
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
	sqlDB.Close()
}

func TestOpenGormDBUnknownDriver(t *testing.T) {
	c := Default()
	c.Database.Driver = "oracle"
	_, err := c.OpenGormDB()
	assert.Error(t, err)
}
