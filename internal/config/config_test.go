package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "https://api.monday.com/v2", cfg.Monday.BaseURL)
	assert.Equal(t, "2024-01", cfg.Monday.APIVersion)
	assert.Equal(t, 60, cfg.Monday.TimeoutSecs)
	assert.InDelta(t, 5.0, cfg.Monday.RateLimitRPS, 0.001)
	assert.Equal(t, "Deals", cfg.Boards.DealsName)
	assert.Equal(t, "Work Orders", cfg.Boards.WorkOrdersName)
	assert.Equal(t, "Amount", cfg.Columns.Deals["amount"])
	assert.Equal(t, "Close Date", cfg.Columns.Deals["close_date"])
	assert.Equal(t, "Start Date", cfg.Columns.WorkOrders["start_date"])
	assert.InDelta(t, 1.0, cfg.Query.TokenWeight, 0.001)
	assert.InDelta(t, 2.0, cfg.Query.PhraseWeight, 0.001)
	assert.InDelta(t, 0.75, cfg.Analysis.StageWeights["Negotiation"], 0.001)
	assert.InDelta(t, 1.0, cfg.Analysis.StageWeights["Closed Won"], 0.001)
	assert.InDelta(t, 0.40, cfg.Analysis.StrongWinRate, 0.001)
	assert.InDelta(t, 0.20, cfg.Analysis.WeakWinRate, 0.001)
	assert.InDelta(t, 0.20, cfg.Analysis.OnHoldRatioCeiling, 0.001)
	assert.InDelta(t, 500000, cfg.Analysis.PipelineValueFloor, 0.001)
	assert.Equal(t, 5, cfg.Analysis.MaxWarnings)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
boards:
  deals_id: "123456"
columns:
  deals:
    amount: Deal Value
    stage: Pipeline Stage
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "123456", cfg.Boards.DealsID)
	assert.Equal(t, "Deal Value", cfg.Columns.Deals["amount"])
	// Defaults still apply for unset values
	assert.Equal(t, "Deals", cfg.Boards.DealsName)
	assert.Equal(t, "2024-01", cfg.Monday.APIVersion)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("INSIGHTS_LOG_LEVEL", "warn")
	t.Setenv("INSIGHTS_MONDAY_TOKEN", "tok-123")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "tok-123", cfg.Monday.Token)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("INSIGHTS_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
