package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/riskcore/risk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, 0.02, cfg.Risk.MaxPositionSize)
	assert.Equal(t, 0.95, cfg.Risk.VaRConfidence)
	assert.NoError(t, cfg.Validate())

	lim, err := cfg.Limits()
	require.NoError(t, err)
	assert.Equal(t, risk.DefaultLimits(), lim)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		errMsg  string
	}{
		{"zero position size", func(c *Config) { c.Risk.MaxPositionSize = 0 }, "max_position_size"},
		{"confidence out of range", func(c *Config) { c.Risk.VaRConfidence = 1.0 }, "var_confidence"},
		{"kelly fraction over one", func(c *Config) { c.Risk.KellyFraction = 1.2 }, "kelly_fraction"},
		{"correlation over one", func(c *Config) { c.Risk.MaxCorrelation = 1.5 }, "max_correlation"},
		{"bad holding period", func(c *Config) { c.Risk.MaxHoldingPeriod = "sometime" }, "max_holding_period"},
		{"bad sizing mode", func(c *Config) { c.Risk.SizingMode = "martingale" }, "sizing_mode"},
		{"bad journal type", func(c *Config) { c.Journal.Type = "orgmode" }, "journal.type"},
		{"sqlite without path", func(c *Config) { c.Journal = JournalConfig{Type: "sqlite"} }, "db_path"},
		{"bad monitor interval", func(c *Config) { c.Monitor.Interval = "often" }, "monitor.interval"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadFromFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "risk.yaml")

	data := `
risk:
  max_position_size: 0.05
  max_portfolio_exposure: 0.6
  max_correlation: 0.8
  daily_loss_limit: 0.03
  max_drawdown_limit: 0.10
  stop_loss_percentage: 0.015
  take_profit_percentage: 0.04
  trailing_stop_percentage: 0.02
  max_holding_period: 48h
  var_confidence: 0.99
  sizing_mode: kelly
journal:
  type: none
monitor:
  interval: 10s
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.05, cfg.Risk.MaxPositionSize)
	assert.Equal(t, "none", cfg.Journal.Type)

	lim, err := cfg.Limits()
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, lim.MaxHoldingPeriod)
	// Unset weight falls back to the position-size cap.
	assert.Equal(t, 0.05, lim.MaxPositionWeight)
	// Unset Kelly knobs keep their defaults.
	assert.Equal(t, 0.5, lim.KellyFraction)

	mode, err := cfg.SizingMode()
	require.NoError(t, err)
	assert.Equal(t, risk.Kelly, mode)
}

func TestLoadFromFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"cfg.yaml", "cfg.json"} {
		path := filepath.Join(dir, name)
		cfg := Default()
		cfg.Risk.DailyLossLimit = 0.04

		require.NoError(t, cfg.SaveToFile(path))

		got, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, cfg, got, name)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
