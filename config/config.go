package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/riskcore/risk"
	"gopkg.in/yaml.v3"
)

// Config is the process configuration: the risk limits plus the settings for
// the caller-side collaborators (journal, monitor). It is loaded once at
// startup; a reload means loading a fresh Config and rebuilding the engine's
// Limits, never mutating them in place.
type Config struct {
	Risk    RiskConfig    `json:"risk" yaml:"risk"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Monitor MonitorConfig `json:"monitor" yaml:"monitor"`
}

// RiskConfig mirrors risk.Limits field by field using the settings names the
// rest of the application knows.
type RiskConfig struct {
	MaxPositionSize        float64 `json:"max_position_size" yaml:"max_position_size"`
	MaxPositionWeight      float64 `json:"max_position_weight,omitempty" yaml:"max_position_weight,omitempty"`
	MaxPortfolioExposure   float64 `json:"max_portfolio_exposure" yaml:"max_portfolio_exposure"`
	MaxCorrelation         float64 `json:"max_correlation" yaml:"max_correlation"`
	DailyLossLimit         float64 `json:"daily_loss_limit" yaml:"daily_loss_limit"`
	MaxDrawdownLimit       float64 `json:"max_drawdown_limit" yaml:"max_drawdown_limit"`
	StopLossPercentage     float64 `json:"stop_loss_percentage" yaml:"stop_loss_percentage"`
	TakeProfitPercentage   float64 `json:"take_profit_percentage" yaml:"take_profit_percentage"`
	TrailingStopPercentage float64 `json:"trailing_stop_percentage" yaml:"trailing_stop_percentage"`
	MaxHoldingPeriod       string  `json:"max_holding_period,omitempty" yaml:"max_holding_period,omitempty"` // e.g. "24h", empty disables
	VaRConfidence          float64 `json:"var_confidence" yaml:"var_confidence"`
	KellyFraction          float64 `json:"kelly_fraction,omitempty" yaml:"kelly_fraction,omitempty"`
	KellyCap               float64 `json:"kelly_cap,omitempty" yaml:"kelly_cap,omitempty"`
	SizingMode             string  `json:"sizing_mode,omitempty" yaml:"sizing_mode,omitempty"` // fixed | volatility | kelly
}

// JournalConfig selects where decisions and equity snapshots get recorded.
type JournalConfig struct {
	Type          string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	DecisionsFile string `json:"decisions_file,omitempty" yaml:"decisions_file,omitempty"`
	EquityFile    string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath        string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// MonitorConfig drives the position watch loop.
type MonitorConfig struct {
	Interval    string `json:"interval" yaml:"interval"` // e.g. "5s"
	MetricsAddr string `json:"metrics_addr,omitempty" yaml:"metrics_addr,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration out, YAML for .yaml/.yml extensions
// and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks every limit for sanity before the engine sees it.
func (c *Config) Validate() error {
	r := c.Risk
	if r.MaxPositionSize <= 0 || r.MaxPositionSize > 1 {
		return fmt.Errorf("risk.max_position_size must be in (0,1]")
	}
	if r.MaxPositionWeight < 0 || r.MaxPositionWeight > 1 {
		return fmt.Errorf("risk.max_position_weight must be in [0,1]")
	}
	if r.MaxPortfolioExposure <= 0 {
		return fmt.Errorf("risk.max_portfolio_exposure must be positive")
	}
	if r.MaxCorrelation < 0 || r.MaxCorrelation > 1 {
		return fmt.Errorf("risk.max_correlation must be in [0,1]")
	}
	// Zero means the breaker is disabled, same as the stop percentages.
	if r.DailyLossLimit < 0 || r.MaxDrawdownLimit < 0 {
		return fmt.Errorf("risk loss limits must be non-negative")
	}
	if r.StopLossPercentage < 0 || r.TakeProfitPercentage < 0 || r.TrailingStopPercentage < 0 {
		return fmt.Errorf("risk stop percentages must be non-negative")
	}
	if r.VaRConfidence <= 0 || r.VaRConfidence >= 1 {
		return fmt.Errorf("risk.var_confidence must be in (0,1)")
	}
	if r.KellyFraction <= 0 || r.KellyFraction > 1 {
		return fmt.Errorf("risk.kelly_fraction must be in (0,1]")
	}
	if r.KellyCap < 0 || r.KellyCap > 1 {
		return fmt.Errorf("risk.kelly_cap must be in [0,1]")
	}
	if r.MaxHoldingPeriod != "" {
		if _, err := time.ParseDuration(r.MaxHoldingPeriod); err != nil {
			return fmt.Errorf("risk.max_holding_period: %w", err)
		}
	}
	if _, err := c.SizingMode(); err != nil {
		return err
	}

	switch c.Journal.Type {
	case "csv":
		if c.Journal.DecisionsFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal decisions_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}

	if c.Monitor.Interval != "" {
		if _, err := time.ParseDuration(c.Monitor.Interval); err != nil {
			return fmt.Errorf("monitor.interval: %w", err)
		}
	}
	return nil
}

// Limits converts the validated settings into the engine's immutable limits
// value. An unset position weight defaults to the position-size cap.
func (c *Config) Limits() (risk.Limits, error) {
	r := c.Risk

	weight := r.MaxPositionWeight
	if weight == 0 {
		weight = r.MaxPositionSize
	}

	var hold time.Duration
	if r.MaxHoldingPeriod != "" {
		var err error
		if hold, err = time.ParseDuration(r.MaxHoldingPeriod); err != nil {
			return risk.Limits{}, fmt.Errorf("risk.max_holding_period: %w", err)
		}
	}

	return risk.Limits{
		MaxPositionSize:      r.MaxPositionSize,
		MaxPositionWeight:    weight,
		MaxPortfolioExposure: r.MaxPortfolioExposure,
		MaxCorrelation:       r.MaxCorrelation,
		DailyLossLimit:       r.DailyLossLimit,
		MaxDrawdownLimit:     r.MaxDrawdownLimit,
		StopLossPct:          r.StopLossPercentage,
		TrailingStopPct:      r.TrailingStopPercentage,
		TakeProfitPct:        r.TakeProfitPercentage,
		MaxHoldingPeriod:     hold,
		VaRConfidence:        r.VaRConfidence,
		KellyFraction:        r.KellyFraction,
		KellyCap:             r.KellyCap,
	}, nil
}

// SizingMode maps the configured mode name to the engine enum.
func (c *Config) SizingMode() (risk.SizeMode, error) {
	switch c.Risk.SizingMode {
	case "", "fixed":
		return risk.FixedFraction, nil
	case "volatility":
		return risk.VolatilityAdjusted, nil
	case "kelly":
		return risk.Kelly, nil
	default:
		return 0, fmt.Errorf("unknown sizing_mode: %s", c.Risk.SizingMode)
	}
}

// Default returns a configuration with the standard limits.
func Default() *Config {
	return &Config{
		Risk: RiskConfig{
			MaxPositionSize:        0.02,
			MaxPortfolioExposure:   0.50,
			MaxCorrelation:         0.70,
			DailyLossLimit:         0.05,
			MaxDrawdownLimit:       0.15,
			StopLossPercentage:     0.02,
			TakeProfitPercentage:   0.05,
			TrailingStopPercentage: 0.03,
			MaxHoldingPeriod:       "24h",
			VaRConfidence:          0.95,
			KellyFraction:          0.5,
			KellyCap:               0.20,
			SizingMode:             "fixed",
		},
		Journal: JournalConfig{
			Type:          "csv",
			DecisionsFile: "./decisions.csv",
			EquityFile:    "./equity.csv",
		},
		Monitor: MonitorConfig{
			Interval: "5s",
		},
	}
}
