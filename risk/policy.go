package risk

import "time"

// Limits is the full set of risk limits for an account. It is built once at
// startup (usually via the config package) and treated as immutable: a reload
// means constructing a new Limits, never mutating one in place.
type Limits struct {
	// Sizing limits, fractions of account equity
	MaxPositionSize      float64 // 0.02
	MaxPositionWeight    float64 // 0.02
	MaxPortfolioExposure float64 // 0.50

	// Concentration
	MaxCorrelation float64 // 0.70

	// Circuit breakers; a zero limit disables that breaker
	DailyLossLimit   float64 // 0.05
	MaxDrawdownLimit float64 // 0.15

	// Per-position exits; a zero percentage disables that trigger
	StopLossPct      float64       // 0.02
	TrailingStopPct  float64       // 0.03
	TakeProfitPct    float64       // 0.05
	MaxHoldingPeriod time.Duration // 24h, zero disables the time stop

	// Analytics
	VaRConfidence float64 // 0.95

	// Kelly sizing
	KellyFraction float64 // 0.5 (half-Kelly)
	KellyCap      float64 // 0.20
}

// DefaultLimits returns the limits used when no configuration is supplied.
func DefaultLimits() Limits {
	return Limits{
		MaxPositionSize:      0.02,
		MaxPositionWeight:    0.02,
		MaxPortfolioExposure: 0.50,
		MaxCorrelation:       0.70,
		DailyLossLimit:       0.05,
		MaxDrawdownLimit:     0.15,
		StopLossPct:          0.02,
		TrailingStopPct:      0.03,
		TakeProfitPct:        0.05,
		MaxHoldingPeriod:     24 * time.Hour,
		VaRConfidence:        0.95,
		KellyFraction:        0.5,
		KellyCap:             0.20,
	}
}
