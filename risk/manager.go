package risk

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Manager composes the sizer, the stop evaluator and the portfolio checks
// into the two decisions callers care about: may this trade open, and must
// this position close. It holds only immutable configuration, so a single
// Manager is safe for any number of concurrent callers as long as each call
// brings its own consistent snapshots.
type Manager struct {
	Limits Limits
	Mode   SizeMode
}

func NewManager(lim Limits) *Manager {
	return &Manager{Limits: lim, Mode: FixedFraction}
}

// PositionSize recommends a quantity for a trade at the given price using
// the configured sizing mode.
func (m *Manager) PositionSize(price, equity float64, p SizeParams) (int, error) {
	return Size(price, equity, m.Limits, m.Mode, p)
}

// CanOpen gates a proposed trade. Checks run in severity order: drawdown
// halt, daily-loss breaker, portfolio exposure, single-position weight,
// correlation. The first failing check short-circuits with its reason; a
// denial is a normal Decision, not an error.
func (m *Manager) CanOpen(symbol string, side Side, quantity int, price float64,
	acct AccountSnapshot, pf PortfolioSnapshot, pnl PnLSnapshot) (Decision, error) {

	if price <= 0 {
		return Decision{}, fmt.Errorf("%w: price must be positive, got %v", ErrInvalidInput, price)
	}
	if quantity < 0 {
		return Decision{}, fmt.Errorf("%w: quantity must be non-negative, got %d", ErrInvalidInput, quantity)
	}
	if acct.Equity <= 0 {
		return Decision{}, fmt.Errorf("%w: account equity must be positive, got %v", ErrInvalidInput, acct.Equity)
	}

	d := Decision{}

	// Drawdown halt is the most severe breaker: it never self-clears, a
	// manual reset of the caller's peak-equity state is required.
	dd, err := Drawdown(pnl)
	if err != nil {
		return Decision{}, err
	}
	if m.Limits.MaxDrawdownLimit > 0 && dd >= m.Limits.MaxDrawdownLimit {
		d.Code = CodeDrawdownHalt
		d.Reason = fmt.Sprintf("drawdown %.2f%% >= limit %.2f%%, trading halted",
			100*dd, 100*m.Limits.MaxDrawdownLimit)
		return d, nil
	}

	dl, err := DailyLoss(pnl)
	if err != nil {
		return Decision{}, err
	}
	if m.Limits.DailyLossLimit > 0 && dl <= -m.Limits.DailyLossLimit {
		d.Code = CodeDailyLossLimit
		d.Reason = fmt.Sprintf("daily loss limit breached: day P&L %.2f%% <= -%.2f%%",
			100*dl, 100*m.Limits.DailyLossLimit)
		return d, nil
	}

	exposure, err := Exposure(pf, acct.Equity)
	if err != nil {
		return Decision{}, err
	}
	notional := float64(quantity) * price
	d.Exposure = exposure + notional/acct.Equity
	if d.Exposure > m.Limits.MaxPortfolioExposure {
		d.Code = CodeExposureLimit
		d.Reason = fmt.Sprintf("projected exposure %.2f%% exceeds limit %.2f%%",
			100*d.Exposure, 100*m.Limits.MaxPortfolioExposure)
		return d, nil
	}

	d.Weight = notional / acct.Equity
	if d.Weight > m.Limits.MaxPositionWeight {
		d.Code = CodePositionWeight
		d.Reason = fmt.Sprintf("position weight %.2f%% exceeds limit %.2f%%",
			100*d.Weight, 100*m.Limits.MaxPositionWeight)
		return d, nil
	}

	corr, err := WorstCorrelation(pf, symbol)
	if err != nil {
		if errors.Is(err, ErrInsufficientData) {
			// An unmeasurable correlation blocks rather than passes.
			d.Code = CodeUndetermined
			d.Reason = err.Error()
			return d, nil
		}
		return Decision{}, err
	}
	d.Correlation = corr
	if math.Abs(corr) > m.Limits.MaxCorrelation {
		d.Code = CodeCorrelation
		d.Reason = fmt.Sprintf("correlation %.2f with held position exceeds limit %.2f",
			corr, m.Limits.MaxCorrelation)
		return d, nil
	}

	// VaR is reported, not enforced.
	if v, err := VaR(pf, acct.Equity, m.Limits.VaRConfidence); err == nil {
		d.VaR = v
	}

	d.Allowed = true
	d.Code = CodeOK
	return d, nil
}

// ShouldExit evaluates the stop triggers for one open position at the
// current price. The caller must copy the returned HighWaterMark back into
// its PositionState before the next tick.
func (m *Manager) ShouldExit(pos PositionState, current float64, now time.Time) (ExitDecision, error) {
	return EvaluateStops(StopInputs{
		EntryPrice:    pos.EntryPrice,
		CurrentPrice:  current,
		Side:          pos.Side,
		EntryTime:     pos.EntryTime,
		Now:           now,
		HighWaterMark: pos.HighWaterMark,
	}, m.Limits)
}

// Summary is a point-in-time risk report for dashboards and logs.
type Summary struct {
	Equity    float64
	Exposure  float64
	DailyLoss float64
	Drawdown  float64
	VaR       float64
	Beta      float64

	CanTrade bool
	HaltedBy string
}

// Summarize reports the current risk posture without gating anything. VaR
// and beta are best-effort: short histories leave them at zero.
func (m *Manager) Summarize(acct AccountSnapshot, pf PortfolioSnapshot, pnl PnLSnapshot) (Summary, error) {
	if acct.Equity <= 0 {
		return Summary{}, fmt.Errorf("%w: account equity must be positive, got %v", ErrInvalidInput, acct.Equity)
	}

	s := Summary{Equity: acct.Equity, CanTrade: true}

	var err error
	if s.Exposure, err = Exposure(pf, acct.Equity); err != nil {
		return Summary{}, err
	}
	if s.DailyLoss, err = DailyLoss(pnl); err != nil {
		return Summary{}, err
	}
	if s.Drawdown, err = Drawdown(pnl); err != nil {
		return Summary{}, err
	}

	if v, err := VaR(pf, acct.Equity, m.Limits.VaRConfidence); err == nil {
		s.VaR = v
	}
	if b, err := Beta(pf); err == nil {
		s.Beta = b
	}

	if m.Limits.MaxDrawdownLimit > 0 && s.Drawdown >= m.Limits.MaxDrawdownLimit {
		s.CanTrade = false
		s.HaltedBy = CodeDrawdownHalt
	} else if m.Limits.DailyLossLimit > 0 && s.DailyLoss <= -m.Limits.DailyLossLimit {
		s.CanTrade = false
		s.HaltedBy = CodeDailyLossLimit
	}
	return s, nil
}
