package risk

import "time"

// Side is the direction of a position.
type Side int

const (
	Long Side = iota
	Short
)

func (s Side) String() string {
	if s == Short {
		return "short"
	}
	return "long"
}

// AccountSnapshot is the account state at a moment in time. Callers supply a
// fresh snapshot on every call; the engine never caches one.
type AccountSnapshot struct {
	Equity float64
	Cash   float64
	Time   time.Time
}

// PositionState describes one open position. The caller owns this state; the
// engine receives it by value and hands back updated copies (most importantly
// the high-water mark, which must be threaded forward between calls for the
// trailing stop to work).
type PositionState struct {
	Symbol     string
	Side       Side
	EntryPrice float64
	Quantity   int
	EntryTime  time.Time

	// Best price seen since entry: highest for longs, lowest for shorts.
	// Zero means "not yet tracked" and is seeded from the entry price.
	HighWaterMark float64
}

// Notional returns the absolute position value at the given mark price.
func (p PositionState) Notional(mark float64) float64 {
	n := float64(p.Quantity) * mark
	if n < 0 {
		return -n
	}
	return n
}

// PortfolioSnapshot carries the open positions plus the historical data the
// portfolio checks need. Return series are ordered oldest to newest.
type PortfolioSnapshot struct {
	Positions []PositionState

	// Marks maps symbol -> current price for every open position.
	Marks map[string]float64

	// Returns maps symbol -> per-period return series, used for the
	// correlation, VaR and beta computations only.
	Returns map[string][]float64

	BenchmarkReturns []float64
}

// PnLSnapshot carries the running P&L figures the circuit breakers read.
// All of it is caller-maintained state; the engine only evaluates it.
type PnLSnapshot struct {
	// DayPL is realized plus unrealized P&L for the current trading day.
	DayPL float64

	StartOfDayEquity float64

	// PeakEquity is the historical high-water equity, for drawdown.
	PeakEquity float64

	Equity float64
}

// Decision is the outcome of a pre-trade check. A denied trade is the normal
// common-path outcome, not an error: Allowed is false and Code/Reason say
// which limit failed and by how much.
type Decision struct {
	Allowed bool
	Code    string
	Reason  string

	// Computed support, filled as far as the evaluation got.
	Exposure    float64 // projected portfolio exposure, fraction of equity
	Weight      float64 // candidate position weight, fraction of equity
	Correlation float64 // worst pairwise correlation vs held symbols
	VaR         float64 // one-day portfolio VaR in account currency
}

// ExitDecision is the outcome of an in-trade stop evaluation. HighWaterMark
// is the updated mark and must be written back to the PositionState by the
// caller, exit or not.
type ExitDecision struct {
	Exit   bool
	Code   string
	Reason string

	Return        float64 // unrealized return, signed, favorable positive
	HighWaterMark float64
}

// Decision codes returned by CanOpen.
const (
	CodeOK             = "OK"
	CodeDrawdownHalt   = "DRAWDOWN_HALT"
	CodeDailyLossLimit = "DAILY_LOSS_LIMIT"
	CodeExposureLimit  = "EXPOSURE_LIMIT"
	CodePositionWeight = "POSITION_WEIGHT"
	CodeCorrelation    = "CORRELATION_LIMIT"
	CodeUndetermined   = "CORRELATION_UNDETERMINED"
)

// Exit codes returned by EvaluateStops.
const (
	CodeHold         = "HOLD"
	CodeTakeProfit   = "TAKE_PROFIT"
	CodeTrailingStop = "TRAILING_STOP"
	CodeStopLoss     = "STOP_LOSS"
	CodeTimeStop     = "TIME_STOP"
)
