package journal

import (
	"time"

	"github.com/rustyeddy/riskcore/pkg/id"
	"github.com/rustyeddy/riskcore/risk"
)

// DecisionRecord is one persisted risk decision: either a pre-trade gate
// ("open") or an in-trade stop evaluation that fired ("exit"). The engine
// itself never stores anything; the caller journals what it acted on.
type DecisionRecord struct {
	ID       string
	Time     time.Time
	Kind     string // "open" or "exit"
	Symbol   string
	Side     string
	Quantity int
	Price    float64
	Allowed  bool // for exits: the position was closed
	Code     string
	Reason   string
}

// EquitySnapshot is one row of the account equity curve, with the breaker
// inputs alongside so a day's decisions can be replayed later.
type EquitySnapshot struct {
	Time     time.Time
	Equity   float64
	DayPL    float64
	Drawdown float64
}

type Journal interface {
	RecordDecision(DecisionRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// NewOpenRecord builds the journal row for a pre-trade decision.
func NewOpenRecord(symbol string, side risk.Side, quantity int, price float64, d risk.Decision, now time.Time) DecisionRecord {
	return DecisionRecord{
		ID:       id.At(now),
		Time:     now,
		Kind:     "open",
		Symbol:   symbol,
		Side:     side.String(),
		Quantity: quantity,
		Price:    price,
		Allowed:  d.Allowed,
		Code:     d.Code,
		Reason:   d.Reason,
	}
}

// NewExitRecord builds the journal row for a stop evaluation that fired.
func NewExitRecord(pos risk.PositionState, price float64, d risk.ExitDecision, now time.Time) DecisionRecord {
	return DecisionRecord{
		ID:       id.At(now),
		Time:     now,
		Kind:     "exit",
		Symbol:   pos.Symbol,
		Side:     pos.Side.String(),
		Quantity: pos.Quantity,
		Price:    price,
		Allowed:  d.Exit,
		Code:     d.Code,
		Reason:   d.Reason,
	}
}

// Nop discards everything; used when journaling is configured off.
type Nop struct{}

func (Nop) RecordDecision(DecisionRecord) error { return nil }
func (Nop) RecordEquity(EquitySnapshot) error   { return nil }
func (Nop) Close() error                        { return nil }
