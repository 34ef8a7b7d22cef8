// Package monitor runs the in-trade side of the risk engine: a periodic
// sweep over open positions that asks the decision core whether each one
// must close. The engine stays pure; all price I/O, journaling and state
// threading (high-water marks) happens here.
package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/riskcore/indicators"
	"github.com/rustyeddy/riskcore/journal"
	"github.com/rustyeddy/riskcore/risk"
)

// atrPeriod is the window for the per-symbol volatility tracked off the
// sweep prices. Ticks carry no highs or lows, so the true range degrades
// to close-to-close moves.
const atrPeriod = 14

// PriceSource supplies the current price for a symbol. Implementations talk
// to a venue or a replay feed; the monitor doesn't care which.
type PriceSource interface {
	Price(ctx context.Context, symbol string) (float64, error)
}

type Monitor struct {
	mgr      *risk.Manager
	src      PriceSource
	jrnl     journal.Journal
	log      *zap.Logger
	interval time.Duration
	atrs     map[string]*indicators.ATR

	// now is swappable for tests
	now func() time.Time
}

func New(mgr *risk.Manager, src PriceSource, jrnl journal.Journal, log *zap.Logger, interval time.Duration) *Monitor {
	if jrnl == nil {
		jrnl = journal.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Monitor{
		mgr:      mgr,
		src:      src,
		jrnl:     jrnl,
		log:      log,
		interval: interval,
		atrs:     make(map[string]*indicators.ATR),
		now:      time.Now,
	}
}

// Sweep evaluates every open position once. It returns the surviving
// positions with their high-water marks advanced, plus the journal records
// for any exits taken. A failed price lookup keeps the position and moves
// on; the next sweep retries it.
func (m *Monitor) Sweep(ctx context.Context, positions []risk.PositionState) ([]risk.PositionState, []journal.DecisionRecord, error) {
	var (
		kept  []risk.PositionState
		exits []journal.DecisionRecord
	)

	for _, pos := range positions {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		price, err := m.src.Price(ctx, pos.Symbol)
		if err != nil {
			recordPriceError()
			m.log.Warn("price lookup failed, keeping position",
				zap.String("symbol", pos.Symbol), zap.Error(err))
			kept = append(kept, pos)
			continue
		}
		updateMark(pos.Symbol, price)
		m.observePrice(pos.Symbol, price)

		now := m.now()
		d, err := m.mgr.ShouldExit(pos, price, now)
		if err != nil {
			m.log.Error("stop evaluation failed",
				zap.String("symbol", pos.Symbol), zap.Error(err))
			kept = append(kept, pos)
			continue
		}

		recordCheck(d)
		pos.HighWaterMark = d.HighWaterMark

		if !d.Exit {
			kept = append(kept, pos)
			continue
		}

		rec := journal.NewExitRecord(pos, price, d, now)
		if err := m.jrnl.RecordDecision(rec); err != nil {
			m.log.Error("journal write failed", zap.String("id", rec.ID), zap.Error(err))
		}
		exits = append(exits, rec)

		m.log.Info("position exit",
			zap.String("symbol", pos.Symbol),
			zap.String("code", d.Code),
			zap.String("reason", d.Reason),
			zap.Float64("price", price),
			zap.Float64("return", d.Return))
	}

	return kept, exits, nil
}

func (m *Monitor) observePrice(symbol string, price float64) {
	a, ok := m.atrs[symbol]
	if !ok {
		a = indicators.NewATR(atrPeriod)
		m.atrs[symbol] = a
	}
	a.Update(indicators.Bar{High: price, Low: price, Close: price})
	if a.Ready() {
		updateVolatility(symbol, a.Value())
	}
}

// Volatility reports the streaming ATR for a symbol, for callers sizing an
// add to a monitored position. Zero until enough sweeps have been seen.
func (m *Monitor) Volatility(symbol string) float64 {
	if a, ok := m.atrs[symbol]; ok {
		return a.Value()
	}
	return 0
}

// Watch sweeps on the configured interval until the context is cancelled or
// every position has been closed. Positions survive between ticks with
// their updated marks, which is what makes the trailing stops work.
func (m *Monitor) Watch(ctx context.Context, positions []risk.PositionState) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for len(positions) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		var err error
		positions, _, err = m.Sweep(ctx, positions)
		if err != nil {
			return err
		}
	}
	return nil
}
