package risk

import (
	"fmt"
	"time"
)

// StopInputs bundles everything EvaluateStops needs for one position on one
// tick. HighWaterMark is the value from the previous tick; zero seeds it
// from the entry price.
type StopInputs struct {
	EntryPrice    float64
	CurrentPrice  float64
	Side          Side
	EntryTime     time.Time
	Now           time.Time
	HighWaterMark float64
}

// EvaluateStops runs the exit triggers for an open position in a fixed
// order: take-profit, trailing stop, fixed stop-loss, time stop. The first
// trigger to fire decides the reason code; any exit closes the whole
// position so the order only matters for reporting. The returned
// HighWaterMark is always the updated mark and must be threaded into the
// next call by the caller.
func EvaluateStops(in StopInputs, lim Limits) (ExitDecision, error) {
	if in.EntryPrice <= 0 || in.CurrentPrice <= 0 {
		return ExitDecision{}, fmt.Errorf("%w: prices must be positive, entry %v current %v",
			ErrInvalidInput, in.EntryPrice, in.CurrentPrice)
	}

	hwm := advanceMark(in.HighWaterMark, in.EntryPrice, in.CurrentPrice, in.Side)

	var ret float64
	if in.Side == Short {
		ret = (in.EntryPrice - in.CurrentPrice) / in.EntryPrice
	} else {
		ret = (in.CurrentPrice - in.EntryPrice) / in.EntryPrice
	}

	d := ExitDecision{Code: CodeHold, Return: ret, HighWaterMark: hwm}

	if lim.TakeProfitPct > 0 && ret >= lim.TakeProfitPct {
		d.Exit = true
		d.Code = CodeTakeProfit
		d.Reason = fmt.Sprintf("target reached: return %.2f%% >= %.2f%%", 100*ret, 100*lim.TakeProfitPct)
		return d, nil
	}

	if lim.TrailingStopPct > 0 {
		var retrace float64
		if in.Side == Short {
			retrace = (in.CurrentPrice - hwm) / hwm
		} else {
			retrace = (hwm - in.CurrentPrice) / hwm
		}
		if retrace >= lim.TrailingStopPct {
			d.Exit = true
			d.Code = CodeTrailingStop
			d.Reason = fmt.Sprintf("retraced %.2f%% from mark %.4f, limit %.2f%%",
				100*retrace, hwm, 100*lim.TrailingStopPct)
			return d, nil
		}
	}

	if lim.StopLossPct > 0 && ret <= -lim.StopLossPct {
		d.Exit = true
		d.Code = CodeStopLoss
		d.Reason = fmt.Sprintf("stop-loss: return %.2f%% <= -%.2f%%", 100*ret, 100*lim.StopLossPct)
		return d, nil
	}

	// Time stop only clears out stagnant losers. A profitable position may
	// outlive the holding limit.
	if lim.MaxHoldingPeriod > 0 && ret <= 0 {
		held := in.Now.Sub(in.EntryTime)
		if held >= lim.MaxHoldingPeriod {
			d.Exit = true
			d.Code = CodeTimeStop
			d.Reason = fmt.Sprintf("time stop, no profit: held %s >= %s", held, lim.MaxHoldingPeriod)
			return d, nil
		}
	}

	return d, nil
}

// advanceMark moves the high-water mark in the favorable direction only:
// up for longs, down for shorts.
func advanceMark(prev, entry, current float64, side Side) float64 {
	if prev == 0 {
		prev = entry
	}
	if side == Short {
		if current < prev {
			return current
		}
		return prev
	}
	if current > prev {
		return current
	}
	return prev
}
