package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stopLimits() Limits {
	lim := DefaultLimits()
	lim.StopLossPct = 0.02
	lim.TakeProfitPct = 0.05
	lim.TrailingStopPct = 0.03
	lim.MaxHoldingPeriod = 24 * time.Hour
	return lim
}

func TestEvaluateStops_FixedStopLong(t *testing.T) {
	t.Parallel()

	lim := stopLimits()
	now := time.Now()
	entry := now.Add(-time.Hour)

	// -1.71% is inside the 2% stop
	d, err := EvaluateStops(StopInputs{
		EntryPrice: 175, CurrentPrice: 172, Side: Long,
		EntryTime: entry, Now: now,
	}, lim)
	require.NoError(t, err)
	assert.False(t, d.Exit)
	assert.Equal(t, CodeHold, d.Code)

	// -2.86% breaches it
	d, err = EvaluateStops(StopInputs{
		EntryPrice: 175, CurrentPrice: 170, Side: Long,
		EntryTime: entry, Now: now,
	}, lim)
	require.NoError(t, err)
	assert.True(t, d.Exit)
	assert.Equal(t, CodeStopLoss, d.Code)
}

func TestEvaluateStops_TakeProfit(t *testing.T) {
	t.Parallel()

	lim := stopLimits()
	now := time.Now()

	tests := []struct {
		name    string
		side    Side
		entry   float64
		current float64
		exit    bool
	}{
		{"long just below target", Long, 100, 104.9, false},
		{"long at target", Long, 100, 105, true},
		{"short at target", Short, 100, 95, true},
		{"short just below target", Short, 100, 95.1, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d, err := EvaluateStops(StopInputs{
				EntryPrice: tt.entry, CurrentPrice: tt.current, Side: tt.side,
				EntryTime: now.Add(-time.Hour), Now: now,
			}, lim)
			require.NoError(t, err)
			assert.Equal(t, tt.exit, d.Exit)
			if tt.exit {
				assert.Equal(t, CodeTakeProfit, d.Code)
			}
		})
	}
}

func TestEvaluateStops_TrailingLong(t *testing.T) {
	t.Parallel()

	lim := stopLimits()
	now := time.Now()
	entry := now.Add(-time.Hour)

	// Mark at 100 from earlier ticks, entry low enough that no other
	// trigger is near.
	base := StopInputs{
		EntryPrice: 96, Side: Long, HighWaterMark: 100,
		EntryTime: entry, Now: now,
	}

	in := base
	in.CurrentPrice = 97.5 // 2.5% off the mark
	d, err := EvaluateStops(in, lim)
	require.NoError(t, err)
	assert.False(t, d.Exit)
	assert.InDelta(t, 100, d.HighWaterMark, 1e-12)

	in.CurrentPrice = 97 // exactly 3% off the mark
	d, err = EvaluateStops(in, lim)
	require.NoError(t, err)
	assert.True(t, d.Exit)
	assert.Equal(t, CodeTrailingStop, d.Code)
}

func TestEvaluateStops_TrailingShort(t *testing.T) {
	t.Parallel()

	lim := stopLimits()
	lim.TakeProfitPct = 0.5 // keep take-profit out of the way
	now := time.Now()

	d, err := EvaluateStops(StopInputs{
		EntryPrice: 100, CurrentPrice: 83, Side: Short, HighWaterMark: 80,
		EntryTime: now.Add(-time.Hour), Now: now,
	}, lim)
	require.NoError(t, err)
	assert.True(t, d.Exit)
	assert.Equal(t, CodeTrailingStop, d.Code)
	assert.InDelta(t, 80, d.HighWaterMark, 1e-12)
}

func TestEvaluateStops_HighWaterMarkMonotonic(t *testing.T) {
	t.Parallel()

	lim := stopLimits()
	lim.TakeProfitPct = 0 // let the rally run
	now := time.Now()

	hwm := 0.0
	prev := 0.0
	for price := 100.0; price < 104; price += 0.25 {
		d, err := EvaluateStops(StopInputs{
			EntryPrice: 100, CurrentPrice: price, Side: Long, HighWaterMark: hwm,
			EntryTime: now.Add(-time.Minute), Now: now,
		}, lim)
		require.NoError(t, err)
		assert.False(t, d.Exit)
		assert.GreaterOrEqual(t, d.HighWaterMark, prev)
		prev = d.HighWaterMark
		hwm = d.HighWaterMark
	}
	assert.InDelta(t, 103.75, hwm, 1e-9)
}

func TestEvaluateStops_TimeStop(t *testing.T) {
	t.Parallel()

	lim := stopLimits()
	now := time.Now()
	stale := now.Add(-25 * time.Hour)

	// Flat past the holding limit: close it out.
	d, err := EvaluateStops(StopInputs{
		EntryPrice: 100, CurrentPrice: 100, Side: Long,
		EntryTime: stale, Now: now,
	}, lim)
	require.NoError(t, err)
	assert.True(t, d.Exit)
	assert.Equal(t, CodeTimeStop, d.Code)

	// Profitable past the limit: let it ride.
	d, err = EvaluateStops(StopInputs{
		EntryPrice: 100, CurrentPrice: 102, Side: Long, HighWaterMark: 102,
		EntryTime: stale, Now: now,
	}, lim)
	require.NoError(t, err)
	assert.False(t, d.Exit)
}

func TestEvaluateStops_TakeProfitWinsSimultaneous(t *testing.T) {
	t.Parallel()

	lim := stopLimits()
	now := time.Now()

	// Both take-profit (+7%) and trailing (10.8% retrace from 120) fire on
	// this tick; take-profit is evaluated first and owns the reason.
	d, err := EvaluateStops(StopInputs{
		EntryPrice: 100, CurrentPrice: 107, Side: Long, HighWaterMark: 120,
		EntryTime: now.Add(-time.Hour), Now: now,
	}, lim)
	require.NoError(t, err)
	assert.True(t, d.Exit)
	assert.Equal(t, CodeTakeProfit, d.Code)
}

func TestEvaluateStops_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := EvaluateStops(StopInputs{EntryPrice: 0, CurrentPrice: 100}, stopLimits())
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = EvaluateStops(StopInputs{EntryPrice: 100, CurrentPrice: -1}, stopLimits())
	assert.ErrorIs(t, err, ErrInvalidInput)
}
