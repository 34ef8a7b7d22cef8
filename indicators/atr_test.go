package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestATRFunc_ConstantRange(t *testing.T) {
	t.Parallel()

	// Every bar spans exactly 2.0 with no gaps, so TR is always 2.0 and the
	// smoothed average stays there.
	bars := make([]Bar, 10)
	for i := range bars {
		bars[i] = Bar{High: 101, Low: 99, Close: 100}
	}

	got, err := ATRFunc(bars, 5)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-12)
}

func TestATRFunc_GapDominatesRange(t *testing.T) {
	t.Parallel()

	// A gap open makes the close-to-high distance the true range.
	bars := []Bar{
		{High: 101, Low: 99, Close: 100},
		{High: 106, Low: 105, Close: 105.5}, // TR = 106 - 100 = 6
		{High: 106, Low: 105, Close: 105.5}, // TR = 1
	}

	got, err := ATRFunc(bars, 2)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, got, 1e-12)
}

func TestATRFunc_Errors(t *testing.T) {
	t.Parallel()

	bars := []Bar{{High: 101, Low: 99, Close: 100}}

	_, err := ATRFunc(bars, 0)
	assert.Error(t, err)

	_, err = ATRFunc(bars, 5)
	assert.Error(t, err)
}

func TestATR_StreamingMatchesBatch(t *testing.T) {
	t.Parallel()

	bars := []Bar{
		{High: 101, Low: 99, Close: 100},
		{High: 102, Low: 100, Close: 101},
		{High: 103, Low: 100.5, Close: 102},
		{High: 102.5, Low: 101, Close: 101.5},
		{High: 104, Low: 101, Close: 103.5},
		{High: 105, Low: 103, Close: 104},
		{High: 104.5, Low: 102, Close: 103},
	}

	want, err := ATRFunc(bars, 3)
	require.NoError(t, err)

	a := NewATR(3)
	assert.Equal(t, 4, a.Warmup())
	for _, b := range bars {
		a.Update(b)
	}
	require.True(t, a.Ready())
	assert.InDelta(t, want, a.Value(), 1e-12)
}

func TestATR_NotReadyDuringWarmup(t *testing.T) {
	t.Parallel()

	a := NewATR(5)
	a.Update(Bar{High: 101, Low: 99, Close: 100})
	a.Update(Bar{High: 102, Low: 100, Close: 101})

	assert.False(t, a.Ready())
	assert.Zero(t, a.Value())

	a.Reset()
	assert.False(t, a.Ready())
}
