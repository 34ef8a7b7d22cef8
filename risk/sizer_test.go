package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSize_FixedFraction(t *testing.T) {
	t.Parallel()

	lim := DefaultLimits()

	got, err := Size(175.0, 100000, lim, FixedFraction, SizeParams{})
	require.NoError(t, err)
	assert.Equal(t, 11, got) // floor(100000*0.02/175)
}

func TestSize_VolatilityAdjusted(t *testing.T) {
	t.Parallel()

	lim := DefaultLimits()

	tests := []struct {
		name string
		vol  float64
		want int
	}{
		{"zero vol falls back to fixed", 0, 11},
		{"low vol capped by fixed ceiling", 2.5, 11},   // 2000/(2*2.5)=400, capped
		{"high vol shrinks size", 100, 10},             // 2000/200
		{"extreme vol", 1000, 1},                       // 2000/2000
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Size(175.0, 100000, lim, VolatilityAdjusted, SizeParams{Volatility: tt.vol})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSize_Kelly(t *testing.T) {
	t.Parallel()

	lim := DefaultLimits()
	lim.MaxPositionSize = 0.5 // keep the hard ceiling out of the way

	tests := []struct {
		name    string
		winRate float64
		avgWin  float64
		avgLoss float64
		want    int
	}{
		// f = 0.55 - 0.45/1.5 = 0.25, half-Kelly 0.125, floor(100000*0.125/175)
		{"documented edge", 0.55, 150, 100, 71},
		// f = 0.9 - 0.1/3 = 0.8667, half-Kelly 0.4333, capped at 0.20
		{"cap binds", 0.9, 300, 100, 114},
		// f = 0.4 - 0.6 < 0: no edge, no trade
		{"no edge", 0.4, 100, 100, 0},
		// boundary: win_rate == avg_loss/(avg_win+avg_loss) -> f == 0
		{"exact no-edge boundary", 0.5, 100, 100, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Size(175.0, 100000, lim, Kelly, SizeParams{
				WinRate: tt.winRate, AvgWin: tt.avgWin, AvgLoss: tt.avgLoss,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSize_HardCeilingAcrossModes(t *testing.T) {
	t.Parallel()

	lim := DefaultLimits()
	equity := 250000.0
	price := 42.5
	limit := equity * lim.MaxPositionSize

	params := SizeParams{Volatility: 0.5, WinRate: 0.9, AvgWin: 500, AvgLoss: 50}

	for _, mode := range []SizeMode{FixedFraction, VolatilityAdjusted, Kelly} {
		got, err := Size(price, equity, lim, mode, params)
		require.NoError(t, err, mode.String())
		assert.LessOrEqual(t, float64(got)*price, limit+1e-9,
			"mode %s breached the position-size ceiling", mode)
	}
}

func TestSize_InvalidInput(t *testing.T) {
	t.Parallel()

	lim := DefaultLimits()

	tests := []struct {
		name   string
		price  float64
		equity float64
		mode   SizeMode
		params SizeParams
	}{
		{"zero price", 0, 100000, FixedFraction, SizeParams{}},
		{"negative price", -175, 100000, FixedFraction, SizeParams{}},
		{"negative equity", 175, -1, FixedFraction, SizeParams{}},
		{"negative volatility", 175, 100000, VolatilityAdjusted, SizeParams{Volatility: -1}},
		{"win rate above one", 175, 100000, Kelly, SizeParams{WinRate: 1.2, AvgWin: 100, AvgLoss: 100}},
		{"zero avg loss", 175, 100000, Kelly, SizeParams{WinRate: 0.5, AvgWin: 100, AvgLoss: 0}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Size(tt.price, tt.equity, lim, tt.mode, tt.params)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
