package indicators

import (
	"fmt"
	"math"
)

// Bar is one OHLC period.
type Bar struct {
	High  float64
	Low   float64
	Close float64
}

// ATRFunc calculates the Average True Range over the whole slice of bars
// using Wilder's smoothing. It errors if there aren't enough bars for the
// period; TR needs a previous close, so period+1 bars is the minimum.
func ATRFunc(bars []Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(bars) < period+1 {
		return 0, fmt.Errorf("not enough bars: need %d, got %d", period+1, len(bars))
	}

	trs := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		trs = append(trs, trueRange(bars[i], bars[i-1]))
	}

	// Initial ATR is the simple average of the first 'period' true ranges
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += trs[i]
	}
	atr := sum / float64(period)

	// Wilder's smoothing for the rest
	for i := period; i < len(trs); i++ {
		atr = (atr*float64(period-1) + trs[i]) / float64(period)
	}
	return atr, nil
}

// ATR is a streaming Average True Range indicator. Feed it bars one at a
// time; Value returns 0 until the warmup window has filled.
type ATR struct {
	period    int
	atr       float64
	count     int
	warmupSum float64
	prev      Bar
	hasPrev   bool
}

func NewATR(period int) *ATR {
	return &ATR{period: period}
}

func (a *ATR) Name() string {
	return fmt.Sprintf("ATR(%d)", a.period)
}

func (a *ATR) Warmup() int {
	return a.period + 1
}

func (a *ATR) Reset() {
	a.atr = 0
	a.count = 0
	a.warmupSum = 0
	a.hasPrev = false
}

func (a *ATR) Update(b Bar) {
	if !a.hasPrev {
		a.prev = b
		a.hasPrev = true
		return
	}

	tr := trueRange(b, a.prev)

	if a.count < a.period {
		a.warmupSum += tr
		a.count++
		if a.count == a.period {
			a.atr = a.warmupSum / float64(a.period)
		}
	} else {
		a.atr = (a.atr*float64(a.period-1) + tr) / float64(a.period)
	}

	a.prev = b
}

func (a *ATR) Ready() bool {
	return a.count >= a.period
}

func (a *ATR) Value() float64 {
	if !a.Ready() {
		return 0
	}
	return a.atr
}

func trueRange(current, previous Bar) float64 {
	highLow := current.High - current.Low
	highClose := math.Abs(current.High - previous.Close)
	lowClose := math.Abs(current.Low - previous.Close)

	return math.Max(highLow, math.Max(highClose, lowClose))
}
