package risk

import (
	"fmt"
	"math"
	"sort"
)

// Lookback windows for the statistical checks, in periods.
const (
	corrLookback  = 30
	betaWindow    = 90
	minCorrPoints = 5
	minVaRPoints  = 20
)

// Exposure returns gross portfolio exposure as a fraction of equity, marking
// every open position at the snapshot's current price.
func Exposure(pf PortfolioSnapshot, equity float64) (float64, error) {
	if equity <= 0 {
		return 0, fmt.Errorf("%w: equity must be positive, got %v", ErrInvalidInput, equity)
	}

	var gross float64
	for _, pos := range pf.Positions {
		mark, ok := pf.Marks[pos.Symbol]
		if !ok || mark <= 0 {
			return 0, fmt.Errorf("%w: no mark price for %s", ErrInvalidInput, pos.Symbol)
		}
		gross += pos.Notional(mark)
	}
	return gross / equity, nil
}

// Correlation computes the Pearson correlation between two return series
// over the last corrLookback periods. Fewer than minCorrPoints overlapping
// points means the statistic is undetermined.
func Correlation(a, b []float64) (float64, error) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n > corrLookback {
		n = corrLookback
	}
	if n < minCorrPoints {
		return 0, fmt.Errorf("%w: correlation needs %d overlapping returns, got %d",
			ErrInsufficientData, minCorrPoints, n)
	}

	a = a[len(a)-n:]
	b = b[len(b)-n:]

	ma, mb := mean(a), mean(b)
	var cov, va, vb float64
	for i := 0; i < n; i++ {
		da, db := a[i]-ma, b[i]-mb
		cov += da * db
		va += da * da
		vb += db * db
	}
	if va == 0 || vb == 0 {
		return 0, fmt.Errorf("%w: constant return series", ErrInsufficientData)
	}
	return cov / math.Sqrt(va*vb), nil
}

// WorstCorrelation returns the pairwise correlation with the largest
// magnitude between the candidate symbol and every currently held symbol.
// Any undetermined pair makes the whole result undetermined: a correlation
// we cannot measure must not be assumed safe.
func WorstCorrelation(pf PortfolioSnapshot, symbol string) (float64, error) {
	if len(pf.Positions) == 0 {
		return 0, nil
	}

	cand, ok := pf.Returns[symbol]
	if !ok {
		return 0, fmt.Errorf("%w: no return series for candidate %s", ErrInsufficientData, symbol)
	}

	var worst float64
	for _, pos := range pf.Positions {
		if pos.Symbol == symbol {
			continue
		}
		held, ok := pf.Returns[pos.Symbol]
		if !ok {
			return 0, fmt.Errorf("%w: no return series for held %s", ErrInsufficientData, pos.Symbol)
		}
		corr, err := Correlation(cand, held)
		if err != nil {
			return 0, fmt.Errorf("%s vs %s: %w", symbol, pos.Symbol, err)
		}
		if math.Abs(corr) > math.Abs(worst) {
			worst = corr
		}
	}
	return worst, nil
}

// DailyLoss returns the day's P&L as a signed fraction of start-of-day
// equity. Losses are negative.
func DailyLoss(pnl PnLSnapshot) (float64, error) {
	if pnl.StartOfDayEquity <= 0 {
		return 0, fmt.Errorf("%w: start-of-day equity must be positive, got %v",
			ErrInvalidInput, pnl.StartOfDayEquity)
	}
	return pnl.DayPL / pnl.StartOfDayEquity, nil
}

// Drawdown returns the peak-to-current equity decline as a non-negative
// fraction of peak equity.
func Drawdown(pnl PnLSnapshot) (float64, error) {
	if pnl.PeakEquity <= 0 {
		return 0, fmt.Errorf("%w: peak equity must be positive, got %v", ErrInvalidInput, pnl.PeakEquity)
	}
	dd := (pnl.PeakEquity - pnl.Equity) / pnl.PeakEquity
	if dd < 0 {
		return 0, nil
	}
	return dd, nil
}

// VaR estimates the one-day portfolio loss at the given confidence level by
// historical simulation: build the value-weighted portfolio return series,
// sort it, and take the return at the (1-confidence) percentile. The result
// is a positive loss amount in account currency. Reported, not enforced.
func VaR(pf PortfolioSnapshot, equity, confidence float64) (float64, error) {
	if confidence <= 0 || confidence >= 1 {
		return 0, fmt.Errorf("%w: confidence %v outside (0,1)", ErrInvalidInput, confidence)
	}
	if len(pf.Positions) == 0 {
		return 0, nil
	}

	rets, err := portfolioReturns(pf)
	if err != nil {
		return 0, err
	}
	if len(rets) < minVaRPoints {
		return 0, fmt.Errorf("%w: VaR needs %d portfolio returns, got %d",
			ErrInsufficientData, minVaRPoints, len(rets))
	}

	sorted := append([]float64(nil), rets...)
	sort.Float64s(sorted)

	idx := int(math.Floor((1 - confidence) * float64(len(sorted))))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	v := sorted[idx]
	if v >= 0 {
		return 0, nil
	}
	return -v * equity, nil
}

// Beta regresses portfolio returns against the benchmark over the last
// betaWindow periods: each position contributes cov/var weighted by its
// share of total market value.
func Beta(pf PortfolioSnapshot) (float64, error) {
	if len(pf.Positions) == 0 {
		return 0, nil
	}

	bench := tail(pf.BenchmarkReturns, betaWindow)
	if len(bench) < minCorrPoints {
		return 0, fmt.Errorf("%w: beta needs %d benchmark returns, got %d",
			ErrInsufficientData, minCorrPoints, len(bench))
	}

	total, err := totalValue(pf)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	var beta float64
	for _, pos := range pf.Positions {
		series, ok := pf.Returns[pos.Symbol]
		if !ok {
			return 0, fmt.Errorf("%w: no return series for %s", ErrInsufficientData, pos.Symbol)
		}
		rets := tail(series, betaWindow)

		n := len(rets)
		if len(bench) < n {
			n = len(bench)
		}
		if n < minCorrPoints {
			return 0, fmt.Errorf("%w: beta for %s needs %d returns, got %d",
				ErrInsufficientData, pos.Symbol, minCorrPoints, n)
		}

		r := rets[len(rets)-n:]
		b := bench[len(bench)-n:]

		mr, mb := mean(r), mean(b)
		var cov, vb float64
		for i := 0; i < n; i++ {
			cov += (r[i] - mr) * (b[i] - mb)
			vb += (b[i] - mb) * (b[i] - mb)
		}
		if vb == 0 {
			return 0, fmt.Errorf("%w: benchmark variance is zero", ErrInsufficientData)
		}

		weight := pos.Notional(pf.Marks[pos.Symbol]) / total
		beta += (cov / vb) * weight
	}
	return beta, nil
}

// portfolioReturns builds the value-weighted per-period return series,
// aligned on the shortest position series.
func portfolioReturns(pf PortfolioSnapshot) ([]float64, error) {
	total, err := totalValue(pf)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, nil
	}

	n := -1
	for _, pos := range pf.Positions {
		series, ok := pf.Returns[pos.Symbol]
		if !ok {
			return nil, fmt.Errorf("%w: no return series for %s", ErrInsufficientData, pos.Symbol)
		}
		if n < 0 || len(series) < n {
			n = len(series)
		}
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: empty return series", ErrInsufficientData)
	}

	out := make([]float64, n)
	for _, pos := range pf.Positions {
		series := pf.Returns[pos.Symbol]
		series = series[len(series)-n:]
		weight := pos.Notional(pf.Marks[pos.Symbol]) / total
		for i, r := range series {
			out[i] += r * weight
		}
	}
	return out, nil
}

func totalValue(pf PortfolioSnapshot) (float64, error) {
	var total float64
	for _, pos := range pf.Positions {
		mark, ok := pf.Marks[pos.Symbol]
		if !ok || mark <= 0 {
			return 0, fmt.Errorf("%w: no mark price for %s", ErrInvalidInput, pos.Symbol)
		}
		total += pos.Notional(mark)
	}
	return total, nil
}

func tail(s []float64, n int) []float64 {
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}

func mean(s []float64) float64 {
	var sum float64
	for _, v := range s {
		sum += v
	}
	return sum / float64(len(s))
}
