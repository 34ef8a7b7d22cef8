package risk

import (
	"fmt"
	"math"
)

// SizeMode selects the position-sizing strategy. The set is closed, so this
// is a plain enum rather than an interface.
type SizeMode int

const (
	FixedFraction SizeMode = iota
	VolatilityAdjusted
	Kelly
)

func (m SizeMode) String() string {
	switch m {
	case VolatilityAdjusted:
		return "volatility"
	case Kelly:
		return "kelly"
	default:
		return "fixed"
	}
}

// SizeParams carries the mode-specific inputs. Volatility (an ATR in price
// terms) feeds VolatilityAdjusted; WinRate/AvgWin/AvgLoss feed Kelly.
type SizeParams struct {
	Volatility float64

	WinRate float64
	AvgWin  float64
	AvgLoss float64
}

// Size recommends a share quantity for a trade at the given price. Whatever
// the mode computes, the result never exceeds MaxPositionSize of equity:
// that ceiling is a hard limit, not advisory.
func Size(price, equity float64, lim Limits, mode SizeMode, p SizeParams) (int, error) {
	if price <= 0 {
		return 0, fmt.Errorf("%w: price must be positive, got %v", ErrInvalidInput, price)
	}
	if equity < 0 {
		return 0, fmt.Errorf("%w: equity must be non-negative, got %v", ErrInvalidInput, equity)
	}

	ceiling := int(math.Floor(equity * lim.MaxPositionSize / price))

	var qty int
	switch mode {
	case FixedFraction:
		qty = ceiling

	case VolatilityAdjusted:
		if p.Volatility < 0 {
			return 0, fmt.Errorf("%w: volatility must be non-negative, got %v", ErrInvalidInput, p.Volatility)
		}
		if p.Volatility == 0 {
			qty = ceiling
			break
		}
		// Risk budget over a 2x ATR stop distance.
		riskAmt := equity * lim.MaxPositionSize
		qty = int(math.Floor(riskAmt / (2 * p.Volatility)))

	case Kelly:
		f, err := kellyFraction(p.WinRate, p.AvgWin, p.AvgLoss, lim)
		if err != nil {
			return 0, err
		}
		if f <= 0 {
			return 0, nil // no statistical edge
		}
		qty = int(math.Floor(equity * f / price))

	default:
		return 0, fmt.Errorf("%w: unknown size mode %d", ErrInvalidInput, mode)
	}

	if qty > ceiling {
		qty = ceiling
	}
	if qty < 0 {
		qty = 0
	}
	return qty, nil
}

// kellyFraction returns the capped fractional-Kelly stake. A zero or negative
// raw Kelly means no edge and comes back as 0.
func kellyFraction(winRate, avgWin, avgLoss float64, lim Limits) (float64, error) {
	if winRate < 0 || winRate > 1 {
		return 0, fmt.Errorf("%w: win rate %v outside [0,1]", ErrInvalidInput, winRate)
	}
	if avgWin <= 0 || avgLoss <= 0 {
		return 0, fmt.Errorf("%w: avg win/loss must be positive, got %v/%v", ErrInvalidInput, avgWin, avgLoss)
	}

	wl := avgWin / avgLoss
	f := winRate - (1-winRate)/wl
	if f <= 0 {
		return 0, nil
	}

	f *= lim.KellyFraction
	if f > lim.KellyCap {
		f = lim.KellyCap
	}
	return f, nil
}
