package risk

import "errors"

// ErrInvalidInput marks a contract violation (non-positive price, negative
// quantity, malformed series). Retrying with the same input is pointless.
var ErrInvalidInput = errors.New("risk: invalid input")

// ErrInsufficientData marks a statistic that cannot be determined because a
// return series is shorter than the required lookback. Callers must treat an
// undetermined correlation as blocking, not passing.
var ErrInsufficientData = errors.New("risk: insufficient data")
