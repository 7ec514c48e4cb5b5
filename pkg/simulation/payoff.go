package simulation

import (
	"fmt"
	"math"

	"github.com/peter-kozarec/knockout/pkg/utility/fixed"
)

const payoffScale = 2

var (
	zeroPayoff = fixed.Zero.Rescale(payoffScale)

	// every payoff must be storable as int64 cents
	maxPayoff = fixed.FromCents(math.MaxInt64)
)

type Outcome uint8

const (
	OutcomeInTheMoney Outcome = iota
	OutcomeKnockedOut
	OutcomeExpired
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInTheMoney:
		return "in-the-money"
	case OutcomeKnockedOut:
		return "knocked-out"
	case OutcomeExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Classify applies the knockout check before the strike check. Touching the barrier counts
// as a breach, finishing exactly at the strike counts as in the money.
func Classify(path Path, barrier, strike float64) Outcome {
	if path.Max() >= barrier {
		return OutcomeKnockedOut
	}
	if path.Last() < strike {
		return OutcomeExpired
	}
	return OutcomeInTheMoney
}

// FirstBreach returns the index of the first price at or above barrier, or -1.
func FirstBreach(path Path, barrier float64) int {
	for i, price := range path {
		if price >= barrier {
			return i
		}
	}
	return -1
}

// Evaluate returns the knockout call payoff of a finished path rounded to two decimals from
// the exact binary value of last-strike. A path reaching +Inf touches any barrier, including an
// infinite one. An in the money payoff that is not finite or does not fit int64 cents is
// ErrOutOfRange.
func Evaluate(path Path, barrier, strike float64) (fixed.Point, error) {
	if Classify(path, barrier, strike) != OutcomeInTheMoney {
		return zeroPayoff, nil
	}

	payoff, err := fixed.RoundFloat64(path.Last()-strike, payoffScale)
	if err != nil {
		return fixed.Point{}, fmt.Errorf("%w: payoff %v: %w", ErrOutOfRange, path.Last()-strike, err)
	}
	if payoff.Gt(maxPayoff) {
		return fixed.Point{}, fmt.Errorf("%w: payoff %s exceeds %s", ErrOutOfRange, payoff, maxPayoff)
	}
	return payoff, nil
}
