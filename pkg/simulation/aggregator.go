package simulation

import (
	"fmt"

	"github.com/peter-kozarec/knockout/pkg/utility/fixed"
)

// DiscountBase returns 1+rate, the divisor of a single period discount.
func DiscountBase(rate float64) (fixed.Point, error) {
	r, err := fixed.TryFromFloat64(rate)
	if err != nil {
		return fixed.Point{}, err
	}
	return fixed.One.CheckedAdd(r)
}

// Price discounts the mean payoff by exactly one application of (1+discountRate)^-1.
// The factor is flat and does not scale with the simulated horizon.
func Price(payoffs []fixed.Point, discountRate float64) (fixed.Point, error) {
	if len(payoffs) == 0 {
		return fixed.Point{}, ErrEmptySampleSet
	}
	if err := validateDiscountRate(discountRate); err != nil {
		return fixed.Point{}, err
	}

	base, err := DiscountBase(discountRate)
	if err != nil {
		return fixed.Point{}, err
	}
	mean, err := fixed.Mean(payoffs)
	if err != nil {
		return fixed.Point{}, fmt.Errorf("%w: mean payoff: %w", ErrOutOfRange, err)
	}
	price, err := mean.CheckedDiv(base)
	if err != nil {
		return fixed.Point{}, fmt.Errorf("%w: discounted price: %w", ErrOutOfRange, err)
	}
	return price, nil
}
