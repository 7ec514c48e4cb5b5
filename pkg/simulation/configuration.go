package simulation

import (
	"math"
)

// Parameters describe one pricing run. The horizon is one unit of time split into
// HorizonSteps equal steps.
type Parameters struct {
	InitialPrice   float64
	Drift          float64
	Volatility     float64
	HorizonSteps   int
	BarrierLevel   float64
	StrikePrice    float64
	IterationCount int
	DiscountRate   float64
}

func (p Parameters) StepSize() float64 {
	return 1 / float64(p.HorizonSteps)
}

// Validate rejects parameters the executor must not run with. BarrierLevel may be +Inf
// to price a plain call.
func (p Parameters) Validate() error {
	switch {
	case p.HorizonSteps <= 0:
		return &ParameterError{Field: "HorizonSteps", Value: p.HorizonSteps, Reason: "must be positive"}
	case p.IterationCount <= 0:
		return &ParameterError{Field: "IterationCount", Value: p.IterationCount, Reason: "must be positive"}
	case p.Volatility < 0:
		return &ParameterError{Field: "Volatility", Value: p.Volatility, Reason: "must not be negative"}
	case p.InitialPrice <= 0:
		return &ParameterError{Field: "InitialPrice", Value: p.InitialPrice, Reason: "must be positive"}
	}

	finite := []struct {
		field string
		value float64
	}{
		{"InitialPrice", p.InitialPrice},
		{"Drift", p.Drift},
		{"Volatility", p.Volatility},
		{"StrikePrice", p.StrikePrice},
		{"DiscountRate", p.DiscountRate},
	}
	for _, f := range finite {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ParameterError{Field: f.field, Value: f.value, Reason: "must be finite"}
		}
	}
	if math.IsNaN(p.BarrierLevel) {
		return &ParameterError{Field: "BarrierLevel", Value: p.BarrierLevel, Reason: "must be a number"}
	}

	return validateDiscountRate(p.DiscountRate)
}

func validateDiscountRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= -1 {
		return &ParameterError{Field: "DiscountRate", Value: rate, Reason: "must be finite and greater than -1"}
	}
	if _, err := DiscountBase(rate); err != nil {
		return &ParameterError{Field: "DiscountRate", Value: rate, Reason: "must fit the decimal range"}
	}
	return nil
}
