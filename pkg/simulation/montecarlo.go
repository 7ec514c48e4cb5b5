package simulation

import (
	"math"
)

// Path is one simulated trajectory. Index 0 holds the initial price.
type Path []float64

func (p Path) Last() float64 {
	return p[len(p)-1]
}

func (p Path) Max() float64 {
	m := p[0]
	for _, price := range p[1:] {
		if price > m {
			m = price
		}
	}
	return m
}

// Increment is the explicit Euler step dS = mu*S*dt + sigma*S*z*sqrt(dt).
func Increment(price, drift, volatility, dt, z float64) float64 {
	// explicit conversions forbid fused multiply-add
	driftTerm := float64(drift * price * dt)
	diffusionTerm := float64(volatility * price * z * math.Sqrt(dt))
	return driftTerm + diffusionTerm
}

// Step returns the next price of the additive discretization. No clamping is applied, a
// large negative draw can push the price below zero.
func Step(price, drift, volatility, dt, z float64) float64 {
	return price + Increment(price, drift, volatility, dt, z)
}

// SimulatePath draws exactly one variate from src per step and returns HorizonSteps+1 prices.
func SimulatePath(params Parameters, src Source) Path {
	dt := params.StepSize()

	path := make(Path, 1, params.HorizonSteps+1)
	path[0] = params.InitialPrice

	for i := 0; i < params.HorizonSteps; i++ {
		z := src.NormFloat64()
		path = append(path, Step(path[i], params.Drift, params.Volatility, dt, z))
	}
	return path
}
