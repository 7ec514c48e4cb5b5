package simulation

type scriptedSource struct {
	draws []float64
	calls int
}

func (s *scriptedSource) NormFloat64() float64 {
	z := s.draws[s.calls%len(s.draws)]
	s.calls++
	return z
}

// countingSource returns 0, 1, 2, ... and is not safe for concurrent use.
type countingSource struct {
	next float64
}

func (s *countingSource) NormFloat64() float64 {
	z := s.next
	s.next++
	return z
}

func defaultParameters() Parameters {
	return Parameters{
		InitialPrice:   100,
		Drift:          0.05,
		Volatility:     0.2,
		HorizonSteps:   365,
		BarrierLevel:   130,
		StrikePrice:    110,
		IterationCount: 100,
		DiscountRate:   0.05,
	}
}
