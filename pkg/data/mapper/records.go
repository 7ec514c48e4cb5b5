package mapper

import (
	"github.com/peter-kozarec/knockout/pkg/simulation"
	"github.com/peter-kozarec/knockout/pkg/utility/fixed"
)

// BinaryPathPoint is one simulated price of one iteration.
type BinaryPathPoint struct {
	Iteration int64
	Step      int64
	Price     float64
}

// BinaryPayoff stores a payoff as integer cents, which is exact for two decimal payoffs.
type BinaryPayoff struct {
	Iteration int64
	Cents     int64
}

func (binaryPayoff BinaryPayoff) ToPoint() fixed.Point {
	return fixed.FromCents(binaryPayoff.Cents)
}

func NewBinaryPayoff(sample simulation.Sample) BinaryPayoff {
	return BinaryPayoff{
		Iteration: int64(sample.Iteration),
		Cents:     sample.Payoff.Cents(),
	}
}
