package simulation

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/peter-kozarec/knockout/pkg/utility"
	"github.com/peter-kozarec/knockout/pkg/utility/fixed"
)

type Report struct {
	RunID             utility.RunID
	Iterations        int
	KnockedOut        int
	Expired           int
	InTheMoney        int
	MeanPayoff        fixed.Point
	PayoffStdDev      fixed.Point
	StandardError     fixed.Point
	AverageBreachStep fixed.Point
	Price             fixed.Point
	Elapsed           time.Duration
}

func (r Report) KnockoutRate() fixed.Point {
	if r.Iterations == 0 {
		return fixed.Zero
	}
	return fixed.FromInt(r.KnockedOut, 0).Mul(fixed.Hundred).DivInt(r.Iterations).Rescale(2)
}

func (r Report) Print(logger *zap.Logger) {
	logger.Info("barrier option price",
		zap.String("run_id", r.RunID.String()),
		zap.String("price", r.Price.String()),
		zap.String("standard_error", r.StandardError.Rescale(6).String()),
		zap.Duration("elapsed", r.Elapsed))

	logger.Info("path statistics",
		zap.Int("iterations", r.Iterations),
		zap.Int("knocked_out", r.KnockedOut),
		zap.Int("expired", r.Expired),
		zap.Int("in_the_money", r.InTheMoney),
		zap.String("knockout_rate", fmt.Sprintf("%s%%", r.KnockoutRate())),
		zap.String("average_breach_step", r.AverageBreachStep.Rescale(2).String()))

	logger.Info("payoff statistics",
		zap.String("mean_payoff", r.MeanPayoff.Rescale(6).String()),
		zap.String("payoff_std_dev", r.PayoffStdDev.Rescale(6).String()))
}
