package simulation

import (
	"fmt"
	"math"
	"time"

	"github.com/peter-kozarec/knockout/pkg/utility"
	"github.com/peter-kozarec/knockout/pkg/utility/fixed"
)

// Audit collects iteration samples of one run and reduces them into a Report.
type Audit struct {
	runID     utility.RunID
	params    Parameters
	startTime time.Time

	payoffs     []fixed.Point
	outcomes    [outcomeCount]int
	firstBreach []int
}

const outcomeCount = int(OutcomeExpired) + 1

func NewAudit(runID utility.RunID, params Parameters) *Audit {
	return &Audit{
		runID:     runID,
		params:    params,
		startTime: time.Now(),
		payoffs:   make([]fixed.Point, 0, max(params.IterationCount, 0)),
	}
}

// Observe records one sample. It is meant to be passed to WithObserver.
func (a *Audit) Observe(sample Sample) {
	outcome := Classify(sample.Path, a.params.BarrierLevel, a.params.StrikePrice)
	a.outcomes[outcome]++
	a.payoffs = append(a.payoffs, sample.Payoff)

	if outcome == OutcomeKnockedOut {
		a.firstBreach = append(a.firstBreach, FirstBreach(sample.Path, a.params.BarrierLevel))
	}
}

func (a *Audit) Payoffs() []fixed.Point {
	return a.payoffs
}

func (a *Audit) GenerateReport() (Report, error) {
	price, err := Price(a.payoffs, a.params.DiscountRate)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		RunID:      a.runID,
		Iterations: len(a.payoffs),
		KnockedOut: a.outcomes[OutcomeKnockedOut],
		Expired:    a.outcomes[OutcomeExpired],
		InTheMoney: a.outcomes[OutcomeInTheMoney],
		Price:      price,
		Elapsed:    time.Since(a.startTime),
	}

	if report.MeanPayoff, err = fixed.Mean(a.payoffs); err != nil {
		return Report{}, fmt.Errorf("%w: mean payoff: %w", ErrOutOfRange, err)
	}
	if report.PayoffStdDev, err = a.payoffStdDev(report.MeanPayoff); err != nil {
		return Report{}, err
	}

	base, err := DiscountBase(a.params.DiscountRate)
	if err != nil {
		return Report{}, err
	}
	standardError, err := report.PayoffStdDev.CheckedDiv(fixed.FromInt(report.Iterations, 0).Sqrt())
	if err == nil {
		standardError, err = standardError.CheckedDiv(base)
	}
	if err != nil {
		return Report{}, fmt.Errorf("%w: standard error: %w", ErrOutOfRange, err)
	}
	report.StandardError = standardError

	if len(a.firstBreach) > 0 {
		sum := 0
		for _, step := range a.firstBreach {
			sum += step
		}
		report.AverageBreachStep = fixed.FromInt(sum, 0).DivInt(len(a.firstBreach))
	}

	return report, nil
}

// payoffStdDev falls back to float64 when squared deviations leave the decimal range.
func (a *Audit) payoffStdDev(mean fixed.Point) (fixed.Point, error) {
	stdDev, err := fixed.SampleStdDev(a.payoffs, mean)
	if err == nil {
		return stdDev, nil
	}

	m, _ := mean.Float64()
	sum := 0.0
	for _, payoff := range a.payoffs {
		v, _ := payoff.Float64()
		sum += (v - m) * (v - m)
	}
	stdDev, err = fixed.TryFromFloat64(math.Sqrt(sum / float64(len(a.payoffs)-1)))
	if err != nil {
		return fixed.Point{}, fmt.Errorf("%w: payoff standard deviation: %w", ErrOutOfRange, err)
	}
	return stdDev, nil
}
