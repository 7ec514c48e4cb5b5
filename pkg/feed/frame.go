package feed

import (
	"github.com/peter-kozarec/knockout/pkg/simulation"
	"github.com/peter-kozarec/knockout/pkg/utility/fixed"
)

const (
	FrameSample  = "sample"
	FrameSummary = "summary"
)

type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Decimal fields are encoded as JSON strings through fixed.Point.MarshalText.

type SampleView struct {
	Iteration  int         `json:"iteration"`
	FinalPrice float64     `json:"finalPrice"`
	MaxPrice   float64     `json:"maxPrice"`
	Outcome    string      `json:"outcome"`
	Payoff     fixed.Point `json:"payoff"`
}

type SummaryView struct {
	RunID         string      `json:"runId"`
	Iterations    int         `json:"iterations"`
	KnockedOut    int         `json:"knockedOut"`
	Expired       int         `json:"expired"`
	InTheMoney    int         `json:"inTheMoney"`
	KnockoutRate  fixed.Point `json:"knockoutRate"`
	MeanPayoff    fixed.Point `json:"meanPayoff"`
	StandardError fixed.Point `json:"standardError"`
	Price         fixed.Point `json:"price"`
}

func newSampleView(sample simulation.Sample, params simulation.Parameters) SampleView {
	return SampleView{
		Iteration:  sample.Iteration,
		FinalPrice: sample.Path.Last(),
		MaxPrice:   sample.Path.Max(),
		Outcome:    simulation.Classify(sample.Path, params.BarrierLevel, params.StrikePrice).String(),
		Payoff:     sample.Payoff,
	}
}

func newSummaryView(report simulation.Report) SummaryView {
	return SummaryView{
		RunID:         report.RunID.String(),
		Iterations:    report.Iterations,
		KnockedOut:    report.KnockedOut,
		Expired:       report.Expired,
		InTheMoney:    report.InTheMoney,
		KnockoutRate:  report.KnockoutRate(),
		MeanPayoff:    report.MeanPayoff.Rescale(6),
		StandardError: report.StandardError.Rescale(6),
		Price:         report.Price,
	}
}
