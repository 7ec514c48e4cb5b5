package middleware

import (
	"go.uber.org/zap"

	"github.com/peter-kozarec/knockout/pkg/simulation"
)

type MonitorFlags uint8

//goland:noinspection GoUnusedConst
const (
	MonitorNone MonitorFlags = 1 << iota
	MonitorAll
	MonitorKnockedOut
	MonitorExpired
	MonitorInTheMoney
)

// Monitor logs the samples whose outcome is selected by flags.
type Monitor struct {
	logger *zap.Logger
	flags  MonitorFlags
	params simulation.Parameters
}

func NewMonitor(logger *zap.Logger, flags MonitorFlags, params simulation.Parameters) *Monitor {
	return &Monitor{
		logger: logger,
		flags:  flags,
		params: params,
	}
}

// ParseMonitorFlags maps outcome names ("all", "knocked-out", "expired", "in-the-money") to flags.
func ParseMonitorFlags(names []string) MonitorFlags {
	flags := MonitorNone
	for _, name := range names {
		switch name {
		case "all":
			flags |= MonitorAll
		case simulation.OutcomeKnockedOut.String():
			flags |= MonitorKnockedOut
		case simulation.OutcomeExpired.String():
			flags |= MonitorExpired
		case simulation.OutcomeInTheMoney.String():
			flags |= MonitorInTheMoney
		}
	}
	return flags
}

func (m *Monitor) WithSample(observer simulation.Observer) simulation.Observer {
	return func(sample simulation.Sample) {
		outcome := simulation.Classify(sample.Path, m.params.BarrierLevel, m.params.StrikePrice)
		if m.enabled(outcome) {
			m.logger.Info("sample",
				zap.Int("iteration", sample.Iteration),
				zap.String("outcome", outcome.String()),
				zap.Float64("final_price", sample.Path.Last()),
				zap.Float64("max_price", sample.Path.Max()),
				zap.Int("first_breach", simulation.FirstBreach(sample.Path, m.params.BarrierLevel)),
				zap.String("payoff", sample.Payoff.String()))
		}
		observer(sample)
	}
}

func (m *Monitor) enabled(outcome simulation.Outcome) bool {
	if m.flags&MonitorAll != 0 {
		return true
	}
	switch outcome {
	case simulation.OutcomeKnockedOut:
		return m.flags&MonitorKnockedOut != 0
	case simulation.OutcomeExpired:
		return m.flags&MonitorExpired != 0
	default:
		return m.flags&MonitorInTheMoney != 0
	}
}
