package middleware

import (
	"time"

	"go.uber.org/zap"

	"github.com/peter-kozarec/knockout/pkg/simulation"
)

// Telemetry counts the samples passing through an observer and the time spent handling them.
type Telemetry struct {
	logger *zap.Logger

	sampleCounter  int64
	zeroPayoffs    int64
	observerTime   time.Duration
	firstSampleAt  time.Time
	latestSampleAt time.Time
}

func NewTelemetry(logger *zap.Logger) *Telemetry {
	return &Telemetry{
		logger: logger,
	}
}

func (t *Telemetry) WithSample(observer simulation.Observer) simulation.Observer {
	return func(sample simulation.Sample) {
		start := time.Now()
		if t.sampleCounter == 0 {
			t.firstSampleAt = start
		}

		t.sampleCounter++
		if sample.Payoff.IsZero() {
			t.zeroPayoffs++
		}

		observer(sample)

		t.latestSampleAt = time.Now()
		t.observerTime += t.latestSampleAt.Sub(start)
	}
}

func (t *Telemetry) SampleCount() int64 {
	return t.sampleCounter
}

func (t *Telemetry) PrintStatistics() {
	t.logger.Info("sample statistics",
		zap.Int64("samples", t.sampleCounter),
		zap.Int64("zero_payoffs", t.zeroPayoffs),
		zap.Duration("observer_time", t.observerTime),
		zap.Duration("stream_time", t.latestSampleAt.Sub(t.firstSampleAt)))
}
