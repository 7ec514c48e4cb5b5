package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/peter-kozarec/knockout/pkg/simulation"
	"github.com/peter-kozarec/knockout/pkg/utility"
	"github.com/peter-kozarec/knockout/pkg/utility/fixed"
)

var testParams = simulation.Parameters{
	InitialPrice:   100,
	HorizonSteps:   2,
	BarrierLevel:   130,
	StrikePrice:    110,
	IterationCount: 3,
}

var testSamples = []simulation.Sample{
	{Iteration: 0, Path: simulation.Path{100, 135, 120}, Payoff: fixed.FromCents(0)},
	{Iteration: 1, Path: simulation.Path{100, 104, 99}, Payoff: fixed.FromCents(0)},
	{Iteration: 2, Path: simulation.Path{100, 115, 121.5}, Payoff: fixed.FromCents(1150)},
}

func TestMiddleware_ChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) func(simulation.Observer) simulation.Observer {
		return func(next simulation.Observer) simulation.Observer {
			return func(sample simulation.Sample) {
				order = append(order, name)
				next(sample)
			}
		}
	}

	chained := Chain(tag("outer"), tag("inner"))(func(simulation.Sample) { order = append(order, "base") })
	chained(testSamples[0])

	assert.Equal(t, []string{"outer", "inner", "base"}, order)
}

func TestMiddleware_ChainEmpty(t *testing.T) {
	called := 0
	chained := Chain[simulation.Observer]()(func(simulation.Sample) { called++ })
	chained(testSamples[0])
	assert.Equal(t, 1, called)
}

func TestMiddleware_Merge(t *testing.T) {
	var first, second []int
	merged := Merge(
		func(s simulation.Sample) { first = append(first, s.Iteration) },
		NoopObserver,
		func(s simulation.Sample) { second = append(second, s.Iteration) })

	for _, sample := range testSamples {
		merged(sample)
	}

	assert.Equal(t, []int{0, 1, 2}, first)
	assert.Equal(t, first, second)
}

func TestMonitor_Flags(t *testing.T) {
	tests := []struct {
		name   string
		flags  MonitorFlags
		logged []int
	}{
		{"none", MonitorNone, nil},
		{"all", MonitorAll, []int{0, 1, 2}},
		{"knocked out", MonitorKnockedOut, []int{0}},
		{"expired", MonitorExpired, []int{1}},
		{"in the money", MonitorInTheMoney, []int{2}},
		{"parsed", ParseMonitorFlags([]string{"expired", "in-the-money", "bogus"}), []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.InfoLevel)
			monitor := NewMonitor(zap.New(core), tt.flags, testParams)

			forwarded := 0
			observe := monitor.WithSample(func(simulation.Sample) { forwarded++ })
			for _, sample := range testSamples {
				observe(sample)
			}

			assert.Equal(t, len(testSamples), forwarded)

			var logged []int
			for _, entry := range logs.All() {
				logged = append(logged, int(entry.ContextMap()["iteration"].(int64)))
			}
			assert.Equal(t, tt.logged, logged)
		})
	}
}

func TestTelemetry_Counts(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	telemetry := NewTelemetry(zap.New(core))

	observe := telemetry.WithSample(NoopObserver)
	for _, sample := range testSamples {
		observe(sample)
	}
	assert.Equal(t, int64(3), telemetry.SampleCount())

	telemetry.PrintStatistics()
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(3), entries[0].ContextMap()["samples"])
	assert.Equal(t, int64(2), entries[0].ContextMap()["zero_payoffs"])
}

func TestMiddleware_WithExecutor(t *testing.T) {
	params := testParams
	params.Drift = 0.05
	params.Volatility = 0.2
	params.HorizonSteps = 50
	params.IterationCount = 25

	telemetry := NewTelemetry(zap.NewNop())
	monitor := NewMonitor(zap.NewNop(), MonitorAll, params)
	audit := simulation.NewAudit(utility.NewRunID(), params)

	observe := Chain(telemetry.WithSample, monitor.WithSample)(audit.Observe)
	_, err := simulation.NewExecutor(zap.NewNop(), simulation.WithSeed(1), simulation.WithObserver(observe)).Run(params)
	require.NoError(t, err)

	assert.Equal(t, int64(params.IterationCount), telemetry.SampleCount())
	assert.Len(t, audit.Payoffs(), params.IterationCount)
}
