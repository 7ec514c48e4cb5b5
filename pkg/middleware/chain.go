package middleware

import (
	"github.com/peter-kozarec/knockout/pkg/simulation"
)

// Chain wraps a handler so that the first wrapper runs outermost.
func Chain[T any](wrappers ...func(T) T) func(T) T {
	return func(handler T) T {
		for i := len(wrappers) - 1; i >= 0; i-- {
			handler = wrappers[i](handler)
		}
		return handler
	}
}

// Merge fans one sample out to every observer in order.
func Merge(observers ...simulation.Observer) simulation.Observer {
	return func(sample simulation.Sample) {
		for _, observer := range observers {
			observer(sample)
		}
	}
}

var NoopObserver simulation.Observer = func(simulation.Sample) {}
