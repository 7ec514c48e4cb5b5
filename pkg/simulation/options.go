package simulation

type Option func(*Executor)

// WithSource injects the stream every iteration draws from. The stream is not reset between
// runs. Parallel runs share it behind a lock, so the variates of one path are not contiguous.
func WithSource(source Source) Option {
	return func(e *Executor) {
		e.source = source
	}
}

// WithSeed makes every run replay the same variates.
func WithSeed(seed uint64) Option {
	return func(e *Executor) {
		e.seed = seed
		e.seeded = true
	}
}

// WithWorkers spreads iterations over a pool of goroutines. Unless a source is injected, each
// iteration draws from its own stream seeded by the master stream in iteration order.
func WithWorkers(workers int) Option {
	return func(e *Executor) {
		if workers < 1 {
			workers = 1
		}
		e.workers = workers
	}
}

func WithObserver(observer Observer) Option {
	return func(e *Executor) {
		e.observers = append(e.observers, observer)
	}
}
