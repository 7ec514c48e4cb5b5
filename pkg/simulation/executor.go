package simulation

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"

	"github.com/peter-kozarec/knockout/pkg/utility/fixed"
)

// Sample is the outcome of a single iteration.
type Sample struct {
	Iteration int
	Path      Path
	Payoff    fixed.Point
}

// Observer is called once per iteration, in iteration order.
type Observer func(Sample)

// Result holds paths and payoffs index aligned with the iteration that produced them.
type Result struct {
	Paths   []Path
	Payoffs []fixed.Point
}

func (r Result) Len() int {
	return len(r.Payoffs)
}

func (r Result) Sample(i int) Sample {
	return Sample{Iteration: i, Path: r.Paths[i], Payoff: r.Payoffs[i]}
}

type Executor struct {
	logger *zap.Logger

	source Source
	seed   uint64
	seeded bool

	workers   int
	observers []Observer
}

func NewExecutor(logger *zap.Logger, options ...Option) *Executor {
	e := &Executor{
		logger:  logger,
		workers: 1,
	}

	for _, option := range options {
		option(e)
	}

	return e
}

// Run simulates params.IterationCount independent paths and evaluates the payoff of each.
// Invalid parameters are rejected before anything is simulated. A payoff that cannot be
// represented fails the whole run with ErrOutOfRange and no observer sees a partial parallel run.
func (e *Executor) Run(params Parameters) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	e.logger.Debug("simulation started",
		zap.Int("iterations", params.IterationCount),
		zap.Int("horizon_steps", params.HorizonSteps),
		zap.Int("workers", e.workers))

	result := Result{
		Paths:   make([]Path, params.IterationCount),
		Payoffs: make([]fixed.Point, params.IterationCount),
	}

	if e.workers > 1 {
		if err := e.runParallel(params, result); err != nil {
			return Result{}, err
		}
		for i := range result.Payoffs {
			e.notify(result.Sample(i))
		}
	} else {
		if err := e.runSequential(params, result); err != nil {
			return Result{}, err
		}
	}

	e.logger.Debug("simulation finished",
		zap.Int("iterations", result.Len()),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}

func (e *Executor) runSequential(params Parameters, result Result) error {
	src := e.sequentialSource()

	for i := 0; i < params.IterationCount; i++ {
		path := SimulatePath(params, src)
		payoff, err := Evaluate(path, params.BarrierLevel, params.StrikePrice)
		if err != nil {
			return fmt.Errorf("iteration %d: %w", i, err)
		}
		result.Paths[i] = path
		result.Payoffs[i] = payoff
		e.notify(result.Sample(i))
	}
	return nil
}

func (e *Executor) runParallel(params Parameters, result Result) error {
	streamFor := e.parallelStreams(params.IterationCount)
	errs := make([]error, params.IterationCount)

	workers := min(e.workers, params.IterationCount)
	jobs := make(chan int, workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				path := SimulatePath(params, streamFor(i))
				result.Paths[i] = path
				result.Payoffs[i], errs[i] = Evaluate(path, params.BarrierLevel, params.StrikePrice)
			}
		}()
	}

	for i := 0; i < params.IterationCount; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("iteration %d: %w", i, err)
		}
	}
	return nil
}

// parallelStreams shares an injected source behind a lock. Without one, every iteration gets
// its own stream seeded by the master stream in iteration order, so the output does not depend
// on the worker count.
func (e *Executor) parallelStreams(iterations int) func(int) Source {
	if e.source != nil {
		shared := NewLockedSource(e.source)
		return func(int) Source { return shared }
	}

	master := rand.New(rand.NewSource(e.baseSeed()))
	seeds := make([]uint64, iterations)
	for i := range seeds {
		seeds[i] = master.Uint64()
	}
	return func(i int) Source { return NewSeededSource(seeds[i]) }
}

func (e *Executor) sequentialSource() Source {
	if e.source != nil {
		return e.source
	}
	return NewSeededSource(e.baseSeed())
}

func (e *Executor) baseSeed() uint64 {
	if e.seeded {
		return e.seed
	}
	return clockSeed()
}

func (e *Executor) notify(sample Sample) {
	for _, observer := range e.observers {
		observer(sample)
	}
}
