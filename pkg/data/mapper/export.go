package mapper

import (
	"errors"
	"fmt"

	"github.com/peter-kozarec/knockout/pkg/simulation"
	"github.com/peter-kozarec/knockout/pkg/utility/fixed"
)

// ExportResult writes every path point to pathFile and every payoff to payoffFile.
// An empty pathFile skips the paths.
func ExportResult(pathFile, payoffFile string, result simulation.Result) (err error) {
	if pathFile != "" {
		if err := exportPaths(pathFile, result); err != nil {
			return err
		}
	}

	payoffs := NewWriter[BinaryPayoff](payoffFile)
	if err := payoffs.Create(); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, payoffs.Close())
	}()

	for i := 0; i < result.Len(); i++ {
		if err := payoffs.Write(NewBinaryPayoff(result.Sample(i))); err != nil {
			return err
		}
	}
	return nil
}

func exportPaths(pathFile string, result simulation.Result) (err error) {
	paths := NewWriter[BinaryPathPoint](pathFile)
	if err := paths.Create(); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, paths.Close())
	}()

	for i, path := range result.Paths {
		for step, price := range path {
			point := BinaryPathPoint{Iteration: int64(i), Step: int64(step), Price: price}
			if err := paths.Write(point); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadPayoffs reads a payoff file written by ExportResult in iteration order.
func LoadPayoffs(payoffFile string) ([]fixed.Point, error) {
	reader := NewReader[BinaryPayoff](payoffFile)
	if err := reader.Open(); err != nil {
		return nil, err
	}
	defer reader.Close()

	count, err := reader.EntryCount()
	if err != nil {
		return nil, fmt.Errorf("unable to count payoffs: %w", err)
	}

	payoffs := make([]fixed.Point, count)
	for i := int64(0); i < count; i++ {
		var payoff BinaryPayoff
		if err := reader.Read(i, &payoff); err != nil {
			return nil, err
		}
		if payoff.Iteration != i {
			return nil, fmt.Errorf("payoff %d stored out of order as iteration %d", i, payoff.Iteration)
		}
		payoffs[i] = payoff.ToPoint()
	}
	return payoffs, nil
}
