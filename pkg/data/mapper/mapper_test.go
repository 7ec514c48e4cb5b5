package mapper

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/peter-kozarec/knockout/pkg/simulation"
	"github.com/peter-kozarec/knockout/pkg/utility/fixed"
)

func TestWriterReader_RoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "points.bin")

	points := []BinaryPathPoint{
		{Iteration: 0, Step: 0, Price: 100},
		{Iteration: 0, Step: 1, Price: 101.25},
		{Iteration: 1, Step: 0, Price: 100},
	}

	writer := NewWriter[BinaryPathPoint](file)
	require.NoError(t, writer.Create())
	for _, point := range points {
		require.NoError(t, writer.Write(point))
	}
	assert.Equal(t, int64(len(points)), writer.Count())
	require.NoError(t, writer.Close())
	require.NoError(t, writer.Close())

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Equal(t, int64(24*len(points)), info.Size())

	reader := NewReader[BinaryPathPoint](file)
	require.NoError(t, reader.Open())
	defer reader.Close()

	count, err := reader.EntryCount()
	require.NoError(t, err)
	assert.Equal(t, int64(len(points)), count)

	for i, want := range points {
		var got BinaryPathPoint
		require.NoError(t, reader.Read(int64(i), &got))
		assert.Equal(t, want, got)
	}

	var past BinaryPathPoint
	assert.True(t, errors.Is(reader.Read(count, &past), ErrEof))
}

func TestReader_OpenMissing(t *testing.T) {
	reader := NewReader[BinaryPayoff](filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, reader.Open())
	reader.Close()
}

func TestReader_TruncatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "truncated.bin")
	require.NoError(t, os.WriteFile(file, make([]byte, 20), 0o600))

	reader := NewReader[BinaryPayoff](file)
	_, err := reader.EntryCount()
	assert.Error(t, err)
}

func TestExportResult(t *testing.T) {
	dir := t.TempDir()
	pathFile := filepath.Join(dir, "paths.bin")
	payoffFile := filepath.Join(dir, "payoffs.bin")

	params := simulation.Parameters{
		InitialPrice:   100,
		Drift:          0.05,
		Volatility:     0.2,
		HorizonSteps:   12,
		BarrierLevel:   130,
		StrikePrice:    100,
		IterationCount: 25,
		DiscountRate:   0.05,
	}

	result, err := simulation.NewExecutor(zap.NewNop(), simulation.WithSeed(5)).Run(params)
	require.NoError(t, err)
	require.NoError(t, ExportResult(pathFile, payoffFile, result))

	payoffs, err := LoadPayoffs(payoffFile)
	require.NoError(t, err)
	require.Len(t, payoffs, result.Len())
	for i := range payoffs {
		assert.True(t, payoffs[i].Eq(result.Payoffs[i]), "iteration %d", i)
	}

	stored, err := simulation.Price(payoffs, params.DiscountRate)
	require.NoError(t, err)
	simulated, err := simulation.Price(result.Payoffs, params.DiscountRate)
	require.NoError(t, err)
	assert.True(t, stored.Eq(simulated))

	reader := NewReader[BinaryPathPoint](pathFile)
	require.NoError(t, reader.Open())
	defer reader.Close()

	count, err := reader.EntryCount()
	require.NoError(t, err)
	assert.Equal(t, int64(params.IterationCount*(params.HorizonSteps+1)), count)

	var point BinaryPathPoint
	require.NoError(t, reader.Read(count-1, &point))
	assert.Equal(t, int64(params.IterationCount-1), point.Iteration)
	assert.Equal(t, int64(params.HorizonSteps), point.Step)
	assert.Equal(t, result.Paths[params.IterationCount-1].Last(), point.Price)
}

func TestExportResult_PayoffsOnly(t *testing.T) {
	payoffFile := filepath.Join(t.TempDir(), "payoffs.bin")
	result := simulation.Result{
		Paths:   []simulation.Path{{100, 112.5}, {100, 90}},
		Payoffs: []fixed.Point{fixed.FromCents(1250), fixed.FromCents(0)},
	}

	require.NoError(t, ExportResult("", payoffFile, result))

	payoffs, err := LoadPayoffs(payoffFile)
	require.NoError(t, err)
	require.Len(t, payoffs, 2)
	assert.Equal(t, "12.50", payoffs[0].String())
	assert.Equal(t, "0.00", payoffs[1].String())
}

func TestLoadPayoffs_Empty(t *testing.T) {
	payoffFile := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, ExportResult("", payoffFile, simulation.Result{}))

	payoffs, err := LoadPayoffs(payoffFile)
	require.NoError(t, err)
	assert.Empty(t, payoffs)

	_, err = simulation.Price(payoffs, 0.05)
	assert.ErrorIs(t, err, simulation.ErrEmptySampleSet)
}
