package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/peter-kozarec/knockout/pkg/simulation"
	"github.com/peter-kozarec/knockout/pkg/utility"
	"github.com/peter-kozarec/knockout/pkg/utility/fixed"
)

var ErrRunNotFound = errors.New("run not found")

var schema = []string{`
CREATE TABLE IF NOT EXISTS runs (
	run_id        VARCHAR PRIMARY KEY,
	created_at    TIMESTAMP NOT NULL,
	initial_price DOUBLE NOT NULL,
	drift         DOUBLE NOT NULL,
	volatility    DOUBLE NOT NULL,
	horizon_steps INTEGER NOT NULL,
	barrier       DOUBLE NOT NULL,
	strike        DOUBLE NOT NULL,
	iterations    INTEGER NOT NULL,
	discount_rate DOUBLE NOT NULL,
	price         VARCHAR NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS paths (
	run_id    VARCHAR NOT NULL,
	iteration INTEGER NOT NULL,
	step      INTEGER NOT NULL,
	price     DOUBLE NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS payoffs (
	run_id    VARCHAR NOT NULL,
	iteration INTEGER NOT NULL,
	cents     BIGINT NOT NULL
)`,
}

type Store struct {
	dataSourceName string
	db             *sql.DB
}

// NewStore keeps everything in memory when dataSourceName is empty.
func NewStore(dataSourceName string) *Store {
	return &Store{
		dataSourceName: dataSourceName,
	}
}

func (s *Store) Connect() error {
	db, err := sql.Open("duckdb", s.dataSourceName)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	// an in memory database lives and dies with its single connection
	db.SetMaxOpenConns(1)
	s.db = db
	return nil
}

func (s *Store) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func (s *Store) Migrate(ctx context.Context) error {
	for _, statement := range schema {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("error creating schema: %w", err)
		}
	}
	return nil
}

// SaveRun stores the parameters, every path point and every payoff of one run atomically.
// Paths are skipped when withPaths is false.
func (s *Store) SaveRun(ctx context.Context, runID utility.RunID, params simulation.Parameters, result simulation.Result, price fixed.Point, withPaths bool) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID.String(),
		time.Now().UTC(),
		params.InitialPrice,
		params.Drift,
		params.Volatility,
		params.HorizonSteps,
		params.BarrierLevel,
		params.StrikePrice,
		params.IterationCount,
		params.DiscountRate,
		price.String(),
	)
	if err != nil {
		return fmt.Errorf("error inserting run: %w", err)
	}

	if withPaths {
		if err = insertPaths(ctx, tx, runID, result); err != nil {
			return err
		}
	}
	if err = insertPayoffs(ctx, tx, runID, result); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing run: %w", err)
	}
	return nil
}

func insertPaths(ctx context.Context, tx *sql.Tx, runID utility.RunID, result simulation.Result) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO paths VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing path insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	id := runID.String()
	for i, path := range result.Paths {
		for step, price := range path {
			if _, err := stmt.ExecContext(ctx, id, i, step, price); err != nil {
				return fmt.Errorf("error inserting path %d step %d: %w", i, step, err)
			}
		}
	}
	return nil
}

func insertPayoffs(ctx context.Context, tx *sql.Tx, runID utility.RunID, result simulation.Result) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO payoffs VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing payoff insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	id := runID.String()
	for i, payoff := range result.Payoffs {
		if _, err := stmt.ExecContext(ctx, id, i, payoff.Cents()); err != nil {
			return fmt.Errorf("error inserting payoff %d: %w", i, err)
		}
	}
	return nil
}

// LoadParameters returns the parameters a stored run was simulated with.
func (s *Store) LoadParameters(ctx context.Context, runID utility.RunID) (simulation.Parameters, error) {
	var params simulation.Parameters
	row := s.db.QueryRowContext(ctx,
		`SELECT initial_price, drift, volatility, horizon_steps, barrier, strike, iterations, discount_rate
		 FROM runs WHERE run_id = ?`, runID.String())

	err := row.Scan(
		&params.InitialPrice,
		&params.Drift,
		&params.Volatility,
		&params.HorizonSteps,
		&params.BarrierLevel,
		&params.StrikePrice,
		&params.IterationCount,
		&params.DiscountRate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return params, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return params, fmt.Errorf("error scanning run: %w", err)
	}
	return params, nil
}

// LoadPayoffs returns the payoffs of a stored run in iteration order.
func (s *Store) LoadPayoffs(ctx context.Context, runID utility.RunID, handler func(iteration int, payoff fixed.Point) error) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT iteration, cents FROM payoffs WHERE run_id = ? ORDER BY iteration`, runID.String())
	if err != nil {
		return fmt.Errorf("error preparing query: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	for rows.Next() {
		var iteration int
		var cents int64
		if err := rows.Scan(&iteration, &cents); err != nil {
			return fmt.Errorf("error scanning row: %w", err)
		}
		if err := handler(iteration, fixed.FromCents(cents)); err != nil {
			return fmt.Errorf("error processing payoff: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error scanning rows: %w", err)
	}
	return nil
}
