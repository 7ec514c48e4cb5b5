package psql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/peter-kozarec/knockout/pkg/simulation"
)

const insertRunQuery = `
	INSERT INTO knockout_runs (
		run_id,
		initial_price,
		drift,
		volatility,
		horizon_steps,
		barrier,
		strike,
		iterations,
		discount_rate,
		knocked_out,
		expired,
		in_the_money,
		price,
		standard_error
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (run_id) DO NOTHING;
	`

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func ConnectionString(host, port, user, pass, db string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", host, port, user, pass, db)
}

func Connect(ctx context.Context, host, port, user, pass, db string) (*sql.DB, error) {
	dbConn, err := sql.Open("postgres", ConnectionString(host, port, user, pass, db))
	if err != nil {
		return nil, err
	}

	if err := dbConn.PingContext(ctx); err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	return dbConn, nil
}

// InsertRun stores the summary of a finished run. Storing the same run twice is a no-op.
func InsertRun(ctx context.Context, db Execer, params simulation.Parameters, report simulation.Report) error {
	_, err := db.ExecContext(ctx, insertRunQuery, runArgs(params, report)...)
	if err != nil {
		return fmt.Errorf("unable to insert run %s: %w", report.RunID, err)
	}
	return nil
}

func runArgs(params simulation.Parameters, report simulation.Report) []any {
	return []any{
		report.RunID.String(),
		params.InitialPrice,
		params.Drift,
		params.Volatility,
		params.HorizonSteps,
		params.BarrierLevel,
		params.StrikePrice,
		report.Iterations,
		params.DiscountRate,
		report.KnockedOut,
		report.Expired,
		report.InTheMoney,
		report.Price.String(),
		report.StandardError.String(),
	}
}
