package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/peter-kozarec/knockout/internal/cfg"
	"github.com/peter-kozarec/knockout/internal/dbg"
	"github.com/peter-kozarec/knockout/pkg/data/db/psql"
	"github.com/peter-kozarec/knockout/pkg/data/duckdb"
	"github.com/peter-kozarec/knockout/pkg/data/mapper"
	"github.com/peter-kozarec/knockout/pkg/feed"
	"github.com/peter-kozarec/knockout/pkg/middleware"
	"github.com/peter-kozarec/knockout/pkg/simulation"
	"github.com/peter-kozarec/knockout/pkg/utility"
	"github.com/peter-kozarec/knockout/pkg/utility/fixed"
)

const (
	Version         = "0.1.0"
	ShutdownTimeout = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to a yaml, json or toml config file")
	repriceFile := flag.String("reprice", "", "re-price a payoff file written by a previous run")
	repriceRun := flag.String("reprice-run", "", "re-price a run stored in the duckdb export")
	flag.Parse()

	config, err := cfg.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := dbg.NewLogger(config.Log.Mode, config.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	logger.Info(fmt.Sprintf("knockout %s", Version))
	defer logger.Info("done")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch {
	case *repriceFile != "":
		err = repriceFromFile(logger, *repriceFile, config.Simulation.DiscountRate)
	case *repriceRun != "":
		err = repriceFromStore(ctx, logger, config, *repriceRun)
	default:
		err = run(ctx, logger, config)
	}

	if err != nil {
		logger.Error("knockout failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *zap.Logger, config *cfg.Config) error {
	params := config.Simulation.Parameters()
	runID := utility.NewRunID()
	audit := simulation.NewAudit(runID, params)

	telemetry := middleware.NewTelemetry(logger)
	monitor := middleware.NewMonitor(logger, middleware.ParseMonitorFlags(config.Log.Monitor), params)
	observers := []simulation.Observer{audit.Observe}

	var feedServer *feed.Server
	if config.Feed.ListenAddr != "" {
		feedServer = feed.NewServer(logger)
		observers = append(observers, feedServer.Observer(params))

		httpServer := &http.Server{Addr: config.Feed.ListenAddr, Handler: feedServer.Handler(), ReadHeaderTimeout: time.Second}
		go func() {
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("feed server stopped", zap.Error(err))
			}
		}()
		defer shutdown(logger, httpServer)

		logger.Info("feed listening", zap.String("listen_addr", config.Feed.ListenAddr))
	}

	logger.Info("simulation configured",
		zap.String("run_id", runID.String()),
		zap.Float64("initial_price", params.InitialPrice),
		zap.Float64("drift", params.Drift),
		zap.Float64("volatility", params.Volatility),
		zap.Int("horizon_steps", params.HorizonSteps),
		zap.Float64("barrier", params.BarrierLevel),
		zap.Float64("strike", params.StrikePrice),
		zap.Int("iterations", params.IterationCount),
		zap.Float64("discount_rate", params.DiscountRate))

	observe := middleware.Chain(telemetry.WithSample, monitor.WithSample)(middleware.Merge(observers...))
	options := append(config.ExecutorOptions(), simulation.WithObserver(observe))

	result, err := simulation.NewExecutor(logger, options...).Run(params)
	if err != nil {
		return fmt.Errorf("simulation rejected: %w", err)
	}
	telemetry.PrintStatistics()

	report, err := audit.GenerateReport()
	if err != nil {
		return fmt.Errorf("unable to price run %s: %w", runID, err)
	}
	report.Print(logger)

	if err := export(ctx, logger, config, params, result, report); err != nil {
		return err
	}

	if feedServer != nil {
		feedServer.PublishSummary(report)
		feedServer.Statistics().Print(logger)
		logger.Info("feed stays up until interrupted")
		<-ctx.Done()
	}

	return nil
}

func export(ctx context.Context, logger *zap.Logger, config *cfg.Config, params simulation.Parameters, result simulation.Result, report simulation.Report) error {
	if config.Export.PayoffFile != "" {
		if err := mapper.ExportResult(config.Export.PathFile, config.Export.PayoffFile, result); err != nil {
			return fmt.Errorf("unable to export binary files: %w", err)
		}
		logger.Info("binary export written",
			zap.String("path_file", config.Export.PathFile),
			zap.String("payoff_file", config.Export.PayoffFile))
	}

	if config.Export.DuckDB != "" {
		store := duckdb.NewStore(config.Export.DuckDB)
		if err := store.Connect(); err != nil {
			return err
		}
		defer store.Close()

		if err := store.Migrate(ctx); err != nil {
			return err
		}
		if err := store.SaveRun(ctx, report.RunID, params, result, report.Price, config.Export.WithPaths); err != nil {
			return err
		}
		logger.Info("run stored", zap.String("duckdb", config.Export.DuckDB), zap.String("run_id", report.RunID.String()))
	}

	if config.Postgres.Enabled {
		pg := config.Postgres
		db, err := psql.Connect(ctx, pg.Host, pg.Port, pg.User, pg.Password, pg.Database)
		if err != nil {
			return fmt.Errorf("unable to connect to postgres: %w", err)
		}
		defer func() { _ = db.Close() }()

		if err := psql.InsertRun(ctx, db, params, report); err != nil {
			return err
		}
		logger.Info("run summary stored in postgres", zap.String("run_id", report.RunID.String()))
	}

	return nil
}

func repriceFromFile(logger *zap.Logger, payoffFile string, discountRate float64) error {
	payoffs, err := mapper.LoadPayoffs(payoffFile)
	if err != nil {
		return err
	}

	price, err := simulation.Price(payoffs, discountRate)
	if err != nil {
		return fmt.Errorf("unable to reprice %q: %w", payoffFile, err)
	}

	logger.Info("barrier option price",
		zap.String("payoff_file", payoffFile),
		zap.Int("iterations", len(payoffs)),
		zap.Float64("discount_rate", discountRate),
		zap.String("price", price.String()))
	return nil
}

func repriceFromStore(ctx context.Context, logger *zap.Logger, config *cfg.Config, rawRunID string) error {
	if config.Export.DuckDB == "" {
		return errors.New("reprice-run needs export.duckdb")
	}

	runID, err := utility.ParseRunID(rawRunID)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", rawRunID, err)
	}

	store := duckdb.NewStore(config.Export.DuckDB)
	if err := store.Connect(); err != nil {
		return err
	}
	defer store.Close()

	params, err := store.LoadParameters(ctx, runID)
	if err != nil {
		return err
	}

	payoffs := make([]fixed.Point, 0, params.IterationCount)
	err = store.LoadPayoffs(ctx, runID, func(_ int, payoff fixed.Point) error {
		payoffs = append(payoffs, payoff)
		return nil
	})
	if err != nil {
		return err
	}

	price, err := simulation.Price(payoffs, config.Simulation.DiscountRate)
	if err != nil {
		return fmt.Errorf("unable to reprice run %s: %w", runID, err)
	}

	logger.Info("barrier option price",
		zap.String("run_id", runID.String()),
		zap.Int("iterations", len(payoffs)),
		zap.Float64("discount_rate", config.Simulation.DiscountRate),
		zap.String("price", price.String()))
	return nil
}

func shutdown(logger *zap.Logger, server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("feed shutdown failed", zap.Error(err))
	}
}
