package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sheikh-saqib/payments-engine/internal/config"
	"github.com/sheikh-saqib/payments-engine/internal/csvio"
	"github.com/sheikh-saqib/payments-engine/internal/events"
	"github.com/sheikh-saqib/payments-engine/internal/events/kafka"
	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/ledger"
	"github.com/sheikh-saqib/payments-engine/internal/logging"
	"github.com/sheikh-saqib/payments-engine/internal/storage/memory"
	"github.com/sheikh-saqib/payments-engine/internal/storage/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type namedSink struct {
	name string
	sink interfaces.SnapshotSink
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("engine", flag.ContinueOnError)
	fs.SetOutput(stderr)
	envFile := fs.String("env", ".env", "dotenv file to load if present")
	logLevel := fs.String("log-level", "", "override LOG_LEVEL (debug, info, warn, error)")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: engine [-env FILE] [-log-level LEVEL] <transactions.csv>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 1
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	runID := uuid.NewString()
	logger := logging.New(cfg.Logging, zapcore.AddSync(stderr)).With(zap.String("run_id", runID))
	defer logger.Sync()

	input, err := os.Open(fs.Arg(0))
	if err != nil {
		logger.Error("open input", zap.Error(err))
		return 1
	}
	defer input.Close()

	l := ledger.NewLedger(
		memory.NewAccountStore(),
		memory.NewTransactionStore(),
		logger.With(zap.String("component", "ledger")),
	)

	if _, err := l.Process(csvio.NewReader(bufio.NewReader(input)).Records()); err != nil {
		logger.Error("processing aborted", zap.Error(err))
		return 1
	}

	out := bufio.NewWriter(stdout)
	if err := csvio.WriteAccounts(out, l.Accounts()); err != nil {
		logger.Error("write snapshot", zap.Error(err))
		return 1
	}
	if err := out.Flush(); err != nil {
		logger.Error("write snapshot", zap.Error(err))
		return 1
	}

	sinks, closeSinks, err := openSinks(ctx, cfg, logger)
	defer closeSinks()
	if err != nil {
		logger.Error("open snapshot sinks", zap.Error(err))
		return 1
	}

	exportCtx, cancel := context.WithTimeout(ctx, cfg.Export.Timeout)
	defer cancel()

	code := 0
	for _, s := range sinks {
		if err := s.sink.Export(exportCtx, runID, l.Accounts()); err != nil {
			logger.Error("snapshot export failed", zap.String("sink", s.name), zap.Error(err))
			code = 1
		}
	}
	return code
}

// openSinks builds the snapshot sinks enabled by cfg. The returned close
// function is always safe to call.
func openSinks(ctx context.Context, cfg config.Config, logger *zap.Logger) ([]namedSink, func(), error) {
	var (
		sinks   []namedSink
		closers []io.Closer
	)
	closeAll := func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Warn("close sink", zap.Error(err))
			}
		}
	}

	if len(cfg.Kafka.Brokers) > 0 {
		pub := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		closers = append(closers, pub)
		sinks = append(sinks, namedSink{
			name: "kafka",
			sink: events.NewSnapshotPublisher(pub, logger.With(zap.String("component", "kafka"))),
		})
	}

	if cfg.Export.DatabaseURL != "" {
		openCtx, cancel := context.WithTimeout(ctx, cfg.Export.Timeout)
		defer cancel()

		db, err := postgres.Open(openCtx, cfg.Export.DatabaseURL)
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, db)

		store := postgres.NewSnapshotStore(db)
		if err := store.EnsureSchema(openCtx); err != nil {
			return nil, closeAll, err
		}
		sinks = append(sinks, namedSink{name: "postgres", sink: store})
	}

	if len(sinks) == 0 {
		logger.Debug("no snapshot sinks configured")
	}
	return sinks, closeAll, nil
}
