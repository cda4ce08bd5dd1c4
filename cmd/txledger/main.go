package main

import (
	"TxLedger/internal/core"
	"TxLedger/internal/event"
	"TxLedger/internal/ingestion"
	"TxLedger/internal/observability"
	"TxLedger/internal/report"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Config holds all application configuration.
// Loaded from environment variables; the input path is the only argument.
type Config struct {
	LogLevel        string
	OutputPrecision int

	// Prometheus textfile written at exit, empty to skip
	MetricsFile string

	// Coerce unparseable amounts to zero instead of failing the run
	LenientAmounts bool
}

func DefaultConfig() Config {
	return Config{
		LogLevel:        envOrDefault("TXLEDGER_LOG_LEVEL", "warn"),
		OutputPrecision: envIntOrDefault("TXLEDGER_OUTPUT_PRECISION", report.DefaultPrecision),
		MetricsFile:     envOrDefault("TXLEDGER_METRICS_FILE", ""),
		LenientAmounts:  envBoolOrDefault("TXLEDGER_LENIENT_AMOUNTS", false),
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one ledger pass and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, "Error: missing input file\nUsage: txledger <transactions.csv>")
		return 1
	}
	path := args[0]
	cfg := DefaultConfig()

	logger := observability.NewLogger(stderr, "txledger", cfg.LogLevel).
		With().
		Str("run_id", uuid.NewString()).
		Logger()

	metrics := observability.NewMetrics()
	engine := core.NewEngine(metrics, logger)
	start := time.Now()

	logger.Info().Str("input", path).Bool("lenient_amounts", cfg.LenientAmounts).Msg("processing started")

	opts := ingestion.ParseOptions{LenientAmounts: cfg.LenientAmounts, Logger: &logger}
	rows, err := ingestion.ForEachInFile(path, opts, func(env event.Envelope) error {
		metrics.InputRows.Inc()
		engine.ApplyEnvelope(env)
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Str("input", path).Int64("rows", rows).Msg("processing failed")
		fmt.Fprintf(stderr, "Failed to process '%s': %v\n", path, err)
		return 1
	}

	engine.PublishGauges()
	metrics.RunDuration.Set(time.Since(start).Seconds())

	if err := report.NewWriter(cfg.OutputPrecision).Write(stdout, engine.Accounts()); err != nil {
		fmt.Fprintf(stderr, "Failed to process '%s': %v\n", path, err)
		return 1
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteToTextfile(cfg.MetricsFile); err != nil {
			logger.Warn().Err(err).Str("path", cfg.MetricsFile).Msg("metrics textfile not written")
		}
	}

	stats := engine.Stats()
	hash := engine.StateHash()
	accounts := engine.Accounts()
	locked := 0
	for _, acct := range accounts {
		if acct.Locked {
			locked++
		}
	}

	logger.Info().
		Int64("rows", rows).
		Int64("applied", stats.Applied).
		Int64("rejected", stats.TotalRejected()).
		Int64("drifted", stats.Drifted).
		Int("clients", len(accounts)).
		Int("locked", locked).
		Str("state_hash", hex.EncodeToString(hash[:])).
		Dur("elapsed", time.Since(start)).
		Msg("processing complete")

	return 0
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var i int
	if _, err := fmt.Sscanf(v, "%d", &i); err != nil {
		return defaultVal
	}
	return i
}

func envBoolOrDefault(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}
