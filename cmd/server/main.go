/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payroll engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Build the zap logger
  3. Initialize SQLite store
  4. Load the policy/table configuration (JSON file or defaults)
  5. Wire aggregator, processor, and batch runner
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080, env PORT)
  -db      SQLite database path (default: payroll.db, env DATABASE_PATH)
           Use ":memory:" for an in-memory database
  -config  JSON policy/table configuration path (optional, env CONFIG_PATH)
  -workers Batch-run worker count (default: 4)
  -dev     Development logging (console encoder, debug level)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database and custom tables
  ./server -db="./data/payroll.db" -config="./config/payroll.json"

  # Run with in-memory database
  ./server -db=":memory:"

SEE ALSO:
  - api/server.go: Router configuration
  - factory/config.go: Configuration schema
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/motorph/payroll-engine/api"
	"github.com/motorph/payroll-engine/attendance"
	"github.com/motorph/payroll-engine/factory"
	"github.com/motorph/payroll-engine/payroll"
	"github.com/motorph/payroll-engine/store/sqlite"
)

func main() {
	// .env is optional; flags and real env vars win
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envString("DATABASE_PATH", "payroll.db"), "SQLite database path")
	configPath := flag.String("config", envString("CONFIG_PATH", ""), "policy/table configuration JSON path")
	workers := flag.Int("workers", 4, "batch-run worker count")
	dev := flag.Bool("dev", false, "development logging")
	flag.Parse()

	logger, err := buildLogger(*dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Store
	st, err := sqlite.New(*dbPath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer st.Close()

	// Policies and statutory tables
	cfg := factory.DefaultConfig()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			logger.Fatal("failed to read config", zap.String("path", *configPath), zap.Error(err))
		}
		cfg, err = factory.New().ParseConfig(data)
		if err != nil {
			logger.Fatal("failed to parse config", zap.String("path", *configPath), zap.Error(err))
		}
		logger.Info("loaded configuration", zap.String("path", *configPath))
	}

	// Computation pipeline
	aggregator := attendance.NewAggregator(attendance.NewResolver(cfg.Attendance), logger)
	processor := payroll.NewProcessor(cfg.Deductions, cfg.Payroll, logger)
	runner := payroll.NewRunner(processor, aggregator, st, st, logger)
	runner.Workers = *workers

	handler := api.NewHandler(st, aggregator, processor, runner, cfg.Deductions, logger)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.Int("port", *port),
			zap.String("db", *dbPath))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

func buildLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
