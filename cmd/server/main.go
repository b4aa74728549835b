/*
main.go - Payroll service entry point

PURPOSE:
  Initializes and starts the payroll HTTP service.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load settings (environment / .env, overridable by flags)
  2. Initialize the SQLite run archive
  3. Build the payroll engine from the configured policy
  4. Configure the HTTP router
  5. Start the server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default from PAYROLL_PORT, else 8080)
  -db      SQLite database path (default from PAYROLL_DB, else payroll.db)
           Use ":memory:" for an ephemeral archive

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - config/config.go: Environment settings
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/goalhome/payroll-engine/api"
	"github.com/goalhome/payroll-engine/config"
	"github.com/goalhome/payroll-engine/payroll"
	"github.com/goalhome/payroll-engine/store/sqlite"
)

func main() {
	settings := config.Load()

	// Flags override the environment.
	port := flag.Int("port", settings.Port, "HTTP server port")
	dbPath := flag.String("db", settings.DatabasePath, "SQLite database path")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	engine, err := buildEngine(settings)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid engine configuration")
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		logger.Fatal().Err(err).Str("db", *dbPath).Msg("failed to initialize database")
	}
	defer store.Close()

	handler := api.NewHandler(store, engine, settings, logger)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", *port).Str("timezone", settings.Timezone).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("forced shutdown")
	}

	logger.Info().Msg("server stopped")
}

// buildEngine translates the settings into engine policy: wall-clock zone,
// bonus schedule set, and per-hour bonus surcharge.
func buildEngine(settings config.Settings) (*payroll.Engine, error) {
	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", settings.Timezone, err)
	}

	bonus := payroll.DefaultBonusSchedules()
	if len(settings.BonusSchedules) > 0 {
		bonus = payroll.NewScheduleSet(settings.BonusSchedules...)
	}

	surcharge, err := decimal.NewFromString(settings.BonusSurcharge)
	if err != nil {
		return nil, fmt.Errorf("bonus surcharge %q: %w", settings.BonusSurcharge, err)
	}

	return payroll.New(loc, bonus, surcharge), nil
}
