// Package config loads runtime settings from the environment, with an
// optional .env file for local development. Every value has a default that
// matches the workbooks payroll reviewers already use, so a bare
// environment runs the standard setup.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settings holds everything configurable about a deployment. The sheet
// names and suffix are opaque pass-through values for the workbook layer;
// the engine itself only consumes Timezone, BonusSchedules and
// BonusSurcharge.
type Settings struct {
	// HTTP server
	Port int
	// SQLite run-history database path. ":memory:" for ephemeral runs.
	DatabasePath string

	// Workbook layout
	TimesheetSheet string
	PayRateSheet   string
	HoursSheet     string
	PaySheet       string
	OutputSuffix   string

	// Engine policy
	Timezone       string
	BonusSchedules []string
	BonusSurcharge string
}

// Load reads settings from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() Settings {
	_ = godotenv.Load()

	return Settings{
		Port:         envInt("PAYROLL_PORT", 8080),
		DatabasePath: env("PAYROLL_DB", "payroll.db"),

		TimesheetSheet: env("PAYROLL_TIMESHEET_SHEET", "Entries"),
		PayRateSheet:   env("PAYROLL_PAY_RATE_SHEET", "Pay Rate"),
		HoursSheet:     env("PAYROLL_HOURS_SHEET", "Payroll - Hours"),
		PaySheet:       env("PAYROLL_PAY_SHEET", "Payroll - Pay"),
		OutputSuffix:   env("PAYROLL_OUTPUT_SUFFIX", " - Payroll"),

		Timezone:       env("PAYROLL_TIMEZONE", "America/Denver"),
		BonusSchedules: envList("PAYROLL_BONUS_SCHEDULES"),
		BonusSurcharge: env("PAYROLL_BONUS_SURCHARGE", "2"),
	}
}

func env(key, fallback string) string {
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

// envList parses a comma-separated list; empty means "use the built-in
// defaults".
func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
