/*
main.go - Batch payroll CLI

PURPOSE:
  Runs one payroll pass from the command line, without the HTTP service:
  read the timesheet workbook (and optionally the pay-rate workbook), run
  the engine, and write the output workbook next to the input.

COMMAND-LINE FLAGS:
  -timesheet   Path to the timesheet workbook (required, .xlsx or .xls)
  -pay-rates   Path to the pay-rate workbook (optional; enables the Pay sheet)
  -out-dir     Directory for the output workbook (default: input's directory)
  -verify      Exit non-zero when any reconciliation diff is non-zero
  -v           Verbose logging

EXIT CODES:
  0  run completed (and, with -verify, all diffs were zero)
  1  run failed or -verify found discrepancies

EXAMPLES:
  # Hours only
  ./payroll -timesheet="January Timesheet.xlsx"

  # Hours and pay, checking the uploaded totals
  ./payroll -timesheet=jan.xlsx -pay-rates=rates.xlsx -verify

SEE ALSO:
  - cmd/server/main.go: the HTTP service over the same engine
  - workbook/: reading uploads and rendering the output
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/goalhome/payroll-engine/config"
	"github.com/goalhome/payroll-engine/payroll"
	"github.com/goalhome/payroll-engine/timesheet"
	"github.com/goalhome/payroll-engine/workbook"
)

func main() {
	settings := config.Load()

	timesheetPath := flag.String("timesheet", "", "timesheet workbook path (.xlsx or .xls)")
	payRatesPath := flag.String("pay-rates", "", "pay-rate workbook path (optional)")
	outDir := flag.String("out-dir", "", "output directory (default: timesheet's directory)")
	verify := flag.Bool("verify", false, "fail when any reconciliation diff is non-zero")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()

	if *timesheetPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(logger, settings, *timesheetPath, *payRatesPath, *outDir, *verify); err != nil {
		logger.Error().Err(err).Msg("payroll run failed")
		os.Exit(1)
	}
}

func run(logger zerolog.Logger, settings config.Settings, timesheetPath, payRatesPath, outDir string, verify bool) error {
	engine, err := buildEngine(settings)
	if err != nil {
		return err
	}

	shifts, warnings, err := loadTimesheet(settings, timesheetPath)
	if err != nil {
		return err
	}
	logger.Debug().Int("shifts", len(shifts)).Str("file", timesheetPath).Msg("timesheet loaded")

	var rates []payroll.PayRate
	if payRatesPath != "" {
		var rateWarnings []payroll.Warning
		if rates, rateWarnings, err = loadPayRates(settings, payRatesPath); err != nil {
			return err
		}
		warnings = append(warnings, rateWarnings...)
	}

	result, err := engine.Run(shifts, rates)
	if err != nil {
		return err
	}
	warnings = append(warnings, result.Warnings...)

	for _, w := range warnings {
		logger.Warn().Str("code", string(w.Code)).Msg(w.Message)
	}

	outPath := outputPath(timesheetPath, outDir, settings.OutputSuffix)
	if err := writeWorkbook(settings, outPath, result); err != nil {
		return err
	}

	logger.Info().
		Str("output", outPath).
		Int("employees", len(result.Hours)).
		Int("pay_rows", len(result.Dollars)).
		Msg("payroll run completed")

	if verify {
		return checkDiffs(logger, result.Hours)
	}
	return nil
}

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

func loadTimesheet(settings config.Settings, path string) ([]payroll.Shift, []payroll.Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	rows, err := workbook.ReadSheet(f, path, settings.TimesheetSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return timesheet.Normalize(rows)
}

func loadPayRates(settings config.Settings, path string) ([]payroll.PayRate, []payroll.Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	rows, err := workbook.ReadSheet(f, path, settings.PayRateSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return timesheet.NormalizePayRates(rows)
}

func outputPath(timesheetPath, outDir, suffix string) string {
	if outDir == "" {
		outDir = filepath.Dir(timesheetPath)
	}
	return filepath.Join(outDir, workbook.OutputName(timesheetPath, suffix))
}

func writeWorkbook(settings config.Settings, path string, result *payroll.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := workbook.Write(f, result.Hours, result.Dollars, settings.HoursSheet, settings.PaySheet); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// checkDiffs fails the run when any employee's computed totals disagree with
// the totals reported on the timesheet.
func checkDiffs(logger zerolog.Logger, hours []payroll.Row) error {
	clean := true
	for _, row := range hours {
		if row.DiffRegular.IsZero() && row.DiffOT.IsZero() && row.DiffTotal.IsZero() {
			continue
		}
		clean = false
		logger.Warn().
			Str("employee", row.Key()).
			Str("diff_regular", row.DiffRegular.String()).
			Str("diff_ot", row.DiffOT.String()).
			Str("diff_total", row.DiffTotal.String()).
			Msg("reported totals disagree with computed totals")
	}
	if !clean {
		return fmt.Errorf("verification failed: reconciliation diffs present")
	}
	return nil
}
