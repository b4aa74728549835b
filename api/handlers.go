/*
handlers.go - HTTP handlers for the payroll service

PURPOSE:
  Exposes the payroll engine over REST. Handlers own HTTP concerns only:
  multipart parsing, JSON serialization, status mapping. All computation
  lives in the payroll package; all file-format work in workbook and
  timesheet.

ENDPOINTS:
  POST /api/payroll/run        Upload timesheet (+ optional pay rates), run payroll
  GET  /api/runs               List archived runs
  GET  /api/runs/{id}          One archived run with its tables
  GET  /api/runs/{id}/workbook Download the rendered output workbook
  GET  /api/health             Liveness

ERROR HANDLING:
  - 400: fatal validation failures (missing timesheet, missing columns,
         empty pay-rate table) and malformed uploads
  - 404: unknown run id
  - 500: storage or rendering failures
  A failed run stores nothing, so earlier results stay available.

SEE ALSO:
  - dto.go:    response shapes
  - server.go: router and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/goalhome/payroll-engine/config"
	"github.com/goalhome/payroll-engine/payroll"
	"github.com/goalhome/payroll-engine/store/sqlite"
	"github.com/goalhome/payroll-engine/timesheet"
	"github.com/goalhome/payroll-engine/workbook"
)

// maxUploadBytes bounds a single multipart upload (both files together).
const maxUploadBytes = 32 << 20

// Handler holds the dependencies of the HTTP surface.
type Handler struct {
	Store    *sqlite.Store
	Engine   *payroll.Engine
	Settings config.Settings
	Logger   zerolog.Logger
}

// NewHandler wires the handler.
func NewHandler(store *sqlite.Store, engine *payroll.Engine, settings config.Settings, logger zerolog.Logger) *Handler {
	return &Handler{Store: store, Engine: engine, Settings: settings, Logger: logger}
}

// =============================================================================
// RUN PAYROLL
// =============================================================================

// RunPayroll accepts a multipart upload with a "timesheet" file and an
// optional "pay_rates" file, runs the engine, archives the result and
// returns both tables.
func (h *Handler) RunPayroll(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid upload: %w", err))
		return
	}

	shifts, sourceFile, rowWarnings, err := h.readTimesheet(r)
	if err != nil {
		h.writeRunError(w, err)
		return
	}

	rates, rateWarnings, err := h.readPayRates(r)
	if err != nil {
		h.writeRunError(w, err)
		return
	}

	result, err := h.Engine.Run(shifts, rates)
	if err != nil {
		h.writeRunError(w, err)
		return
	}

	rec := &sqlite.RunRecord{
		SourceFile: sourceFile,
		CreatedAt:  time.Now().UTC(),
		Warnings:   concatWarnings(rowWarnings, rateWarnings, result.Warnings),
		Hours:      result.Hours,
		Dollars:    result.Dollars,
	}
	if rec.ID, err = h.Store.SaveRun(r.Context(), rec); err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	h.Logger.Info().
		Int64("run_id", rec.ID).
		Str("source_file", sourceFile).
		Int("employees", len(rec.Hours)).
		Int("warnings", len(rec.Warnings)).
		Msg("payroll run completed")

	h.writeJSON(w, http.StatusOK, toRunResponse(rec))
}

// readTimesheet extracts and normalizes the required timesheet upload.
func (h *Handler) readTimesheet(r *http.Request) ([]payroll.Shift, string, []payroll.Warning, error) {
	file, header, err := r.FormFile("timesheet")
	if err != nil {
		return nil, "", nil, payroll.ErrMissingTimesheet
	}
	defer file.Close()

	rows, err := workbook.ReadSheet(file, header.Filename, h.Settings.TimesheetSheet)
	if err != nil {
		return nil, "", nil, fmt.Errorf("timesheet upload: %w", err)
	}

	shifts, warnings, err := timesheet.Normalize(rows)
	if err != nil {
		return nil, "", nil, err
	}
	return shifts, header.Filename, warnings, nil
}

// readPayRates extracts the optional pay-rates upload. Absence returns a
// nil slice so the engine skips the dollars table.
func (h *Handler) readPayRates(r *http.Request) ([]payroll.PayRate, []payroll.Warning, error) {
	file, header, err := r.FormFile("pay_rates")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("pay rates upload: %w", err)
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	rows, err := workbook.ReadSheet(file, header.Filename, h.Settings.PayRateSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("pay rates upload: %w", err)
	}
	return timesheet.NormalizePayRates(rows)
}

// =============================================================================
// RUN HISTORY
// =============================================================================

// ListRuns returns the archived runs, newest first.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRuns(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]RunSummaryDTO, 0, len(runs))
	for _, run := range runs {
		out = append(out, RunSummaryDTO{
			ID:            run.ID,
			SourceFile:    run.SourceFile,
			CreatedAt:     run.CreatedAt.Format(time.RFC3339),
			EmployeeCount: run.EmployeeCount,
			WarningCount:  run.WarningCount,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

// GetRun returns one archived run with its tables.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadRun(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, toRunResponse(rec))
}

// DownloadWorkbook renders an archived run back into the output workbook.
func (h *Handler) DownloadWorkbook(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadRun(w, r)
	if !ok {
		return
	}

	name := workbook.OutputName(rec.SourceFile, h.Settings.OutputSuffix)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	if err := workbook.Write(w, rec.Hours, rec.Dollars, h.Settings.HoursSheet, h.Settings.PaySheet); err != nil {
		// Headers are out; all we can do is log.
		h.Logger.Error().Err(err).Int64("run_id", rec.ID).Msg("workbook rendering failed")
	}
}

func (h *Handler) loadRun(w http.ResponseWriter, r *http.Request) (*sqlite.RunRecord, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid run id"))
		return nil, false
	}

	rec, err := h.Store.GetRun(r.Context(), id)
	if errors.Is(err, sqlite.ErrRunNotFound) {
		h.writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return rec, true
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error().Err(err).Msg("response encoding failed")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeRunError maps run failures: validation problems are the client's to
// fix, everything else is ours.
func (h *Handler) writeRunError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if payroll.IsValidationFailure(err) {
		status = http.StatusBadRequest
	}
	h.writeError(w, status, err)
}

func concatWarnings(groups ...[]payroll.Warning) []payroll.Warning {
	var out []payroll.Warning
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
