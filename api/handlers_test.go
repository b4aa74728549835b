package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/goalhome/payroll-engine/api"
	"github.com/goalhome/payroll-engine/config"
	"github.com/goalhome/payroll-engine/payroll"
	"github.com/goalhome/payroll-engine/store/sqlite"
)

// =============================================================================
// FIXTURES
// =============================================================================

func testSettings() config.Settings {
	return config.Settings{
		TimesheetSheet: "Entries",
		PayRateSheet:   "Pay Rate",
		HoursSheet:     "Payroll - Hours",
		PaySheet:       "Payroll - Pay",
		OutputSuffix:   " - Payroll",
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	engine := payroll.New(time.UTC, payroll.DefaultBonusSchedules(), payroll.DefaultBonusSurcharge)
	handler := api.NewHandler(store, engine, testSettings(), zerolog.Nop())

	srv := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv
}

// buildWorkbook renders rows into an in-memory xlsx with a single named sheet.
func buildWorkbook(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		row := row
		require.NoError(t, f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func timesheetUpload(t *testing.T) []byte {
	return buildWorkbook(t, "Entries", [][]interface{}{
		{"First Name", "Last Name", "Start Time", "End Time", "Regular", "OT", "Schedule"},
		{"Janell", "Reyes", "01-01-2024 09:00:00", "01-01-2024 17:00:00", "8", "", "South Jordan"},
	})
}

func payRateUpload(t *testing.T) []byte {
	return buildWorkbook(t, "Pay Rate", [][]interface{}{
		{"LAST", "FIRST", "Day Rate", "Night Rate"},
		{"Reyes", "Janell", "10", "12"},
	})
}

// multipartBody assembles the upload form; files maps field name to content.
func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, content := range files {
		part, err := mw.CreateFormFile(field, field+".xlsx")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func postRun(t *testing.T, srv *httptest.Server, files map[string][]byte) *http.Response {
	t.Helper()
	body, contentType := multipartBody(t, files)
	resp, err := http.Post(srv.URL+"/api/payroll/run", contentType, body)
	require.NoError(t, err)
	return resp
}

func decodeRun(t *testing.T, resp *http.Response) api.RunResponse {
	t.Helper()
	defer resp.Body.Close()
	var run api.RunResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	return run
}

// =============================================================================
// RUN PAYROLL
// =============================================================================

func TestRunPayroll_TimesheetOnly(t *testing.T) {
	// GIVEN a timesheet with one 8-hour day shift and no pay-rate file
	srv := newTestServer(t)

	resp := postRun(t, srv, map[string][]byte{"timesheet": timesheetUpload(t)})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	run := decodeRun(t, resp)

	// THEN the hours table carries the shift and the dollars table is skipped
	require.NotZero(t, run.ID)
	require.Equal(t, "timesheet.xlsx", run.SourceFile)
	require.Len(t, run.Hours, 1)
	require.Empty(t, run.Dollars)
	require.Empty(t, run.Warnings)

	row := run.Hours[0]
	require.Equal(t, "Reyes", row.LastName)
	require.Equal(t, "Janell", row.FirstName)
	require.Equal(t, 8.0, row.Day)
	require.Equal(t, 8.0, row.TotalReg)
	require.Equal(t, 8.0, row.Total)

	// Reported hours match computed hours, so every diff is zero.
	require.NotNil(t, row.DiffReg)
	require.Zero(t, *row.DiffReg)
	require.NotNil(t, row.DiffTotal)
	require.Zero(t, *row.DiffTotal)
}

func TestRunPayroll_WithPayRates(t *testing.T) {
	// GIVEN both uploads for the same employee
	srv := newTestServer(t)

	resp := postRun(t, srv, map[string][]byte{
		"timesheet": timesheetUpload(t),
		"pay_rates": payRateUpload(t),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	run := decodeRun(t, resp)

	// THEN the dollars table is produced: 8 day hours at $10
	require.Len(t, run.Dollars, 1)
	require.Equal(t, 80.0, run.Dollars[0].Day)
	require.Equal(t, 80.0, run.Dollars[0].Total)

	// Dollar rows never carry diff columns.
	require.Nil(t, run.Dollars[0].DiffReg)
}

func TestRunPayroll_MissingTimesheetIsBadRequest(t *testing.T) {
	srv := newTestServer(t)

	resp := postRun(t, srv, map[string][]byte{"pay_rates": payRateUpload(t)})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunPayroll_UnknownColumnsIsBadRequest(t *testing.T) {
	srv := newTestServer(t)

	upload := buildWorkbook(t, "Entries", [][]interface{}{
		{"Who", "When"},
		{"Janell Reyes", "Monday"},
	})
	resp := postRun(t, srv, map[string][]byte{"timesheet": upload})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// RUN HISTORY
// =============================================================================

func TestRunHistory_ListGetAndDownload(t *testing.T) {
	// GIVEN one completed run
	srv := newTestServer(t)
	run := decodeRun(t, postRun(t, srv, map[string][]byte{"timesheet": timesheetUpload(t)}))

	// WHEN listing runs
	resp, err := http.Get(srv.URL + "/api/runs")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summaries []api.RunSummaryDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))
	require.Len(t, summaries, 1)
	require.Equal(t, run.ID, summaries[0].ID)
	require.Equal(t, 1, summaries[0].EmployeeCount)

	// WHEN fetching the run back
	got, err := http.Get(fmt.Sprintf("%s/api/runs/%d", srv.URL, run.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, got.StatusCode)
	fetched := decodeRun(t, got)
	require.Equal(t, run.Hours, fetched.Hours)

	// WHEN downloading the workbook
	wb, err := http.Get(fmt.Sprintf("%s/api/runs/%d/workbook", srv.URL, run.ID))
	require.NoError(t, err)
	defer wb.Body.Close()
	require.Equal(t, http.StatusOK, wb.StatusCode)
	require.Contains(t, wb.Header.Get("Content-Disposition"), "timesheet - Payroll.xlsx")

	f, err := excelize.OpenReader(wb.Body)
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, []string{"Payroll - Hours"}, f.GetSheetList())
}

func TestRunHistory_UnknownRunIs404(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/runs/999")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
