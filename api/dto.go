/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON shapes for the HTTP surface. They decouple the engine's decimal
  types from the wire format: clients get plain numbers, keyed the way
  the payroll front end has always keyed its table columns.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Response: Wrappers combining several DTOs

SEE ALSO:
  - handlers.go: builds these from engine results and archived runs
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/goalhome/payroll-engine/payroll"
	"github.com/goalhome/payroll-engine/store/sqlite"
)

// RowDTO is one line of the Hours or Dollars table. The diff fields are
// present only on hours rows; a 0 means "no discrepancy".
type RowDTO struct {
	LastName  string `json:"lastName"`
	FirstName string `json:"firstName"`

	Day     float64 `json:"day"`
	Night   float64 `json:"night"`
	DayOT   float64 `json:"dayot"`
	NightOT float64 `json:"nightot"`
	PDay    float64 `json:"pday"`
	PNight  float64 `json:"pnight"`
	PDayOT  float64 `json:"pdayot"`
	PNightOT float64 `json:"pnightot"`

	TotalReg float64 `json:"totalreg"`
	TotalOT  float64 `json:"totalot"`
	Total    float64 `json:"total"`

	DiffReg   *float64 `json:"diffreg,omitempty"`
	DiffOT    *float64 `json:"diffot,omitempty"`
	DiffTotal *float64 `json:"difftotal,omitempty"`
}

// WarningDTO is an advisory surfaced alongside the output.
type WarningDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RunResponse is the result of one payroll run.
type RunResponse struct {
	ID         int64        `json:"id"`
	SourceFile string       `json:"source_file"`
	CreatedAt  string       `json:"created_at"`
	Hours      []RowDTO     `json:"hours"`
	Dollars    []RowDTO     `json:"dollars"`
	Warnings   []WarningDTO `json:"warnings"`
}

// RunSummaryDTO is the listing view of an archived run.
type RunSummaryDTO struct {
	ID            int64  `json:"id"`
	SourceFile    string `json:"source_file"`
	CreatedAt     string `json:"created_at"`
	EmployeeCount int    `json:"employee_count"`
	WarningCount  int    `json:"warning_count"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toRowDTO(row payroll.Row, withDiffs bool) RowDTO {
	num := func(d decimal.Decimal) float64 { return d.InexactFloat64() }

	dto := RowDTO{
		LastName:  row.LastName,
		FirstName: row.FirstName,

		Day:      num(row.Buckets.Day),
		Night:    num(row.Buckets.Night),
		DayOT:    num(row.Buckets.DayOT),
		NightOT:  num(row.Buckets.NightOT),
		PDay:     num(row.Buckets.BonusDay),
		PNight:   num(row.Buckets.BonusNight),
		PDayOT:   num(row.Buckets.BonusDayOT),
		PNightOT: num(row.Buckets.BonusNightOT),

		TotalReg: num(row.TotalRegular),
		TotalOT:  num(row.TotalOT),
		Total:    num(row.Total),
	}
	if withDiffs {
		diffReg := num(row.DiffRegular)
		diffOT := num(row.DiffOT)
		diffTotal := num(row.DiffTotal)
		dto.DiffReg = &diffReg
		dto.DiffOT = &diffOT
		dto.DiffTotal = &diffTotal
	}
	return dto
}

func toRowDTOs(rows []payroll.Row, withDiffs bool) []RowDTO {
	out := make([]RowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toRowDTO(row, withDiffs))
	}
	return out
}

func toWarningDTOs(warnings []payroll.Warning) []WarningDTO {
	out := make([]WarningDTO, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, WarningDTO{Code: string(w.Code), Message: w.Message})
	}
	return out
}

func toRunResponse(rec *sqlite.RunRecord) RunResponse {
	return RunResponse{
		ID:         rec.ID,
		SourceFile: rec.SourceFile,
		CreatedAt:  rec.CreatedAt.Format(time.RFC3339),
		Hours:      toRowDTOs(rec.Hours, true),
		Dollars:    toRowDTOs(rec.Dollars, false),
		Warnings:   toWarningDTOs(rec.Warnings),
	}
}
