package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/goalhome/payroll-engine/payroll"
	"github.com/goalhome/payroll-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndGetRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := &sqlite.RunRecord{
		SourceFile: "January Timesheet.xlsx",
		CreatedAt:  time.Date(2024, time.February, 1, 9, 30, 0, 0, time.UTC),
		Warnings:   []payroll.Warning{{Code: payroll.WarnMissingPayRates, Message: "missing pay rates for RYLEE HART"}},
		Hours: []payroll.Row{{
			FirstName:    "Janell",
			LastName:     "Reyes",
			Buckets:      payroll.HourBucket{Day: decimal.RequireFromString("26")},
			TotalRegular: decimal.RequireFromString("40"),
			TotalOT:      decimal.RequireFromString("2"),
			Total:        decimal.RequireFromString("42"),
		}},
	}

	id, err := store.SaveRun(ctx, rec)
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := store.GetRun(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "January Timesheet.xlsx", got.SourceFile)
	require.Equal(t, rec.CreatedAt, got.CreatedAt)
	require.Len(t, got.Warnings, 1)
	require.Equal(t, payroll.WarnMissingPayRates, got.Warnings[0].Code)

	require.Len(t, got.Hours, 1)
	require.True(t, got.Hours[0].Total.Equal(decimal.RequireFromString("42")))
	require.Empty(t, got.Dollars)
}

func TestGetRun_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRun(context.Background(), 12345)
	require.ErrorIs(t, err, sqlite.ErrRunNotFound)
}

func TestListRuns_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i, name := range []string{"first.xlsx", "second.xlsx"} {
		_, err := store.SaveRun(ctx, &sqlite.RunRecord{
			SourceFile: name,
			CreatedAt:  time.Date(2024, time.February, 1+i, 0, 0, 0, 0, time.UTC),
			Hours:      []payroll.Row{{FirstName: "A", LastName: "B"}},
		})
		require.NoError(t, err)
	}

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, "second.xlsx", runs[0].SourceFile)
	require.Equal(t, "first.xlsx", runs[1].SourceFile)
	require.Equal(t, 1, runs[0].EmployeeCount)
	require.Zero(t, runs[0].WarningCount)
}
