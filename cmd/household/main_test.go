package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/household-finance/internal/assistant"
	"github.com/GregMSThompson/household-finance/internal/insight"
	"github.com/GregMSThompson/household-finance/internal/models"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	timeNow = func() time.Time { return time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC) }
	os.Exit(m.Run())
}

// run executes the CLI against a database in dir and returns stdout.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{
		"--config", filepath.Join(dir, "missing.yaml"),
		"--db", filepath.Join(dir, "household.db"),
	}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestMemberAndTransactionFlow(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrated")

	out, err = run(t, dir, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "already up to date")

	_, err = run(t, dir, "member", "add", "Alice")
	require.NoError(t, err)

	_, err = run(t, dir, "member", "add", "alice")
	require.Error(t, err)

	out, err = run(t, dir, "member", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")

	_, err = run(t, dir, "tx", "add", "120", "Groceries", "--member", "Alice", "--category", "Food", "--date", "2024-03-05")
	require.NoError(t, err)
	_, err = run(t, dir, "tx", "add", "3000", "Salary", "--member", "Bob", "--income", "--date", "2024-03-01")
	require.NoError(t, err)
	_, err = run(t, dir, "tx", "add", "50", "Groceries", "--member", "Alice", "--category", "Food", "--date", "2024-02-10")
	require.NoError(t, err)

	out, err = run(t, dir, "tx", "list", "--from", "2024-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "+$3000.00")
	assert.NotContains(t, out, "2024-02-10")

	out, err = run(t, dir, "report", "--date", "2024-03-15")
	require.NoError(t, err)
	assert.Contains(t, out, "Monthly report 2024-03-01 to 2024-03-31")
	assert.Contains(t, out, "$3000.00")
	assert.Contains(t, out, "$120.00")
	assert.Contains(t, out, "▲ up")

	_, err = run(t, dir, "report", "--period", "quarterly")
	assert.Error(t, err)
}

func TestBudgetCommands(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "budget", "set", "Food", "100")
	require.NoError(t, err)
	_, err = run(t, dir, "tx", "add", "130", "Dinner", "--category", "Food", "--date", "2024-03-02")
	require.NoError(t, err)

	out, err := run(t, dir, "budget", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Budgets 2024-03")
	assert.Contains(t, out, "130%")

	_, err = run(t, dir, "budget", "set", "Food", "lots")
	assert.Error(t, err)
}

func TestRenderReportEmptyPeriod(t *testing.T) {
	var buf bytes.Buffer
	r := insight.Report{
		PeriodType: insight.Weekly,
		Current: insight.Window{
			Start: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC),
		},
		PreviousExpense: decimal.NewFromInt(40),
		ExpenseTrend:    insight.TrendDown,
		IncomeTrend:     insight.TrendUnchanged,
		Actor:           "Alice",
	}

	require.NoError(t, renderReport(newPrinter(&buf), assistant.Facts{Currency: "GBP"}, r))

	out := buf.String()
	assert.Contains(t, out, "Weekly report 2024-03-10 to 2024-03-16 for Alice")
	assert.Contains(t, out, "£40.00")
	assert.Contains(t, out, "▼ down")
	assert.Contains(t, out, "no records in this period")
	assert.NotContains(t, out, "Spending by category")
}

func TestRenderReportHighlightsCapped(t *testing.T) {
	var buf bytes.Buffer
	r := insight.Report{PeriodType: insight.Monthly, Expense: decimal.NewFromInt(7)}
	for i := 0; i < 7; i++ {
		r.Highlights = append(r.Highlights, models.Transaction{
			ID:          string(rune('a' + i)),
			Description: "coffee " + string(rune('a'+i)),
			Amount:      decimal.NewFromInt(1),
			Direction:   models.DirectionOutflow,
		})
	}

	require.NoError(t, renderReport(newPrinter(&buf), assistant.Facts{Currency: "USD"}, r))

	assert.Contains(t, buf.String(), "coffee e")
	assert.NotContains(t, buf.String(), "coffee f")
}
