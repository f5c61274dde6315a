package insight

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
)

func TestBucketCounts(t *testing.T) {
	records := []models.Transaction{expense("1", "Alex", "Food", 10, "2024-03-05")}

	weekly, err := Buckets(records, date("2024-03-03"), Weekly, time.Sunday)
	require.NoError(t, err)
	require.Len(t, weekly, 7)
	assert.Equal(t, "Sun", weekly[0].Label)
	assert.Equal(t, "Sat", weekly[6].Label)

	yearly, err := Buckets(records, date("2024-01-01"), Yearly, time.Sunday)
	require.NoError(t, err)
	require.Len(t, yearly, 12)
	assert.Equal(t, "Jan", yearly[0].Label)
	assert.Equal(t, "Dec", yearly[11].Label)
	assert.True(t, yearly[2].Amount.Equal(decimal.NewFromInt(10)))
}

func TestBucketsEmptyInput(t *testing.T) {
	got, err := Buckets(nil, date("2024-03-01"), Monthly, time.Sunday)
	require.NoError(t, err)
	assert.Empty(t, got)

	s, err := MultiSeries(nil, date("2024-03-01"), Monthly, time.Sunday)
	require.NoError(t, err)
	assert.Empty(t, s.Balance)
	assert.Empty(t, s.Labels)
}

func TestBucketsUnsupportedPeriod(t *testing.T) {
	_, err := Buckets(nil, date("2024-03-01"), PeriodType("daily"), time.Sunday)
	var upt *errs.UnsupportedPeriodTypeError
	assert.True(t, errors.As(err, &upt))
}

func TestMonthlyBucketsClipToMonth(t *testing.T) {
	// March 2024 starts on a Friday.
	records := []models.Transaction{
		expense("1", "Alex", "Food", 10, "2024-03-01"),
		expense("2", "Alex", "Food", 40, "2024-03-31"),
		expense("3", "Alex", "Food", 99, "2024-02-29"),
	}
	got, err := Buckets(records, date("2024-03-01"), Monthly, time.Sunday)
	require.NoError(t, err)

	labels := []string{}
	for _, p := range got {
		labels = append(labels, p.Label)
	}
	assert.Equal(t, []string{"Mar 1-02", "Mar 3-09", "Mar 10-16", "Mar 17-23", "Mar 24-30", "Mar 31-31"}, labels)
	assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(10)))
	assert.True(t, got[5].Amount.Equal(decimal.NewFromInt(40)))
	assert.InDelta(t, 80.0, got[5].Y, 1e-9)
	assert.InDelta(t, 20.0, got[0].Y, 1e-9)
	assert.InDelta(t, 100.0, got[5].X, 1e-9)
	assert.InDelta(t, 0.0, got[0].X, 1e-9)
}

func TestMonthlyLabelAcrossMonths(t *testing.T) {
	got, err := Buckets(
		[]models.Transaction{expense("1", "Alex", "Food", 1, "2024-03-20")},
		date("2024-03-15"), Monthly, time.Sunday,
	)
	require.NoError(t, err)

	labels := []string{}
	for _, p := range got {
		labels = append(labels, p.Label)
	}
	assert.Equal(t, []string{"Mar 15-16", "Mar 17-23", "Mar 24-30", "Mar 31-Apr 6", "Apr 7-13", "Apr 14-14"}, labels)
}

func TestChartZeroMax(t *testing.T) {
	got, err := Buckets([]models.Transaction{expense("1", "Alex", "Food", 0, "2024-03-04")}, date("2024-03-03"), Weekly, time.Sunday)
	require.NoError(t, err)
	for _, p := range got {
		assert.Zero(t, p.Y)
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.LessOrEqual(t, p.X, 100.0)
	}
}

func TestRunningBalance(t *testing.T) {
	d := decimal.NewFromInt
	got := RunningBalance([]decimal.Decimal{d(100), d(50)}, []decimal.Decimal{d(80), d(200)})
	require.Len(t, got, 2)
	assert.True(t, got[0].Equal(d(-20)))
	assert.True(t, got[1].Equal(d(130)))
}

func TestMultiSeriesBalance(t *testing.T) {
	records := []models.Transaction{
		expense("1", "Alex", "Food", 100, "2024-03-03"),
		income("2", "Alex", 80, "2024-03-03"),
		expense("3", "Alex", "Food", 50, "2024-03-04"),
		income("4", "Alex", 200, "2024-03-04"),
	}
	s, err := MultiSeries(records, date("2024-03-03"), Weekly, time.Sunday)
	require.NoError(t, err)
	require.Len(t, s.Balance, 7)
	assert.True(t, s.Balance[0].Equal(decimal.NewFromInt(-20)))
	assert.True(t, s.Balance[1].Equal(decimal.NewFromInt(130)))
	assert.True(t, s.Balance[6].Equal(decimal.NewFromInt(130)))
	assert.Equal(t, "Sun", s.Labels[0])
	assert.Len(t, s.Income, 7)
}
