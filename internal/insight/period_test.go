package insight

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/household-finance/internal/errs"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRangesAreContiguous(t *testing.T) {
	refs := []string{"2024-01-31", "2024-02-29", "2024-03-01", "2023-12-31", "2024-07-15"}
	for _, p := range []PeriodType{Weekly, Monthly, Yearly} {
		for _, ref := range refs {
			cur, err := CurrentRange(p, date(ref))
			require.NoError(t, err)
			prev, err := PreviousRange(p, date(ref))
			require.NoError(t, err)

			assert.True(t, prev.End.Equal(cur.Start), "%s %s: previous must end where current starts", p, ref)
			assert.True(t, prev.Start.Before(prev.End), "%s %s", p, ref)
			assert.True(t, cur.Start.Before(cur.End), "%s %s", p, ref)
			assert.False(t, prev.Contains(cur.Start), "%s %s: windows overlap", p, ref)
			assert.True(t, cur.Contains(cur.LastDay()))
			assert.False(t, cur.Contains(cur.End))
		}
	}
}

func TestCurrentRangeLengths(t *testing.T) {
	w, err := CurrentRange(Weekly, date("2024-03-03"))
	require.NoError(t, err)
	assert.Equal(t, date("2024-03-10"), w.End)

	w, err = CurrentRange(Monthly, date("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, date("2024-04-01"), w.End)

	w, err = PreviousRange(Monthly, date("2024-03-31"))
	require.NoError(t, err)
	assert.Equal(t, date("2024-02-29"), w.Start)

	w, err = CurrentRange(Yearly, date("2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, date("2025-01-01"), w.End)
}

func TestRangeDropsTimeOfDay(t *testing.T) {
	w, err := CurrentRange(Weekly, time.Date(2024, 3, 3, 17, 45, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, date("2024-03-03"), w.Start)
	assert.True(t, w.Contains(time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)))
}

func TestUnsupportedPeriodType(t *testing.T) {
	_, err := CurrentRange(PeriodType("daily"), date("2024-03-01"))
	var upt *errs.UnsupportedPeriodTypeError
	require.True(t, errors.As(err, &upt))
	assert.Equal(t, "daily", upt.PeriodType)

	_, err = PreviousRange(PeriodType(""), date("2024-03-01"))
	assert.True(t, errors.As(err, &upt))

	_, err = PeriodStartFor(date("2024-03-01"), PeriodType("quarterly"), time.Sunday)
	assert.True(t, errors.As(err, &upt))

	_, err = ParsePeriodType("fortnightly")
	assert.True(t, errors.As(err, &upt))
}

func TestParsePeriodType(t *testing.T) {
	p, err := ParsePeriodType(" Monthly ")
	require.NoError(t, err)
	assert.Equal(t, Monthly, p)
}

func TestPeriodStartFor(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		p     PeriodType
		first time.Weekday
		want  string
	}{
		{"week sunday", "2024-03-06", Weekly, time.Sunday, "2024-03-03"},
		{"week monday", "2024-03-06", Weekly, time.Monday, "2024-03-04"},
		{"week on boundary", "2024-03-03", Weekly, time.Sunday, "2024-03-03"},
		{"week crosses year", "2024-01-02", Weekly, time.Sunday, "2023-12-31"},
		{"month", "2024-03-31", Monthly, time.Sunday, "2024-03-01"},
		{"year", "2024-11-09", Yearly, time.Sunday, "2024-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PeriodStartFor(date(tt.date), tt.p, tt.first)
			require.NoError(t, err)
			assert.Equal(t, date(tt.want), got)
		})
	}
}
