package insight

import (
	"strings"
	"time"

	"github.com/GregMSThompson/household-finance/internal/errs"
)

type PeriodType string

const (
	Weekly  PeriodType = "weekly"
	Monthly PeriodType = "monthly"
	Yearly  PeriodType = "yearly"
)

func (p PeriodType) Valid() bool {
	switch p {
	case Weekly, Monthly, Yearly:
		return true
	default:
		return false
	}
}

// ParsePeriodType accepts weekly, monthly or yearly in any case.
func ParsePeriodType(s string) (PeriodType, error) {
	p := PeriodType(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", errs.NewUnsupportedPeriodTypeError(s)
	}
	return p, nil
}

// Window is the half-open date interval [Start, End). Both bounds are UTC
// midnights, so the last calendar day inside the window is End minus one day.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains compares at day granularity.
func (w Window) Contains(date time.Time) bool {
	d := dayOf(date)
	return !d.Before(w.Start) && d.Before(w.End)
}

func (w Window) LastDay() time.Time {
	return w.End.AddDate(0, 0, -1)
}

// CurrentRange is [start, start+period).
func CurrentRange(p PeriodType, start time.Time) (Window, error) {
	s := dayOf(start)
	end, err := advance(p, s, 1)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: s, End: end}, nil
}

// PreviousRange is [start-period, start), so it always ends where
// CurrentRange begins.
func PreviousRange(p PeriodType, start time.Time) (Window, error) {
	s := dayOf(start)
	prev, err := advance(p, s, -1)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: prev, End: s}, nil
}

// PeriodStartFor aligns date down to the start of its week, month or year.
func PeriodStartFor(date time.Time, p PeriodType, weekStart time.Weekday) (time.Time, error) {
	d := dayOf(date)
	switch p {
	case Weekly:
		return WeekStart(d, weekStart), nil
	case Monthly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	case Yearly:
		return time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), nil
	default:
		return time.Time{}, errs.NewUnsupportedPeriodTypeError(string(p))
	}
}

// WeekStart returns the first day of the week containing date.
func WeekStart(date time.Time, first time.Weekday) time.Time {
	d := dayOf(date)
	diff := (7 + int(d.Weekday()) - int(first)) % 7
	return d.AddDate(0, 0, -diff)
}

func advance(p PeriodType, t time.Time, n int) (time.Time, error) {
	switch p {
	case Weekly:
		return t.AddDate(0, 0, 7*n), nil
	case Monthly:
		return addMonths(t, n), nil
	case Yearly:
		return addMonths(t, 12*n), nil
	default:
		return time.Time{}, errs.NewUnsupportedPeriodTypeError(string(p))
	}
}

// addMonths clamps to the last day of the target month instead of
// overflowing, so Jan 31 + 1 month is Feb 28/29.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
