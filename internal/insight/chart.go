package insight

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
)

const (
	chartWidth  = 100.0
	chartHeight = 80.0
)

// ChartPoint is one bucket positioned on a 100x80 canvas.
type ChartPoint struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
}

// Series holds per-bucket expense and income with the running balance.
type Series struct {
	Labels  []string          `json:"labels"`
	Expense []ChartPoint      `json:"expense"`
	Income  []ChartPoint      `json:"income"`
	Balance []decimal.Decimal `json:"balance"`
}

type slot struct {
	label      string
	start, end time.Time
}

// Buckets sums records into the chart slots of the period starting at
// periodStart. Records falling outside every slot are ignored.
func Buckets(records []models.Transaction, periodStart time.Time, p PeriodType, weekStart time.Weekday) ([]ChartPoint, error) {
	slots, err := chartSlots(periodStart, p, weekStart)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []ChartPoint{}, nil
	}
	return position(slots, sumSlots(slots, records)), nil
}

// MultiSeries splits records into expense and income buckets and accumulates
// balance[i] = balance[i-1] + income[i] - expense[i].
func MultiSeries(records []models.Transaction, periodStart time.Time, p PeriodType, weekStart time.Weekday) (Series, error) {
	slots, err := chartSlots(periodStart, p, weekStart)
	if err != nil {
		return Series{}, err
	}
	s := Series{
		Labels:  []string{},
		Expense: []ChartPoint{},
		Income:  []ChartPoint{},
		Balance: []decimal.Decimal{},
	}
	if len(records) == 0 {
		return s, nil
	}

	expense := sumSlots(slots, byDirection(records, models.DirectionOutflow))
	income := sumSlots(slots, byDirection(records, models.DirectionInflow))
	s.Expense = position(slots, expense)
	s.Income = position(slots, income)
	running := decimal.Zero
	for i, sl := range slots {
		running = running.Add(income[i]).Sub(expense[i])
		s.Labels = append(s.Labels, sl.label)
		s.Balance = append(s.Balance, running)
	}
	return s, nil
}

// RunningBalance is the cumulative income minus expense over paired series.
func RunningBalance(expense, income []decimal.Decimal) []decimal.Decimal {
	n := min(len(expense), len(income))
	out := make([]decimal.Decimal, 0, n)
	running := decimal.Zero
	for i := range n {
		running = running.Add(income[i]).Sub(expense[i])
		out = append(out, running)
	}
	return out
}

func sumSlots(slots []slot, records []models.Transaction) []decimal.Decimal {
	sums := make([]decimal.Decimal, len(slots))
	for i := range sums {
		sums[i] = decimal.Zero
	}
	for _, r := range records {
		d := dayOf(r.Date)
		for i, sl := range slots {
			if !d.Before(sl.start) && d.Before(sl.end) {
				sums[i] = sums[i].Add(r.Amount)
				break
			}
		}
	}
	return sums
}

func position(slots []slot, sums []decimal.Decimal) []ChartPoint {
	maxAmount := decimal.Zero
	for _, s := range sums {
		if s.GreaterThan(maxAmount) {
			maxAmount = s
		}
	}

	divisions := float64(max(1, len(slots)-1))
	points := make([]ChartPoint, 0, len(slots))
	for i, sl := range slots {
		pt := ChartPoint{
			Label:  sl.label,
			Amount: sums[i],
			X:      float64(i) / divisions * chartWidth,
		}
		if maxAmount.IsPositive() {
			pt.Y = sums[i].Div(maxAmount).InexactFloat64() * chartHeight
		}
		points = append(points, pt)
	}
	return points
}

func chartSlots(periodStart time.Time, p PeriodType, weekStart time.Weekday) ([]slot, error) {
	start := dayOf(periodStart)
	switch p {
	case Weekly:
		slots := make([]slot, 0, 7)
		for i := range 7 {
			d := start.AddDate(0, 0, i)
			slots = append(slots, slot{label: d.Format("Mon"), start: d, end: d.AddDate(0, 0, 1)})
		}
		return slots, nil
	case Monthly:
		return monthSlots(start, weekStart), nil
	case Yearly:
		slots := make([]slot, 0, 12)
		for i := range 12 {
			m := addMonths(start, i)
			slots = append(slots, slot{label: m.Format("Jan"), start: m, end: addMonths(start, i+1)})
		}
		return slots, nil
	default:
		return nil, errs.NewUnsupportedPeriodTypeError(string(p))
	}
}

// monthSlots walks week by week from the week boundary at or before start,
// clipping each week to the month.
func monthSlots(start time.Time, weekStart time.Weekday) []slot {
	monthEnd := addMonths(start, 1)
	var slots []slot
	for ws := WeekStart(start, weekStart); ws.Before(monthEnd); ws = ws.AddDate(0, 0, 7) {
		from := ws
		if from.Before(start) {
			from = start
		}
		to := ws.AddDate(0, 0, 7)
		if to.After(monthEnd) {
			to = monthEnd
		}
		slots = append(slots, slot{label: weekLabel(from, to.AddDate(0, 0, -1)), start: from, end: to})
	}
	return slots
}

func weekLabel(from, last time.Time) string {
	if from.Month() == last.Month() {
		return from.Format("Jan 2") + "-" + last.Format("02")
	}
	return from.Format("Jan 2") + "-" + last.Format("Jan 2")
}
