package insight

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/household-finance/internal/models"
)

// Report is the full comparison of a period against the one before it.
type Report struct {
	PeriodType      PeriodType           `json:"periodType"`
	Current         Window               `json:"current"`
	Previous        Window               `json:"previous"`
	Actor           string               `json:"actor,omitempty"`
	Income          decimal.Decimal      `json:"income"`
	Expense         decimal.Decimal      `json:"expense"`
	PreviousIncome  decimal.Decimal      `json:"previousIncome"`
	PreviousExpense decimal.Decimal      `json:"previousExpense"`
	IncomeTrend     Trend                `json:"incomeTrend"`
	ExpenseTrend    Trend                `json:"expenseTrend"`
	Highlights      []models.Transaction `json:"highlights"`
	Categories      []Bucket             `json:"categories"`
	MemberExpenses  []Bucket             `json:"memberExpenses"`
	MemberIncomes   []Bucket             `json:"memberIncomes"`
	Chart           []ChartPoint         `json:"chart"`
	XAxisLabels     []string             `json:"xAxisLabels"`
	Series          Series               `json:"series"`
}

// Net is income minus expense for the current window.
func (r Report) Net() decimal.Decimal {
	return r.Income.Sub(r.Expense)
}

// Engine computes reports over records already in memory. It holds no
// mutable state and can be shared between goroutines.
type Engine struct {
	weekStart time.Weekday
}

type Option func(*Engine)

// WithWeekStart sets the first day of the week used for weekly alignment
// and the monthly chart. Sunday by default.
func WithWeekStart(d time.Weekday) Option {
	return func(e *Engine) { e.weekStart = d }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{weekStart: time.Sunday}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) WeekStart() time.Weekday {
	return e.weekStart
}

func (e *Engine) PeriodStartFor(date time.Time, p PeriodType) (time.Time, error) {
	return PeriodStartFor(date, p, e.weekStart)
}

// GetInsightReport aligns referenceDate to its period, filters records into
// the current and previous windows and aggregates both.
func (e *Engine) GetInsightReport(p PeriodType, referenceDate time.Time, actor string, records []models.Transaction) (Report, error) {
	start, err := e.PeriodStartFor(referenceDate, p)
	if err != nil {
		return Report{}, err
	}
	current, err := CurrentRange(p, start)
	if err != nil {
		return Report{}, err
	}
	previous, err := PreviousRange(p, start)
	if err != nil {
		return Report{}, err
	}

	cur := Filter(records, current, actor)
	prev := Filter(records, previous, actor)

	chart, err := e.GetChartSeries(cur, start, p)
	if err != nil {
		return Report{}, err
	}
	series, err := e.GetMultiSeries(cur, start, p)
	if err != nil {
		return Report{}, err
	}

	r := Report{
		PeriodType:      p,
		Current:         current,
		Previous:        previous,
		Actor:           actor,
		Income:          Total(cur, models.DirectionInflow),
		Expense:         Total(cur, models.DirectionOutflow),
		PreviousIncome:  Total(prev, models.DirectionInflow),
		PreviousExpense: Total(prev, models.DirectionOutflow),
		Highlights:      Highlights(cur),
		Categories:      e.GetCategoryBreakdown(cur),
		MemberExpenses:  e.GetActorBreakdown(cur, models.DirectionOutflow),
		MemberIncomes:   e.GetActorBreakdown(cur, models.DirectionInflow),
		Chart:           chart,
		XAxisLabels:     labels(chart),
		Series:          series,
	}
	r.IncomeTrend = Compare(r.Income, r.PreviousIncome)
	r.ExpenseTrend = Compare(r.Expense, r.PreviousExpense)
	return r, nil
}

func (e *Engine) GetCategoryBreakdown(records []models.Transaction) []Bucket {
	return ByCategory(records)
}

func (e *Engine) GetActorBreakdown(records []models.Transaction, direction models.Direction) []Bucket {
	return ByActor(records, direction)
}

// GetChartSeries buckets expense records only.
func (e *Engine) GetChartSeries(records []models.Transaction, periodStart time.Time, p PeriodType) ([]ChartPoint, error) {
	return Buckets(byDirection(records, models.DirectionOutflow), periodStart, p, e.weekStart)
}

func (e *Engine) GetMultiSeries(records []models.Transaction, periodStart time.Time, p PeriodType) (Series, error) {
	return MultiSeries(records, periodStart, p, e.weekStart)
}

// Highlights returns a copy of records, newest first, ties broken by ID
// descending.
func Highlights(records []models.Transaction) []models.Transaction {
	out := append([]models.Transaction{}, records...)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := dayOf(out[i].Date), dayOf(out[j].Date)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func labels(points []ChartPoint) []string {
	out := make([]string, 0, len(points))
	for _, p := range points {
		out = append(out, p.Label)
	}
	return out
}
