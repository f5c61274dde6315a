package assistant

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/insight"
	"github.com/GregMSThompson/household-finance/internal/models"
)

const (
	lowSavingsRate       = 0.1
	dominantCategoryRate = 0.35
)

// Facts is the snapshot the intent templates render from.
type Facts struct {
	Currency string

	Income           decimal.Decimal
	Expense          decimal.Decimal
	Net              decimal.Decimal
	ExpenseTrend     insight.Trend
	TransactionCount int
	SavingsRate      float64
	ExpenseRatio     float64

	TopCategory       string
	TopCategoryAmount decimal.Decimal
	TopCategoryShare  float64
	TopSpender        string
	TopSpenderAmount  decimal.Decimal

	ActiveGoals    int
	CompletedGoals int
	TopGoal        *GoalFact

	HasBudgets      bool
	BudgetLimit     decimal.Decimal
	BudgetSpent     decimal.Decimal
	BudgetRemaining decimal.Decimal
	BudgetUsage     float64
	OverBudget      []string

	Advice string
}

type GoalFact struct {
	Title    string
	Progress float64
	Current  decimal.Decimal
	Target   decimal.Decimal
}

// BuildFacts summarises a monthly report, the household's goals and the
// month's budget status.
func BuildFacts(currency string, report insight.Report, goals []models.SavingsGoal, budgets dto.BudgetStatusReport) Facts {
	f := Facts{
		Currency:         currency,
		Income:           report.Income,
		Expense:          report.Expense,
		Net:              report.Net(),
		ExpenseTrend:     report.ExpenseTrend,
		TransactionCount: len(report.Highlights),
	}
	if report.Income.IsPositive() {
		f.SavingsRate = report.Net().Div(report.Income).InexactFloat64()
		f.ExpenseRatio = report.Expense.Div(report.Income).InexactFloat64()
	}
	if len(report.Categories) > 0 {
		top := report.Categories[0]
		f.TopCategory, f.TopCategoryAmount, f.TopCategoryShare = top.Name, top.Amount, top.Percentage
	}
	if len(report.MemberExpenses) > 0 {
		top := report.MemberExpenses[0]
		f.TopSpender, f.TopSpenderAmount = top.Name, top.Amount
	}

	var active []models.SavingsGoal
	for _, g := range goals {
		switch {
		case g.IsComplete():
			f.CompletedGoals++
		case g.IsActive:
			active = append(active, g)
		}
	}
	f.ActiveGoals = len(active)
	if len(active) > 0 {
		sort.SliceStable(active, func(i, j int) bool {
			return active[i].ProgressPercent() > active[j].ProgressPercent()
		})
		g := active[0]
		f.TopGoal = &GoalFact{Title: g.Title, Progress: g.ProgressPercent(), Current: g.Current, Target: g.Target}
	}

	if len(budgets.Items) > 0 {
		f.HasBudgets = true
		f.BudgetLimit = budgets.TotalLimit
		f.BudgetSpent = budgets.TotalSpent
		f.BudgetRemaining = budgets.TotalLimit.Sub(budgets.TotalSpent)
		if f.BudgetRemaining.IsNegative() {
			f.BudgetRemaining = decimal.Zero
		}
		if budgets.TotalLimit.IsPositive() {
			f.BudgetUsage = budgets.TotalSpent.Div(budgets.TotalLimit).InexactFloat64()
		}
		for _, item := range budgets.Items {
			if item.OverLimit {
				f.OverBudget = append(f.OverBudget, item.Budget.Category)
			}
		}
	}

	f.Advice = advice(f, len(goals))
	return f
}

func advice(f Facts, goalCount int) string {
	switch {
	case f.Income.IsPositive() && f.SavingsRate < lowSavingsRate:
		return "Try the 50/30/20 rule: 50% for needs, 30% for wants, 20% for savings. Aim to save at least 10% of income."
	case f.TopCategory != "" && f.TopCategoryShare > dominantCategoryRate:
		return fmt.Sprintf("%s is %s of your spending. Setting a monthly budget for it could help control costs.",
			f.TopCategory, formatPercent(f.TopCategoryShare))
	case goalCount == 0:
		return "Create your first family goal. An emergency fund of 3-6 months of expenses is a good start."
	}
	return ""
}

var funcs = template.FuncMap{
	"pct":  formatPercent,
	"join": strings.Join,
}

var symbols = map[string]string{"USD": "$", "AUD": "$", "CAD": "$", "EUR": "€", "GBP": "£"}

// Money formats an amount in the household currency.
func (f Facts) Money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign, d = "-", d.Neg()
	}
	code := strings.ToUpper(f.Currency)
	if sym, ok := symbols[code]; ok {
		return sign + sym + d.StringFixed(2)
	}
	if code == "" {
		return sign + d.StringFixed(2)
	}
	return sign + code + " " + d.StringFixed(2)
}

func formatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}
