package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/household-finance/internal/assistant"
	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/insight"
	"github.com/GregMSThompson/household-finance/pkg/helpers"
)

const reportHighlights = 5

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compare a period's income and spending with the period before",
		Long: `Build the period report: income and expense with their trend against the
previous period, the category and member breakdowns and the latest records.

Examples:
  household report
  household report --period weekly --date 2024-03-13
  household report --period yearly --member Alice`,
		Args: cobra.NoArgs,
		RunE: runReport,
	}
	cmd.Flags().String("period", string(insight.Monthly), "weekly, monthly or yearly")
	cmd.Flags().String("date", "", "any date inside the period, YYYY-MM-DD (default today)")
	cmd.Flags().String("member", "", "only this member's records")
	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	period, _ := cmd.Flags().GetString("period")
	date, _ := cmd.Flags().GetString("date")
	member, _ := cmd.Flags().GetString("member")

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.insights.Report(cmd.Context(), household, dto.InsightRequest{
		PeriodType: period,
		Date:       date,
		Actor:      member,
	})
	if err != nil {
		return err
	}
	return renderReport(newPrinter(cmd.OutOrStdout()), a.money, report)
}

func renderReport(out *printer, money assistant.Facts, r insight.Report) error {
	title := fmt.Sprintf("%s report %s to %s", titleCase(string(r.PeriodType)),
		helpers.FormatDate(r.Current.Start), helpers.FormatDate(r.Current.LastDay()))
	if r.Actor != "" {
		title += " for " + r.Actor
	}
	out.Header(title)

	if err := out.Table([]string{"", "THIS PERIOD", "PREVIOUS", "TREND"}, [][]string{
		{"Income", money.Money(r.Income), money.Money(r.PreviousIncome), out.trend(r.IncomeTrend, true)},
		{"Expense", money.Money(r.Expense), money.Money(r.PreviousExpense), out.trend(r.ExpenseTrend, false)},
		{"Net", money.Money(r.Net()), money.Money(r.PreviousIncome.Sub(r.PreviousExpense)), ""},
	}); err != nil {
		return err
	}

	if len(r.Categories) > 0 {
		out.Header("Spending by category")
		rows := make([][]string, 0, len(r.Categories))
		for _, b := range r.Categories {
			rows = append(rows, []string{b.Name, money.Money(b.Amount), fmt.Sprintf("%.1f%%", b.Percentage*100), fmt.Sprint(b.Count)})
		}
		if err := out.Table([]string{"CATEGORY", "AMOUNT", "SHARE", "RECORDS"}, rows); err != nil {
			return err
		}
	}

	if len(r.MemberExpenses) > 0 {
		out.Header("Spending by member")
		rows := make([][]string, 0, len(r.MemberExpenses))
		for _, b := range r.MemberExpenses {
			top := make([]string, 0, len(b.TopCategories))
			for _, c := range b.TopCategories {
				top = append(top, c.Name)
			}
			rows = append(rows, []string{b.Name, money.Money(b.Amount), fmt.Sprintf("%.1f%%", b.Percentage*100), orDash(strings.Join(top, ", "))})
		}
		if err := out.Table([]string{"MEMBER", "AMOUNT", "SHARE", "TOP CATEGORIES"}, rows); err != nil {
			return err
		}
	}

	if len(r.Highlights) > 0 {
		out.Header("Latest records")
		n := min(len(r.Highlights), reportHighlights)
		rows := make([][]string, 0, n)
		for _, t := range r.Highlights[:n] {
			amount := money.Money(t.Amount)
			if t.IsIncome() {
				amount = out.green.Sprint("+" + amount)
			}
			rows = append(rows, []string{helpers.FormatDate(t.Date), orDash(t.Member), t.Description, amount})
		}
		if err := out.Table([]string{"DATE", "MEMBER", "DESCRIPTION", "AMOUNT"}, rows); err != nil {
			return err
		}
	}

	if r.Income.IsZero() && r.Expense.IsZero() {
		out.Info("no records in this period")
	}
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
