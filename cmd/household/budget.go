package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/pkg/helpers"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Set monthly category budgets and check spending against them",
	}

	set := &cobra.Command{
		Use:   "set CATEGORY LIMIT",
		Short: "Set the limit for a category",
		Args:  cobra.ExactArgs(2),
		RunE:  runBudgetSet,
	}
	set.Flags().String("month", "", "month as YYYY-MM (default this month)")

	list := &cobra.Command{
		Use:   "list",
		Short: "Show each budget with what has been spent",
		Args:  cobra.NoArgs,
		RunE:  runBudgetList,
	}
	list.Flags().String("month", "", "month as YYYY-MM (default this month)")

	cmd.AddCommand(set, list)
	return cmd
}

func currentMonth() string {
	return helpers.MonthStart(timeNow()).Format("2006-01")
}

func runBudgetSet(cmd *cobra.Command, args []string) error {
	limit, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("invalid limit %q", args[1])
	}
	month, _ := cmd.Flags().GetString("month")
	if month == "" {
		month = currentMonth()
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	b, err := a.budgets.Upsert(cmd.Context(), household, dto.UpsertBudgetRequest{
		Category: args[0],
		Limit:    limit,
		Month:    month,
	})
	if err != nil {
		return err
	}
	newPrinter(cmd.OutOrStdout()).Success(fmt.Sprintf("%s budget for %s set to %s", b.Category, b.Month, a.money.Money(b.Limit)))
	return nil
}

func runBudgetList(cmd *cobra.Command, _ []string) error {
	month, _ := cmd.Flags().GetString("month")
	if month == "" {
		month = currentMonth()
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.budgets.Status(cmd.Context(), household, month)
	if err != nil {
		return err
	}
	out := newPrinter(cmd.OutOrStdout())
	if len(report.Items) == 0 {
		out.Info(fmt.Sprintf("no budgets for %s", report.Month))
		return nil
	}

	out.Header("Budgets " + report.Month)
	rows := make([][]string, 0, len(report.Items)+1)
	for _, item := range report.Items {
		usage := fmt.Sprintf("%.0f%%", item.Usage*100)
		switch {
		case item.OverLimit:
			usage = out.red.Sprint(usage)
		case item.Usage >= 0.8:
			usage = out.yellow.Sprint(usage)
		default:
			usage = out.green.Sprint(usage)
		}
		rows = append(rows, []string{
			item.Budget.Category,
			a.money.Money(item.Budget.Limit),
			a.money.Money(item.Spent),
			a.money.Money(item.Remaining),
			usage,
		})
	}
	rows = append(rows, []string{"TOTAL", a.money.Money(report.TotalLimit), a.money.Money(report.TotalSpent), "", ""})
	return out.Table([]string{"CATEGORY", "LIMIT", "SPENT", "REMAINING", "USED"}, rows)
}
