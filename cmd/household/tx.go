package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/pkg/helpers"
	"github.com/GregMSThompson/household-finance/pkg/logger"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transaction"},
		Short:   "Record, list and import transactions",
	}
	cmd.AddCommand(txAddCmd(), txListCmd(), txImportCmd())
	return cmd
}

func txAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add AMOUNT DESCRIPTION",
		Short: "Record a transaction",
		Long: `Record a single transaction. AMOUNT is always positive; use --income for
money coming in. The category is guessed from the description when not given.

Examples:
  household tx add 42.10 "Tesco groceries" --member Alice
  household tx add 2500 "Salary" --income --member Bob --date 2024-03-28`,
		Args: cobra.MinimumNArgs(2),
		RunE: runTxAdd,
	}
	cmd.Flags().String("member", "", "member name (created on first use)")
	cmd.Flags().String("category", "", "category")
	cmd.Flags().String("date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().Bool("income", false, "record an inflow instead of an outflow")
	cmd.Flags().String("notes", "", "free text notes")
	return cmd
}

func runTxAdd(cmd *cobra.Command, args []string) error {
	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[0])
	}
	member, _ := cmd.Flags().GetString("member")
	category, _ := cmd.Flags().GetString("category")
	date, _ := cmd.Flags().GetString("date")
	income, _ := cmd.Flags().GetBool("income")
	notes, _ := cmd.Flags().GetString("notes")
	if date == "" {
		date = helpers.FormatDate(helpers.DateOnly(timeNow()))
	}

	direction := models.DirectionOutflow
	if income {
		direction = models.DirectionInflow
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	tx, err := a.transactions.Add(cmd.Context(), household, dto.CreateTransactionRequest{
		Member:      member,
		Category:    category,
		Description: strings.Join(args[1:], " "),
		Notes:       notes,
		Amount:      amount,
		Direction:   direction,
		Date:        date,
	})
	if err != nil {
		return err
	}
	newPrinter(cmd.OutOrStdout()).Success(fmt.Sprintf("recorded %s %s on %s as %s",
		tx.Direction, a.money.Money(tx.Amount), helpers.FormatDate(tx.Date), orDash(tx.Category)))
	return nil
}

func txListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE:  runTxList,
	}
	cmd.Flags().String("from", "", "first date, YYYY-MM-DD")
	cmd.Flags().String("to", "", "last date, YYYY-MM-DD")
	cmd.Flags().String("category", "", "only this category")
	cmd.Flags().Int("limit", 50, "maximum rows")
	return cmd
}

func runTxList(cmd *cobra.Command, _ []string) error {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	category, _ := cmd.Flags().GetString("category")
	limit, _ := cmd.Flags().GetInt("limit")

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	txs, err := a.transactions.List(cmd.Context(), household, dto.TransactionQuery{
		DateFrom: helpers.OptString(from),
		DateTo:   helpers.OptString(to),
		Category: helpers.OptString(category),
		OrderBy:  "date",
		Desc:     true,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	out := newPrinter(cmd.OutOrStdout())
	if len(txs) == 0 {
		out.Info("no transactions found")
		return nil
	}
	rows := make([][]string, 0, len(txs))
	for _, t := range txs {
		amount := a.money.Money(t.Amount)
		if t.IsIncome() {
			amount = out.green.Sprint("+" + amount)
		}
		rows = append(rows, []string{helpers.FormatDate(t.Date), orDash(t.Member), orDash(t.Category), t.Description, amount})
	}
	return out.Table([]string{"DATE", "MEMBER", "CATEGORY", "DESCRIPTION", "AMOUNT"}, rows)
}

func txImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import OFX/QFX statements",
		Long: `Import bank statements in OFX or QFX format. Records already imported
from an earlier statement are updated in place rather than duplicated.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runTxImport,
	}
	cmd.Flags().String("member", "", "attribute every imported record to this member")
	return cmd
}

func runTxImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	member, _ := cmd.Flags().GetString("member")

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	out := newPrinter(cmd.OutOrStdout())
	var failed int
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		res, err := a.transactions.ImportOFX(ctx, household, f, member)
		_ = f.Close()
		if err != nil {
			failed++
			log.Error("import failed", "file", path, "error", err)
			out.Warning(fmt.Sprintf("%s: %v", filepath.Base(path), err))
			continue
		}
		out.Success(fmt.Sprintf("%s: %d read, %d imported, %d categorised",
			filepath.Base(path), res.Read, res.Imported, res.Categorized))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", failed, len(args))
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
