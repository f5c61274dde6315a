package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/pkg/helpers"
	"github.com/GregMSThompson/household-finance/pkg/logger"
)

type budgetBSStore interface {
	Upsert(ctx context.Context, uid string, b *models.Budget) error
	List(ctx context.Context, uid string, month *string) ([]*models.Budget, error)
	Delete(ctx context.Context, uid, id string) error
}

// transactionQuerier is the read side of the transaction store shared by the
// reporting services.
type transactionQuerier interface {
	Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error
}

type budgetService struct {
	budgets  budgetBSStore
	txs      transactionQuerier
	clockNow func() time.Time
}

func NewBudgetService(budgets budgetBSStore, txs transactionQuerier) *budgetService {
	return &budgetService{
		budgets:  budgets,
		txs:      txs,
		clockNow: time.Now,
	}
}

// Upsert keeps one budget per category and month.
func (s *budgetService) Upsert(ctx context.Context, uid string, req dto.UpsertBudgetRequest) (*models.Budget, error) {
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, errs.NewValidationError("category is required")
	}
	if !req.Limit.IsPositive() {
		return nil, errs.NewValidationError("limit must be greater than zero")
	}
	month := strings.TrimSpace(req.Month)
	if month == "" {
		month = s.clockNow().UTC().Format(helpers.MonthLayout)
	}
	if _, err := helpers.ParseMonth(month); err != nil {
		return nil, errs.NewValidationError("month must be YYYY-MM")
	}

	now := s.clockNow().UTC()
	b := &models.Budget{
		Category:  category,
		Limit:     req.Limit,
		Month:     month,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.budgets.Upsert(ctx, uid, b); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("budget saved", "budget_id", b.ID, "month", month)
	return b, nil
}

func (s *budgetService) List(ctx context.Context, uid string, month *string) ([]*models.Budget, error) {
	if month != nil {
		if _, err := helpers.ParseMonth(*month); err != nil {
			return nil, errs.NewValidationError("month must be YYYY-MM")
		}
	}
	return s.budgets.List(ctx, uid, month)
}

func (s *budgetService) Delete(ctx context.Context, uid, id string) error {
	return s.budgets.Delete(ctx, uid, id)
}

// Status measures each of the month's budgets against the outflows recorded
// in its category. An empty month means the current one.
func (s *budgetService) Status(ctx context.Context, uid, month string) (dto.BudgetStatusReport, error) {
	if strings.TrimSpace(month) == "" {
		month = s.clockNow().UTC().Format(helpers.MonthLayout)
	}
	start, err := helpers.ParseMonth(month)
	if err != nil {
		return dto.BudgetStatusReport{}, errs.NewValidationError("month must be YYYY-MM")
	}
	month = start.Format(helpers.MonthLayout)

	report := dto.BudgetStatusReport{
		Month:      month,
		TotalLimit: decimal.Zero,
		TotalSpent: decimal.Zero,
		Items:      []dto.BudgetStatus{},
	}

	budgets, err := s.budgets.List(ctx, uid, &month)
	if err != nil {
		return report, err
	}
	if len(budgets) == 0 {
		return report, nil
	}

	spent, err := s.spentByCategory(ctx, uid, start)
	if err != nil {
		return report, err
	}

	for _, b := range budgets {
		used := spent[categoryKey(b.Category)]
		item := dto.BudgetStatus{
			Budget:    *b,
			Spent:     used,
			Remaining: b.Limit.Sub(used),
			OverLimit: used.GreaterThan(b.Limit),
		}
		if item.Remaining.IsNegative() {
			item.Remaining = decimal.Zero
		}
		if b.Limit.IsPositive() {
			item.Usage = used.Div(b.Limit).InexactFloat64()
		}
		report.Items = append(report.Items, item)
		report.TotalLimit = report.TotalLimit.Add(b.Limit)
		report.TotalSpent = report.TotalSpent.Add(used)
	}
	return report, nil
}

func (s *budgetService) spentByCategory(ctx context.Context, uid string, monthStart time.Time) (map[string]decimal.Decimal, error) {
	out := models.DirectionOutflow
	from := helpers.FormatDate(monthStart)
	to := helpers.FormatDate(monthStart.AddDate(0, 1, -1))

	spent := map[string]decimal.Decimal{}
	err := s.txs.Query(ctx, uid, dto.TransactionQuery{
		Direction: &out,
		DateFrom:  &from,
		DateTo:    &to,
	}, func(tx *models.Transaction) error {
		key := categoryKey(tx.Category)
		spent[key] = spent[key].Add(tx.Amount)
		return nil
	})
	return spent, err
}

func categoryKey(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
