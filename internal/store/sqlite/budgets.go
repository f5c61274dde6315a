package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
)

type BudgetStore struct {
	db *sql.DB
}

func (d *DB) Budgets() *BudgetStore {
	return &BudgetStore{db: d.db}
}

// Upsert keeps one budget per month and case-folded category.
func (s *BudgetStore) Upsert(ctx context.Context, uid string, b *models.Budget) error {
	key := strings.ToLower(strings.TrimSpace(b.Category))
	b.ID = b.Month + "_" + key

	_, err := s.db.ExecContext(ctx, `INSERT INTO budgets (uid, id, category, category_key, limit_amount, month, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(uid, id) DO UPDATE SET
			category = excluded.category, limit_amount = excluded.limit_amount, updated_at = excluded.updated_at`,
		uid, b.ID, b.Category, key, b.Limit.String(), b.Month, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to save budget", err)
	}
	return nil
}

func (s *BudgetStore) List(ctx context.Context, uid string, month *string) ([]*models.Budget, error) {
	query := `SELECT id, category, limit_amount, month, created_at, updated_at FROM budgets WHERE uid = ?`
	args := []any{uid}
	if month != nil {
		query += ` AND month = ?`
		args = append(args, *month)
	}
	query += ` ORDER BY category_key, month`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list budgets", err)
	}
	defer rows.Close()

	budgets := []*models.Budget{}
	for rows.Next() {
		var (
			b     models.Budget
			limit string
		)
		if err := rows.Scan(&b.ID, &b.Category, &limit, &b.Month, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to scan budget", err)
		}
		if b.Limit, err = decimal.NewFromString(limit); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse budget limit", err)
		}
		budgets = append(budgets, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to iterate budgets", err)
	}
	return budgets, nil
}

func (s *BudgetStore) Delete(ctx context.Context, uid, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE uid = ? AND id = ?`, uid, id)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete budget", err)
	}
	return requireAffected(res, "budget")
}
