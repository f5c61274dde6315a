package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/pkg/helpers"
)

const txColumns = `id, member_id, member, category, description, notes, amount, currency,
	direction, date, goal_id, source, external_id, bank_id, pending, created_at, updated_at`

type TransactionStore struct {
	db *sql.DB
}

func (d *DB) Transactions() *TransactionStore {
	return &TransactionStore{db: d.db}
}

func (s *TransactionStore) Create(ctx context.Context, uid string, tx *models.Transaction) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO transactions (uid, `+txColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, txArgs(uid, tx)...)
	if isUniqueViolation(err) {
		return errs.NewAlreadyExistsError("transaction already exists")
	}
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create transaction", err)
	}
	return nil
}

func (s *TransactionStore) Get(ctx context.Context, uid, id string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+txColumns+` FROM transactions WHERE uid = ? AND id = ?`, uid, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to read transaction", err)
	}
	return tx, nil
}

func (s *TransactionStore) Update(ctx context.Context, uid string, tx *models.Transaction) error {
	tx.UpdatedAt = time.Now()
	res, err := s.db.ExecContext(ctx, `UPDATE transactions SET member_id = ?, member = ?, category = ?,
		description = ?, notes = ?, amount = ?, direction = ?, date = ?, goal_id = ?, updated_at = ?
		WHERE uid = ? AND id = ?`,
		tx.MemberID, tx.Member, tx.Category, tx.Description, tx.Notes, tx.Amount.String(),
		string(tx.Direction), helpers.FormatDate(tx.Date), tx.GoalID, tx.UpdatedAt, uid, tx.ID)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update transaction", err)
	}
	return requireAffected(res, "transaction")
}

func (s *TransactionStore) Delete(ctx context.Context, uid, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE uid = ? AND id = ?`, uid, id)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete transaction", err)
	}
	return requireAffected(res, "transaction")
}

// Query streams matching rows to handle. Category compares case-insensitively.
func (s *TransactionStore) Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error {
	where := []string{"uid = ?"}
	args := []any{uid}
	if q.MemberID != nil {
		where = append(where, "member_id = ?")
		args = append(args, *q.MemberID)
	}
	if q.Direction != nil {
		where = append(where, "direction = ?")
		args = append(args, string(*q.Direction))
	}
	if q.Category != nil {
		where = append(where, "lower(trim(category)) = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(*q.Category)))
	}
	if q.BankID != nil {
		where = append(where, "bank_id = ?")
		args = append(args, *q.BankID)
	}
	if q.Source != nil {
		where = append(where, "source = ?")
		args = append(args, *q.Source)
	}
	if q.DateFrom != nil {
		where = append(where, "date >= ?")
		args = append(args, *q.DateFrom)
	}
	if q.DateTo != nil {
		where = append(where, "date <= ?")
		args = append(args, *q.DateTo)
	}

	var order string
	switch q.OrderBy {
	case "", "date":
		order = "date"
	case "createdAt":
		order = "created_at"
	case "amount":
		order = "CAST(amount AS REAL)"
	default:
		return errs.NewValidationError("unsupported orderBy: " + q.OrderBy)
	}
	if q.Desc {
		order += " DESC, id DESC"
	} else {
		order += " ASC, id ASC"
	}

	query := `SELECT ` + txColumns + ` FROM transactions WHERE ` + strings.Join(where, " AND ") + ` ORDER BY ` + order
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return errs.NewDatabaseError("read", "failed to query transactions", err)
	}
	defer rows.Close()

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return errs.NewDatabaseError("read", "failed to scan transaction", err)
		}
		if err := handle(tx); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return errs.NewDatabaseError("read", "failed to iterate transactions", err)
	}
	return nil
}

// UpsertBatch inserts or replaces txs in a single transaction, keeping the
// original created_at of rows that already exist.
func (s *TransactionStore) UpsertBatch(ctx context.Context, uid string, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to begin transaction", err)
	}
	defer func() { _ = dbtx.Rollback() }()

	stmt, err := dbtx.PrepareContext(ctx, `INSERT INTO transactions (uid, `+txColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(uid, id) DO UPDATE SET
			member_id = excluded.member_id, member = excluded.member, category = excluded.category,
			description = excluded.description, notes = excluded.notes, amount = excluded.amount,
			currency = excluded.currency, direction = excluded.direction, date = excluded.date,
			goal_id = excluded.goal_id, source = excluded.source, external_id = excluded.external_id,
			bank_id = excluded.bank_id, pending = excluded.pending, updated_at = excluded.updated_at`)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to prepare upsert", err)
	}
	defer stmt.Close()

	now := time.Now()
	for i := range txs {
		t := txs[i]
		t.UpdatedAt = now
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		if _, err := stmt.ExecContext(ctx, txArgs(uid, &t)...); err != nil {
			return errs.NewDatabaseError("update", "failed to upsert transaction", err)
		}
	}

	if err := dbtx.Commit(); err != nil {
		return errs.NewDatabaseError("update", "failed to commit transactions", err)
	}
	return nil
}

func txArgs(uid string, t *models.Transaction) []any {
	return []any{
		uid, t.ID, t.MemberID, t.Member, t.Category, t.Description, t.Notes, t.Amount.String(), t.Currency,
		string(t.Direction), helpers.FormatDate(t.Date), t.GoalID, t.Source, t.ExternalID, t.BankID,
		t.Pending, t.CreatedAt, t.UpdatedAt,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*models.Transaction, error) {
	var (
		t         models.Transaction
		amount    string
		direction string
		date      string
	)
	err := row.Scan(&t.ID, &t.MemberID, &t.Member, &t.Category, &t.Description, &t.Notes, &amount, &t.Currency,
		&direction, &date, &t.GoalID, &t.Source, &t.ExternalID, &t.BankID, &t.Pending, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, err
	}
	if t.Date, err = helpers.ParseDate(date); err != nil {
		return nil, err
	}
	t.Direction = models.Direction(direction)
	return &t, nil
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errs.NewDatabaseError("update", "failed to read affected rows", err)
	}
	if n == 0 {
		return errs.NewNotFoundError(what + " not found")
	}
	return nil
}
