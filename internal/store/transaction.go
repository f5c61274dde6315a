package store

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/pkg/helpers"
)

// transactionDoc is the stored shape. Amounts are decimal strings and dates
// YYYY-MM-DD so range filters compare lexically.
type transactionDoc struct {
	ID          string    `firestore:"id"`
	MemberID    string    `firestore:"memberId,omitempty"`
	Member      string    `firestore:"member,omitempty"`
	Category    string    `firestore:"category,omitempty"`
	CategoryKey string    `firestore:"categoryKey,omitempty"`
	Description string    `firestore:"description"`
	Notes       string    `firestore:"notes,omitempty"`
	Amount      string    `firestore:"amount"`
	Currency    string    `firestore:"currency,omitempty"`
	Direction   string    `firestore:"direction"`
	Date        string    `firestore:"date"`
	GoalID      string    `firestore:"goalId,omitempty"`
	Source      string    `firestore:"source"`
	ExternalID  string    `firestore:"externalId,omitempty"`
	BankID      string    `firestore:"bankId,omitempty"`
	Pending     bool      `firestore:"pending"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

func toTransactionDoc(t models.Transaction) transactionDoc {
	return transactionDoc{
		ID:          t.ID,
		MemberID:    t.MemberID,
		Member:      t.Member,
		Category:    t.Category,
		CategoryKey: strings.ToLower(strings.TrimSpace(t.Category)),
		Description: t.Description,
		Notes:       t.Notes,
		Amount:      t.Amount.String(),
		Currency:    t.Currency,
		Direction:   string(t.Direction),
		Date:        helpers.FormatDate(t.Date),
		GoalID:      t.GoalID,
		Source:      t.Source,
		ExternalID:  t.ExternalID,
		BankID:      t.BankID,
		Pending:     t.Pending,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d transactionDoc) model() (*models.Transaction, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return nil, err
	}
	date, err := helpers.ParseDate(d.Date)
	if err != nil {
		return nil, err
	}
	return &models.Transaction{
		ID:          d.ID,
		MemberID:    d.MemberID,
		Member:      d.Member,
		Category:    d.Category,
		Description: d.Description,
		Notes:       d.Notes,
		Amount:      amount,
		Currency:    d.Currency,
		Direction:   models.Direction(d.Direction),
		Date:        date,
		GoalID:      d.GoalID,
		Source:      d.Source,
		ExternalID:  d.ExternalID,
		BankID:      d.BankID,
		Pending:     d.Pending,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

type transactionStore struct {
	client *firestore.Client
}

func NewTransactionStore(client *firestore.Client) *transactionStore {
	return &transactionStore{client: client}
}

func (s *transactionStore) txCollection(uid string) *firestore.CollectionRef {
	return userDoc(s.client, uid).Collection("transactions")
}

func (s *transactionStore) cursorDoc(uid, bankID string) *firestore.DocumentRef {
	return userDoc(s.client, uid).Collection("plaid_cursors").Doc(bankID)
}

func (s *transactionStore) Create(ctx context.Context, uid string, tx *models.Transaction) error {
	_, err := s.txCollection(uid).Doc(tx.ID).Create(ctx, toTransactionDoc(*tx))
	if isAlreadyExists(err) {
		return errs.NewAlreadyExistsError("transaction already exists")
	}
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create transaction", err)
	}
	return nil
}

func (s *transactionStore) Get(ctx context.Context, uid, id string) (*models.Transaction, error) {
	snap, err := s.txCollection(uid).Doc(id).Get(ctx)
	if err != nil {
		return nil, readError(err, "transaction")
	}
	var d transactionDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse transaction data", err)
	}
	tx, err := d.model()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse transaction data", err)
	}
	return tx, nil
}

func (s *transactionStore) Update(ctx context.Context, uid string, tx *models.Transaction) error {
	tx.UpdatedAt = time.Now()
	_, err := s.txCollection(uid).Doc(tx.ID).Set(ctx, toTransactionDoc(*tx))
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update transaction", err)
	}
	return nil
}

func (s *transactionStore) Delete(ctx context.Context, uid, id string) error {
	_, err := s.txCollection(uid).Doc(id).Delete(ctx, firestore.Exists)
	if isNotFound(err) {
		return errs.NewNotFoundError("transaction not found")
	}
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete transaction", err)
	}
	return nil
}

// Query streams matching transactions to handle in store order. Returning an
// error from handle stops the iteration and is returned as is.
func (s *transactionStore) Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error {
	query := s.txCollection(uid).Query
	if q.MemberID != nil {
		query = query.Where("memberId", "==", *q.MemberID)
	}
	if q.Direction != nil {
		query = query.Where("direction", "==", string(*q.Direction))
	}
	if q.Category != nil {
		query = query.Where("categoryKey", "==", strings.ToLower(strings.TrimSpace(*q.Category)))
	}
	if q.BankID != nil {
		query = query.Where("bankId", "==", *q.BankID)
	}
	if q.Source != nil {
		query = query.Where("source", "==", *q.Source)
	}
	if q.DateFrom != nil {
		query = query.Where("date", ">=", *q.DateFrom)
	}
	if q.DateTo != nil {
		query = query.Where("date", "<=", *q.DateTo)
	}

	orderBy := q.OrderBy
	switch orderBy {
	case "", "date":
		orderBy = "date"
	case "createdAt":
	default:
		return errs.NewValidationError("unsupported orderBy: " + q.OrderBy)
	}
	dir := firestore.Asc
	if q.Desc {
		dir = firestore.Desc
	}
	query = query.OrderBy(orderBy, dir)
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return errs.NewDatabaseError("read", "failed to query transactions", err)
		}
		var d transactionDoc
		if err := snap.DataTo(&d); err != nil {
			return errs.NewDatabaseError("read", "failed to parse transaction data", err)
		}
		tx, err := d.model()
		if err != nil {
			return errs.NewDatabaseError("read", "failed to parse transaction data", err)
		}
		if err := handle(tx); err != nil {
			return err
		}
	}
}

func (s *transactionStore) UpsertBatch(ctx context.Context, uid string, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(txs))
	now := time.Now()

	for _, t := range txs {
		t.UpdatedAt = now
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}

		job, err := bw.Set(s.txCollection(uid).Doc(t.ID), toTransactionDoc(t))
		if err != nil {
			bw.End()
			return errs.NewDatabaseError("update", "failed to queue transaction write", err)
		}
		jobs = append(jobs, job)
	}

	// Flush and close the writer, then wait on each job for errors.
	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return errs.NewDatabaseError("update", "failed to write transaction batch", err)
		}
	}
	return nil
}

func (s *transactionStore) DeleteBatch(ctx context.Context, uid string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(ids))
	for _, id := range ids {
		job, err := bw.Delete(s.txCollection(uid).Doc(id))
		if err != nil {
			bw.End()
			return errs.NewDatabaseError("delete", "failed to queue transaction delete", err)
		}
		jobs = append(jobs, job)
	}

	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return errs.NewDatabaseError("delete", "failed to delete transaction batch", err)
		}
	}
	return nil
}

func (s *transactionStore) DeleteByBank(ctx context.Context, uid, bankID string) error {
	var ids []string
	err := s.Query(ctx, uid, dto.TransactionQuery{BankID: &bankID}, func(tx *models.Transaction) error {
		ids = append(ids, tx.ID)
		return nil
	})
	if err != nil {
		return err
	}
	return s.DeleteBatch(ctx, uid, ids)
}

func (s *transactionStore) GetCursor(ctx context.Context, uid, bankID string) (string, error) {
	snap, err := s.cursorDoc(uid, bankID).Get(ctx)
	if isNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", errs.NewDatabaseError("read", "failed to read sync cursor", err)
	}
	cursor, ok := snap.Data()["cursor"].(string)
	if !ok {
		return "", nil
	}
	return cursor, nil
}

func (s *transactionStore) SetCursor(ctx context.Context, uid, bankID, cursor string) error {
	_, err := s.cursorDoc(uid, bankID).Set(ctx, map[string]interface{}{
		"cursor":    cursor,
		"updatedAt": time.Now(),
	}, firestore.MergeAll)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to save sync cursor", err)
	}
	return nil
}

func (s *transactionStore) DeleteCursor(ctx context.Context, uid, bankID string) error {
	_, err := s.cursorDoc(uid, bankID).Delete(ctx)
	if err != nil && !isNotFound(err) {
		return errs.NewDatabaseError("delete", "failed to delete sync cursor", err)
	}
	return nil
}
