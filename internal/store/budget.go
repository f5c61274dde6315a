package store

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
)

type budgetDoc struct {
	ID          string    `firestore:"id"`
	Category    string    `firestore:"category"`
	CategoryKey string    `firestore:"categoryKey"`
	Limit       string    `firestore:"limit"`
	Month       string    `firestore:"month"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

func (d budgetDoc) model() (*models.Budget, error) {
	limit, err := decimal.NewFromString(d.Limit)
	if err != nil {
		return nil, err
	}
	return &models.Budget{
		ID:        d.ID,
		Category:  d.Category,
		Limit:     limit,
		Month:     d.Month,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

type budgetStore struct {
	client *firestore.Client
}

func NewBudgetStore(client *firestore.Client) *budgetStore {
	return &budgetStore{client: client}
}

func (s *budgetStore) collection(uid string) *firestore.CollectionRef {
	return userDoc(s.client, uid).Collection("budgets")
}

// BudgetID is the document id for a category and month, which keeps
// budgets unique per pair.
func BudgetID(month, category string) string {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(category)), "/", "-")
	return month + "_" + key
}

// Upsert writes b under its month/category id, keeping the original
// CreatedAt when the budget already exists.
func (s *budgetStore) Upsert(ctx context.Context, uid string, b *models.Budget) error {
	b.ID = BudgetID(b.Month, b.Category)
	ref := s.collection(uid).Doc(b.ID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil && !isNotFound(err) {
			return errs.NewDatabaseError("read", "failed to read budget", err)
		}
		if err == nil {
			var existing budgetDoc
			if err := snap.DataTo(&existing); err == nil && !existing.CreatedAt.IsZero() {
				b.CreatedAt = existing.CreatedAt
			}
		}
		return tx.Set(ref, budgetDoc{
			ID:          b.ID,
			Category:    b.Category,
			CategoryKey: strings.ToLower(strings.TrimSpace(b.Category)),
			Limit:       b.Limit.String(),
			Month:       b.Month,
			CreatedAt:   b.CreatedAt,
			UpdatedAt:   b.UpdatedAt,
		})
	})
	return txError(err, "update", "failed to save budget")
}

// List returns budgets ordered by category; month narrows to one YYYY-MM.
func (s *budgetStore) List(ctx context.Context, uid string, month *string) ([]*models.Budget, error) {
	query := s.collection(uid).Query
	if month != nil {
		query = query.Where("month", "==", *month)
	}
	iter := query.OrderBy("categoryKey", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	budgets := []*models.Budget{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list budgets", err)
		}
		var d budgetDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse budget data", err)
		}
		b, err := d.model()
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse budget data", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, nil
}

func (s *budgetStore) Delete(ctx context.Context, uid, id string) error {
	_, err := s.collection(uid).Doc(id).Delete(ctx, firestore.Exists)
	if isNotFound(err) {
		return errs.NewNotFoundError("budget not found")
	}
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete budget", err)
	}
	return nil
}
