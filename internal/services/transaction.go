package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/household-finance/internal/categorize"
	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/internal/ofx"
	"github.com/GregMSThompson/household-finance/pkg/helpers"
	"github.com/GregMSThompson/household-finance/pkg/logger"
)

type transactionTSStore interface {
	Create(ctx context.Context, uid string, tx *models.Transaction) error
	Get(ctx context.Context, uid, id string) (*models.Transaction, error)
	Update(ctx context.Context, uid string, tx *models.Transaction) error
	Delete(ctx context.Context, uid, id string) error
	Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error
	UpsertBatch(ctx context.Context, uid string, txs []models.Transaction) error
}

// memberResolver turns a free-text member name into a stored member.
type memberResolver interface {
	GetOrCreate(ctx context.Context, uid, name string) (*models.FamilyMember, error)
}

type categorizer interface {
	Match(description string) (categorize.Match, bool)
}

type transactionService struct {
	txs      transactionTSStore
	members  memberResolver
	rules    categorizer
	currency string
	clockNow func() time.Time
}

func NewTransactionService(txs transactionTSStore, members memberResolver, rules categorizer, currency string) *transactionService {
	return &transactionService{
		txs:      txs,
		members:  members,
		rules:    rules,
		currency: currency,
		clockNow: time.Now,
	}
}

func (s *transactionService) Add(ctx context.Context, uid string, req dto.CreateTransactionRequest) (*models.Transaction, error) {
	log := logger.FromContext(ctx)

	if !req.Amount.IsPositive() {
		return nil, errs.NewValidationError("amount must be greater than zero")
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, errs.NewValidationError("description is required")
	}
	if !req.Direction.Valid() {
		return nil, errs.NewValidationError("direction must be inflow or outflow")
	}
	if strings.TrimSpace(req.Date) == "" {
		return nil, errs.NewValidationError("date is required")
	}
	date, err := helpers.ParseDate(req.Date)
	if err != nil {
		return nil, errs.NewValidationError("date must be YYYY-MM-DD")
	}

	now := s.clockNow().UTC()
	tx := &models.Transaction{
		ID:          uuid.NewString(),
		MemberID:    strings.TrimSpace(req.MemberID),
		Category:    strings.TrimSpace(req.Category),
		Description: description,
		Notes:       strings.TrimSpace(req.Notes),
		Amount:      req.Amount,
		Currency:    s.currency,
		Direction:   req.Direction,
		Date:        date,
		GoalID:      strings.TrimSpace(req.GoalID),
		Source:      models.SourceManual,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.resolveMember(ctx, uid, tx, req.Member); err != nil {
		return nil, err
	}

	if err := s.txs.Create(ctx, uid, tx); err != nil {
		log.Error("failed to create transaction", "error", err)
		return nil, err
	}

	log.Info("transaction added", "transaction_id", tx.ID, "direction", tx.Direction)
	return tx, nil
}

func (s *transactionService) resolveMember(ctx context.Context, uid string, tx *models.Transaction, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	m, err := s.members.GetOrCreate(ctx, uid, name)
	if err != nil {
		return err
	}
	tx.Member = m.Name
	tx.MemberID = m.ID
	return nil
}

func (s *transactionService) Get(ctx context.Context, uid, id string) (*models.Transaction, error) {
	return s.txs.Get(ctx, uid, id)
}

func (s *transactionService) List(ctx context.Context, uid string, q dto.TransactionQuery) ([]models.Transaction, error) {
	for _, d := range []*string{q.DateFrom, q.DateTo} {
		if d == nil {
			continue
		}
		if _, err := helpers.ParseDate(*d); err != nil {
			return nil, errs.NewValidationError("dates must be YYYY-MM-DD")
		}
	}
	if q.Direction != nil && !q.Direction.Valid() {
		return nil, errs.NewValidationError("direction must be inflow or outflow")
	}
	if q.Limit < 0 {
		return nil, errs.NewValidationError("limit cannot be negative")
	}

	out := []models.Transaction{}
	err := s.txs.Query(ctx, uid, q, func(tx *models.Transaction) error {
		out = append(out, *tx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *transactionService) Update(ctx context.Context, uid, id string, req dto.UpdateTransactionRequest) (*models.Transaction, error) {
	tx, err := s.txs.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, errs.NewValidationError("amount must be greater than zero")
		}
		tx.Amount = *req.Amount
	}
	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		if d == "" {
			return nil, errs.NewValidationError("description is required")
		}
		tx.Description = d
	}
	if req.Direction != nil {
		if !req.Direction.Valid() {
			return nil, errs.NewValidationError("direction must be inflow or outflow")
		}
		tx.Direction = *req.Direction
	}
	if req.Date != nil {
		date, err := helpers.ParseDate(*req.Date)
		if err != nil {
			return nil, errs.NewValidationError("date must be YYYY-MM-DD")
		}
		tx.Date = date
	}
	if req.Category != nil {
		tx.Category = strings.TrimSpace(*req.Category)
	}
	if req.Notes != nil {
		tx.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.Member != nil {
		if strings.TrimSpace(*req.Member) == "" {
			tx.Member, tx.MemberID = "", ""
		} else if err := s.resolveMember(ctx, uid, tx, *req.Member); err != nil {
			return nil, err
		}
	}
	tx.UpdatedAt = s.clockNow().UTC()

	if err := s.txs.Update(ctx, uid, tx); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("transaction updated", "transaction_id", id)
	return tx, nil
}

func (s *transactionService) Delete(ctx context.Context, uid, id string) error {
	if err := s.txs.Delete(ctx, uid, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("transaction deleted", "transaction_id", id)
	return nil
}

// Categorize fills in missing categories from the rule table and reports
// how many records it changed.
func (s *transactionService) Categorize(txs []models.Transaction) int {
	return applyRules(s.rules, txs)
}

func applyRules(rules categorizer, txs []models.Transaction) int {
	if rules == nil {
		return 0
	}
	n := 0
	for i := range txs {
		if txs[i].Category != "" {
			continue
		}
		if m, ok := rules.Match(txs[i].Description); ok {
			txs[i].Category = m.Category
			n++
		}
	}
	return n
}

// ImportOFX parses an OFX/QFX statement and upserts its transactions.
// Re-importing the same file overwrites the earlier records.
func (s *transactionService) ImportOFX(ctx context.Context, uid string, r io.Reader, member string) (dto.ImportResult, error) {
	log := logger.FromContext(ctx)
	var result dto.ImportResult

	txs, err := ofx.Parse(ctx, r)
	if err != nil {
		return result, err
	}
	result.Read = len(txs)
	if len(txs) == 0 {
		return result, nil
	}

	now := s.clockNow().UTC()
	var owner *models.FamilyMember
	if strings.TrimSpace(member) != "" {
		owner, err = s.members.GetOrCreate(ctx, uid, member)
		if err != nil {
			return result, err
		}
	}
	for i := range txs {
		txs[i].Currency = s.currency
		txs[i].CreatedAt = now
		txs[i].UpdatedAt = now
		if owner != nil {
			txs[i].Member = owner.Name
			txs[i].MemberID = owner.ID
		}
	}
	result.Categorized = s.Categorize(txs)

	if err := s.txs.UpsertBatch(ctx, uid, txs); err != nil {
		log.Error("failed to store imported transactions", "error", err)
		return result, err
	}
	result.Imported = len(txs)

	log.Info("OFX import completed", "read", result.Read, "imported", result.Imported, "categorized", result.Categorized)
	return result, nil
}
