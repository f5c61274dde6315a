package services

import (
	"context"
	"strings"

	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/pkg/logger"
)

type bankBSStore interface {
	List(ctx context.Context, uid string) ([]*models.Bank, error)
	SetMember(ctx context.Context, uid, bankID, memberID string) error
	Delete(ctx context.Context, uid, bankID string) error
}

type memberGetter interface {
	Get(ctx context.Context, uid, id string) (*models.FamilyMember, error)
}

type transactionBSStore interface {
	DeleteByBank(ctx context.Context, uid, bankID string) error
	DeleteCursor(ctx context.Context, uid, bankID string) error
}

type bankService struct {
	banks   bankBSStore
	txs     transactionBSStore
	members memberGetter
}

func NewBankService(banks bankBSStore, txs transactionBSStore, members memberGetter) *bankService {
	return &bankService{
		banks:   banks,
		txs:     txs,
		members: members,
	}
}

func (s *bankService) ListBanks(ctx context.Context, uid string) ([]*models.Bank, error) {
	return s.banks.List(ctx, uid)
}

// AssignMember makes memberID the owner of everything later synced from the
// bank. Records already imported keep their member.
func (s *bankService) AssignMember(ctx context.Context, uid, bankID, memberID string) error {
	memberID = strings.TrimSpace(memberID)
	if memberID != "" {
		if _, err := s.members.Get(ctx, uid, memberID); err != nil {
			return err
		}
	}
	if err := s.banks.SetMember(ctx, uid, bankID, memberID); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("bank member assigned", "bank_id", bankID, "member_id", memberID)
	return nil
}

// DeleteBank removes the bank's transactions and sync cursor before the bank
// itself, so a failed delete can be retried.
func (s *bankService) DeleteBank(ctx context.Context, uid, bankID string) error {
	if err := s.txs.DeleteByBank(ctx, uid, bankID); err != nil {
		return err
	}
	if err := s.txs.DeleteCursor(ctx, uid, bankID); err != nil {
		return err
	}
	if err := s.banks.Delete(ctx, uid, bankID); err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	log.Info("bank deleted", "bank_id", bankID)
	return nil
}
