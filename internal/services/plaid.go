package services

import (
	"context"
	"fmt"
	"time"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/pkg/helpers"
	"github.com/GregMSThompson/household-finance/pkg/logger"
)

// bankPSStore keeps the service decoupled from the concrete storage implementation.
type bankPSStore interface {
	Create(ctx context.Context, uid string, bank *models.Bank) error
	List(ctx context.Context, uid string) ([]*models.Bank, error)
}

// transactionPSStore is the minimal surface required for sync operations.
type transactionPSStore interface {
	UpsertBatch(ctx context.Context, uid string, txs []models.Transaction) error
	DeleteBatch(ctx context.Context, uid string, ids []string) error
	GetCursor(ctx context.Context, uid, bankID string) (string, error)
	SetCursor(ctx context.Context, uid, bankID, cursor string) error
}

// plaidClient is the Plaid SDK adapter surface used by this service.
type plaidClient interface {
	CreateLinkToken(ctx context.Context, uid string) (linkToken string, err error)
	ExchangePublicToken(ctx context.Context, publicToken string) (itemID string, accessToken string, err error)
	SyncTransactions(ctx context.Context, bankID string, accessToken string, cursor *string) (dto.PlaidSyncPage, error)
}

type plaidService struct {
	plaid    plaidClient
	banks    bankPSStore
	txs      transactionPSStore
	rules    categorizer
	clockNow func() time.Time
}

func NewPlaidService(plaid plaidClient, banks bankPSStore, txs transactionPSStore, rules categorizer) *plaidService {
	return &plaidService{
		plaid:    plaid,
		banks:    banks,
		txs:      txs,
		rules:    rules,
		clockNow: time.Now,
	}
}

func (s *plaidService) CreateLinkToken(ctx context.Context, uid string) (string, error) {
	linkToken, err := s.plaid.CreateLinkToken(ctx, uid)
	if err != nil {
		return "", errs.NewExternalServiceError("plaid", "failed to create link token", true, err)
	}
	return linkToken, nil
}

// ExchangePublicToken links a bank. The access token is encrypted by the
// bank store before it is written.
func (s *plaidService) ExchangePublicToken(ctx context.Context, uid, publicToken, institutionName, memberID string) (string, error) {
	itemID, accessToken, err := s.plaid.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return "", errs.NewExternalServiceError("plaid", "failed to exchange public token", false, err)
	}

	now := s.clockNow().UTC()
	bank := &models.Bank{
		BankID:      itemID,
		Institution: institutionName,
		Status:      models.BankStatusActive,
		AccessToken: accessToken,
		MemberID:    memberID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.banks.Create(ctx, uid, bank); err != nil {
		return "", err
	}

	log := logger.FromContext(ctx)
	log.Info("bank linked", "bank_id", itemID, "institution", institutionName)
	return itemID, nil
}

func (s *plaidService) SyncTransactions(ctx context.Context, uid string, bankID *string) (dto.PlaidServiceSyncResult, error) {
	result := dto.PlaidServiceSyncResult{}
	log := logger.FromContext(ctx)

	banks, err := s.banks.List(ctx, uid)
	if err != nil {
		return result, err
	}

	banksToSync := len(banks)
	if bankID != nil {
		banksToSync = 1
	}
	log.Info("transaction sync started", "bank_count", banksToSync)

	for _, b := range banks {
		if bankID != nil && *bankID != b.BankID {
			continue
		}

		token := b.AccessToken
		if token == "" {
			return result, fmt.Errorf("plaid access token missing for bank %s", b.BankID)
		}

		storedCursor, err := s.txs.GetCursor(ctx, uid, b.BankID)
		if err != nil {
			return result, err
		}
		var cursor *string
		if storedCursor != "" {
			cursor = &storedCursor
		}

		latestCursor := storedCursor
		hasMore := true
		for hasMore {
			page, err := s.plaid.SyncTransactions(ctx, b.BankID, token, cursor)
			if err != nil {
				log.Warn("bank sync failed", "bank_id", b.BankID, "error", err)
				return result, errs.NewExternalServiceError("plaid", "transaction sync failed", true, err)
			}

			if len(page.Transactions) > 0 {
				for i := range page.Transactions {
					page.Transactions[i].MemberID = b.MemberID
				}
				result.Categorized += applyRules(s.rules, page.Transactions)
				if err := s.txs.UpsertBatch(ctx, uid, page.Transactions); err != nil {
					return result, err
				}
				result.TransactionsUpserted += len(page.Transactions)
			}
			if len(page.Removed) > 0 {
				if err := s.txs.DeleteBatch(ctx, uid, page.Removed); err != nil {
					return result, err
				}
				result.TransactionsRemoved += len(page.Removed)
			}

			latestCursor = page.Cursor
			cursor = &latestCursor
			hasMore = page.HasMore
		}

		if latestCursor != "" {
			if err := s.txs.SetCursor(ctx, uid, b.BankID, latestCursor); err != nil {
				return result, err
			}
		}

		result.BanksSynced++
		if bankID != nil {
			result.Cursor = helpers.Value(cursor)
			break
		}
	}

	log.Info("transaction sync completed",
		"banks_synced", result.BanksSynced,
		"transactions_upserted", result.TransactionsUpserted,
		"transactions_removed", result.TransactionsRemoved)
	return result, nil
}
