package dto

import (
	"github.com/GregMSThompson/household-finance/internal/models"
)

// Metadata from the transaction sync process
type PlaidServiceSyncResult struct {
	BanksSynced          int    `json:"banksSynced"`
	TransactionsUpserted int    `json:"transactionsUpserted"`
	TransactionsRemoved  int    `json:"transactionsRemoved"`
	Categorized          int    `json:"categorized"`
	Cursor               string `json:"cursor,omitempty"` // latest cursor if syncing one bank; empty when multiple
}

// Plaid adapter result - represents one page from /transactions/sync
type PlaidSyncPage struct {
	Transactions []models.Transaction
	Removed      []string // Plaid transaction ids
	Cursor       string
	HasMore      bool
}

type PlaidEnvironment string

const (
	PlaidSandbox     PlaidEnvironment = "sandbox"
	PlaidDevelopment PlaidEnvironment = "development"
	PlaidProduction  PlaidEnvironment = "production"
)
