package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/household-finance/internal/models"
)

// TransactionQuery filters a transaction listing. Dates are YYYY-MM-DD and
// DateTo is inclusive.
type TransactionQuery struct {
	MemberID  *string
	Direction *models.Direction
	Category  *string
	BankID    *string
	Source    *string
	DateFrom  *string
	DateTo    *string
	OrderBy   string
	Desc      bool
	Limit     int
}

type CreateTransactionRequest struct {
	Member      string           `json:"member,omitempty"` // member name, created on first use
	MemberID    string           `json:"memberId,omitempty"`
	Category    string           `json:"category,omitempty"`
	Description string           `json:"description"`
	Notes       string           `json:"notes,omitempty"`
	Amount      decimal.Decimal  `json:"amount"`
	Direction   models.Direction `json:"direction"`
	Date        string           `json:"date"` // YYYY-MM-DD
	GoalID      string           `json:"goalId,omitempty"`
}

type UpdateTransactionRequest struct {
	Member      *string           `json:"member,omitempty"`
	Category    *string           `json:"category,omitempty"`
	Description *string           `json:"description,omitempty"`
	Notes       *string           `json:"notes,omitempty"`
	Amount      *decimal.Decimal  `json:"amount,omitempty"`
	Direction   *models.Direction `json:"direction,omitempty"`
	Date        *string           `json:"date,omitempty"`
}

// ImportResult summarises a statement file import.
type ImportResult struct {
	Read        int `json:"read"`
	Imported    int `json:"imported"`
	Categorized int `json:"categorized"`
}
