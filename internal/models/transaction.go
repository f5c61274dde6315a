package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction says whether money left the household (outflow) or arrived (inflow).
type Direction string

const (
	DirectionOutflow Direction = "outflow"
	DirectionInflow  Direction = "inflow"
)

func (d Direction) Valid() bool {
	return d == DirectionOutflow || d == DirectionInflow
}

// Transaction sources
const (
	SourceManual = "manual"
	SourcePlaid  = "plaid"
	SourceOFX    = "ofx"
)

// Transaction is a single household money movement. Amount is never
// negative; Direction carries the sign.
type Transaction struct {
	ID          string          `json:"id"`
	MemberID    string          `json:"memberId,omitempty"`
	Member      string          `json:"member,omitempty"` // member display name
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description"`
	Notes       string          `json:"notes,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
	Direction   Direction       `json:"direction"`
	Date        time.Time       `json:"date"` // calendar date, UTC midnight
	GoalID      string          `json:"goalId,omitempty"`
	Source      string          `json:"source"`
	ExternalID  string          `json:"externalId,omitempty"` // Plaid transaction_id or OFX FITID
	BankID      string          `json:"bankId,omitempty"`
	Pending     bool            `json:"pending,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (t Transaction) IsIncome() bool {
	return t.Direction == DirectionInflow
}
