package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/household-finance/internal/models"
)

type UpsertBudgetRequest struct {
	Category string          `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
	Month    string          `json:"month"` // YYYY-MM
}

// BudgetStatus is a budget measured against the month's spending.
type BudgetStatus struct {
	Budget    models.Budget   `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Usage     float64         `json:"usage"` // fraction of the limit, may exceed 1
	OverLimit bool            `json:"overLimit"`
}

type BudgetStatusReport struct {
	Month      string          `json:"month"`
	TotalLimit decimal.Decimal `json:"totalLimit"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
	Items      []BudgetStatus  `json:"items"`
}
