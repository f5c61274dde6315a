package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/household-finance/internal/models"
)

type GamificationSummary struct {
	Points         int                  `json:"points"`
	Streak         int                  `json:"streak"`
	BudgetLimit    *decimal.Decimal     `json:"budgetLimit,omitempty"`
	SpentThisMonth decimal.Decimal      `json:"spentThisMonth"`
	UsagePercent   int                  `json:"usagePercent"`
	Achievements   []models.Achievement `json:"achievements"`
}

type EvaluateResult struct {
	State   models.GamificationState `json:"state"`
	Awarded []models.Achievement     `json:"awarded"`
}
