package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/household-finance/internal/models"
)

type CreateGoalRequest struct {
	Title      string          `json:"title"`
	Target     decimal.Decimal `json:"target"`
	Category   string          `json:"category,omitempty"`
	TargetDate string          `json:"targetDate,omitempty"` // YYYY-MM-DD
	Priority   int             `json:"priority"`
}

type UpdateGoalRequest struct {
	Title      *string          `json:"title,omitempty"`
	Target     *decimal.Decimal `json:"target,omitempty"`
	Category   *string          `json:"category,omitempty"`
	TargetDate *string          `json:"targetDate,omitempty"`
	IsActive   *bool            `json:"isActive,omitempty"`
	Priority   *int             `json:"priority,omitempty"`
}

type ContributionRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note,omitempty"`
	MemberID string          `json:"memberId,omitempty"`
}

// GoalView is a goal with its derived progress figures.
type GoalView struct {
	models.SavingsGoal
	Progress  float64         `json:"progress"`
	Remaining decimal.Decimal `json:"remaining"`
	Complete  bool            `json:"complete"`
}

func NewGoalView(g models.SavingsGoal) GoalView {
	return GoalView{
		SavingsGoal: g,
		Progress:    g.ProgressPercent(),
		Remaining:   g.Remaining(),
		Complete:    g.IsComplete(),
	}
}
