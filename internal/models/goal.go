package models

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type SavingsGoal struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Target     decimal.Decimal `json:"target"`
	Current    decimal.Decimal `json:"current"`
	Category   string          `json:"category,omitempty"`
	TargetDate *time.Time      `json:"targetDate,omitempty"`
	IsActive   bool            `json:"isActive"`
	Priority   int             `json:"priority"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// CanContribute reports whether a positive amount may be added to the goal.
func (g SavingsGoal) CanContribute(amount decimal.Decimal) bool {
	return g.IsActive && amount.IsPositive()
}

// ProgressPercent is current/target as a percentage, capped at 100.
func (g SavingsGoal) ProgressPercent() float64 {
	if !g.Target.IsPositive() {
		return 0
	}
	pct := g.Current.Div(g.Target).Mul(hundred)
	if pct.GreaterThan(hundred) {
		return 100
	}
	return pct.InexactFloat64()
}

func (g SavingsGoal) Remaining() decimal.Decimal {
	rem := g.Target.Sub(g.Current)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

func (g SavingsGoal) IsComplete() bool {
	return g.Target.IsPositive() && g.Current.GreaterThanOrEqual(g.Target)
}

// Contribution is one movement of money into (or, when reversed, out of) a goal.
type Contribution struct {
	ID        string          `json:"id"`
	GoalID    string          `json:"goalId"`
	Amount    decimal.Decimal `json:"amount"` // negative for reversals
	Note      string          `json:"note,omitempty"`
	MemberID  string          `json:"memberId,omitempty"`
	Reversal  bool            `json:"reversal,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}
