package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/pkg/helpers"
	"github.com/GregMSThompson/household-finance/pkg/logger"
)

const (
	maxStreakDays   = 31 // today and the 30 days before it
	onTrackFromDay  = 15
	onTrackToDay    = 25
	onTrackMaxUsage = 0.8
	maxUsagePercent = 999
)

type gamificationGSStore interface {
	GetState(ctx context.Context, uid string) (models.GamificationState, error)
	SaveState(ctx context.Context, uid string, st models.GamificationState) error
	ListAchievements(ctx context.Context, uid string) ([]models.Achievement, error)
	Award(ctx context.Context, uid string, a models.Achievement) (bool, error)
}

type budgetLister interface {
	List(ctx context.Context, uid string, month *string) ([]*models.Budget, error)
}

type gamificationService struct {
	store    gamificationGSStore
	txs      transactionQuerier
	budgets  budgetLister
	clockNow func() time.Time
}

func NewGamificationService(store gamificationGSStore, txs transactionQuerier, budgets budgetLister) *gamificationService {
	return &gamificationService{
		store:    store,
		txs:      txs,
		budgets:  budgets,
		clockNow: time.Now,
	}
}

// activity is what evaluation needs to know about the transaction history.
type activity struct {
	count      int
	days       map[time.Time]bool
	latest     time.Time
	monthSpent decimal.Decimal
}

func (s *gamificationService) activity(ctx context.Context, uid string, monthStart time.Time) (activity, error) {
	a := activity{days: map[time.Time]bool{}, monthSpent: decimal.Zero}
	monthEnd := monthStart.AddDate(0, 1, 0)
	err := s.txs.Query(ctx, uid, dto.TransactionQuery{}, func(tx *models.Transaction) error {
		day := helpers.DateOnly(tx.Date)
		a.count++
		a.days[day] = true
		if day.After(a.latest) {
			a.latest = day
		}
		if tx.Direction == models.DirectionOutflow && !day.Before(monthStart) && day.Before(monthEnd) {
			a.monthSpent = a.monthSpent.Add(tx.Amount)
		}
		return nil
	})
	return a, err
}

func (s *gamificationService) monthLimit(ctx context.Context, uid string, monthStart time.Time) (decimal.Decimal, error) {
	month := monthStart.Format(helpers.MonthLayout)
	budgets, err := s.budgets.List(ctx, uid, &month)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, b := range budgets {
		total = total.Add(b.Limit)
	}
	return total, nil
}

// streak counts consecutive days with activity, ending today.
func streak(days map[time.Time]bool, today time.Time) int {
	n := 0
	for n < maxStreakDays && days[today.AddDate(0, 0, -n)] {
		n++
	}
	return n
}

// Evaluate recomputes the streak, awards any newly earned achievements and
// stores the resulting state. Awarding is idempotent.
func (s *gamificationService) Evaluate(ctx context.Context, uid string) (dto.EvaluateResult, error) {
	log := logger.FromContext(ctx)
	now := s.clockNow().UTC()
	today := helpers.DateOnly(now)
	monthStart := helpers.MonthStart(today)

	act, err := s.activity(ctx, uid, monthStart)
	if err != nil {
		return dto.EvaluateResult{}, err
	}
	limit, err := s.monthLimit(ctx, uid, monthStart)
	if err != nil {
		return dto.EvaluateResult{}, err
	}

	var candidates []models.Achievement
	if act.count >= 1 {
		candidates = append(candidates, models.Achievement{Code: "first_tx", Title: "First Step", Points: 5})
	}
	if act.count >= 10 {
		candidates = append(candidates, models.Achievement{Code: "ten_tx", Title: "In the Groove", Points: 10})
	}
	if d := today.Day(); d >= onTrackFromDay && d <= onTrackToDay && limit.IsPositive() {
		if act.monthSpent.Div(limit).InexactFloat64() <= onTrackMaxUsage {
			candidates = append(candidates, models.Achievement{
				Code:   fmt.Sprintf("on_track_80_%s", today.Format("200601")),
				Title:  "On Track",
				Points: 20,
			})
		}
	}

	result := dto.EvaluateResult{Awarded: []models.Achievement{}}
	for _, a := range candidates {
		a.AwardedAt = now
		awarded, err := s.store.Award(ctx, uid, a)
		if err != nil {
			return dto.EvaluateResult{}, err
		}
		if awarded {
			result.Awarded = append(result.Awarded, a)
			log.Info("achievement awarded", "code", a.Code, "points", a.Points)
		}
	}

	all, err := s.store.ListAchievements(ctx, uid)
	if err != nil {
		return dto.EvaluateResult{}, err
	}
	points := 0
	for _, a := range all {
		points += a.Points
	}

	state := models.GamificationState{
		Points:    points,
		Streak:    streak(act.days, today),
		UpdatedAt: now,
	}
	if !act.latest.IsZero() {
		latest := act.latest
		state.LastActivityDate = &latest
	}
	if err := s.store.SaveState(ctx, uid, state); err != nil {
		return dto.EvaluateResult{}, err
	}

	result.State = state
	return result, nil
}

func (s *gamificationService) Summary(ctx context.Context, uid string) (dto.GamificationSummary, error) {
	today := helpers.DateOnly(s.clockNow().UTC())
	monthStart := helpers.MonthStart(today)

	state, err := s.store.GetState(ctx, uid)
	if err != nil {
		return dto.GamificationSummary{}, err
	}
	achievements, err := s.store.ListAchievements(ctx, uid)
	if err != nil {
		return dto.GamificationSummary{}, err
	}
	limit, err := s.monthLimit(ctx, uid, monthStart)
	if err != nil {
		return dto.GamificationSummary{}, err
	}
	act, err := s.activity(ctx, uid, monthStart)
	if err != nil {
		return dto.GamificationSummary{}, err
	}

	summary := dto.GamificationSummary{
		Points:         state.Points,
		Streak:         state.Streak,
		SpentThisMonth: act.monthSpent,
		Achievements:   achievements,
	}
	if limit.IsPositive() {
		summary.BudgetLimit = &limit
		pct := act.monthSpent.Div(limit).InexactFloat64() * 100
		summary.UsagePercent = int(math.Max(0, math.Min(maxUsagePercent, math.Round(pct))))
	}
	return summary, nil
}
