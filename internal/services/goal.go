package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/pkg/helpers"
	"github.com/GregMSThompson/household-finance/pkg/logger"
)

type goalGSStore interface {
	Create(ctx context.Context, uid string, g *models.SavingsGoal) error
	Get(ctx context.Context, uid, id string) (*models.SavingsGoal, error)
	List(ctx context.Context, uid string) ([]*models.SavingsGoal, error)
	Update(ctx context.Context, uid string, g *models.SavingsGoal) error
	Delete(ctx context.Context, uid, id string) error
	Contribute(ctx context.Context, uid, goalID string, apply func(*models.SavingsGoal) (*models.Contribution, error)) (*models.SavingsGoal, error)
	ListContributions(ctx context.Context, uid, goalID string) ([]models.Contribution, error)
}

type goalService struct {
	goals    goalGSStore
	clockNow func() time.Time
}

func NewGoalService(goals goalGSStore) *goalService {
	return &goalService{
		goals:    goals,
		clockNow: time.Now,
	}
}

func (s *goalService) Create(ctx context.Context, uid string, req dto.CreateGoalRequest) (*models.SavingsGoal, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errs.NewValidationError("title is required")
	}
	if !req.Target.IsPositive() {
		return nil, errs.NewValidationError("target must be greater than zero")
	}
	targetDate, err := optionalDate(req.TargetDate)
	if err != nil {
		return nil, err
	}

	now := s.clockNow().UTC()
	g := &models.SavingsGoal{
		ID:         uuid.NewString(),
		Title:      title,
		Target:     req.Target,
		Current:    decimal.Zero,
		Category:   strings.TrimSpace(req.Category),
		TargetDate: targetDate,
		IsActive:   true,
		Priority:   req.Priority,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.goals.Create(ctx, uid, g); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("goal created", "goal_id", g.ID)
	return g, nil
}

func (s *goalService) Get(ctx context.Context, uid, id string) (*models.SavingsGoal, error) {
	return s.goals.Get(ctx, uid, id)
}

// List returns active goals first, then by priority (highest first).
func (s *goalService) List(ctx context.Context, uid string) ([]*models.SavingsGoal, error) {
	goals, err := s.goals.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(goals, func(i, j int) bool {
		if goals[i].IsActive != goals[j].IsActive {
			return goals[i].IsActive
		}
		if goals[i].Priority != goals[j].Priority {
			return goals[i].Priority > goals[j].Priority
		}
		return goals[i].CreatedAt.Before(goals[j].CreatedAt)
	})
	return goals, nil
}

func (s *goalService) Update(ctx context.Context, uid, id string, req dto.UpdateGoalRequest) (*models.SavingsGoal, error) {
	g, err := s.goals.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, errs.NewValidationError("title is required")
		}
		g.Title = title
	}
	if req.Target != nil {
		if !req.Target.IsPositive() {
			return nil, errs.NewValidationError("target must be greater than zero")
		}
		g.Target = *req.Target
	}
	if req.Category != nil {
		g.Category = strings.TrimSpace(*req.Category)
	}
	if req.TargetDate != nil {
		if g.TargetDate, err = optionalDate(*req.TargetDate); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		g.IsActive = *req.IsActive
	}
	if req.Priority != nil {
		g.Priority = *req.Priority
	}
	g.UpdatedAt = s.clockNow().UTC()

	if err := s.goals.Update(ctx, uid, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *goalService) Delete(ctx context.Context, uid, id string) error {
	if err := s.goals.Delete(ctx, uid, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("goal deleted", "goal_id", id)
	return nil
}

// Contribute adds money to an active goal.
func (s *goalService) Contribute(ctx context.Context, uid, goalID string, req dto.ContributionRequest) (*models.SavingsGoal, error) {
	if !req.Amount.IsPositive() {
		return nil, errs.NewValidationError("contribution amount must be greater than zero")
	}

	now := s.clockNow().UTC()
	g, err := s.goals.Contribute(ctx, uid, goalID, func(g *models.SavingsGoal) (*models.Contribution, error) {
		if !g.CanContribute(req.Amount) {
			return nil, errs.NewValidationError("goal is not active")
		}
		g.Current = g.Current.Add(req.Amount)
		g.UpdatedAt = now
		return &models.Contribution{
			ID:        uuid.NewString(),
			GoalID:    goalID,
			Amount:    req.Amount,
			Note:      strings.TrimSpace(req.Note),
			MemberID:  req.MemberID,
			CreatedAt: now,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("goal contribution recorded", "goal_id", goalID, "amount", req.Amount.String())
	return g, nil
}

// Reverse takes money back out of a goal as a negative contribution. The
// goal's current amount never drops below zero.
func (s *goalService) Reverse(ctx context.Context, uid, goalID string, req dto.ContributionRequest) (*models.SavingsGoal, error) {
	if !req.Amount.IsPositive() {
		return nil, errs.NewValidationError("reversal amount must be greater than zero")
	}

	now := s.clockNow().UTC()
	g, err := s.goals.Contribute(ctx, uid, goalID, func(g *models.SavingsGoal) (*models.Contribution, error) {
		amount := decimal.Min(req.Amount, g.Current)
		g.Current = g.Current.Sub(amount)
		g.UpdatedAt = now
		return &models.Contribution{
			ID:        uuid.NewString(),
			GoalID:    goalID,
			Amount:    amount.Neg(),
			Note:      strings.TrimSpace(req.Note),
			MemberID:  req.MemberID,
			Reversal:  true,
			CreatedAt: now,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("goal contribution reversed", "goal_id", goalID, "amount", req.Amount.String())
	return g, nil
}

func (s *goalService) Contributions(ctx context.Context, uid, goalID string) ([]models.Contribution, error) {
	return s.goals.ListContributions(ctx, uid, goalID)
}

func optionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := helpers.ParseDate(s)
	if err != nil {
		return nil, errs.NewValidationError("date must be YYYY-MM-DD")
	}
	return &d, nil
}
