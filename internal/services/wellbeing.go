package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/pkg/logger"
)

type wellbeingWSStore interface {
	Create(ctx context.Context, uid string, item *models.WellbeingItem) error
	Get(ctx context.Context, uid, id string) (*models.WellbeingItem, error)
	List(ctx context.Context, uid string, kind *models.WellbeingKind, assignedTo *string) ([]*models.WellbeingItem, error)
	Update(ctx context.Context, uid string, item *models.WellbeingItem) error
	Delete(ctx context.Context, uid, id string) error
}

type wellbeingService struct {
	items    wellbeingWSStore
	clockNow func() time.Time
}

func NewWellbeingService(items wellbeingWSStore) *wellbeingService {
	return &wellbeingService{
		items:    items,
		clockNow: time.Now,
	}
}

func (s *wellbeingService) Create(ctx context.Context, uid string, req dto.CreateWellbeingRequest) (*models.WellbeingItem, error) {
	item := &models.WellbeingItem{
		ID:          uuid.NewString(),
		Kind:        req.Kind,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		AssignedTo:  strings.TrimSpace(req.AssignedTo),
		CreatedAt:   s.clockNow().UTC(),
	}
	switch req.Kind {
	case models.WellbeingTask:
		item.Task = req.Task
	case models.WellbeingHydration:
		item.Hydration = req.Hydration
	case models.WellbeingMedication:
		item.Medication = req.Medication
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if item.Kind == models.WellbeingHydration && item.Hydration.GlassesConsumed >= item.Hydration.GlassesTarget {
		item.MarkCompleted(item.CreatedAt)
	}

	if err := s.items.Create(ctx, uid, item); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("wellbeing item created", "item_id", item.ID, "kind", item.Kind)
	return item, nil
}

// List filters by kind and assignee in the store; OverdueNow keeps only the
// items overdue at the current time.
func (s *wellbeingService) List(ctx context.Context, uid string, q dto.WellbeingQuery) ([]*models.WellbeingItem, error) {
	items, err := s.items.List(ctx, uid, q.Kind, q.AssignedTo)
	if err != nil {
		return nil, err
	}
	if !q.OverdueNow {
		return items, nil
	}
	now := s.clockNow()
	overdue := []*models.WellbeingItem{}
	for _, it := range items {
		if it.IsOverdue(now) {
			overdue = append(overdue, it)
		}
	}
	return overdue, nil
}

func (s *wellbeingService) Complete(ctx context.Context, uid, id string) (*models.WellbeingItem, error) {
	item, err := s.items.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if !item.MarkCompleted(s.clockNow()) {
		return nil, errs.NewValidationError("hydration target not reached yet")
	}
	if err := s.items.Update(ctx, uid, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *wellbeingService) Uncomplete(ctx context.Context, uid, id string) (*models.WellbeingItem, error) {
	item, err := s.items.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	item.MarkIncomplete()
	if err := s.items.Update(ctx, uid, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *wellbeingService) AddGlass(ctx context.Context, uid, id string) (*models.WellbeingItem, error) {
	item, err := s.items.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if err := item.AddGlass(s.clockNow()); err != nil {
		return nil, err
	}
	if err := s.items.Update(ctx, uid, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *wellbeingService) Delete(ctx context.Context, uid, id string) error {
	return s.items.Delete(ctx, uid, id)
}
