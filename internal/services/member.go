package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/pkg/logger"
)

type memberMSStore interface {
	Create(ctx context.Context, uid string, m *models.FamilyMember) error
	List(ctx context.Context, uid string) ([]*models.FamilyMember, error)
	Get(ctx context.Context, uid, id string) (*models.FamilyMember, error)
	GetByNameKey(ctx context.Context, uid, nameKey string) (*models.FamilyMember, error)
	Delete(ctx context.Context, uid, id string) error
}

type memberService struct {
	members  memberMSStore
	clockNow func() time.Time
}

func NewMemberService(members memberMSStore) *memberService {
	return &memberService{
		members:  members,
		clockNow: time.Now,
	}
}

// NameKey is the case-folded form member names are compared by.
func NameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

func (s *memberService) Create(ctx context.Context, uid, name string) (*models.FamilyMember, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewValidationError("member name is required")
	}

	key := NameKey(name)
	existing, err := s.members.GetByNameKey(ctx, uid, key)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, errs.NewAlreadyExistsError("a member named " + name + " already exists")
	}

	m := &models.FamilyMember{
		ID:        uuid.NewString(),
		Name:      name,
		NameKey:   key,
		CreatedAt: s.clockNow().UTC(),
	}
	if err := s.members.Create(ctx, uid, m); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("member created", "member_id", m.ID)
	return m, nil
}

func (s *memberService) List(ctx context.Context, uid string) ([]*models.FamilyMember, error) {
	return s.members.List(ctx, uid)
}

func (s *memberService) Get(ctx context.Context, uid, id string) (*models.FamilyMember, error) {
	return s.members.Get(ctx, uid, id)
}

// GetByName looks a member up case-insensitively.
func (s *memberService) GetByName(ctx context.Context, uid, name string) (*models.FamilyMember, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errs.NewValidationError("member name is required")
	}
	return s.members.GetByNameKey(ctx, uid, NameKey(name))
}

// GetOrCreate returns the member with this name, creating it on first use.
func (s *memberService) GetOrCreate(ctx context.Context, uid, name string) (*models.FamilyMember, error) {
	m, err := s.GetByName(ctx, uid, name)
	if err == nil {
		return m, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	m, err = s.Create(ctx, uid, name)
	var exists *errs.AlreadyExistsError
	if errors.As(err, &exists) {
		// Lost a race with a concurrent create.
		return s.GetByName(ctx, uid, name)
	}
	return m, err
}

func (s *memberService) Delete(ctx context.Context, uid, id string) error {
	if err := s.members.Delete(ctx, uid, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("member deleted", "member_id", id)
	return nil
}

func isNotFound(err error) bool {
	var nf *errs.NotFoundError
	return errors.As(err, &nf)
}
