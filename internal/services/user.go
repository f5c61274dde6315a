package services

import (
	"context"
	"strings"
	"time"

	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/pkg/logger"
)

type userUSStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

type userService struct {
	Store    userUSStore
	currency string
	clockNow func() time.Time
}

func NewUserService(store userUSStore, currency string) *userService {
	return &userService{
		Store:    store,
		currency: currency,
		clockNow: time.Now,
	}
}

// CreateUser registers the household owned by the authenticated user.
func (s *userService) CreateUser(ctx context.Context, uid, email, first, last, household string) error {
	// Get logger from context - already has uid, email, request_id, method, path
	log := logger.FromContext(ctx)

	now := s.clockNow().UTC()
	household = strings.TrimSpace(household)
	if household == "" {
		household = strings.TrimSpace(last + " household")
	}
	user := &models.User{
		UID:           uid,
		Email:         email,
		FirstName:     first,
		LastName:      last,
		HouseholdName: household,
		Currency:      s.currency,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.Store.CreateUser(ctx, user)
	if err != nil {
		log.Error("failed to create user in store", "error", err)
		return err
	}

	// uid and email are automatically included from context
	log.Info("user created successfully", "first_name", first, "last_name", last)
	log.Debug("user created with full details", "user", user)

	return nil
}

func (s *userService) GetUser(ctx context.Context, uid string) (*models.User, error) {
	return s.Store.GetUser(ctx, uid)
}
