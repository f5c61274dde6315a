package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/pkg/helpers"
)

type stubUserStore struct {
	user            *models.User
	createUserCalls int
	err             error
}

func (s *stubUserStore) CreateUser(_ context.Context, user *models.User) error {
	s.user = user
	s.createUserCalls++
	return s.err
}

func (s *stubUserStore) UpdateUser(_ context.Context, _ *models.User) error { return nil }
func (s *stubUserStore) GetUser(_ context.Context, _ string) (*models.User, error) {
	return s.user, nil
}

func TestUserServiceCreateUser(t *testing.T) {
	store := &stubUserStore{}
	svc := NewUserService(store, "USD")
	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	svc.clockNow = func() time.Time { return now }

	err := svc.CreateUser(helpers.TestCtx(), "uid-123", "user@example.com", "Jane", "Doe", "")
	require.NoError(t, err)

	assert.Equal(t, 1, store.createUserCalls)
	require.NotNil(t, store.user)
	assert.Equal(t, "uid-123", store.user.UID)
	assert.Equal(t, "user@example.com", store.user.Email)
	assert.Equal(t, "Doe household", store.user.HouseholdName)
	assert.Equal(t, "USD", store.user.Currency)
	assert.True(t, store.user.CreatedAt.Equal(now), "CreatedAt not taken from clock")
	assert.True(t, store.user.UpdatedAt.Equal(now), "UpdatedAt not taken from clock")
}

func TestUserServiceCreateUserStoreError(t *testing.T) {
	store := &stubUserStore{err: errors.New("store failure")}
	svc := NewUserService(store, "USD")

	err := svc.CreateUser(helpers.TestCtx(), "uid-456", "user2@example.com", "John", "Smith", "The Smiths")
	require.Error(t, err)

	assert.Equal(t, 1, store.createUserCalls)
	require.NotNil(t, store.user)
	assert.Equal(t, "The Smiths", store.user.HouseholdName)
}
