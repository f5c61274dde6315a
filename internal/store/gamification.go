package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
)

type gamificationStore struct {
	client *firestore.Client
}

func NewGamificationStore(client *firestore.Client) *gamificationStore {
	return &gamificationStore{client: client}
}

func (s *gamificationStore) stateDoc(uid string) *firestore.DocumentRef {
	return userDoc(s.client, uid).Collection("gamification").Doc("state")
}

func (s *gamificationStore) achievements(uid string) *firestore.CollectionRef {
	return userDoc(s.client, uid).Collection("achievements")
}

// GetState returns the zero state when nothing has been saved yet.
func (s *gamificationStore) GetState(ctx context.Context, uid string) (models.GamificationState, error) {
	var st models.GamificationState
	snap, err := s.stateDoc(uid).Get(ctx)
	if isNotFound(err) {
		return st, nil
	}
	if err != nil {
		return st, errs.NewDatabaseError("read", "failed to read gamification state", err)
	}
	if err := snap.DataTo(&st); err != nil {
		return st, errs.NewDatabaseError("read", "failed to parse gamification state", err)
	}
	return st, nil
}

func (s *gamificationStore) SaveState(ctx context.Context, uid string, st models.GamificationState) error {
	if _, err := s.stateDoc(uid).Set(ctx, st); err != nil {
		return errs.NewDatabaseError("update", "failed to save gamification state", err)
	}
	return nil
}

func (s *gamificationStore) ListAchievements(ctx context.Context, uid string) ([]models.Achievement, error) {
	iter := s.achievements(uid).OrderBy("awardedAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	out := []models.Achievement{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list achievements", err)
		}
		var a models.Achievement
		if err := snap.DataTo(&a); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse achievement", err)
		}
		out = append(out, a)
	}
	return out, nil
}

// Award stores a by its code. It reports false when the code was already
// awarded.
func (s *gamificationStore) Award(ctx context.Context, uid string, a models.Achievement) (bool, error) {
	_, err := s.achievements(uid).Doc(a.Code).Create(ctx, a)
	if isAlreadyExists(err) {
		return false, nil
	}
	if err != nil {
		return false, errs.NewDatabaseError("create", "failed to award achievement", err)
	}
	return true, nil
}
