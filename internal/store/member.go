package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
)

type memberStore struct {
	client *firestore.Client
}

func NewMemberStore(client *firestore.Client) *memberStore {
	return &memberStore{client: client}
}

func (s *memberStore) collection(uid string) *firestore.CollectionRef {
	return userDoc(s.client, uid).Collection("members")
}

func (s *memberStore) Create(ctx context.Context, uid string, m *models.FamilyMember) error {
	_, err := s.collection(uid).Doc(m.ID).Create(ctx, m)
	if isAlreadyExists(err) {
		return errs.NewAlreadyExistsError("member already exists")
	}
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create member", err)
	}
	return nil
}

func (s *memberStore) List(ctx context.Context, uid string) ([]*models.FamilyMember, error) {
	iter := s.collection(uid).OrderBy("nameKey", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	members := []*models.FamilyMember{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list members", err)
		}
		var m models.FamilyMember
		if err := doc.DataTo(&m); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse member data", err)
		}
		members = append(members, &m)
	}
	return members, nil
}

func (s *memberStore) Get(ctx context.Context, uid, id string) (*models.FamilyMember, error) {
	doc, err := s.collection(uid).Doc(id).Get(ctx)
	if err != nil {
		return nil, readError(err, "member")
	}
	var m models.FamilyMember
	if err := doc.DataTo(&m); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse member data", err)
	}
	return &m, nil
}

// GetByNameKey looks a member up by case-folded name.
func (s *memberStore) GetByNameKey(ctx context.Context, uid, nameKey string) (*models.FamilyMember, error) {
	iter := s.collection(uid).Where("nameKey", "==", nameKey).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errs.NewNotFoundError("member not found")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to look up member", err)
	}
	var m models.FamilyMember
	if err := doc.DataTo(&m); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse member data", err)
	}
	return &m, nil
}

func (s *memberStore) Delete(ctx context.Context, uid, id string) error {
	_, err := s.collection(uid).Doc(id).Delete(ctx, firestore.Exists)
	if isNotFound(err) {
		return errs.NewNotFoundError("member not found")
	}
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete member", err)
	}
	return nil
}
