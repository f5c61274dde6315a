package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
)

type wellbeingStore struct {
	client *firestore.Client
}

func NewWellbeingStore(client *firestore.Client) *wellbeingStore {
	return &wellbeingStore{client: client}
}

func (s *wellbeingStore) collection(uid string) *firestore.CollectionRef {
	return userDoc(s.client, uid).Collection("wellbeing")
}

func (s *wellbeingStore) Create(ctx context.Context, uid string, item *models.WellbeingItem) error {
	if _, err := s.collection(uid).Doc(item.ID).Create(ctx, item); err != nil {
		return errs.NewDatabaseError("create", "failed to create wellbeing item", err)
	}
	return nil
}

func (s *wellbeingStore) Get(ctx context.Context, uid, id string) (*models.WellbeingItem, error) {
	snap, err := s.collection(uid).Doc(id).Get(ctx)
	if err != nil {
		return nil, readError(err, "wellbeing item")
	}
	var item models.WellbeingItem
	if err := snap.DataTo(&item); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse wellbeing item", err)
	}
	return &item, nil
}

// List returns items newest first, optionally narrowed to one kind or assignee.
func (s *wellbeingStore) List(ctx context.Context, uid string, kind *models.WellbeingKind, assignedTo *string) ([]*models.WellbeingItem, error) {
	query := s.collection(uid).Query
	if kind != nil {
		query = query.Where("kind", "==", string(*kind))
	}
	if assignedTo != nil {
		query = query.Where("assignedTo", "==", *assignedTo)
	}
	iter := query.OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	items := []*models.WellbeingItem{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list wellbeing items", err)
		}
		var item models.WellbeingItem
		if err := snap.DataTo(&item); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse wellbeing item", err)
		}
		items = append(items, &item)
	}
	return items, nil
}

func (s *wellbeingStore) Update(ctx context.Context, uid string, item *models.WellbeingItem) error {
	if _, err := s.collection(uid).Doc(item.ID).Set(ctx, item); err != nil {
		return errs.NewDatabaseError("update", "failed to update wellbeing item", err)
	}
	return nil
}

func (s *wellbeingStore) Delete(ctx context.Context, uid, id string) error {
	_, err := s.collection(uid).Doc(id).Delete(ctx, firestore.Exists)
	if isNotFound(err) {
		return errs.NewNotFoundError("wellbeing item not found")
	}
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete wellbeing item", err)
	}
	return nil
}
