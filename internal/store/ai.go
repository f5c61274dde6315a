package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
)

// deleteBatchSize stays under the Firestore limit of 500 writes per batch.
const deleteBatchSize = 400

type aiStore struct {
	client *firestore.Client
	now    func() time.Time
}

func NewAIStore(client *firestore.Client) *aiStore {
	return &aiStore{client: client, now: time.Now}
}

// sessions live under users/{uid}/assistant_sessions/{sessionId}/messages
func (s *aiStore) session(uid, sessionID string) *firestore.DocumentRef {
	return userDoc(s.client, uid).Collection("assistant_sessions").Doc(sessionID)
}

func (s *aiStore) SaveMessage(ctx context.Context, uid, sessionID string, msg models.AIMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now()
	}

	if _, _, err := s.session(uid, sessionID).Collection("messages").Add(ctx, msg); err != nil {
		return errs.NewDatabaseError("create", "failed to save assistant message", err)
	}
	return nil
}

// ListMessages returns the newest limit live messages of a session, oldest first.
func (s *aiStore) ListMessages(ctx context.Context, uid, sessionID string, limit int) ([]models.AIMessage, error) {
	query := s.session(uid, sessionID).Collection("messages").OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	now := s.now()
	var newestFirst []models.AIMessage
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list assistant messages", err)
		}
		var msg models.AIMessage
		if err := doc.DataTo(&msg); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse assistant message", err)
		}
		// the TTL policy deletes lazily
		if expired(msg, now) {
			continue
		}
		newestFirst = append(newestFirst, msg)
	}

	out := make([]models.AIMessage, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		out = append(out, newestFirst[i])
	}
	return out, nil
}

// DeleteSession removes every message of a session. Deleting an unknown
// session is not an error.
func (s *aiStore) DeleteSession(ctx context.Context, uid, sessionID string) error {
	messages := s.session(uid, sessionID).Collection("messages")
	for {
		refs, err := messages.Limit(deleteBatchSize).Documents(ctx).GetAll()
		if err != nil {
			return errs.NewDatabaseError("read", "failed to list assistant messages", err)
		}
		if len(refs) == 0 {
			return nil
		}

		bw := s.client.BulkWriter(ctx)
		for _, doc := range refs {
			if _, err := bw.Delete(doc.Ref); err != nil {
				bw.End()
				return errs.NewDatabaseError("delete", "failed to delete assistant message", err)
			}
		}
		bw.End()

		if len(refs) < deleteBatchSize {
			return nil
		}
	}
}

func expired(msg models.AIMessage, now time.Time) bool {
	return !msg.ExpiresAt.IsZero() && msg.ExpiresAt.Before(now)
}
