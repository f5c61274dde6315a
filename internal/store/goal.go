package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
)

type goalDoc struct {
	ID         string     `firestore:"id"`
	Title      string     `firestore:"title"`
	Target     string     `firestore:"target"`
	Current    string     `firestore:"current"`
	Category   string     `firestore:"category,omitempty"`
	TargetDate *time.Time `firestore:"targetDate,omitempty"`
	IsActive   bool       `firestore:"isActive"`
	Priority   int        `firestore:"priority"`
	CreatedAt  time.Time  `firestore:"createdAt"`
	UpdatedAt  time.Time  `firestore:"updatedAt"`
}

func toGoalDoc(g models.SavingsGoal) goalDoc {
	return goalDoc{
		ID:         g.ID,
		Title:      g.Title,
		Target:     g.Target.String(),
		Current:    g.Current.String(),
		Category:   g.Category,
		TargetDate: g.TargetDate,
		IsActive:   g.IsActive,
		Priority:   g.Priority,
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
	}
}

func (d goalDoc) model() (*models.SavingsGoal, error) {
	target, err := decimal.NewFromString(d.Target)
	if err != nil {
		return nil, err
	}
	current, err := decimal.NewFromString(d.Current)
	if err != nil {
		return nil, err
	}
	return &models.SavingsGoal{
		ID:         d.ID,
		Title:      d.Title,
		Target:     target,
		Current:    current,
		Category:   d.Category,
		TargetDate: d.TargetDate,
		IsActive:   d.IsActive,
		Priority:   d.Priority,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}, nil
}

type contributionDoc struct {
	ID        string    `firestore:"id"`
	GoalID    string    `firestore:"goalId"`
	Amount    string    `firestore:"amount"`
	Note      string    `firestore:"note,omitempty"`
	MemberID  string    `firestore:"memberId,omitempty"`
	Reversal  bool      `firestore:"reversal"`
	CreatedAt time.Time `firestore:"createdAt"`
}

type goalStore struct {
	client *firestore.Client
}

func NewGoalStore(client *firestore.Client) *goalStore {
	return &goalStore{client: client}
}

func (s *goalStore) collection(uid string) *firestore.CollectionRef {
	return userDoc(s.client, uid).Collection("goals")
}

func (s *goalStore) contributions(uid, goalID string) *firestore.CollectionRef {
	return s.collection(uid).Doc(goalID).Collection("contributions")
}

func (s *goalStore) Create(ctx context.Context, uid string, g *models.SavingsGoal) error {
	_, err := s.collection(uid).Doc(g.ID).Create(ctx, toGoalDoc(*g))
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create goal", err)
	}
	return nil
}

func (s *goalStore) Get(ctx context.Context, uid, id string) (*models.SavingsGoal, error) {
	snap, err := s.collection(uid).Doc(id).Get(ctx)
	if err != nil {
		return nil, readError(err, "goal")
	}
	return decodeGoal(snap)
}

func (s *goalStore) List(ctx context.Context, uid string) ([]*models.SavingsGoal, error) {
	iter := s.collection(uid).Documents(ctx)
	defer iter.Stop()

	goals := []*models.SavingsGoal{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list goals", err)
		}
		g, err := decodeGoal(snap)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, nil
}

func (s *goalStore) Update(ctx context.Context, uid string, g *models.SavingsGoal) error {
	_, err := s.collection(uid).Doc(g.ID).Set(ctx, toGoalDoc(*g))
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update goal", err)
	}
	return nil
}

func (s *goalStore) Delete(ctx context.Context, uid, id string) error {
	ref := s.collection(uid).Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		return readError(err, "goal")
	}

	bw := s.client.BulkWriter(ctx)
	var jobs []*firestore.BulkWriterJob
	iter := s.contributions(uid, id).Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			bw.End()
			return errs.NewDatabaseError("read", "failed to list contributions", err)
		}
		job, err := bw.Delete(snap.Ref)
		if err != nil {
			bw.End()
			return errs.NewDatabaseError("delete", "failed to queue contribution delete", err)
		}
		jobs = append(jobs, job)
	}
	job, err := bw.Delete(ref)
	if err != nil {
		bw.End()
		return errs.NewDatabaseError("delete", "failed to queue goal delete", err)
	}
	jobs = append(jobs, job)

	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return errs.NewDatabaseError("delete", "failed to delete goal", err)
		}
	}
	return nil
}

// Contribute loads the goal inside a transaction, lets apply mutate it and
// build the contribution, then writes both atomically.
func (s *goalStore) Contribute(ctx context.Context, uid, goalID string, apply func(*models.SavingsGoal) (*models.Contribution, error)) (*models.SavingsGoal, error) {
	ref := s.collection(uid).Doc(goalID)
	var out *models.SavingsGoal

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return readError(err, "goal")
		}
		g, err := decodeGoal(snap)
		if err != nil {
			return err
		}
		c, err := apply(g)
		if err != nil {
			return err
		}
		if err := tx.Set(ref, toGoalDoc(*g)); err != nil {
			return err
		}
		if err := tx.Create(s.contributions(uid, goalID).Doc(c.ID), contributionDoc{
			ID:        c.ID,
			GoalID:    goalID,
			Amount:    c.Amount.String(),
			Note:      c.Note,
			MemberID:  c.MemberID,
			Reversal:  c.Reversal,
			CreatedAt: c.CreatedAt,
		}); err != nil {
			return err
		}
		out = g
		return nil
	})
	if err != nil {
		return nil, txError(err, "update", "failed to record contribution")
	}
	return out, nil
}

func (s *goalStore) ListContributions(ctx context.Context, uid, goalID string) ([]models.Contribution, error) {
	iter := s.contributions(uid, goalID).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	out := []models.Contribution{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list contributions", err)
		}
		var d contributionDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse contribution data", err)
		}
		amount, err := decimal.NewFromString(d.Amount)
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse contribution data", err)
		}
		out = append(out, models.Contribution{
			ID:        d.ID,
			GoalID:    d.GoalID,
			Amount:    amount,
			Note:      d.Note,
			MemberID:  d.MemberID,
			Reversal:  d.Reversal,
			CreatedAt: d.CreatedAt,
		})
	}
	return out, nil
}

func decodeGoal(snap *firestore.DocumentSnapshot) (*models.SavingsGoal, error) {
	var d goalDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse goal data", err)
	}
	g, err := d.model()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse goal data", err)
	}
	return g, nil
}
