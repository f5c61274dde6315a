package services

import (
	"context"
	"sort"
	"strings"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/pkg/helpers"
)

// memTxStore keeps transactions for a single household in memory.
type memTxStore struct {
	txs      map[string]models.Transaction
	queries  []dto.TransactionQuery
	queryErr error
}

func newMemTxStore(txs ...models.Transaction) *memTxStore {
	s := &memTxStore{txs: map[string]models.Transaction{}}
	for _, t := range txs {
		s.txs[t.ID] = t
	}
	return s
}

func (s *memTxStore) Create(_ context.Context, _ string, tx *models.Transaction) error {
	if _, ok := s.txs[tx.ID]; ok {
		return errs.NewAlreadyExistsError("transaction already exists")
	}
	s.txs[tx.ID] = *tx
	return nil
}

func (s *memTxStore) Get(_ context.Context, _ string, id string) (*models.Transaction, error) {
	tx, ok := s.txs[id]
	if !ok {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	return &tx, nil
}

func (s *memTxStore) Update(_ context.Context, _ string, tx *models.Transaction) error {
	if _, ok := s.txs[tx.ID]; !ok {
		return errs.NewNotFoundError("transaction not found")
	}
	s.txs[tx.ID] = *tx
	return nil
}

func (s *memTxStore) Delete(_ context.Context, _ string, id string) error {
	if _, ok := s.txs[id]; !ok {
		return errs.NewNotFoundError("transaction not found")
	}
	delete(s.txs, id)
	return nil
}

func (s *memTxStore) Query(_ context.Context, _ string, q dto.TransactionQuery, handle func(*models.Transaction) error) error {
	s.queries = append(s.queries, q)
	if s.queryErr != nil {
		return s.queryErr
	}

	var out []models.Transaction
	for _, tx := range s.txs {
		date := helpers.FormatDate(tx.Date)
		switch {
		case q.MemberID != nil && tx.MemberID != *q.MemberID,
			q.Direction != nil && tx.Direction != *q.Direction,
			q.Category != nil && !strings.EqualFold(tx.Category, *q.Category),
			q.DateFrom != nil && date < *q.DateFrom,
			q.DateTo != nil && date > *q.DateTo:
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date) != q.Desc
		}
		return out[i].ID < out[j].ID
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	for i := range out {
		if err := handle(&out[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *memTxStore) UpsertBatch(_ context.Context, _ string, txs []models.Transaction) error {
	for _, tx := range txs {
		s.txs[tx.ID] = tx
	}
	return nil
}

type memMemberStore struct {
	members map[string]*models.FamilyMember
}

func newMemMemberStore() *memMemberStore {
	return &memMemberStore{members: map[string]*models.FamilyMember{}}
}

func (s *memMemberStore) Create(_ context.Context, _ string, m *models.FamilyMember) error {
	s.members[m.ID] = m
	return nil
}

func (s *memMemberStore) List(_ context.Context, _ string) ([]*models.FamilyMember, error) {
	out := []*models.FamilyMember{}
	for _, m := range s.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NameKey < out[j].NameKey })
	return out, nil
}

func (s *memMemberStore) Get(_ context.Context, _ string, id string) (*models.FamilyMember, error) {
	if m, ok := s.members[id]; ok {
		return m, nil
	}
	return nil, errs.NewNotFoundError("member not found")
}

func (s *memMemberStore) GetByNameKey(_ context.Context, _ string, key string) (*models.FamilyMember, error) {
	for _, m := range s.members {
		if m.NameKey == key {
			return m, nil
		}
	}
	return nil, errs.NewNotFoundError("member not found")
}

func (s *memMemberStore) Delete(_ context.Context, _ string, id string) error {
	if _, ok := s.members[id]; !ok {
		return errs.NewNotFoundError("member not found")
	}
	delete(s.members, id)
	return nil
}

type memBudgetStore struct {
	budgets map[string]*models.Budget
}

func newMemBudgetStore(budgets ...models.Budget) *memBudgetStore {
	s := &memBudgetStore{budgets: map[string]*models.Budget{}}
	for _, b := range budgets {
		b := b
		_ = s.Upsert(context.Background(), "", &b)
	}
	return s
}

func (s *memBudgetStore) Upsert(_ context.Context, _ string, b *models.Budget) error {
	b.ID = b.Month + "_" + strings.ToLower(b.Category)
	if existing, ok := s.budgets[b.ID]; ok {
		b.CreatedAt = existing.CreatedAt
	}
	s.budgets[b.ID] = b
	return nil
}

func (s *memBudgetStore) List(_ context.Context, _ string, month *string) ([]*models.Budget, error) {
	out := []*models.Budget{}
	for _, b := range s.budgets {
		if month != nil && b.Month != *month {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memBudgetStore) Delete(_ context.Context, _ string, id string) error {
	if _, ok := s.budgets[id]; !ok {
		return errs.NewNotFoundError("budget not found")
	}
	delete(s.budgets, id)
	return nil
}

type memGoalStore struct {
	goals         map[string]*models.SavingsGoal
	contributions map[string][]models.Contribution
}

func newMemGoalStore() *memGoalStore {
	return &memGoalStore{goals: map[string]*models.SavingsGoal{}, contributions: map[string][]models.Contribution{}}
}

func (s *memGoalStore) Create(_ context.Context, _ string, g *models.SavingsGoal) error {
	s.goals[g.ID] = g
	return nil
}

func (s *memGoalStore) Get(_ context.Context, _ string, id string) (*models.SavingsGoal, error) {
	g, ok := s.goals[id]
	if !ok {
		return nil, errs.NewNotFoundError("goal not found")
	}
	cp := *g
	return &cp, nil
}

func (s *memGoalStore) List(_ context.Context, _ string) ([]*models.SavingsGoal, error) {
	out := []*models.SavingsGoal{}
	for _, g := range s.goals {
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memGoalStore) Update(_ context.Context, _ string, g *models.SavingsGoal) error {
	s.goals[g.ID] = g
	return nil
}

func (s *memGoalStore) Delete(_ context.Context, _ string, id string) error {
	if _, ok := s.goals[id]; !ok {
		return errs.NewNotFoundError("goal not found")
	}
	delete(s.goals, id)
	delete(s.contributions, id)
	return nil
}

func (s *memGoalStore) Contribute(ctx context.Context, uid, goalID string, apply func(*models.SavingsGoal) (*models.Contribution, error)) (*models.SavingsGoal, error) {
	g, err := s.Get(ctx, uid, goalID)
	if err != nil {
		return nil, err
	}
	c, err := apply(g)
	if err != nil {
		return nil, err
	}
	s.goals[goalID] = g
	s.contributions[goalID] = append(s.contributions[goalID], *c)
	return g, nil
}

func (s *memGoalStore) ListContributions(_ context.Context, _ string, goalID string) ([]models.Contribution, error) {
	return s.contributions[goalID], nil
}

type memGamificationStore struct {
	state        models.GamificationState
	achievements []models.Achievement
	saves        int
}

func (s *memGamificationStore) GetState(context.Context, string) (models.GamificationState, error) {
	return s.state, nil
}

func (s *memGamificationStore) SaveState(_ context.Context, _ string, st models.GamificationState) error {
	s.state = st
	s.saves++
	return nil
}

func (s *memGamificationStore) ListAchievements(context.Context, string) ([]models.Achievement, error) {
	return append([]models.Achievement{}, s.achievements...), nil
}

func (s *memGamificationStore) Award(_ context.Context, _ string, a models.Achievement) (bool, error) {
	for _, existing := range s.achievements {
		if existing.Code == a.Code {
			return false, nil
		}
	}
	s.achievements = append(s.achievements, a)
	return true, nil
}

type memWellbeingStore struct {
	items map[string]*models.WellbeingItem
}

func newMemWellbeingStore() *memWellbeingStore {
	return &memWellbeingStore{items: map[string]*models.WellbeingItem{}}
}

func (s *memWellbeingStore) Create(_ context.Context, _ string, item *models.WellbeingItem) error {
	s.items[item.ID] = item
	return nil
}

func (s *memWellbeingStore) Get(_ context.Context, _ string, id string) (*models.WellbeingItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, errs.NewNotFoundError("wellbeing item not found")
	}
	return item, nil
}

func (s *memWellbeingStore) List(_ context.Context, _ string, kind *models.WellbeingKind, assignedTo *string) ([]*models.WellbeingItem, error) {
	out := []*models.WellbeingItem{}
	for _, item := range s.items {
		if kind != nil && item.Kind != *kind {
			continue
		}
		if assignedTo != nil && item.AssignedTo != *assignedTo {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *memWellbeingStore) Update(_ context.Context, _ string, item *models.WellbeingItem) error {
	s.items[item.ID] = item
	return nil
}

func (s *memWellbeingStore) Delete(_ context.Context, _ string, id string) error {
	delete(s.items, id)
	return nil
}
