package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
)

type fakeWellbeingSvc struct {
	created dto.CreateWellbeingRequest
	query   dto.WellbeingQuery
	calls   []string
	gotID   string
	err     error
}

func (f *fakeWellbeingSvc) record(call, id string) (*models.WellbeingItem, error) {
	f.calls = append(f.calls, call)
	f.gotID = id
	if f.err != nil {
		return nil, f.err
	}
	return &models.WellbeingItem{ID: id}, nil
}

func (f *fakeWellbeingSvc) Create(ctx context.Context, uid string, req dto.CreateWellbeingRequest) (*models.WellbeingItem, error) {
	f.created = req
	return f.record("create", "w-1")
}

func (f *fakeWellbeingSvc) List(ctx context.Context, uid string, q dto.WellbeingQuery) ([]*models.WellbeingItem, error) {
	f.query = q
	f.calls = append(f.calls, "list")
	return []*models.WellbeingItem{}, f.err
}

func (f *fakeWellbeingSvc) Complete(ctx context.Context, uid, id string) (*models.WellbeingItem, error) {
	return f.record("complete", id)
}

func (f *fakeWellbeingSvc) Uncomplete(ctx context.Context, uid, id string) (*models.WellbeingItem, error) {
	return f.record("uncomplete", id)
}

func (f *fakeWellbeingSvc) AddGlass(ctx context.Context, uid, id string) (*models.WellbeingItem, error) {
	return f.record("glass", id)
}

func (f *fakeWellbeingSvc) Delete(ctx context.Context, uid, id string) error {
	_, err := f.record("delete", id)
	return err
}

func newTestWellbeingHandler(svc *fakeWellbeingSvc) *wellbeingHandlers {
	return NewWellbeingHandlers(&Deps{ResponseHandler: newTestResponder(), WellbeingSvc: svc})
}

func TestCreateWellbeingItem(t *testing.T) {
	svc := &fakeWellbeingSvc{}
	h := newTestWellbeingHandler(svc)

	body := `{"kind":"hydration","title":"Water","assignedTo":"Alice","hydration":{"glassesTarget":8}}`
	rr := httptest.NewRecorder()
	h.CreateItem(rr, withUID(httptest.NewRequest(http.MethodPost, "/wellbeing", strings.NewReader(body)), "uid-1"))

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, models.WellbeingHydration, svc.created.Kind)
	require.NotNil(t, svc.created.Hydration)
	assert.Equal(t, 8, svc.created.Hydration.GlassesTarget)
}

func TestListWellbeingFilters(t *testing.T) {
	svc := &fakeWellbeingSvc{}
	h := newTestWellbeingHandler(svc)

	rr := httptest.NewRecorder()
	h.ListItems(rr, withUID(httptest.NewRequest(http.MethodGet, "/wellbeing?kind=Medication&assignedTo=Bob&overdue=true", nil), "uid-1"))

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, svc.query.Kind)
	assert.Equal(t, models.WellbeingMedication, *svc.query.Kind)
	require.NotNil(t, svc.query.AssignedTo)
	assert.Equal(t, "Bob", *svc.query.AssignedTo)
	assert.True(t, svc.query.OverdueNow)
}

func TestListWellbeingRejectsBadOverdue(t *testing.T) {
	svc := &fakeWellbeingSvc{}
	h := newTestWellbeingHandler(svc)

	rr := httptest.NewRecorder()
	h.ListItems(rr, withUID(httptest.NewRequest(http.MethodGet, "/wellbeing?overdue=yes", nil), "uid-1"))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	env := decodeEnvelope(t, rr.Body.Bytes())
	assert.Equal(t, "invalid_input", env.Code)
	assert.Empty(t, svc.calls)
}

func TestWellbeingItemActions(t *testing.T) {
	svc := &fakeWellbeingSvc{}
	h := newTestWellbeingHandler(svc)

	actions := []http.HandlerFunc{h.CompleteItem, h.UncompleteItem, h.AddGlass, h.DeleteItem}
	for _, action := range actions {
		req := withChiParam(withUID(httptest.NewRequest(http.MethodPost, "/wellbeing/w-9", nil), "uid-1"), "itemId", "w-9")
		rr := httptest.NewRecorder()
		action(rr, req)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}

	assert.Equal(t, []string{"complete", "uncomplete", "glass", "delete"}, svc.calls)
	assert.Equal(t, "w-9", svc.gotID)
}

func TestAddGlassOnWrongKind(t *testing.T) {
	svc := &fakeWellbeingSvc{err: errs.NewValidationError("item is not a hydration tracker")}
	h := newTestWellbeingHandler(svc)

	req := withChiParam(withUID(httptest.NewRequest(http.MethodPost, "/wellbeing/w-1/glasses", nil), "uid-1"), "itemId", "w-1")
	rr := httptest.NewRecorder()
	h.AddGlass(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
