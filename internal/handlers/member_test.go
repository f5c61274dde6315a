package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
)

type fakeMemberSvc struct {
	created *models.FamilyMember
	members []*models.FamilyMember
	gotUID  string
	gotName string
	gotID   string
	err     error
}

func (f *fakeMemberSvc) Create(ctx context.Context, uid, name string) (*models.FamilyMember, error) {
	f.gotUID, f.gotName = uid, name
	return f.created, f.err
}

func (f *fakeMemberSvc) List(ctx context.Context, uid string) ([]*models.FamilyMember, error) {
	f.gotUID = uid
	return f.members, f.err
}

func (f *fakeMemberSvc) Get(ctx context.Context, uid, id string) (*models.FamilyMember, error) {
	f.gotUID, f.gotID = uid, id
	return f.created, f.err
}

func (f *fakeMemberSvc) Delete(ctx context.Context, uid, id string) error {
	f.gotUID, f.gotID = uid, id
	return f.err
}

func newTestMemberHandler(svc *fakeMemberSvc) *memberHandlers {
	return NewMemberHandlers(&Deps{ResponseHandler: newTestResponder(), MemberSvc: svc})
}

func TestCreateMember(t *testing.T) {
	svc := &fakeMemberSvc{created: &models.FamilyMember{ID: "m-1", Name: "Alice"}}
	h := newTestMemberHandler(svc)

	req := withUID(httptest.NewRequest(http.MethodPost, "/members", strings.NewReader(`{"name":"Alice"}`)), "uid-1")
	rr := httptest.NewRecorder()
	h.CreateMember(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "uid-1", svc.gotUID)
	assert.Equal(t, "Alice", svc.gotName)
	assert.Contains(t, string(decodeEnvelope(t, rr.Body.Bytes()).Data), `"m-1"`)
}

func TestCreateMemberDuplicate(t *testing.T) {
	svc := &fakeMemberSvc{err: errs.NewAlreadyExistsError("member already exists")}
	h := newTestMemberHandler(svc)

	req := withUID(httptest.NewRequest(http.MethodPost, "/members", strings.NewReader(`{"name":"alice"}`)), "uid-1")
	rr := httptest.NewRecorder()
	h.CreateMember(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "already_exists", decodeEnvelope(t, rr.Body.Bytes()).Code)
}

func TestGetMemberUsesPathParam(t *testing.T) {
	svc := &fakeMemberSvc{err: errs.NewNotFoundError("member not found")}
	h := newTestMemberHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/members/m-404", nil)
	req = withChiParam(withUID(req, "uid-1"), "memberId", "m-404")
	rr := httptest.NewRecorder()
	h.GetMember(rr, req)

	assert.Equal(t, "m-404", svc.gotID)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteMember(t *testing.T) {
	svc := &fakeMemberSvc{}
	h := newTestMemberHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/members/m-1", nil)
	req = withChiParam(withUID(req, "uid-1"), "memberId", "m-1")
	rr := httptest.NewRecorder()
	h.DeleteMember(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "m-1", svc.gotID)
}
