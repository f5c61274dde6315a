package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/middleware"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/internal/response"
)

type memberService interface {
	Create(ctx context.Context, uid, name string) (*models.FamilyMember, error)
	List(ctx context.Context, uid string) ([]*models.FamilyMember, error)
	Get(ctx context.Context, uid, id string) (*models.FamilyMember, error)
	Delete(ctx context.Context, uid, id string) error
}

type memberHandlers struct {
	ResponseHandler response.ResponseHandler
	MemberSvc       memberService
}

func NewMemberHandlers(deps *Deps) *memberHandlers {
	return &memberHandlers{
		ResponseHandler: deps.ResponseHandler,
		MemberSvc:       deps.MemberSvc,
	}
}

func (h *memberHandlers) MemberRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateMember)
	r.Get("/", h.ListMembers)
	r.Get("/{memberId}", h.GetMember)
	r.Delete("/{memberId}", h.DeleteMember)
	return r
}

func (h *memberHandlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateMemberRequest
	if err := decodeJSON(r, &body, true); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	m, err := h.MemberSvc.Create(r.Context(), middleware.UID(r.Context()), body.Name)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, m)
}

func (h *memberHandlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.MemberSvc.List(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, members)
}

func (h *memberHandlers) GetMember(w http.ResponseWriter, r *http.Request) {
	m, err := h.MemberSvc.Get(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "memberId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, m)
}

func (h *memberHandlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := h.MemberSvc.Delete(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "memberId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
