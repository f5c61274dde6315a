package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/middleware"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/internal/response"
)

type wellbeingService interface {
	Create(ctx context.Context, uid string, req dto.CreateWellbeingRequest) (*models.WellbeingItem, error)
	List(ctx context.Context, uid string, q dto.WellbeingQuery) ([]*models.WellbeingItem, error)
	Complete(ctx context.Context, uid, id string) (*models.WellbeingItem, error)
	Uncomplete(ctx context.Context, uid, id string) (*models.WellbeingItem, error)
	AddGlass(ctx context.Context, uid, id string) (*models.WellbeingItem, error)
	Delete(ctx context.Context, uid, id string) error
}

type wellbeingHandlers struct {
	ResponseHandler response.ResponseHandler
	WellbeingSvc    wellbeingService
}

func NewWellbeingHandlers(deps *Deps) *wellbeingHandlers {
	return &wellbeingHandlers{
		ResponseHandler: deps.ResponseHandler,
		WellbeingSvc:    deps.WellbeingSvc,
	}
}

func (h *wellbeingHandlers) WellbeingRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateItem)
	r.Get("/", h.ListItems)
	r.Route("/{itemId}", func(r chi.Router) {
		r.Delete("/", h.DeleteItem)
		r.Post("/complete", h.CompleteItem)
		r.Delete("/complete", h.UncompleteItem)
		r.Post("/glasses", h.AddGlass)
	})
	return r
}

func (h *wellbeingHandlers) CreateItem(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateWellbeingRequest
	if err := decodeJSON(r, &body, true); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	item, err := h.WellbeingSvc.Create(r.Context(), middleware.UID(r.Context()), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, item)
}

// ListItems filters with ?kind=, ?assignedTo= and ?overdue=true.
func (h *wellbeingHandlers) ListItems(w http.ResponseWriter, r *http.Request) {
	overdue, err := queryBool(r, "overdue")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	q := dto.WellbeingQuery{
		AssignedTo: queryParam(r, "assignedTo"),
		OverdueNow: overdue,
	}
	if k := queryParam(r, "kind"); k != nil {
		kind := models.WellbeingKind(strings.ToLower(*k))
		q.Kind = &kind
	}

	items, err := h.WellbeingSvc.List(r.Context(), middleware.UID(r.Context()), q)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, items)
}

func (h *wellbeingHandlers) CompleteItem(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.WellbeingSvc.Complete)
}

func (h *wellbeingHandlers) UncompleteItem(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.WellbeingSvc.Uncomplete)
}

func (h *wellbeingHandlers) AddGlass(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.WellbeingSvc.AddGlass)
}

func (h *wellbeingHandlers) update(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, uid, id string) (*models.WellbeingItem, error)) {
	item, err := apply(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "itemId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, item)
}

func (h *wellbeingHandlers) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.WellbeingSvc.Delete(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "itemId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
