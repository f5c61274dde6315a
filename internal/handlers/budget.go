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

type budgetService interface {
	Upsert(ctx context.Context, uid string, req dto.UpsertBudgetRequest) (*models.Budget, error)
	List(ctx context.Context, uid string, month *string) ([]*models.Budget, error)
	Delete(ctx context.Context, uid, id string) error
	Status(ctx context.Context, uid, month string) (dto.BudgetStatusReport, error)
}

type budgetHandlers struct {
	ResponseHandler response.ResponseHandler
	BudgetSvc       budgetService
}

func NewBudgetHandlers(deps *Deps) *budgetHandlers {
	return &budgetHandlers{
		ResponseHandler: deps.ResponseHandler,
		BudgetSvc:       deps.BudgetSvc,
	}
}

func (h *budgetHandlers) BudgetRoutes() chi.Router {
	r := chi.NewRouter()
	r.Put("/", h.UpsertBudget)
	r.Get("/", h.ListBudgets)
	r.Get("/status", h.BudgetStatus)
	r.Delete("/{budgetId}", h.DeleteBudget)
	return r
}

func (h *budgetHandlers) UpsertBudget(w http.ResponseWriter, r *http.Request) {
	var body dto.UpsertBudgetRequest
	if err := decodeJSON(r, &body, true); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	b, err := h.BudgetSvc.Upsert(r.Context(), middleware.UID(r.Context()), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, b)
}

func (h *budgetHandlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.BudgetSvc.List(r.Context(), middleware.UID(r.Context()), queryParam(r, "month"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, budgets)
}

func (h *budgetHandlers) BudgetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.BudgetSvc.Status(r.Context(), middleware.UID(r.Context()), r.URL.Query().Get("month"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, status)
}

func (h *budgetHandlers) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := h.BudgetSvc.Delete(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "budgetId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
