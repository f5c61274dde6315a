package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/middleware"
	"github.com/GregMSThompson/household-finance/internal/response"
)

type gamificationService interface {
	Evaluate(ctx context.Context, uid string) (dto.EvaluateResult, error)
	Summary(ctx context.Context, uid string) (dto.GamificationSummary, error)
}

type gamificationHandlers struct {
	ResponseHandler response.ResponseHandler
	GamificationSvc gamificationService
}

func NewGamificationHandlers(deps *Deps) *gamificationHandlers {
	return &gamificationHandlers{
		ResponseHandler: deps.ResponseHandler,
		GamificationSvc: deps.GamificationSvc,
	}
}

func (h *gamificationHandlers) GamificationRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Summary)
	r.Post("/evaluate", h.Evaluate)
	return r
}

func (h *gamificationHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.GamificationSvc.Summary(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, summary)
}

func (h *gamificationHandlers) Evaluate(w http.ResponseWriter, r *http.Request) {
	result, err := h.GamificationSvc.Evaluate(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}
