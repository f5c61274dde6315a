package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/middleware"
	"github.com/GregMSThompson/household-finance/internal/response"
)

type assistantService interface {
	Query(ctx context.Context, uid, sessionID, message string) (dto.AIQueryResponse, error)
	ClearSession(ctx context.Context, uid, sessionID string) error
}

type assistantHandlers struct {
	ResponseHandler response.ResponseHandler
	AssistantSvc    assistantService
}

func NewAssistantHandlers(deps *Deps) *assistantHandlers {
	return &assistantHandlers{
		ResponseHandler: deps.ResponseHandler,
		AssistantSvc:    deps.AssistantSvc,
	}
}

func (h *assistantHandlers) AssistantRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/query", h.Query)
	r.Delete("/sessions/{sessionId}", h.ClearSession)
	return r
}

// Query answers one question. sessionId is optional; questions without one
// share the household's default session.
func (h *assistantHandlers) Query(w http.ResponseWriter, r *http.Request) {
	var body dto.AIQueryRequest
	if err := decodeJSON(r, &body, true); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if strings.TrimSpace(body.Message) == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("message is required"))
		return
	}

	uid := middleware.UID(r.Context())
	resp, err := h.AssistantSvc.Query(r.Context(), uid, body.SessionID, body.Message)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *assistantHandlers) ClearSession(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	sessionID := chi.URLParam(r, "sessionId")

	if err := h.AssistantSvc.ClearSession(r.Context(), uid, sessionID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
