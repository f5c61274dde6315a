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

type goalService interface {
	Create(ctx context.Context, uid string, req dto.CreateGoalRequest) (*models.SavingsGoal, error)
	Get(ctx context.Context, uid, id string) (*models.SavingsGoal, error)
	List(ctx context.Context, uid string) ([]*models.SavingsGoal, error)
	Update(ctx context.Context, uid, id string, req dto.UpdateGoalRequest) (*models.SavingsGoal, error)
	Delete(ctx context.Context, uid, id string) error
	Contribute(ctx context.Context, uid, goalID string, req dto.ContributionRequest) (*models.SavingsGoal, error)
	Reverse(ctx context.Context, uid, goalID string, req dto.ContributionRequest) (*models.SavingsGoal, error)
	Contributions(ctx context.Context, uid, goalID string) ([]models.Contribution, error)
}

type goalHandlers struct {
	ResponseHandler response.ResponseHandler
	GoalSvc         goalService
}

func NewGoalHandlers(deps *Deps) *goalHandlers {
	return &goalHandlers{
		ResponseHandler: deps.ResponseHandler,
		GoalSvc:         deps.GoalSvc,
	}
}

func (h *goalHandlers) GoalRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateGoal)
	r.Get("/", h.ListGoals)
	r.Route("/{goalId}", func(r chi.Router) {
		r.Get("/", h.GetGoal)
		r.Patch("/", h.UpdateGoal)
		r.Delete("/", h.DeleteGoal)
		r.Get("/contributions", h.ListContributions)
		r.Post("/contributions", h.Contribute)
		r.Post("/reversals", h.Reverse)
	})
	return r
}

// goals are always returned with their progress figures
func (h *goalHandlers) writeGoal(w http.ResponseWriter, r *http.Request, status int, g *models.SavingsGoal) {
	h.ResponseHandler.WriteSuccess(w, r, status, dto.NewGoalView(*g))
}

func (h *goalHandlers) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateGoalRequest
	if err := decodeJSON(r, &body, true); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	g, err := h.GoalSvc.Create(r.Context(), middleware.UID(r.Context()), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.writeGoal(w, r, http.StatusCreated, g)
}

func (h *goalHandlers) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.GoalSvc.List(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	views := make([]dto.GoalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, dto.NewGoalView(*g))
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, views)
}

func (h *goalHandlers) GetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := h.GoalSvc.Get(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "goalId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.writeGoal(w, r, http.StatusOK, g)
}

func (h *goalHandlers) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	var body dto.UpdateGoalRequest
	if err := decodeJSON(r, &body, true); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	g, err := h.GoalSvc.Update(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "goalId"), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.writeGoal(w, r, http.StatusOK, g)
}

func (h *goalHandlers) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.GoalSvc.Delete(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "goalId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *goalHandlers) ListContributions(w http.ResponseWriter, r *http.Request) {
	contribs, err := h.GoalSvc.Contributions(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "goalId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if contribs == nil {
		contribs = []models.Contribution{}
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, contribs)
}

func (h *goalHandlers) Contribute(w http.ResponseWriter, r *http.Request) {
	h.applyContribution(w, r, h.GoalSvc.Contribute)
}

func (h *goalHandlers) Reverse(w http.ResponseWriter, r *http.Request) {
	h.applyContribution(w, r, h.GoalSvc.Reverse)
}

type contributionFunc func(ctx context.Context, uid, goalID string, req dto.ContributionRequest) (*models.SavingsGoal, error)

func (h *goalHandlers) applyContribution(w http.ResponseWriter, r *http.Request, apply contributionFunc) {
	var body dto.ContributionRequest
	if err := decodeJSON(r, &body, true); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	g, err := apply(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "goalId"), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.writeGoal(w, r, http.StatusOK, g)
}
