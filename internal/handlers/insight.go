package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/insight"
	"github.com/GregMSThompson/household-finance/internal/middleware"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/internal/response"
)

type insightService interface {
	Report(ctx context.Context, uid string, req dto.InsightRequest) (insight.Report, error)
	Categories(ctx context.Context, uid string, req dto.InsightRequest) ([]insight.Bucket, error)
	Members(ctx context.Context, uid string, req dto.InsightRequest, direction models.Direction) ([]insight.Bucket, error)
	Chart(ctx context.Context, uid string, req dto.InsightRequest) ([]insight.ChartPoint, error)
	Series(ctx context.Context, uid string, req dto.InsightRequest) (insight.Series, error)
}

type insightHandlers struct {
	ResponseHandler response.ResponseHandler
	InsightSvc      insightService
}

func NewInsightHandlers(deps *Deps) *insightHandlers {
	return &insightHandlers{
		ResponseHandler: deps.ResponseHandler,
		InsightSvc:      deps.InsightSvc,
	}
}

// InsightRoutes all take ?period=weekly|monthly|yearly (default monthly),
// ?date=YYYY-MM-DD (default today) and ?member=NAME.
func (h *insightHandlers) InsightRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/report", h.Report)
	r.Get("/categories", h.Categories)
	r.Get("/members", h.Members)
	r.Get("/chart", h.Chart)
	r.Get("/series", h.Series)
	return r
}

func insightRequest(r *http.Request) dto.InsightRequest {
	q := r.URL.Query()
	period := q.Get("period")
	if strings.TrimSpace(period) == "" {
		period = string(insight.Monthly)
	}
	return dto.InsightRequest{
		PeriodType: period,
		Date:       q.Get("date"),
		Actor:      q.Get("member"),
	}
}

func (h *insightHandlers) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.InsightSvc.Report(r.Context(), middleware.UID(r.Context()), insightRequest(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, report)
}

func (h *insightHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.InsightSvc.Categories(r.Context(), middleware.UID(r.Context()), insightRequest(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, buckets)
}

// Members defaults to the expense side; ?direction=inflow gives incomes.
func (h *insightHandlers) Members(w http.ResponseWriter, r *http.Request) {
	direction := models.DirectionOutflow
	if d := queryParam(r, "direction"); d != nil {
		direction = models.Direction(strings.ToLower(*d))
	}

	buckets, err := h.InsightSvc.Members(r.Context(), middleware.UID(r.Context()), insightRequest(r), direction)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, buckets)
}

func (h *insightHandlers) Chart(w http.ResponseWriter, r *http.Request) {
	points, err := h.InsightSvc.Chart(r.Context(), middleware.UID(r.Context()), insightRequest(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, points)
}

func (h *insightHandlers) Series(w http.ResponseWriter, r *http.Request) {
	series, err := h.InsightSvc.Series(r.Context(), middleware.UID(r.Context()), insightRequest(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, series)
}
