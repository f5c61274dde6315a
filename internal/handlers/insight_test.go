package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/insight"
	"github.com/GregMSThompson/household-finance/internal/models"
)

type fakeInsightSvc struct {
	req       dto.InsightRequest
	direction models.Direction
	err       error
}

func (f *fakeInsightSvc) Report(ctx context.Context, uid string, req dto.InsightRequest) (insight.Report, error) {
	f.req = req
	return insight.Report{PeriodType: insight.PeriodType(req.PeriodType), Expense: decimal.NewFromInt(120)}, f.err
}

func (f *fakeInsightSvc) Categories(ctx context.Context, uid string, req dto.InsightRequest) ([]insight.Bucket, error) {
	f.req = req
	return []insight.Bucket{{Name: "Food", Amount: decimal.NewFromInt(120), Count: 1, Percentage: 1}}, f.err
}

func (f *fakeInsightSvc) Members(ctx context.Context, uid string, req dto.InsightRequest, direction models.Direction) ([]insight.Bucket, error) {
	f.req = req
	f.direction = direction
	return []insight.Bucket{}, f.err
}

func (f *fakeInsightSvc) Chart(ctx context.Context, uid string, req dto.InsightRequest) ([]insight.ChartPoint, error) {
	f.req = req
	return []insight.ChartPoint{}, f.err
}

func (f *fakeInsightSvc) Series(ctx context.Context, uid string, req dto.InsightRequest) (insight.Series, error) {
	f.req = req
	return insight.Series{}, f.err
}

func newTestInsightHandler(svc *fakeInsightSvc) *insightHandlers {
	return NewInsightHandlers(&Deps{ResponseHandler: newTestResponder(), InsightSvc: svc})
}

func TestInsightRequestParsing(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want dto.InsightRequest
	}{
		{
			name: "defaults to monthly",
			url:  "/insights/report",
			want: dto.InsightRequest{PeriodType: "monthly"},
		},
		{
			name: "explicit period date and member",
			url:  "/insights/report?period=weekly&date=2024-03-13&member=Alice",
			want: dto.InsightRequest{PeriodType: "weekly", Date: "2024-03-13", Actor: "Alice"},
		},
		{
			name: "blank period falls back",
			url:  "/insights/report?period=%20",
			want: dto.InsightRequest{PeriodType: "monthly"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeInsightSvc{}
			h := newTestInsightHandler(svc)

			rr := httptest.NewRecorder()
			h.Report(rr, withUID(httptest.NewRequest(http.MethodGet, tt.url, nil), "uid-1"))

			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			assert.Equal(t, tt.want, svc.req)
		})
	}
}

func TestReportUnsupportedPeriod(t *testing.T) {
	svc := &fakeInsightSvc{err: errs.NewUnsupportedPeriodTypeError("quarterly")}
	h := newTestInsightHandler(svc)

	rr := httptest.NewRecorder()
	h.Report(rr, withUID(httptest.NewRequest(http.MethodGet, "/insights/report?period=quarterly", nil), "uid-1"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "unsupported_period_type", decodeEnvelope(t, rr.Body.Bytes()).Code)
}

func TestMembersDirection(t *testing.T) {
	svc := &fakeInsightSvc{}
	h := newTestInsightHandler(svc)

	rr := httptest.NewRecorder()
	h.Members(rr, withUID(httptest.NewRequest(http.MethodGet, "/insights/members", nil), "uid-1"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.DirectionOutflow, svc.direction)

	rr = httptest.NewRecorder()
	h.Members(rr, withUID(httptest.NewRequest(http.MethodGet, "/insights/members?direction=Inflow", nil), "uid-1"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.DirectionInflow, svc.direction)
}

func TestCategoriesPayload(t *testing.T) {
	h := newTestInsightHandler(&fakeInsightSvc{})

	rr := httptest.NewRecorder()
	h.Categories(rr, withUID(httptest.NewRequest(http.MethodGet, "/insights/categories", nil), "uid-1"))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"name":"Food","amount":"120","count":1,"percentage":1}]`,
		string(decodeEnvelope(t, rr.Body.Bytes()).Data))
}
