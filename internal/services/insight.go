package services

import (
	"context"
	"strings"
	"time"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/insight"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/pkg/helpers"
	"github.com/GregMSThompson/household-finance/pkg/logger"
)

type insightService struct {
	engine   *insight.Engine
	txs      transactionQuerier
	clockNow func() time.Time
}

func NewInsightService(engine *insight.Engine, txs transactionQuerier) *insightService {
	return &insightService{
		engine:   engine,
		txs:      txs,
		clockNow: time.Now,
	}
}

// period resolves the request into a period type, the aligned start of the
// current window and the window itself.
func (s *insightService) period(req dto.InsightRequest) (insight.PeriodType, time.Time, insight.Window, error) {
	p, err := insight.ParsePeriodType(req.PeriodType)
	if err != nil {
		return "", time.Time{}, insight.Window{}, err
	}
	ref := helpers.DateOnly(s.clockNow().UTC())
	if strings.TrimSpace(req.Date) != "" {
		if ref, err = helpers.ParseDate(req.Date); err != nil {
			return "", time.Time{}, insight.Window{}, errs.NewValidationError("date must be YYYY-MM-DD")
		}
	}
	start, err := s.engine.PeriodStartFor(ref, p)
	if err != nil {
		return "", time.Time{}, insight.Window{}, err
	}
	w, err := insight.CurrentRange(p, start)
	if err != nil {
		return "", time.Time{}, insight.Window{}, err
	}
	return p, start, w, nil
}

// load reads every record between from and the last day of to in one query.
func (s *insightService) load(ctx context.Context, uid string, from, to insight.Window) ([]models.Transaction, error) {
	dateFrom := helpers.FormatDate(from.Start)
	dateTo := helpers.FormatDate(to.LastDay())

	records := []models.Transaction{}
	err := s.txs.Query(ctx, uid, dto.TransactionQuery{DateFrom: &dateFrom, DateTo: &dateTo}, func(tx *models.Transaction) error {
		records = append(records, *tx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *insightService) current(ctx context.Context, uid string, req dto.InsightRequest) (insight.PeriodType, time.Time, []models.Transaction, error) {
	p, start, w, err := s.period(req)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	records, err := s.load(ctx, uid, w, w)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return p, start, insight.Filter(records, w, req.Actor), nil
}

// Report compares the selected period against the one before it.
func (s *insightService) Report(ctx context.Context, uid string, req dto.InsightRequest) (insight.Report, error) {
	p, start, w, err := s.period(req)
	if err != nil {
		return insight.Report{}, err
	}
	prev, err := insight.PreviousRange(p, start)
	if err != nil {
		return insight.Report{}, err
	}

	records, err := s.load(ctx, uid, prev, w)
	if err != nil {
		return insight.Report{}, err
	}

	report, err := s.engine.GetInsightReport(p, start, req.Actor, records)
	if err != nil {
		return insight.Report{}, err
	}

	logger.FromContext(ctx).Debug("insight report built",
		"period_type", p,
		"start", helpers.FormatDate(start),
		"records", len(records))
	return report, nil
}

func (s *insightService) Categories(ctx context.Context, uid string, req dto.InsightRequest) ([]insight.Bucket, error) {
	_, _, records, err := s.current(ctx, uid, req)
	if err != nil {
		return nil, err
	}
	return s.engine.GetCategoryBreakdown(records), nil
}

func (s *insightService) Members(ctx context.Context, uid string, req dto.InsightRequest, direction models.Direction) ([]insight.Bucket, error) {
	if !direction.Valid() {
		return nil, errs.NewValidationError("direction must be inflow or outflow")
	}
	_, _, records, err := s.current(ctx, uid, req)
	if err != nil {
		return nil, err
	}
	return s.engine.GetActorBreakdown(records, direction), nil
}

func (s *insightService) Chart(ctx context.Context, uid string, req dto.InsightRequest) ([]insight.ChartPoint, error) {
	p, start, records, err := s.current(ctx, uid, req)
	if err != nil {
		return nil, err
	}
	return s.engine.GetChartSeries(records, start, p)
}

func (s *insightService) Series(ctx context.Context, uid string, req dto.InsightRequest) (insight.Series, error) {
	p, start, records, err := s.current(ctx, uid, req)
	if err != nil {
		return insight.Series{}, err
	}
	return s.engine.GetMultiSeries(records, start, p)
}
