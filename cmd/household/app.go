package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/GregMSThompson/household-finance/internal/assistant"
	"github.com/GregMSThompson/household-finance/internal/categorize"
	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/insight"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/internal/services"
	"github.com/GregMSThompson/household-finance/internal/store/sqlite"
	"github.com/GregMSThompson/household-finance/pkg/logger"
)

type memberService interface {
	Create(ctx context.Context, uid, name string) (*models.FamilyMember, error)
	List(ctx context.Context, uid string) ([]*models.FamilyMember, error)
}

type transactionService interface {
	Add(ctx context.Context, uid string, req dto.CreateTransactionRequest) (*models.Transaction, error)
	List(ctx context.Context, uid string, q dto.TransactionQuery) ([]models.Transaction, error)
	ImportOFX(ctx context.Context, uid string, r io.Reader, member string) (dto.ImportResult, error)
}

type budgetService interface {
	Upsert(ctx context.Context, uid string, req dto.UpsertBudgetRequest) (*models.Budget, error)
	Status(ctx context.Context, uid, month string) (dto.BudgetStatusReport, error)
}

type insightService interface {
	Report(ctx context.Context, uid string, req dto.InsightRequest) (insight.Report, error)
}

// app is the set of services one command invocation runs against.
type app struct {
	db *sqlite.DB

	members      memberService
	transactions transactionService
	budgets      budgetService
	insights     insightService
	money        assistant.Facts
}

// openApp opens the configured database, applies pending migrations and
// wires the services on top of the SQLite stores.
func openApp(ctx context.Context) (*app, error) {
	log := logger.FromContext(ctx)

	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Debug("database ready", "path", db.Path())

	rules, err := categorize.LoadEmbedded()
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	mserv := services.NewMemberService(db.Members())
	return &app{
		db:           db,
		members:      mserv,
		transactions: services.NewTransactionService(db.Transactions(), mserv, rules, cfg.Currency),
		budgets:      services.NewBudgetService(db.Budgets(), db.Transactions()),
		insights:     services.NewInsightService(insight.NewEngine(insight.WithWeekStart(cfg.WeekStart)), db.Transactions()),
		money:        assistant.Facts{Currency: cfg.Currency},
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
}
