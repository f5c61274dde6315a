package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/GregMSThompson/household-finance/internal/bootstrap"
	"github.com/GregMSThompson/household-finance/internal/config"
	"github.com/GregMSThompson/household-finance/internal/crypto"
	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/handlers"
	"github.com/GregMSThompson/household-finance/internal/response"
	"github.com/GregMSThompson/household-finance/internal/router"
	"github.com/GregMSThompson/household-finance/internal/services"
	"github.com/GregMSThompson/household-finance/internal/store"
)

type vertexClient interface {
	GenerateContent(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error)
}

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg, err := config.New()
	exitOnError("invalid configuration", err, slog.Default())
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// helpers
	kmsHelper := crypto.NewKMS(bs.KMS, cfg.KMSKeyName)

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	mstore := store.NewMemberStore(bs.Firestore)
	tstore := store.NewTransactionStore(bs.Firestore)
	bgstore := store.NewBudgetStore(bs.Firestore)
	gstore := store.NewGoalStore(bs.Firestore)
	gmstore := store.NewGamificationStore(bs.Firestore)
	wstore := store.NewWellbeingStore(bs.Firestore)
	bstore := store.NewBankStore(bs.Firestore, kmsHelper)
	astore := store.NewAIStore(bs.Firestore)

	// services
	userv := services.NewUserService(ustore, cfg.Currency)
	mserv := services.NewMemberService(mstore)
	tserv := services.NewTransactionService(tstore, mserv, bs.Rules, cfg.Currency)
	bgserv := services.NewBudgetService(bgstore, tstore)
	gserv := services.NewGoalService(gstore)
	iserv := services.NewInsightService(bs.Insights, tstore)
	gmserv := services.NewGamificationService(gmstore, tstore, bgstore)
	wserv := services.NewWellbeingService(wstore)
	bserv := services.NewBankService(bstore, tstore, mstore)
	plserv := services.NewPlaidService(bs.PlaidAdapter, bstore, tstore, bs.Rules)

	// a nil *Adapter must not reach the service as a non-nil interface
	var vertex vertexClient
	if bs.VertexAdapter != nil {
		vertex = bs.VertexAdapter
	}
	aiserv := services.NewAssistantService(bs.Intents, vertex, iserv, bgserv, gserv, astore, cfg.AITTL, cfg.Currency)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.UserSvc = userv
	deps.MemberSvc = mserv
	deps.TransactionSvc = tserv
	deps.BudgetSvc = bgserv
	deps.GoalSvc = gserv
	deps.InsightSvc = iserv
	deps.GamificationSvc = gmserv
	deps.WellbeingSvc = wserv
	deps.AssistantSvc = aiserv
	deps.PlaidSvc = plserv
	deps.BankSvc = bserv

	// router
	r := router.NewRouter(deps)
	bs.Log.Info("listening", "port", cfg.Port)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
