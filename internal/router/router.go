package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/household-finance/internal/handlers"
	"github.com/GregMSThompson/household-finance/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ush := handlers.NewUserHandlers(deps)
	mh := handlers.NewMemberHandlers(deps)
	th := handlers.NewTransactionHandlers(deps)
	bh := handlers.NewBudgetHandlers(deps)
	gh := handlers.NewGoalHandlers(deps)
	ih := handlers.NewInsightHandlers(deps)
	gmh := handlers.NewGamificationHandlers(deps)
	wh := handlers.NewWellbeingHandlers(deps)
	ah := handlers.NewAssistantHandlers(deps)
	ph := handlers.NewPlaidHandlers(deps)

	auth := middleware.NewMiddleware(deps.Firebase)
	r.Group(func(r chi.Router) {
		r.Use(auth.FirebaseAuth)

		r.Mount("/users", ush.UserRoutes())
		r.Mount("/members", mh.MemberRoutes())
		r.Mount("/transactions", th.TransactionRoutes())
		r.Mount("/budgets", bh.BudgetRoutes())
		r.Mount("/goals", gh.GoalRoutes())
		r.Mount("/insights", ih.InsightRoutes())
		r.Mount("/gamification", gmh.GamificationRoutes())
		r.Mount("/wellbeing", wh.WellbeingRoutes())
		r.Mount("/assistant", ah.AssistantRoutes())
		r.Mount("/plaid", ph.PlaidRoutes())
	})
	return r
}
