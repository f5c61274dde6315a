package handlers

import (
	"log/slog"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/household-finance/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Firebase        *auth.Client

	UserSvc         userService
	MemberSvc       memberService
	TransactionSvc  transactionService
	BudgetSvc       budgetService
	GoalSvc         goalService
	InsightSvc      insightService
	GamificationSvc gamificationService
	WellbeingSvc    wellbeingService
	AssistantSvc    assistantService
	PlaidSvc        plaidService
	BankSvc         bankService
}
