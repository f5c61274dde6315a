package plaidclient

import (
	"context"
	"strings"
	"time"

	"github.com/plaid/plaid-go/v24/plaid"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/pkg/helpers"
)

const syncPageSize = 500

type Adapter struct {
	client  *plaid.APIClient
	appName string
}

func NewAdapter(clientID, secret string, env dto.PlaidEnvironment) *Adapter {
	cfg := plaid.NewConfiguration()
	cfg.AddDefaultHeader("PLAID-CLIENT-ID", clientID)
	cfg.AddDefaultHeader("PLAID-SECRET", secret)
	cfg.UseEnvironment(toPlaidEnv(env))

	return &Adapter{
		client:  plaid.NewAPIClient(cfg),
		appName: "Household Finance",
	}
}

func (a *Adapter) CreateLinkToken(ctx context.Context, uid string) (string, error) {
	req := plaid.NewLinkTokenCreateRequest(
		a.appName,
		"en",
		[]plaid.CountryCode{plaid.CountryCode("US")},
		plaid.LinkTokenCreateRequestUser{ClientUserId: uid},
	)
	req.SetProducts([]plaid.Products{plaid.PRODUCTS_TRANSACTIONS})

	resp, _, err := a.client.PlaidApi.LinkTokenCreate(ctx).LinkTokenCreateRequest(*req).Execute()
	if err != nil {
		return "", err
	}
	return resp.GetLinkToken(), nil
}

func (a *Adapter) ExchangePublicToken(ctx context.Context, publicToken string) (itemID, accessToken string, err error) {
	req := plaid.NewItemPublicTokenExchangeRequest(publicToken)
	resp, _, err := a.client.PlaidApi.ItemPublicTokenExchange(ctx).ItemPublicTokenExchangeRequest(*req).Execute()
	if err != nil {
		return "", "", err
	}
	return resp.GetItemId(), resp.GetAccessToken(), nil
}

// SyncTransactions fetches one /transactions/sync page. Added and modified
// records come back as household transactions; removed ones as ids.
func (a *Adapter) SyncTransactions(ctx context.Context, bankID string, accessToken string, cursor *string) (dto.PlaidSyncPage, error) {
	req := plaid.NewTransactionsSyncRequest(accessToken)
	if cursor != nil {
		req.SetCursor(*cursor)
	}
	req.SetCount(syncPageSize)
	opts := plaid.NewTransactionsSyncRequestOptions()
	opts.SetIncludePersonalFinanceCategory(true)
	req.SetOptions(*opts)

	var page dto.PlaidSyncPage

	resp, _, err := a.client.PlaidApi.TransactionsSync(ctx).TransactionsSyncRequest(*req).Execute()
	if err != nil {
		return page, err
	}

	now := time.Now().UTC()
	txs := make([]models.Transaction, 0, len(resp.GetAdded())+len(resp.GetModified()))
	for _, t := range resp.GetAdded() {
		txs = append(txs, convert(bankID, t, now))
	}
	for _, t := range resp.GetModified() {
		txs = append(txs, convert(bankID, t, now))
	}

	removed := make([]string, 0, len(resp.GetRemoved()))
	for _, r := range resp.GetRemoved() {
		removed = append(removed, TransactionID(r.GetTransactionId()))
	}

	page.Transactions = txs
	page.Removed = removed
	page.Cursor = resp.GetNextCursor()
	page.HasMore = resp.GetHasMore()

	return page, nil
}

// TransactionID is the household record id of a Plaid transaction.
func TransactionID(plaidID string) string {
	return "plaid-" + plaidID
}

// convert maps a Plaid transaction. Plaid reports money leaving the account
// as a positive amount.
func convert(bankID string, t plaid.Transaction, now time.Time) models.Transaction {
	amount := decimal.NewFromFloat(t.GetAmount())
	direction := models.DirectionOutflow
	if amount.IsNegative() {
		direction = models.DirectionInflow
		amount = amount.Neg()
	}

	date, err := helpers.ParseDate(t.GetDate())
	if err != nil {
		date = helpers.DateOnly(now)
	}

	description := t.GetMerchantName()
	if description == "" {
		description = t.GetName()
	}

	pfc := t.GetPersonalFinanceCategory()
	return models.Transaction{
		ID:          TransactionID(t.GetTransactionId()),
		Category:    CategoryName(pfc.GetPrimary()),
		Description: description,
		Amount:      amount,
		Currency:    t.GetIsoCurrencyCode(),
		Direction:   direction,
		Date:        date,
		Source:      models.SourcePlaid,
		ExternalID:  t.GetTransactionId(),
		BankID:      bankID,
		Pending:     t.GetPending(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

var pfcCategories = map[string]string{
	"INCOME":                    "Salary",
	"TRANSFER_IN":               "Transfer",
	"TRANSFER_OUT":              "Transfer",
	"LOAN_PAYMENTS":             "Loans",
	"BANK_FEES":                 "Bank Fees",
	"ENTERTAINMENT":             "Entertainment",
	"FOOD_AND_DRINK":            "Food",
	"GENERAL_MERCHANDISE":       "Shopping",
	"HOME_IMPROVEMENT":          "Home",
	"MEDICAL":                   "Health",
	"PERSONAL_CARE":             "Personal Care",
	"GENERAL_SERVICES":          "Services",
	"GOVERNMENT_AND_NON_PROFIT": "Government",
	"TRANSPORTATION":            "Transport",
	"TRAVEL":                    "Travel",
	"RENT_AND_UTILITIES":        "Utilities",
}

// CategoryName turns a Plaid personal finance primary category into a
// household category. Unknown codes are title-cased; empty stays empty so
// the categorisation rules can run.
func CategoryName(primary string) string {
	primary = strings.ToUpper(strings.TrimSpace(primary))
	if primary == "" {
		return ""
	}
	if name, ok := pfcCategories[primary]; ok {
		return name
	}
	words := strings.Split(strings.ToLower(primary), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func toPlaidEnv(env dto.PlaidEnvironment) plaid.Environment {
	switch env {
	case dto.PlaidSandbox:
		return plaid.Sandbox
	case dto.PlaidDevelopment:
		return plaid.Development
	default: // dto.PlaidProduction:
		return plaid.Production
	}
}
