// Package ofx reads OFX/QFX bank and credit card statements into
// transactions.
package ofx

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/pkg/helpers"
	"github.com/GregMSThompson/household-finance/pkg/logger"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// opening tag alone on a line with its closing bracket missing
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocess fixes formatting problems seen in real bank exports that
// ofxgo rejects.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// Parse reads every bank and credit card statement in r. A negative TRNAMT
// is an outflow. Returned transactions carry the FITID as ExternalID and the
// account id as BankID; IDs and members are left for the caller.
func Parse(ctx context.Context, r io.Reader) ([]models.Transaction, error) {
	log := logger.FromContext(ctx)

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, errs.NewValidationError("failed to parse OFX file: " + err.Error())
	}

	var out []models.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		bankStmts++
		account := string(stmt.BankAcctFrom.AcctID)
		for _, t := range stmt.BankTranList.Transactions {
			out = append(out, convert(t, account))
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		ccStmts++
		account := string(stmt.CCAcctFrom.AcctID)
		for _, t := range stmt.BankTranList.Transactions {
			out = append(out, convert(t, account))
		}
	}

	log.Info("parsed OFX file",
		"transactions", len(out),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)
	return out, nil
}

func convert(t ofxgo.Transaction, account string) models.Transaction {
	amount := decimal.NewFromBigRat(&t.TrnAmt.Rat, 2)
	direction := models.DirectionInflow
	if amount.IsNegative() {
		direction = models.DirectionOutflow
		amount = amount.Neg()
	}

	posted := t.DtPosted.Time
	if posted.IsZero() && t.DtUser != nil {
		posted = t.DtUser.Time
	}

	return models.Transaction{
		ID:          ImportID(account, string(t.FiTID)),
		Description: description(t),
		Notes:       strings.TrimSpace(string(t.Memo)),
		Category:    categoryFor(t),
		Amount:      amount,
		Direction:   direction,
		Date:        helpers.DateOnly(posted),
		Source:      models.SourceOFX,
		ExternalID:  string(t.FiTID),
		BankID:      account,
	}
}

func description(t ofxgo.Transaction) string {
	if t.Payee != nil && t.Payee.Name != "" {
		return strings.TrimSpace(string(t.Payee.Name))
	}
	if name := strings.TrimSpace(string(t.Name)); name != "" {
		return name
	}
	return strings.TrimSpace(string(t.Memo))
}

// OFX carries no categories; a few transaction types imply one.
func categoryFor(t ofxgo.Transaction) string {
	switch t.TrnType {
	case ofxgo.TrnTypeInt, ofxgo.TrnTypeDiv:
		return "Interest"
	case ofxgo.TrnTypeFee, ofxgo.TrnTypeSrvChg:
		return "Bank Fees"
	case ofxgo.TrnTypeATM, ofxgo.TrnTypeCash:
		return "Cash & ATM"
	default:
		return ""
	}
}

// ImportID derives a stable transaction id so re-importing the same
// statement overwrites instead of duplicating.
func ImportID(account, fitID string) string {
	return fmt.Sprintf("ofx-%s-%s", sanitize(account), sanitize(fitID))
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == ' ' {
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
}
