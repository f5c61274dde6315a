package ofx

import (
	"strings"
	"testing"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
	"github.com/GregMSThompson/household-finance/pkg/helpers"
)

const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>2500.00
<FITID>2024012001
<NAME>ACME PAYROLL
</STMTTRN>
<STMTTRN>
<TRNTYPE>FEE
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-5.00
<FITID>2024012501
<NAME>MONTHLY FEE
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestParseBankStatement(t *testing.T) {
	txs, err := Parse(helpers.TestCtx(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, txs, 3)

	coffee := txs[0]
	assert.Equal(t, "STARBUCKS STORE #1234", coffee.Description)
	assert.Equal(t, models.DirectionOutflow, coffee.Direction)
	assert.True(t, coffee.Amount.Equal(decimal.RequireFromString("25.50")))
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), coffee.Date)
	assert.Equal(t, "2024011501", coffee.ExternalID)
	assert.Equal(t, "ofx-1234567890-2024011501", coffee.ID)
	assert.Equal(t, "1234567890", coffee.BankID)
	assert.Equal(t, models.SourceOFX, coffee.Source)
	assert.Empty(t, coffee.Category)

	pay := txs[1]
	assert.Equal(t, models.DirectionInflow, pay.Direction)
	assert.True(t, pay.Amount.Equal(decimal.NewFromInt(2500)))

	assert.Equal(t, "Bank Fees", txs[2].Category)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse(helpers.TestCtx(), strings.NewReader("not an ofx file"))
	var ve *errs.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestPreprocess(t *testing.T) {
	got := preprocess("\n\n<SEVERITY>Warn</SEVERITY>\n<BANKTRANLIST\n")
	assert.Equal(t, "<SEVERITY>WARN</SEVERITY>\n<BANKTRANLIST>\n", got)
}

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		name string
		tx   ofxgo.Transaction
		want string
	}{
		{"interest", ofxgo.Transaction{TrnType: ofxgo.TrnTypeInt}, "Interest"},
		{"dividend", ofxgo.Transaction{TrnType: ofxgo.TrnTypeDiv}, "Interest"},
		{"service charge", ofxgo.Transaction{TrnType: ofxgo.TrnTypeSrvChg}, "Bank Fees"},
		{"atm", ofxgo.Transaction{TrnType: ofxgo.TrnTypeATM}, "Cash & ATM"},
		{"debit", ofxgo.Transaction{TrnType: ofxgo.TrnTypeDebit}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, categoryFor(tt.tx))
		})
	}
}

func TestImportID(t *testing.T) {
	assert.Equal(t, "ofx-12_34-a_b", ImportID("12 34", "a/b"))
}
