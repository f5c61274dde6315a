package plaidclient

import (
	"testing"
	"time"

	"github.com/plaid/plaid-go/v24/plaid"
	"github.com/stretchr/testify/assert"

	"github.com/GregMSThompson/household-finance/internal/models"
)

func TestCategoryName(t *testing.T) {
	assert.Equal(t, "Food", CategoryName("FOOD_AND_DRINK"))
	assert.Equal(t, "Salary", CategoryName(" income "))
	assert.Equal(t, "Other Things", CategoryName("OTHER_THINGS"))
	assert.Equal(t, "", CategoryName(""))
}

func TestConvertDirection(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	var out plaid.Transaction
	out.SetTransactionId("abc")
	out.SetAmount(12.5)
	out.SetDate("2024-03-02")
	out.SetName("COFFEE")

	got := convert("bank-1", out, now)
	assert.Equal(t, "plaid-abc", got.ID)
	assert.Equal(t, models.DirectionOutflow, got.Direction)
	assert.Equal(t, "12.5", got.Amount.String())
	assert.Equal(t, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), got.Date)
	assert.Equal(t, "COFFEE", got.Description)
	assert.Equal(t, models.SourcePlaid, got.Source)

	var in plaid.Transaction
	in.SetTransactionId("def")
	in.SetAmount(-2000)
	in.SetDate("bad")

	got = convert("bank-1", in, now)
	assert.Equal(t, models.DirectionInflow, got.Direction)
	assert.Equal(t, "2000", got.Amount.String())
	assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), got.Date)
}
