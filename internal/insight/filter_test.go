package insight

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/GregMSThompson/household-finance/internal/models"
)

func expense(id, member, category string, amount int64, day string) models.Transaction {
	return models.Transaction{
		ID:        id,
		MemberID:  "id-" + member,
		Member:    member,
		Category:  category,
		Amount:    decimal.NewFromInt(amount),
		Direction: models.DirectionOutflow,
		Date:      date(day),
	}
}

func income(id, member string, amount int64, day string) models.Transaction {
	tx := expense(id, member, "Salary", amount, day)
	tx.Direction = models.DirectionInflow
	return tx
}

func TestFilterWindowBounds(t *testing.T) {
	w := Window{Start: date("2024-03-01"), End: date("2024-04-01")}
	records := []models.Transaction{
		expense("1", "Alex", "Food", 1, "2024-02-29"),
		expense("2", "Alex", "Food", 1, "2024-03-01"),
		expense("3", "Alex", "Food", 1, "2024-03-31"),
		expense("4", "Alex", "Food", 1, "2024-04-01"),
	}

	got := Filter(records, w, "")
	assert.Equal(t, []string{"2", "3"}, ids(got))
	assert.Len(t, records, 4)
}

func TestFilterActorCaseInsensitive(t *testing.T) {
	w := Window{Start: date("2024-03-01"), End: date("2024-04-01")}
	records := []models.Transaction{
		expense("1", "Alex", "Food", 10, "2024-03-02"),
		expense("2", "Blake", "Food", 20, "2024-03-03"),
		expense("3", "Alex", "Fuel", 30, "2024-03-04"),
	}

	assert.Equal(t, []string{"1", "3"}, ids(Filter(records, w, "alex")))
	assert.Equal(t, []string{"2"}, ids(Filter(records, w, "ID-BLAKE")))
	assert.Empty(t, Filter(records, w, "casey"))
}

func TestFilterActorOnly(t *testing.T) {
	records := []models.Transaction{
		expense("1", "Alex", "Food", 10, "2020-01-01"),
		expense("2", "Blake", "Food", 20, "2030-01-01"),
	}
	assert.Equal(t, []string{"2"}, ids(FilterActor(records, "BLAKE")))
	assert.Len(t, FilterActor(records, " "), 2)
}

func ids(records []models.Transaction) []string {
	out := []string{}
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}
