package insight

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/household-finance/internal/models"
)

func TestByCategoryMarchScenario(t *testing.T) {
	records := []models.Transaction{
		expense("1", "Alex", "Food", 50, "2024-03-05"),
		expense("2", "Alex", "Food", 30, "2024-03-10"),
		expense("3", "Alex", "Rent", 1000, "2024-03-01"),
	}

	got := ByCategory(records)
	require.Len(t, got, 2)

	assert.Equal(t, "Rent", got[0].Name)
	assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 1, got[0].Count)
	assert.InDelta(t, 0.926, got[0].Percentage, 0.0005)

	assert.Equal(t, "Food", got[1].Name)
	assert.True(t, got[1].Amount.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, 2, got[1].Count)
	assert.InDelta(t, 0.074, got[1].Percentage, 0.0005)
}

func TestByCategoryPercentagesSumToOne(t *testing.T) {
	records := []models.Transaction{
		expense("1", "Alex", "Food", 17, "2024-03-05"),
		expense("2", "Alex", "Fuel", 23, "2024-03-06"),
		expense("3", "Alex", "Fun", 61, "2024-03-07"),
		expense("4", "Alex", "", 3, "2024-03-08"),
		income("5", "Alex", 500, "2024-03-09"),
	}

	sum := 0.0
	for _, b := range ByCategory(records) {
		sum += b.Percentage
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestByCategoryNormalisesAndSkipsIncome(t *testing.T) {
	records := []models.Transaction{
		expense("1", "Alex", "  ", 5, "2024-03-05"),
		expense("2", "Alex", "", 5, "2024-03-05"),
		expense("3", "Alex", " Food ", 5, "2024-03-05"),
		income("4", "Alex", 999, "2024-03-05"),
	}

	got := ByCategory(records)
	require.Len(t, got, 2)
	assert.Equal(t, Uncategorized, got[0].Name)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, "Food", got[1].Name)
}

func TestByCategoryStableTies(t *testing.T) {
	records := []models.Transaction{
		expense("1", "Alex", "Books", 10, "2024-03-05"),
		expense("2", "Alex", "Apps", 10, "2024-03-05"),
		expense("3", "Alex", "Cafe", 10, "2024-03-05"),
	}
	got := ByCategory(records)
	assert.Equal(t, "Books", got[0].Name)
	assert.Equal(t, "Apps", got[1].Name)
	assert.Equal(t, "Cafe", got[2].Name)
}

func TestZeroTotalGuard(t *testing.T) {
	records := []models.Transaction{
		expense("1", "Alex", "Food", 0, "2024-03-05"),
		expense("2", "Blake", "Fuel", 0, "2024-03-05"),
	}
	for _, b := range ByCategory(records) {
		assert.Zero(t, b.Percentage)
	}
	for _, b := range ByActor(records, models.DirectionOutflow) {
		assert.Zero(t, b.Percentage)
	}
	assert.Empty(t, ByCategory(nil))
}

func TestByActor(t *testing.T) {
	records := []models.Transaction{
		expense("1", "Alex", "Food", 10, "2024-03-05"),
		expense("2", "Alex", "Fuel", 40, "2024-03-05"),
		expense("3", "Alex", "Fun", 5, "2024-03-05"),
		expense("4", "Alex", "Gifts", 1, "2024-03-05"),
		expense("5", "Blake", "Food", 100, "2024-03-05"),
		{ID: "6", Amount: decimal.NewFromInt(70), Direction: models.DirectionOutflow, Date: date("2024-03-05")},
		income("7", "Blake", 300, "2024-03-05"),
	}

	got := ByActor(records, models.DirectionOutflow)
	require.Len(t, got, 2)
	assert.Equal(t, "Blake", got[0].Name)
	assert.Equal(t, "Alex", got[1].Name)
	assert.InDelta(t, 100.0/156.0, got[0].Percentage, 1e-9)

	require.Len(t, got[1].TopCategories, 3)
	assert.Equal(t, "Fuel", got[1].TopCategories[0].Name)
	assert.Equal(t, "Food", got[1].TopCategories[1].Name)
	assert.Equal(t, "Fun", got[1].TopCategories[2].Name)

	incomes := ByActor(records, models.DirectionInflow)
	require.Len(t, incomes, 1)
	assert.Equal(t, "Blake", incomes[0].Name)
	assert.Nil(t, incomes[0].TopCategories)
	assert.InDelta(t, 1.0, incomes[0].Percentage, 1e-9)
}

func TestCompare(t *testing.T) {
	d := decimal.NewFromInt
	assert.Equal(t, TrendDown, Compare(d(450), d(500)))
	assert.Equal(t, TrendUp, Compare(d(500), d(450)))
	assert.Equal(t, TrendUnchanged, Compare(d(500), decimal.RequireFromString("500.00")))

	for _, pair := range [][2]int64{{1, 2}, {7, 3}, {0, 9}} {
		a, b := d(pair[0]), d(pair[1])
		assert.Equal(t, TrendUp, Compare(b.Add(a), a), "adding to a total must trend up")
		if Compare(a, b) == TrendUp {
			assert.Equal(t, TrendDown, Compare(b, a))
		} else {
			assert.Equal(t, TrendUp, Compare(b, a))
		}
	}
}
