package insight

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/household-finance/internal/models"
)

const (
	Uncategorized    = "Uncategorized"
	topCategoryLimit = 3
)

// Bucket is one named group of records. Percentage is a fraction of the
// overall total in [0,1].
type Bucket struct {
	Name          string           `json:"name"`
	Amount        decimal.Decimal  `json:"amount"`
	Count         int              `json:"count"`
	Percentage    float64          `json:"percentage"`
	TopCategories []CategoryAmount `json:"topCategories,omitempty"`
}

type CategoryAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// NormalizeCategory trims the name and maps blanks to Uncategorized.
func NormalizeCategory(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return Uncategorized
	}
	return name
}

// ByCategory groups outflow records by normalised category, largest first.
func ByCategory(records []models.Transaction) []Bucket {
	expenses := byDirection(records, models.DirectionOutflow)
	return group(expenses, func(r models.Transaction) string {
		return NormalizeCategory(r.Category)
	})
}

// ByActor groups records of one direction by member. Records without a
// member are left out. Outflow buckets carry the member's top categories.
func ByActor(records []models.Transaction, direction models.Direction) []Bucket {
	subset := make([]models.Transaction, 0, len(records))
	for _, r := range byDirection(records, direction) {
		if actorKey(r) != "" {
			subset = append(subset, r)
		}
	}

	buckets := group(subset, actorKey)
	if direction != models.DirectionOutflow {
		return buckets
	}
	for i := range buckets {
		var mine []models.Transaction
		for _, r := range subset {
			if actorKey(r) == buckets[i].Name {
				mine = append(mine, r)
			}
		}
		buckets[i].TopCategories = topCategories(mine, topCategoryLimit)
	}
	return buckets
}

// Total sums the amounts of records with the given direction.
func Total(records []models.Transaction, direction models.Direction) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if r.Direction == direction {
			total = total.Add(r.Amount)
		}
	}
	return total
}

func group(records []models.Transaction, key func(models.Transaction) string) []Bucket {
	total := decimal.Zero
	index := map[string]int{}
	buckets := []Bucket{}
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, Bucket{Name: k, Amount: decimal.Zero})
		}
		buckets[i].Amount = buckets[i].Amount.Add(r.Amount)
		buckets[i].Count++
		total = total.Add(r.Amount)
	}

	for i := range buckets {
		buckets[i].Percentage = share(buckets[i].Amount, total)
	}
	sort.SliceStable(buckets, func(a, b int) bool {
		return buckets[a].Amount.GreaterThan(buckets[b].Amount)
	})
	return buckets
}

func topCategories(records []models.Transaction, limit int) []CategoryAmount {
	grouped := group(records, func(r models.Transaction) string {
		return NormalizeCategory(r.Category)
	})
	if len(grouped) > limit {
		grouped = grouped[:limit]
	}
	out := make([]CategoryAmount, 0, len(grouped))
	for _, b := range grouped {
		out = append(out, CategoryAmount{Name: b.Name, Amount: b.Amount, Count: b.Count})
	}
	return out
}

func share(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return part.Div(total).InexactFloat64()
}

func byDirection(records []models.Transaction, direction models.Direction) []models.Transaction {
	out := make([]models.Transaction, 0, len(records))
	for _, r := range records {
		if r.Direction == direction {
			out = append(out, r)
		}
	}
	return out
}

func actorKey(r models.Transaction) string {
	if name := strings.TrimSpace(r.Member); name != "" {
		return name
	}
	return strings.TrimSpace(r.MemberID)
}
