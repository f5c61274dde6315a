package insight

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/GregMSThompson/household-finance/internal/models"
)

// Filter returns the records dated inside w. A non-empty actor further keeps
// only records whose member name or member ID matches it case-insensitively.
// The input slice is not modified.
func Filter(records []models.Transaction, w Window, actor string) []models.Transaction {
	match := actorMatcher(actor)
	out := make([]models.Transaction, 0, len(records))
	for _, r := range records {
		if !w.Contains(r.Date) {
			continue
		}
		if match != nil && !match(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterActor applies only the actor part of Filter.
func FilterActor(records []models.Transaction, actor string) []models.Transaction {
	match := actorMatcher(actor)
	if match == nil {
		return append([]models.Transaction(nil), records...)
	}
	out := make([]models.Transaction, 0, len(records))
	for _, r := range records {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

func actorMatcher(actor string) func(models.Transaction) bool {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return nil
	}
	// a Caser keeps state, so each call gets its own
	fold := cases.Fold()
	want := fold.String(actor)
	return func(r models.Transaction) bool {
		return fold.String(r.Member) == want || (r.MemberID != "" && fold.String(r.MemberID) == want)
	}
}
