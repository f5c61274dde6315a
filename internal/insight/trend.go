package insight

import "github.com/shopspring/decimal"

type Trend string

const (
	TrendUp        Trend = "up"
	TrendDown      Trend = "down"
	TrendUnchanged Trend = "unchanged"
)

// Compare classifies current against previous.
func Compare(current, previous decimal.Decimal) Trend {
	switch current.Cmp(previous) {
	case 0:
		return TrendUnchanged
	case 1:
		return TrendUp
	default:
		return TrendDown
	}
}
