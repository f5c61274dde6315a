package dto

// InsightRequest selects the period and actor a report covers. An empty
// Date means today.
type InsightRequest struct {
	PeriodType string `json:"periodType"`
	Date       string `json:"date,omitempty"` // YYYY-MM-DD
	Actor      string `json:"actor,omitempty"`
}
