package models

// RecurringDates holds the matched anchor dates of a recurring series,
// formatted as ISO dates. A nil entry means the series was absent at that
// anchor.
type RecurringDates struct {
	LastMonth      *string `json:"last_month"`
	TwoMonthsAgo   *string `json:"two_months_ago"`
	ThreeMonthsAgo *string `json:"three_months_ago"`
}

// Finding is one detected recurring series.
type Finding struct {
	Key         string         `json:"key"`
	Pattern     string         `json:"pattern"`
	Description *string        `json:"description"`
	Payer       *string        `json:"payer"`
	Amount      *string        `json:"amount"`
	Currency    *string        `json:"currency"`
	Dates       RecurringDates `json:"dates"`
}

// Report is the full result of one recurrence classification. Reason is
// set when the input was unusable (missing file, empty file, no timestamp
// column) and the report degraded to zero findings.
type Report struct {
	Count  int       `json:"count"`
	Items  []Finding `json:"items"`
	Reason string    `json:"reason,omitempty"`
}
