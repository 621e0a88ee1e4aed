package entity

// QualityVerdict is the pass/fail/score judgment computed over a canonical
// extraction. Created fresh per evaluation; never stored by this service.
type QualityVerdict struct {
	NeedsReview bool            `json:"needs_review"`
	Score       float64         `json:"score"`
	Checks      map[string]bool `json:"checks"`
	Reasons     []string        `json:"reasons"`
}
