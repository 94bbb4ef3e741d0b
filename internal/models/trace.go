package models

// ReviewStatus summarizes the review state of a TraceEntry
type ReviewStatus string

const (
	StatusNoTests     ReviewStatus = "no-tests"
	StatusNeedsReview ReviewStatus = "needs-review"
	StatusReviewed    ReviewStatus = "reviewed"
	StatusComplete    ReviewStatus = "complete"
)

// TraceEntry is one row of the traceability matrix: a requirement ID
// joined to the commits, files and tests that reference it. Derived,
// never stored.
type TraceEntry struct {
	RequirementID string       `json:"requirement_id"`
	Title         string       `json:"title"`
	Status        string       `json:"status,omitempty"` // from the requirements collaborator
	Commits       []string     `json:"commits"`
	Files         []string     `json:"files"`
	Tests         []string     `json:"tests"`
	AIPercentage  float64      `json:"ai_percentage"` // full precision; round only for display
	ReviewStatus  ReviewStatus `json:"review_status"`

	// Unknown marks requirement IDs referenced by code but absent from
	// the requirements collaborator. Such rows are flagged, never dropped.
	Unknown bool `json:"unknown,omitempty"`
}
