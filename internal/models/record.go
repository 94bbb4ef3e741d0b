package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// CommitRecord is the immutable per-commit provenance payload stored in
// the notes ledger. At most one record exists per commit; writing a new
// record for the same commit replaces the prior payload.
type CommitRecord struct {
	// CommitID is the ledger key, not part of the note payload.
	CommitID string `json:"-"`

	Tool       Tool       `json:"ai_tool,omitempty"`
	Confidence Confidence `json:"confidence,omitempty"`
	Trace      []string   `json:"trace,omitempty"`
	Tests      []string   `json:"tests,omitempty"`
	ReviewedBy string     `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	Files      []string   `json:"files,omitempty"`
}

// MarshalNote encodes the record as the canonical single-line UTF-8 note
// payload. The encoding must round-trip exactly through UnmarshalNote.
func (r *CommitRecord) MarshalNote() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode commit record: %w", err)
	}
	return data, nil
}

// UnmarshalNote decodes a note payload produced by MarshalNote
func UnmarshalNote(commitID string, data []byte) (*CommitRecord, error) {
	var rec CommitRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode note for %s: %w", commitID, err)
	}
	rec.CommitID = commitID
	return &rec, nil
}

// Reviewed reports whether the record carries review metadata
func (r *CommitRecord) Reviewed() bool {
	return r.ReviewedBy != ""
}

// HasTrace reports whether the record references a given requirement ID
func (r *CommitRecord) HasTrace(id string) bool {
	for _, t := range r.Trace {
		if t == id {
			return true
		}
	}
	return false
}

// ValidateOptions control CommitRecord validation strictness
type ValidateOptions struct {
	RequireReview bool // every AI record must name a reviewer
	RequireTests  bool // records with trace IDs must name test cases
}

// ValidationIssue describes one validation failure with enough identity
// to locate the cause.
type ValidationIssue struct {
	CommitID string `json:"commit_id,omitempty"`
	Path     string `json:"path,omitempty"`
	Line     int    `json:"line,omitempty"`
	Message  string `json:"message"`
}

func (i ValidationIssue) String() string {
	switch {
	case i.Path != "" && i.Line > 0:
		return fmt.Sprintf("%s:%d - %s", i.Path, i.Line, i.Message)
	case i.Path != "":
		return fmt.Sprintf("%s - %s", i.Path, i.Message)
	case i.CommitID != "":
		return fmt.Sprintf("commit %s - %s", shortID(i.CommitID), i.Message)
	}
	return i.Message
}

// Validate checks the record against the given options
func (r *CommitRecord) Validate(opts ValidateOptions) []ValidationIssue {
	var issues []ValidationIssue

	if opts.RequireReview && !r.Reviewed() {
		issues = append(issues, ValidationIssue{
			CommitID: r.CommitID,
			Message:  "AI-assisted commit has no reviewer",
		})
	}

	if opts.RequireTests && len(r.Trace) > 0 && len(r.Tests) == 0 {
		issues = append(issues, ValidationIssue{
			CommitID: r.CommitID,
			Message:  fmt.Sprintf("traces %v but names no test cases", r.Trace),
		})
	}

	return issues
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
