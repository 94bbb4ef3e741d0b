package analysis

import (
	"fmt"

	"github.com/pders01/git-provenance/internal/models"
)

// Validate checks commit records and file records against the given
// strictness options. Findings are collected across the whole input; one
// bad record never hides the rest.
func Validate(commits []*models.CommitRecord, files []*models.FileRecord, opts models.ValidateOptions) []models.ValidationIssue {
	var issues []models.ValidationIssue

	for _, rec := range commits {
		issues = append(issues, rec.Validate(opts)...)
	}

	for _, f := range files {
		for _, w := range f.Warnings {
			issues = append(issues, models.ValidationIssue{
				Path:    f.Path,
				Line:    w.Line,
				Message: fmt.Sprintf("malformed tag: %s", w.Reason),
			})
		}

		for i := range f.Blocks {
			tag := f.Blocks[i].Tag
			if tag == nil {
				continue
			}
			if opts.RequireReview && !tag.Reviewed() {
				issues = append(issues, models.ValidationIssue{
					Path:    f.Path,
					Line:    tag.Line,
					Message: "AI-tagged code has no reviewer",
				})
			}
			if opts.RequireTests && len(tag.Trace) > 0 && len(tag.Tests) == 0 {
				issues = append(issues, models.ValidationIssue{
					Path:    f.Path,
					Line:    tag.Line,
					Message: fmt.Sprintf("traces %v but names no test cases", tag.Trace),
				})
			}
		}
	}

	return issues
}
