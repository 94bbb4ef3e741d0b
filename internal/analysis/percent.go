// Package analysis aggregates block, file and commit records into
// percentages, unreviewed-code lists and traceability matrices. Every
// query is a pure function over already-loaded records; the package
// performs no repository I/O.
package analysis

import (
	"sort"

	"github.com/pders01/git-provenance/internal/models"
)

// FileShare is the per-file AI percentage breakdown
type FileShare struct {
	Path       string   `json:"path"`
	TotalLines int      `json:"total_lines"` // non-blank
	AILines    int      `json:"ai_lines"`    // non-blank, inside AI blocks
	Percent    *float64 `json:"percent"`     // nil when the file has no countable lines
}

// Summary is the repository-wide AI percentage with per-file breakdown
type Summary struct {
	TotalLines int         `json:"total_lines"`
	AILines    int         `json:"ai_lines"`
	Percent    *float64    `json:"percent"` // nil when nothing is countable
	PerFile    []FileShare `json:"per_file,omitempty"`
}

// AIPercentage computes AI-tagged non-blank lines over total non-blank
// lines across the given files. Percentages are kept at full precision;
// rounding happens only at display time.
func AIPercentage(files []*models.FileRecord) Summary {
	var summary Summary

	for _, f := range files {
		share := FileShare{
			Path:       f.Path,
			TotalLines: f.NonBlankLines(),
			AILines:    f.AINonBlankLines(),
			Percent:    f.AIPercentage(),
		}
		summary.TotalLines += share.TotalLines
		summary.AILines += share.AILines
		summary.PerFile = append(summary.PerFile, share)
	}

	if summary.TotalLines > 0 {
		pct := float64(summary.AILines) / float64(summary.TotalLines) * 100
		summary.Percent = &pct
	}

	// descending by percentage; files with undefined percentage sink
	sort.SliceStable(summary.PerFile, func(i, j int) bool {
		pi, pj := summary.PerFile[i].Percent, summary.PerFile[j].Percent
		switch {
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return *pi > *pj
		}
	})

	return summary
}

// RoundPercent rounds a percentage for display. Nil (undefined) stays nil.
func RoundPercent(p *float64) *int {
	if p == nil {
		return nil
	}
	r := int(*p + 0.5)
	return &r
}
