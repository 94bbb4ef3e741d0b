package analysis

import (
	"github.com/pders01/git-provenance/internal/models"
)

// UnreviewedItem identifies one piece of AI-attributed code lacking
// review. Either CommitID or Path+line range is set, enough to act on.
type UnreviewedItem struct {
	CommitID   string            `json:"commit_id,omitempty"`
	Path       string            `json:"path,omitempty"`
	StartLine  int               `json:"start_line,omitempty"`
	EndLine    int               `json:"end_line,omitempty"`
	Tool       models.Tool       `json:"tool,omitempty"`
	Confidence models.Confidence `json:"confidence,omitempty"`
}

// Unreviewed returns every commit record and inline tag that declares a
// confidence level but names no reviewer.
func Unreviewed(commits []*models.CommitRecord, files []*models.FileRecord) []UnreviewedItem {
	var items []UnreviewedItem

	for _, rec := range commits {
		if rec.Confidence != "" && !rec.Reviewed() {
			items = append(items, UnreviewedItem{
				CommitID:   rec.CommitID,
				Tool:       rec.Tool,
				Confidence: rec.Confidence,
			})
		}
	}

	for _, f := range files {
		for i := range f.Blocks {
			b := &f.Blocks[i]
			if b.Tag == nil || b.Tag.Reviewed() {
				continue
			}
			items = append(items, UnreviewedItem{
				Path:       f.Path,
				StartLine:  b.StartLine,
				EndLine:    b.EndLine,
				Tool:       b.Tag.Tool,
				Confidence: b.Tag.Confidence,
			})
		}
	}

	return items
}
