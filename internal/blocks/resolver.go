// Package blocks resolves inline tags into contiguous line-range blocks
// covering every line of a file exactly once.
package blocks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pders01/git-provenance/internal/models"
	"github.com/pders01/git-provenance/internal/tagparse"
)

// ResolutionError reports a violation of the full-coverage, non-overlap
// invariant. Fatal for the file's analysis, never for the whole run.
type ResolutionError struct {
	Path string
	Msg  string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("block resolution failed for %s: %s", e.Path, e.Msg)
}

// fileTagMaxLine: a tag this close to the top of the file (allowing for a
// shebang line) attributes the whole file, not a single hunk.
const fileTagMaxLine = 2

// Resolve analyzes file text and produces a FileRecord whose blocks cover
// every line exactly once.
//
// A tag's extent runs from the tag line to the next tag line minus one, an
// explicit end marker, or end of file, whichever comes first. This is a
// heuristic: without an AST there is no structural guarantee that the
// extent matches the code the author meant to attribute.
func Resolve(path, revision, text string, styles []tagparse.CommentStyle) (*models.FileRecord, error) {
	lines := tagparse.SplitLines(text)
	tags, ends, warnings := tagparse.ScanFile(text, styles)

	record := &models.FileRecord{
		Path:     path,
		Revision: revision,
		Warnings: warnings,
	}

	if len(lines) == 0 {
		return record, nil
	}

	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Line < tags[j].Line })

	var resolved []models.Block
	for i := range tags {
		tag := tags[i]

		end := len(lines)
		if i+1 < len(tags) {
			end = tags[i+1].Line - 1
		}
		if marker, ok := firstEndMarker(ends, tag.Line, end); ok {
			end = marker
		}

		block := models.Block{
			Kind:      models.KindBlock,
			StartLine: tag.Line,
			EndLine:   end,
			IsAI:      true,
			Tag:       &tags[i],
		}
		if tag.Line <= fileTagMaxLine && record.FileTag == nil {
			block.Kind = models.KindModule
			record.FileTag = &tags[i]
		}
		resolved = append(resolved, block)
	}

	record.Blocks = fillGaps(resolved, len(lines))

	for i := range record.Blocks {
		record.Blocks[i].NonBlank = countNonBlank(lines, record.Blocks[i].StartLine, record.Blocks[i].EndLine)
	}

	if err := checkCoverage(record.Blocks, len(lines)); err != nil {
		return nil, &ResolutionError{Path: path, Msg: err.Error()}
	}

	return record, nil
}

// firstEndMarker returns the first end marker line within [start, limit]
func firstEndMarker(ends []int, start, limit int) (int, bool) {
	for _, e := range ends {
		if e >= start && e <= limit {
			return e, true
		}
	}
	return 0, false
}

// fillGaps inserts untagged blocks for every line range no tag governs
func fillGaps(tagged []models.Block, totalLines int) []models.Block {
	var blocks []models.Block
	next := 1

	for _, b := range tagged {
		if b.StartLine > next {
			blocks = append(blocks, models.Block{
				Kind:      models.KindBlock,
				StartLine: next,
				EndLine:   b.StartLine - 1,
			})
		}
		blocks = append(blocks, b)
		next = b.EndLine + 1
	}

	if next <= totalLines {
		blocks = append(blocks, models.Block{
			Kind:      models.KindBlock,
			StartLine: next,
			EndLine:   totalLines,
		})
	}

	return blocks
}

// checkCoverage validates the core invariant: every line covered exactly
// once, no gaps, no overlaps. Should not fail given the construction, but
// a violation must surface rather than corrupt downstream percentages.
func checkCoverage(blocks []models.Block, totalLines int) error {
	next := 1
	for _, b := range blocks {
		if b.StartLine > b.EndLine {
			return fmt.Errorf("inverted range %d-%d", b.StartLine, b.EndLine)
		}
		if b.StartLine != next {
			return fmt.Errorf("expected block at line %d, got %d-%d", next, b.StartLine, b.EndLine)
		}
		next = b.EndLine + 1
	}
	if next != totalLines+1 {
		return fmt.Errorf("coverage ends at line %d of %d", next-1, totalLines)
	}
	return nil
}

func countNonBlank(lines []string, start, end int) int {
	count := 0
	for i := start - 1; i < end && i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			count++
		}
	}
	return count
}
