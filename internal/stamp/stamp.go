// Package stamp writes inline provenance tags into source files.
package stamp

import (
	"fmt"
	"os"
	"strings"

	"github.com/pders01/git-provenance/internal/models"
	"github.com/pders01/git-provenance/internal/tagparse"
)

// Position controls where a new tag is inserted
type Position string

const (
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
)

// File stamps a tag into the file at path, using the comment style
// registered for the file's extension. If the file already carries a tag
// for the same tool, that line is replaced in place. Insertion at the top
// skips a shebang and an encoding declaration.
func File(path string, tag *models.Tag, position Position) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	style := tagparse.PrimaryStyle(path)
	styles := tagparse.StylesFor(path)
	comment := tagparse.FormatComment(tag, style)

	content := string(data)
	trailingNewline := strings.HasSuffix(content, "\n")
	lines := tagparse.SplitLines(content)

	if replaced := replaceExisting(lines, tag.Tool, styles, comment); replaced {
		return write(path, lines, trailingNewline)
	}

	switch position {
	case PositionBottom:
		lines = append(lines, "", comment)
	default:
		lines = insertAtTop(lines, comment)
	}

	return write(path, lines, trailingNewline || len(data) == 0)
}

// replaceExisting swaps the first tag line for the same tool in place
func replaceExisting(lines []string, tool models.Tool, styles []tagparse.CommentStyle, comment string) bool {
	for i, line := range lines {
		existing, err := tagparse.ParseLine(line, i+1, styles)
		if err != nil || existing == nil {
			continue
		}
		if existing.Tool == tool {
			lines[i] = comment
			return true
		}
	}
	return false
}

func insertAtTop(lines []string, comment string) []string {
	pos := 0
	if len(lines) > 0 && strings.HasPrefix(lines[0], "#!") {
		pos = 1
	}
	if pos < len(lines) && (strings.Contains(lines[pos], "coding:") || strings.Contains(lines[pos], "encoding:")) {
		pos++
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:pos]...)
	out = append(out, comment)
	out = append(out, lines[pos:]...)
	return out
}

func write(path string, lines []string, trailingNewline bool) error {
	content := strings.Join(lines, "\n")
	if trailingNewline {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
