// Package tagparse recognizes inline provenance tags in arbitrary source
// text, independent of comment syntax.
//
// Grammar (pipe-delimited, order-independent after the leading field):
//
//	<comment-prefix> ai:<tool>:<confidence> [| trace:<id>[,<id>...]] [| test:<id>[,<id>...]] [| reviewed:<date>:<reviewer>]
//
// Matching is line-anchored and comment-prefix-aware. A tag inside a
// string literal that happens to start with a comment prefix is a known
// false positive; without an AST there is no way to tell them apart.
package tagparse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pders01/git-provenance/internal/models"
)

// EndMarker is the optional explicit end-of-AI-block comment body
const EndMarker = "ai:end"

// MalformedTagError reports an inline tag with bad mandatory fields.
// Localized to one line; processing of the rest of the file continues.
type MalformedTagError struct {
	Line   int
	Raw    string
	Reason string
}

func (e *MalformedTagError) Error() string {
	return fmt.Sprintf("malformed tag at line %d: %s (%q)", e.Line, e.Reason, e.Raw)
}

// ParseLine parses one line of text against the given comment styles.
// Returns (nil, nil) for lines that carry no tag, including end markers.
func ParseLine(line string, lineNum int, styles []CommentStyle) (*models.Tag, error) {
	body, ok := commentBody(line, styles)
	if !ok || !strings.HasPrefix(body, "ai:") {
		return nil, nil
	}
	if body == EndMarker {
		return nil, nil
	}

	parts := strings.Split(body, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	tag := &models.Tag{Line: lineNum}

	// The leading ai:<tool>:<confidence> field is mandatory and positional
	fields := strings.Split(parts[0], ":")
	if len(fields) < 3 || fields[1] == "" || fields[2] == "" {
		return nil, &MalformedTagError{
			Line:   lineNum,
			Raw:    line,
			Reason: "tag must start with ai:<tool>:<confidence>",
		}
	}
	tag.Tool = models.Tool(fields[1])
	conf, ok := models.ParseConfidence(fields[2])
	if !ok {
		return nil, &MalformedTagError{
			Line:   lineNum,
			Raw:    line,
			Reason: fmt.Sprintf("unknown confidence %q (want high, med or low)", fields[2]),
		}
	}
	tag.Confidence = conf

	for _, part := range parts[1:] {
		idx := strings.Index(part, ":")
		if idx < 0 {
			// not a key:value field, ignored for forward compatibility
			continue
		}
		key := strings.TrimSpace(part[:idx])
		value := strings.TrimSpace(part[idx+1:])

		switch key {
		case "trace":
			tag.Trace = splitIDs(value)
		case "test":
			tag.Tests = splitIDs(value)
		case "reviewed":
			// reviewed:<date>:<reviewer>
			if colon := strings.Index(value, ":"); colon >= 0 {
				tag.ReviewedAt = value[:colon]
				tag.Reviewer = value[colon+1:]
			} else {
				tag.ReviewedAt = value
			}
		default:
			// unknown keys are ignored, not errors
		}
	}

	return tag, nil
}

// IsEndMarker reports whether a line is an explicit end-of-block comment
func IsEndMarker(line string, styles []CommentStyle) bool {
	body, ok := commentBody(line, styles)
	return ok && body == EndMarker
}

// ScanFile parses every line of text, collecting tags, end marker line
// numbers and malformed-tag warnings. Warnings never abort the scan.
func ScanFile(text string, styles []CommentStyle) (tags []models.Tag, ends []int, warnings []models.ParseWarning) {
	for i, line := range SplitLines(text) {
		lineNum := i + 1
		if IsEndMarker(line, styles) {
			ends = append(ends, lineNum)
			continue
		}
		tag, err := ParseLine(line, lineNum, styles)
		if err != nil {
			var malformed *MalformedTagError
			if errors.As(err, &malformed) {
				warnings = append(warnings, models.ParseWarning{
					Line:   malformed.Line,
					Raw:    malformed.Raw,
					Reason: malformed.Reason,
				})
			}
			continue
		}
		if tag != nil {
			tags = append(tags, *tag)
		}
	}
	return tags, ends, warnings
}

// Format renders a tag in its canonical text form (without the comment
// prefix). parse(Format(tag)) yields an equal tag.
func Format(tag *models.Tag) string {
	parts := []string{fmt.Sprintf("ai:%s:%s", tag.Tool, tag.Confidence)}

	if len(tag.Trace) > 0 {
		parts = append(parts, "trace:"+strings.Join(tag.Trace, ","))
	}
	if len(tag.Tests) > 0 {
		parts = append(parts, "test:"+strings.Join(tag.Tests, ","))
	}
	if tag.Reviewer != "" || tag.ReviewedAt != "" {
		parts = append(parts, fmt.Sprintf("reviewed:%s:%s", tag.ReviewedAt, tag.Reviewer))
	}

	return strings.Join(parts, " | ")
}

// FormatComment renders a tag as a full comment line in the given style
func FormatComment(tag *models.Tag, style CommentStyle) string {
	body := Format(tag)
	if style.Suffix != "" {
		return fmt.Sprintf("%s %s %s", style.Prefix, body, style.Suffix)
	}
	return fmt.Sprintf("%s %s", style.Prefix, body)
}

// commentBody strips the comment prefix (and closing suffix, if the style
// has one) and returns the trimmed comment text.
func commentBody(line string, styles []CommentStyle) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, style := range styles {
		if !strings.HasPrefix(trimmed, style.Prefix) {
			continue
		}
		body := strings.TrimSpace(trimmed[len(style.Prefix):])
		if style.Suffix != "" {
			body = strings.TrimSpace(strings.TrimSuffix(body, style.Suffix))
		}
		return body, true
	}
	return "", false
}

// SplitLines splits text into lines, dropping the phantom element after a
// trailing newline. An empty text has zero lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func splitIDs(value string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, id := range strings.Split(value, ",") {
		id = strings.TrimSpace(id)
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
