package models

import (
	"fmt"
	"strings"
)

// CommitMessage is a commit message parsed according to the provenance
// convention:
//
//	[AI:tool:conf] type(scope): subject
//	Trace: SPEC-123, SPEC-456
//	Test: TC-789
//	Reviewed-by: AI+alice@example.com
type CommitMessage struct {
	Raw              string   `json:"raw"`
	AITag            string   `json:"ai_tag,omitempty"` // e.g. "AI:claude:high"
	ConventionalType string   `json:"conventional_type,omitempty"`
	Scope            string   `json:"scope,omitempty"`
	Subject          string   `json:"subject"`
	Trace            []string `json:"trace,omitempty"`
	Tests            []string `json:"tests,omitempty"`
	ReviewedBy       string   `json:"reviewed_by,omitempty"`
}

// ParseCommitMessage parses a raw commit message into its provenance parts
func ParseCommitMessage(message string) *CommitMessage {
	lines := strings.Split(strings.TrimSpace(message), "\n")
	firstLine := ""
	if len(lines) > 0 {
		firstLine = lines[0]
	}

	msg := &CommitMessage{Raw: message, Subject: firstLine}

	if strings.HasPrefix(firstLine, "[AI:") {
		if end := strings.Index(firstLine, "]"); end > 0 {
			msg.AITag = firstLine[1:end]
			firstLine = strings.TrimSpace(firstLine[end+1:])
			msg.Subject = firstLine
		}
	}

	if idx := strings.Index(firstLine, ":"); idx >= 0 {
		prefix := firstLine[:idx]
		msg.Subject = strings.TrimSpace(firstLine[idx+1:])

		if open := strings.Index(prefix, "("); open >= 0 {
			if close := strings.Index(prefix[open:], ")"); close > 0 {
				msg.ConventionalType = strings.TrimSpace(prefix[:open])
				msg.Scope = strings.TrimSpace(prefix[open+1 : open+close])
			}
		} else {
			msg.ConventionalType = strings.TrimSpace(prefix)
		}
	}

	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Trace:"):
			msg.Trace = splitIDList(line[len("Trace:"):])
		case strings.HasPrefix(line, "Test:"):
			msg.Tests = splitIDList(line[len("Test:"):])
		case strings.HasPrefix(line, "Reviewed-by:"):
			msg.ReviewedBy = strings.TrimSpace(line[len("Reviewed-by:"):])
		}
	}

	return msg
}

// BuildCommitMessage assembles a structured commit message from provenance
// fields. An existing [AI:...] tag in the subject is preserved as-is.
func BuildCommitMessage(subject string, tool Tool, confidence Confidence, trace, tests []string, reviewer string) string {
	var parts []string

	if tool != "" && !strings.HasPrefix(strings.TrimSpace(subject), "[AI:") {
		conf := confidence
		if conf == "" {
			conf = ConfidenceMed
		}
		parts = append(parts, fmt.Sprintf("[AI:%s:%s] %s", tool, conf, subject))
	} else {
		parts = append(parts, subject)
	}

	if len(trace) > 0 {
		parts = append(parts, fmt.Sprintf("Trace: %s", strings.Join(trace, ", ")))
	}
	if len(tests) > 0 {
		parts = append(parts, fmt.Sprintf("Test: %s", strings.Join(tests, ", ")))
	}
	if reviewer != "" {
		if !strings.HasPrefix(reviewer, "AI+") {
			reviewer = "AI+" + reviewer
		}
		parts = append(parts, fmt.Sprintf("Reviewed-by: %s", reviewer))
	}

	return strings.Join(parts, "\n")
}

func splitIDList(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}
