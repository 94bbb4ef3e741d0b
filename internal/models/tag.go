package models

// Tool identifies the AI tool that produced a piece of code
type Tool string

const (
	ToolClaude  Tool = "claude"
	ToolCopilot Tool = "copilot"
	ToolChatGPT Tool = "chatgpt"
	ToolGemini  Tool = "gemini"
	ToolCursor  Tool = "cursor"
	ToolOther   Tool = "other"
)

// KnownTools lists the recognized AI tool identifiers
var KnownTools = []Tool{ToolClaude, ToolCopilot, ToolChatGPT, ToolGemini, ToolCursor, ToolOther}

// IsKnown reports whether the tool is one of the recognized identifiers.
// Unknown tools are still accepted (the set is extensible); callers that
// want strict validation check this explicitly.
func (t Tool) IsKnown() bool {
	for _, known := range KnownTools {
		if t == known {
			return true
		}
	}
	return false
}

// Confidence is the human-estimated share of AI authorship
type Confidence string

const (
	ConfidenceHigh Confidence = "high" // copy-pasted with minor edits
	ConfidenceMed  Confidence = "med"  // significant modifications
	ConfidenceLow  Confidence = "low"  // AI-assisted but mostly human-written
)

// ParseConfidence validates a confidence level. Unknown values are an
// error, never a silent default.
func ParseConfidence(s string) (Confidence, bool) {
	switch Confidence(s) {
	case ConfidenceHigh, ConfidenceMed, ConfidenceLow:
		return Confidence(s), true
	}
	return "", false
}

// Tag is one parsed inline provenance annotation.
//
// The text form is the bit-exact compatibility surface:
//
//	ai:claude:high | trace:SPEC-89 | test:TC-210 | reviewed:2025-11-16:alice
type Tag struct {
	Tool       Tool     `json:"tool"`
	Confidence Confidence `json:"confidence"`
	Trace      []string `json:"trace,omitempty"`
	Tests      []string `json:"tests,omitempty"`
	Reviewer   string   `json:"reviewer,omitempty"`
	ReviewedAt string   `json:"reviewed_at,omitempty"` // YYYY-MM-DD

	// Line is the 1-indexed line the tag was found on. Zero for tags
	// constructed programmatically; not part of the text encoding.
	Line int `json:"line,omitempty"`
}

// Reviewed reports whether the tag carries review metadata
func (t *Tag) Reviewed() bool {
	return t.Reviewer != ""
}
