package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteRoundTrip(t *testing.T) {
	reviewed := time.Date(2025, 11, 16, 14, 30, 0, 0, time.UTC)
	rec := &CommitRecord{
		CommitID:   "abc123",
		Tool:       ToolClaude,
		Confidence: ConfidenceHigh,
		Trace:      []string{"SPEC-89", "SPEC-90"},
		Tests:      []string{"TC-210"},
		ReviewedBy: "AI+alice@example.com",
		ReviewedAt: &reviewed,
		Files:      []string{"auth.py", "session.py"},
	}

	data, err := rec.MarshalNote()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\n", "note payload must be a single line")
	assert.NotContains(t, string(data), "abc123", "commit id is the key, not payload")

	got, err := UnmarshalNote("abc123", data)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestNoteMinimalPayload(t *testing.T) {
	rec := &CommitRecord{CommitID: "def456", Tool: ToolCopilot, Confidence: ConfidenceLow}

	data, err := rec.MarshalNote()
	require.NoError(t, err)

	// omitempty keeps the ledger payloads small
	assert.NotContains(t, string(data), "trace")
	assert.NotContains(t, string(data), "reviewed_by")

	got, err := UnmarshalNote("def456", data)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestUnmarshalNoteRejectsGarbage(t *testing.T) {
	_, err := UnmarshalNote("abc123", []byte("not json at all"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "abc123")
}

func TestValidateRequireTests(t *testing.T) {
	// a commit that traces a requirement but names no test cases fails
	// under require_tests
	rec := &CommitRecord{
		CommitID:   "abc123",
		Tool:       ToolClaude,
		Confidence: ConfidenceHigh,
		Trace:      []string{"SPEC-001"},
	}

	issues := rec.Validate(ValidateOptions{RequireTests: true})
	require.Len(t, issues, 1)
	assert.Equal(t, "abc123", issues[0].CommitID)
	assert.Contains(t, issues[0].Message, "SPEC-001")

	rec.Tests = []string{"TC-1"}
	assert.Empty(t, rec.Validate(ValidateOptions{RequireTests: true}))
}

func TestValidateRequireReview(t *testing.T) {
	rec := &CommitRecord{CommitID: "abc123", Tool: ToolClaude, Confidence: ConfidenceMed}

	issues := rec.Validate(ValidateOptions{RequireReview: true})
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "no reviewer")

	rec.ReviewedBy = "AI+bob@example.com"
	assert.Empty(t, rec.Validate(ValidateOptions{RequireReview: true}))
}

func TestValidateNoOptionsNoIssues(t *testing.T) {
	rec := &CommitRecord{CommitID: "abc123", Trace: []string{"SPEC-1"}}
	assert.Empty(t, rec.Validate(ValidateOptions{}))
}

func TestValidationIssueString(t *testing.T) {
	assert.Equal(t, "auth.py:7 - bad tag",
		ValidationIssue{Path: "auth.py", Line: 7, Message: "bad tag"}.String())
	assert.Equal(t, "commit deadbeef - no reviewer",
		ValidationIssue{CommitID: "deadbeefcafe0123", Message: "no reviewer"}.String())
}

func TestParseConfidence(t *testing.T) {
	for _, s := range []string{"high", "med", "low"} {
		conf, ok := ParseConfidence(s)
		assert.True(t, ok, s)
		assert.Equal(t, Confidence(s), conf)
	}

	_, ok := ParseConfidence("medium")
	assert.False(t, ok)
	_, ok = ParseConfidence("")
	assert.False(t, ok)
}

func TestParseCommitMessageFull(t *testing.T) {
	raw := strings.Join([]string{
		"[AI:claude:high] feat(auth): add session refresh",
		"",
		"Longer body text here.",
		"",
		"Trace: SPEC-89, SPEC-90",
		"Test: TC-210",
		"Reviewed-by: AI+alice@example.com",
	}, "\n")

	msg := ParseCommitMessage(raw)

	assert.Equal(t, "AI:claude:high", msg.AITag)
	assert.Equal(t, "feat", msg.ConventionalType)
	assert.Equal(t, "auth", msg.Scope)
	assert.Equal(t, "add session refresh", msg.Subject)
	assert.Equal(t, []string{"SPEC-89", "SPEC-90"}, msg.Trace)
	assert.Equal(t, []string{"TC-210"}, msg.Tests)
	assert.Equal(t, "AI+alice@example.com", msg.ReviewedBy)
}

func TestParseCommitMessagePlain(t *testing.T) {
	msg := ParseCommitMessage("fix typo in README")
	assert.Empty(t, msg.AITag)
	assert.Empty(t, msg.Trace)
	assert.Equal(t, "fix typo in README", msg.Subject)
}

func TestBuildCommitMessage(t *testing.T) {
	got := BuildCommitMessage("feat(auth): add session refresh",
		ToolClaude, ConfidenceHigh,
		[]string{"SPEC-89"}, []string{"TC-210"}, "alice@example.com")

	want := strings.Join([]string{
		"[AI:claude:high] feat(auth): add session refresh",
		"Trace: SPEC-89",
		"Test: TC-210",
		"Reviewed-by: AI+alice@example.com",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestBuildCommitMessageDefaultsConfidence(t *testing.T) {
	got := BuildCommitMessage("fix: handle nil", ToolCopilot, "", nil, nil, "")
	assert.Equal(t, "[AI:copilot:med] fix: handle nil", got)
}

func TestBuildParseRoundTrip(t *testing.T) {
	raw := BuildCommitMessage("feat(ledger): wire notes merge",
		ToolCursor, ConfidenceLow,
		[]string{"SPEC-12", "SPEC-13"}, []string{"TC-7"}, "AI+bob@example.com")

	msg := ParseCommitMessage(raw)
	assert.Equal(t, "AI:cursor:low", msg.AITag)
	assert.Equal(t, "wire notes merge", msg.Subject)
	assert.Equal(t, []string{"SPEC-12", "SPEC-13"}, msg.Trace)
	assert.Equal(t, []string{"TC-7"}, msg.Tests)
	assert.Equal(t, "AI+bob@example.com", msg.ReviewedBy)
}

func TestFileRecordAggregates(t *testing.T) {
	rec := &FileRecord{
		Path: "auth.py",
		Blocks: []Block{
			{StartLine: 1, EndLine: 4, NonBlank: 4},
			{StartLine: 5, EndLine: 10, NonBlank: 5, IsAI: true,
				Tag: &Tag{Tool: ToolClaude, Trace: []string{"SPEC-1"}, Tests: []string{"TC-1"}}},
			{StartLine: 11, EndLine: 20, NonBlank: 5, IsAI: true,
				Tag: &Tag{Tool: ToolCopilot, Trace: []string{"SPEC-2", "SPEC-1"}, Tests: []string{"TC-1"}}},
		},
	}

	assert.Equal(t, 14, rec.NonBlankLines())
	assert.Equal(t, 10, rec.AINonBlankLines())

	pct := rec.AIPercentage()
	require.NotNil(t, pct)
	assert.InDelta(t, 100.0*10.0/14.0, *pct, 0.0001)

	assert.Equal(t, []string{"SPEC-1", "SPEC-2"}, rec.TraceIDs())
	assert.Equal(t, []string{"TC-1"}, rec.TestIDs())
}
