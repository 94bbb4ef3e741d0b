package cmd

import (
	"strings"
	"testing"
)

func TestValidateCleanRepo(t *testing.T) {
	repo := setupCmdRepo(t)
	repo.CreateFile("plain.py", "a = 1\n")
	repo.Commit("no provenance anywhere")

	validateRequireReview = false
	validateRequireTests = false
	validateRev = ""

	if err := runValidate(nil, []string{}); err != nil {
		t.Fatalf("validate failed on a clean repo: %v", err)
	}
}

func TestValidateRequireTestsFails(t *testing.T) {
	repo := setupCmdRepo(t)
	sha := repo.Head()

	// traces a requirement but names no test cases
	noteSetTool = "claude"
	noteSetConf = "high"
	noteSetTrace = []string{"SPEC-001"}
	noteSetTests = nil
	noteSetReviewer = ""
	if err := runNote(nil, []string{sha}); err != nil {
		t.Fatalf("note set failed: %v", err)
	}
	noteSetTool = ""

	validateRequireReview = false
	validateRequireTests = true
	validateRev = ""

	err := runValidate(nil, []string{})
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	if !strings.Contains(err.Error(), "1 finding") {
		t.Errorf("unexpected error: %v", err)
	}
	validateRequireTests = false
}

func TestValidateMalformedInlineTag(t *testing.T) {
	repo := setupCmdRepo(t)
	repo.CreateFile("auth.py", "x = 1\n# ai:claude:perhaps\ny = 2\n")
	repo.Commit("add malformed tag")

	validateRequireReview = false
	validateRequireTests = false
	validateRev = ""

	if err := runValidate(nil, []string{}); err == nil {
		t.Error("expected validation to flag the malformed tag")
	}
}

func TestValidateRequireReviewFails(t *testing.T) {
	repo := setupCmdRepo(t)
	repo.CreateFile("auth.py", "# ai:claude:high\nx = 1\n")
	repo.Commit("unreviewed AI code")

	validateRequireReview = true
	validateRequireTests = false
	validateRev = ""

	if err := runValidate(nil, []string{}); err == nil {
		t.Error("expected validation to flag the unreviewed tag")
	}
	validateRequireReview = false
}
