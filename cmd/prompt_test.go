package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pders01/git-provenance/internal/git"
	"github.com/pders01/git-provenance/internal/prompts"
)

func resetPromptFlags() {
	promptStoreFile = ""
	promptStoreText = ""
	promptStoreTrace = nil
	promptStoreTests = nil
	promptStoreTool = "claude"
	promptStoreConf = "high"
	promptListFile = ""
	promptListTrace = ""
	promptListJSON = false
	promptListToon = false
}

func TestPromptStoreAndList(t *testing.T) {
	setupCmdRepo(t)

	resetPromptFlags()
	promptStoreText = "Add JWT refresh token rotation"
	promptStoreFile = "auth.py"
	promptStoreTrace = []string{"SPEC-89"}
	promptStoreTests = []string{"TC-210"}

	if err := runPromptStore(nil, []string{}); err != nil {
		t.Fatalf("prompt store failed: %v", err)
	}

	root, err := git.RepoRoot()
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}
	store := prompts.NewStore(root)

	all, err := store.All()
	if err != nil {
		t.Fatalf("list prompts: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 stored prompt, got %d", len(all))
	}
	p := all[0]
	if p.Text != promptStoreText {
		t.Errorf("prompt text = %q", p.Text)
	}
	if len(p.FilesModified) != 1 || p.FilesModified[0] != "auth.py" {
		t.Errorf("files modified = %v", p.FilesModified)
	}
	if !p.HasTrace("SPEC-89") {
		t.Error("prompt should be linked to SPEC-89")
	}

	entries, err := os.ReadDir(filepath.Join(root, ".ai-prov", "prompts"))
	if err != nil {
		t.Fatalf("store directory missing: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 prompt file, got %d", len(entries))
	}

	if err := runPromptList(nil, []string{}); err != nil {
		t.Errorf("prompt list failed: %v", err)
	}

	promptListFile = "auth.py"
	if err := runPromptList(nil, []string{}); err != nil {
		t.Errorf("prompt list --file failed: %v", err)
	}
	promptListFile = ""

	promptListTrace = "SPEC-89"
	promptListJSON = true
	if err := runPromptList(nil, []string{}); err != nil {
		t.Errorf("prompt list --trace --json failed: %v", err)
	}
}

func TestPromptStoreValidation(t *testing.T) {
	setupCmdRepo(t)

	resetPromptFlags()
	if err := runPromptStore(nil, []string{}); err == nil {
		t.Error("expected an error for a missing prompt text")
	}

	promptStoreText = "something"
	promptStoreConf = "certain"
	if err := runPromptStore(nil, []string{}); err == nil {
		t.Error("expected an error for an invalid confidence")
	}
}

func TestPromptListEmptyStore(t *testing.T) {
	setupCmdRepo(t)

	resetPromptFlags()
	if err := runPromptList(nil, []string{}); err != nil {
		t.Errorf("prompt list on an empty store failed: %v", err)
	}
}
