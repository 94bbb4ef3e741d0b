package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitInstallsHook(t *testing.T) {
	repo := setupCmdRepo(t)

	if err := runInit(nil, []string{}); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	hookPath := filepath.Join(repo.Path, ".git", "hooks", "commit-msg")
	info, err := os.Stat(hookPath)
	if err != nil {
		t.Fatalf("commit-msg hook not installed: %v", err)
	}
	if info.Mode()&0100 == 0 {
		t.Error("hook is not executable")
	}

	content, err := os.ReadFile(hookPath)
	if err != nil {
		t.Fatalf("failed to read hook: %v", err)
	}
	if !strings.Contains(string(content), "high|med|low") {
		t.Error("hook does not check the confidence set")
	}
}

func TestInitBacksUpExistingHook(t *testing.T) {
	repo := setupCmdRepo(t)

	hookPath := filepath.Join(repo.Path, ".git", "hooks", "commit-msg")
	if err := os.WriteFile(hookPath, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatalf("failed to plant existing hook: %v", err)
	}

	if err := runInit(nil, []string{}); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	backup, err := os.ReadFile(hookPath + ".backup")
	if err != nil {
		t.Fatalf("existing hook was not backed up: %v", err)
	}
	if !strings.Contains(string(backup), "exit 0") {
		t.Error("backup does not contain the original hook")
	}
}

func TestInitConfiguresRewriteRef(t *testing.T) {
	repo := setupCmdRepo(t)

	if err := runInit(nil, []string{}); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	config, err := os.ReadFile(filepath.Join(repo.Path, ".git", "config"))
	if err != nil {
		t.Fatalf("failed to read git config: %v", err)
	}
	if !strings.Contains(string(config), "refs/notes/ai-provenance") {
		t.Error("notes.rewriteRef not configured")
	}
}
