package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pders01/git-provenance/internal/config"
	"github.com/pders01/git-provenance/internal/git"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize provenance tracking in the current repository",
	Long: `Set up the current repository for provenance tracking.

This command:
  - Installs a commit-msg hook that rejects malformed [AI:...] tags
  - Configures notes.rewriteRef so ledger entries follow rebases and amends

Run this once per repository.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if !git.IsGitRepo() {
		return git.ErrNotARepository
	}

	root, err := git.RepoRoot()
	if err != nil {
		return err
	}

	hooksDir := filepath.Join(root, ".git", "hooks")
	if _, err := os.Stat(hooksDir); os.IsNotExist(err) {
		return fmt.Errorf("git hooks directory not found: %s", hooksDir)
	}

	hookContent := `#!/bin/sh
# Reject commit messages with a malformed AI provenance tag.
# Valid:   [AI:<tool>:<high|med|low>] subject
subject=$(head -n1 "$1")

case "$subject" in
  \[AI:*\]*)
    echo "$subject" | grep -qE '^\[AI:[a-z0-9_-]+:(high|med|low)\]' || {
      echo "ERROR: malformed AI tag in commit subject: $subject"
      echo "Expected: [AI:<tool>:<high|med|low>] <subject>"
      exit 1
    }
    ;;
  \[AI:*)
    echo "ERROR: unterminated AI tag in commit subject: $subject"
    exit 1
    ;;
esac

exit 0
`

	hookPath := filepath.Join(hooksDir, "commit-msg")

	if _, err := os.Stat(hookPath); err == nil {
		fmt.Printf("Warning: commit-msg hook already exists at %s\n", hookPath)
		fmt.Println("Backing up to commit-msg.backup")
		if err := os.Rename(hookPath, hookPath+".backup"); err != nil {
			return fmt.Errorf("failed to back up existing hook: %w", err)
		}
	}

	if err := os.WriteFile(hookPath, []byte(hookContent), 0755); err != nil {
		return fmt.Errorf("failed to install commit-msg hook: %w", err)
	}

	// Keep notes attached to rewritten commits (rebase, amend)
	ref := "refs/notes/" + config.Namespace()
	if err := git.SetConfig("notes.rewriteRef", ref); err != nil {
		return err
	}

	fmt.Println("Provenance tracking initialized")
	fmt.Printf("  Ledger namespace: %s\n", config.Namespace())
	fmt.Printf("  Hook installed:   %s\n", hookPath)
	return nil
}
