package cmd

import (
	"fmt"
	"time"

	"github.com/pders01/git-provenance/internal/config"
	"github.com/pders01/git-provenance/internal/git"
	"github.com/pders01/git-provenance/internal/models"
	"github.com/pders01/git-provenance/internal/notes"
	"github.com/spf13/cobra"
)

var (
	commitMessage    string
	commitTool       string
	commitConfidence string
	commitTrace      []string
	commitTests      []string
	commitReviewer   string
	commitStageAll   bool
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Create a commit with a provenance ledger entry",
	Long: `Commit staged changes with a structured provenance message and write
the matching CommitRecord into the notes ledger.

The commit message follows the convention:

  [AI:tool:conf] subject
  Trace: SPEC-123, SPEC-456
  Test: TC-789
  Reviewed-by: AI+alice@example.com

Examples:
  git-provenance commit -m "add token refresh" --tool claude --confidence high --trace SPEC-89 --test TC-210
  git-provenance commit -m "fix rate limiter" --tool copilot --confidence med -a`,
	RunE: runCommit,
}

func init() {
	rootCmd.AddCommand(commitCmd)

	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "commit subject")
	commitCmd.Flags().StringVar(&commitTool, "tool", "", "AI tool identifier")
	commitCmd.Flags().StringVar(&commitConfidence, "confidence", "", "confidence level: high, med or low")
	commitCmd.Flags().StringSliceVar(&commitTrace, "trace", nil, "requirement IDs")
	commitCmd.Flags().StringSliceVar(&commitTests, "test", nil, "test case IDs")
	commitCmd.Flags().StringVar(&commitReviewer, "reviewer", "", "reviewer identity")
	commitCmd.Flags().BoolVarP(&commitStageAll, "all", "a", false, "stage modified tracked files before committing")

	commitCmd.MarkFlagRequired("message")
}

func runCommit(cmd *cobra.Command, args []string) error {
	if !git.IsGitRepo() {
		return git.ErrNotARepository
	}

	var confidence models.Confidence
	if commitConfidence != "" {
		var ok bool
		confidence, ok = models.ParseConfidence(commitConfidence)
		if !ok {
			return fmt.Errorf("invalid confidence %q (want high, med or low)", commitConfidence)
		}
	}

	if commitStageAll {
		if err := git.AddUpdated(); err != nil {
			return err
		}
	}

	files, err := git.StagedFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("nothing staged to commit")
	}

	message := models.BuildCommitMessage(commitMessage, models.Tool(commitTool), confidence, commitTrace, commitTests, commitReviewer)
	if err := git.Commit(message); err != nil {
		return err
	}

	sha, err := git.CurrentCommit()
	if err != nil {
		return err
	}

	// Only write a ledger entry when there is provenance to record
	if commitTool == "" && len(commitTrace) == 0 && len(commitTests) == 0 && commitReviewer == "" {
		fmt.Printf("Committed %s (no provenance metadata)\n", sha[:8])
		return nil
	}

	rec := &models.CommitRecord{
		CommitID:   sha,
		Tool:       models.Tool(commitTool),
		Confidence: confidence,
		Trace:      commitTrace,
		Tests:      commitTests,
		ReviewedBy: commitReviewer,
		Files:      files,
	}
	if commitReviewer != "" {
		now := time.Now().UTC().Truncate(time.Second)
		rec.ReviewedAt = &now
	}

	store := notes.NewStore(config.Namespace())
	store.MaxRetries = config.MaxRetries()
	if err := store.Write(sha, rec); err != nil {
		return fmt.Errorf("commit %s created but ledger write failed: %w", sha[:8], err)
	}

	fmt.Printf("Committed %s with provenance record\n", sha[:8])
	return nil
}
