package cmd

import (
	"fmt"

	"github.com/pders01/git-provenance/internal/analysis"
	"github.com/pders01/git-provenance/internal/config"
	"github.com/pders01/git-provenance/internal/git"
	"github.com/pders01/git-provenance/internal/history"
	"github.com/pders01/git-provenance/internal/models"
	"github.com/pders01/git-provenance/internal/notes"
	"github.com/spf13/cobra"
)

var (
	validateRequireReview bool
	validateRequireTests  bool
	validateRev           string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate provenance metadata integrity",
	Long: `Check ledger entries and inline tags against policy. Intended for CI:
exits non-zero when any finding exists.

Examples:
  git-provenance validate
  git-provenance validate --require-review --require-tests`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateRequireReview, "require-review", false, "every AI record must name a reviewer")
	validateCmd.Flags().BoolVar(&validateRequireTests, "require-tests", false, "records with trace IDs must name test cases")
	validateCmd.Flags().StringVar(&validateRev, "rev", "", "validate files at a revision (default: working tree)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	if !git.IsGitRepo() {
		return git.ErrNotARepository
	}

	store := notes.NewStore(config.Namespace())
	reader := history.NewReader(store)

	entries, err := store.List("", "")
	if err != nil {
		return err
	}
	commits := make([]*models.CommitRecord, 0, len(entries))
	for _, e := range entries {
		commits = append(commits, e.Record)
	}

	files, errs := reader.SnapshotAll(validateRev)
	reportErrors(errs)

	issues := analysis.Validate(commits, files, models.ValidateOptions{
		RequireReview: validateRequireReview,
		RequireTests:  validateRequireTests,
	})

	if len(issues) == 0 {
		fmt.Println("Validation passed")
		return nil
	}

	for _, issue := range issues {
		fmt.Println(issue.String())
	}
	return fmt.Errorf("validation failed with %d finding(s)", len(issues))
}
