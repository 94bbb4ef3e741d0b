package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/alpkeskin/gotoon"
	"github.com/pders01/git-provenance/internal/analysis"
	"github.com/pders01/git-provenance/internal/config"
	"github.com/pders01/git-provenance/internal/git"
	"github.com/pders01/git-provenance/internal/history"
	"github.com/pders01/git-provenance/internal/models"
	"github.com/pders01/git-provenance/internal/notes"
	"github.com/pders01/git-provenance/internal/requirements"
	"github.com/spf13/cobra"
)

var (
	matrixJSON bool
	matrixToon bool
	matrixRev  string
)

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Generate the requirement traceability matrix",
	Long: `Build the requirement-to-code-to-test traceability matrix from the
notes ledger, inline tags and the requirements collaborator.

Requirements with no linked code are listed with empty link sets.
Requirement IDs referenced by code but unknown to the collaborator are
flagged as "(unknown)" rather than dropped.

Examples:
  git-provenance matrix
  git-provenance matrix --json
  git-provenance matrix --rev v2.0.0`,
	RunE: runMatrix,
}

func init() {
	rootCmd.AddCommand(matrixCmd)

	matrixCmd.Flags().BoolVar(&matrixJSON, "json", false, "Output as JSON")
	matrixCmd.Flags().BoolVar(&matrixToon, "toon", false, "Output in LLM-friendly toon format")
	matrixCmd.Flags().StringVar(&matrixRev, "rev", "", "analyze files at a revision (default: working tree)")
}

func runMatrix(cmd *cobra.Command, args []string) error {
	if !git.IsGitRepo() {
		return git.ErrNotARepository
	}

	store := notes.NewStore(config.Namespace())
	reader := history.NewReader(store)

	if matrixRev != "" && matrixRev != models.WorkingTree {
		if _, err := git.ResolveRevision(matrixRev); err != nil {
			return err
		}
	}

	entries, err := store.List("", "")
	if err != nil {
		return err
	}
	commits := make([]*models.CommitRecord, 0, len(entries))
	for _, e := range entries {
		commits = append(commits, e.Record)
	}

	files, errs := reader.SnapshotAll(matrixRev)
	reportErrors(errs)

	root, err := git.RepoRoot()
	if err != nil {
		return err
	}
	reqs, err := requirements.Load(filepath.Join(root, config.RequirementsPath()))
	if err != nil {
		return err
	}

	matrix := analysis.TraceMatrix(commits, files, reqs.All())

	if matrixJSON {
		output, err := json.MarshalIndent(matrix, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if matrixToon {
		output, err := gotoon.Encode(matrix)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	printMarkdownMatrix(matrix)
	return nil
}

func printMarkdownMatrix(matrix []models.TraceEntry) {
	fmt.Println("# Traceability Matrix")
	fmt.Println()
	fmt.Println("| Requirement | Title | AI % | Commits | Files | Tests | Status |")
	fmt.Println("|-------------|-------|------|---------|-------|-------|--------|")

	for _, entry := range matrix {
		title := entry.Title
		if entry.Unknown {
			title = analysis.UnknownTitle + " ⚠"
		}
		fmt.Printf("| %s | %s | %.0f%% | %d | %d | %d | %s |\n",
			entry.RequirementID,
			title,
			entry.AIPercentage,
			len(entry.Commits),
			len(entry.Files),
			len(entry.Tests),
			entry.ReviewStatus,
		)
	}
}
