package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alpkeskin/gotoon"
	"github.com/pders01/git-provenance/internal/analysis"
	"github.com/pders01/git-provenance/internal/config"
	"github.com/pders01/git-provenance/internal/git"
	"github.com/pders01/git-provenance/internal/history"
	"github.com/pders01/git-provenance/internal/models"
	"github.com/pders01/git-provenance/internal/notes"
	"github.com/pders01/git-provenance/internal/tagparse"
	"github.com/spf13/cobra"
)

var (
	reportRev  string
	reportJSON bool
	reportToon bool
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Show the provenance report for one file",
	Long: `Display everything known about one file at a revision: inline tags,
resolved blocks, the AI percentage and the commit's ledger entry.

Examples:
  git-provenance report src/auth.go
  git-provenance report src/auth.go --rev v1.2.0 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportRev, "rev", "", "revision to report on (default: working tree)")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Output as JSON")
	reportCmd.Flags().BoolVar(&reportToon, "toon", false, "Output in LLM-friendly toon format")
}

type fileReport struct {
	Record       *models.FileRecord   `json:"record"`
	CommitRecord *models.CommitRecord `json:"commit_record,omitempty"`
}

func runReport(cmd *cobra.Command, args []string) error {
	if !git.IsGitRepo() {
		return git.ErrNotARepository
	}

	path := args[0]
	store := notes.NewStore(config.Namespace())
	reader := history.NewReader(store)

	record, err := reader.SnapshotAt(path, reportRev)
	if err != nil {
		return err
	}

	report := fileReport{Record: record}
	if reportRev != "" && reportRev != models.WorkingTree {
		rec, err := store.Read(reportRev)
		if err != nil && !errors.Is(err, notes.ErrNoteNotFound) {
			return err
		}
		report.CommitRecord = rec
	}

	if reportJSON {
		output, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if reportToon {
		output, err := gotoon.Encode(report)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	fmt.Printf("File:     %s\n", record.Path)
	fmt.Printf("Revision: %s\n", record.Revision)
	if pct := record.AIPercentage(); pct == nil {
		fmt.Println("AI:       n/a (no countable lines)")
	} else {
		fmt.Printf("AI:       %d%% (%d/%d non-blank lines)\n",
			*analysis.RoundPercent(pct), record.AINonBlankLines(), record.NonBlankLines())
	}
	fmt.Println()

	fmt.Println("Blocks:")
	for _, b := range record.Blocks {
		marker := " "
		if b.IsAI {
			marker = "*"
		}
		fmt.Printf("  %s %4d-%-4d %-8s", marker, b.StartLine, b.EndLine, b.Kind)
		if b.Tag != nil {
			fmt.Printf(" %s", tagparse.Format(b.Tag))
		}
		fmt.Println()
	}

	if len(record.Warnings) > 0 {
		fmt.Println()
		fmt.Println("Warnings:")
		for _, w := range record.Warnings {
			fmt.Printf("  line %d: %s\n", w.Line, w.Reason)
		}
	}

	if report.CommitRecord != nil {
		fmt.Println()
		fmt.Printf("Ledger entry for %s:\n", report.CommitRecord.CommitID[:8])
		fmt.Printf("  Tool: %s, Confidence: %s\n", report.CommitRecord.Tool, report.CommitRecord.Confidence)
		if len(report.CommitRecord.Trace) > 0 {
			fmt.Printf("  Trace: %v\n", report.CommitRecord.Trace)
		}
		if len(report.CommitRecord.Tests) > 0 {
			fmt.Printf("  Tests: %v\n", report.CommitRecord.Tests)
		}
	}

	return nil
}
