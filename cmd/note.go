package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alpkeskin/gotoon"
	"github.com/pders01/git-provenance/internal/config"
	"github.com/pders01/git-provenance/internal/git"
	"github.com/pders01/git-provenance/internal/models"
	"github.com/pders01/git-provenance/internal/notes"
	"github.com/spf13/cobra"
)

var (
	noteJSON        bool
	noteToon        bool
	noteSetTool     string
	noteSetConf     string
	noteSetTrace    []string
	noteSetTests    []string
	noteSetReviewer string
)

var noteCmd = &cobra.Command{
	Use:   "note <commit>",
	Short: "Show or set the provenance record for a commit",
	Long: `Display the ledger entry stored for a commit, or overwrite it when
--tool is given. Writing replaces the whole record (last-writer-wins);
the ledger never merges payloads.

Examples:
  git-provenance note HEAD
  git-provenance note abc123 --json
  git-provenance note HEAD --tool claude --confidence high --trace SPEC-89`,
	Args: cobra.ExactArgs(1),
	RunE: runNote,
}

func init() {
	rootCmd.AddCommand(noteCmd)

	noteCmd.Flags().BoolVar(&noteJSON, "json", false, "Output as JSON")
	noteCmd.Flags().BoolVar(&noteToon, "toon", false, "Output in LLM-friendly toon format")
	noteCmd.Flags().StringVar(&noteSetTool, "tool", "", "set: AI tool identifier")
	noteCmd.Flags().StringVar(&noteSetConf, "confidence", "", "set: confidence level")
	noteCmd.Flags().StringSliceVar(&noteSetTrace, "trace", nil, "set: requirement IDs")
	noteCmd.Flags().StringSliceVar(&noteSetTests, "test", nil, "set: test case IDs")
	noteCmd.Flags().StringVar(&noteSetReviewer, "reviewer", "", "set: reviewer identity")
}

func runNote(cmd *cobra.Command, args []string) error {
	if !git.IsGitRepo() {
		return git.ErrNotARepository
	}

	store := notes.NewStore(config.Namespace())
	store.MaxRetries = config.MaxRetries()

	if noteSetTool != "" {
		return setNote(store, args[0])
	}

	rec, err := store.Read(args[0])
	if err != nil {
		return err
	}

	if noteJSON {
		output, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if noteToon {
		output, err := gotoon.Encode(rec)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	fmt.Printf("Commit:     %s\n", rec.CommitID)
	fmt.Printf("Tool:       %s\n", valueOrDash(string(rec.Tool)))
	fmt.Printf("Confidence: %s\n", valueOrDash(string(rec.Confidence)))
	if len(rec.Trace) > 0 {
		fmt.Printf("Trace:      %v\n", rec.Trace)
	}
	if len(rec.Tests) > 0 {
		fmt.Printf("Tests:      %v\n", rec.Tests)
	}
	if rec.ReviewedBy != "" {
		fmt.Printf("Reviewed:   %s", rec.ReviewedBy)
		if rec.ReviewedAt != nil {
			fmt.Printf(" at %s", rec.ReviewedAt.Format("2006-01-02"))
		}
		fmt.Println()
	}
	if len(rec.Files) > 0 {
		fmt.Println("Files:")
		for _, f := range rec.Files {
			fmt.Printf("  - %s\n", f)
		}
	}
	return nil
}

func setNote(store *notes.Store, rev string) error {
	var confidence models.Confidence
	if noteSetConf != "" {
		var ok bool
		confidence, ok = models.ParseConfidence(noteSetConf)
		if !ok {
			return fmt.Errorf("invalid confidence %q (want high, med or low)", noteSetConf)
		}
	}

	sha, err := git.ResolveRevision(rev)
	if err != nil {
		return err
	}

	rec := &models.CommitRecord{
		CommitID:   sha,
		Tool:       models.Tool(noteSetTool),
		Confidence: confidence,
		Trace:      noteSetTrace,
		Tests:      noteSetTests,
		ReviewedBy: noteSetReviewer,
	}
	if noteSetReviewer != "" {
		now := time.Now().UTC().Truncate(time.Second)
		rec.ReviewedAt = &now
	}

	if err := store.Write(sha, rec); err != nil {
		return err
	}
	fmt.Printf("Recorded provenance for %s\n", sha[:8])
	return nil
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
