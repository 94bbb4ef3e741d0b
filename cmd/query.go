package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alpkeskin/gotoon"
	"github.com/pders01/git-provenance/internal/analysis"
	"github.com/pders01/git-provenance/internal/config"
	"github.com/pders01/git-provenance/internal/git"
	"github.com/pders01/git-provenance/internal/history"
	"github.com/pders01/git-provenance/internal/models"
	"github.com/pders01/git-provenance/internal/notes"
	"github.com/spf13/cobra"
)

var (
	queryAIPercent  bool
	queryByFile     bool
	queryUnreviewed bool
	queryTrace      string
	queryRev        string
	queryJSON       bool
	queryToon       bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query provenance metadata across the repository",
	Long: `Run repository-wide queries over inline tags and the notes ledger.

Examples:
  git-provenance query --ai-percent
  git-provenance query --ai-percent --by-file
  git-provenance query --ai-percent --rev v1.2.0
  git-provenance query --unreviewed
  git-provenance query --trace SPEC-89`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().BoolVar(&queryAIPercent, "ai-percent", false, "show percentage of AI-tagged code")
	queryCmd.Flags().BoolVar(&queryByFile, "by-file", false, "break the percentage down per file")
	queryCmd.Flags().BoolVar(&queryUnreviewed, "unreviewed", false, "list AI code without review")
	queryCmd.Flags().StringVar(&queryTrace, "trace", "", "list commits for a requirement ID")
	queryCmd.Flags().StringVar(&queryRev, "rev", "", "analyze the repository at a revision (default: working tree)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Output as JSON")
	queryCmd.Flags().BoolVar(&queryToon, "toon", false, "Output in LLM-friendly toon format")
}

func runQuery(cmd *cobra.Command, args []string) error {
	if !git.IsGitRepo() {
		return git.ErrNotARepository
	}

	store := notes.NewStore(config.Namespace())
	reader := history.NewReader(store)

	// an unresolvable revision is a caller error, not a per-file warning
	if queryRev != "" && queryRev != models.WorkingTree {
		if _, err := git.ResolveRevision(queryRev); err != nil {
			return err
		}
	}

	switch {
	case queryAIPercent:
		return queryPercent(reader)
	case queryUnreviewed:
		return queryUnreviewedCode(store, reader)
	case queryTrace != "":
		return queryTraceID(store)
	default:
		return fmt.Errorf("no query specified (use --ai-percent, --unreviewed or --trace)")
	}
}

func queryPercent(reader *history.Reader) error {
	records, errs := reader.SnapshotAll(queryRev)
	reportErrors(errs)

	summary := analysis.AIPercentage(records)
	if !queryByFile {
		summary.PerFile = nil
	}

	if done, err := emit(summary); done {
		return err
	}

	if summary.Percent == nil {
		fmt.Println("AI-Generated Code: n/a (no countable lines)")
	} else {
		fmt.Printf("AI-Generated Code: %d%%\n", *analysis.RoundPercent(summary.Percent))
		fmt.Printf("  Counted lines: %d\n", summary.TotalLines)
		fmt.Printf("  AI lines:      %d\n", summary.AILines)
	}

	if queryByFile {
		fmt.Println()
		fmt.Println("By File:")
		for _, share := range summary.PerFile {
			if share.AILines == 0 {
				continue
			}
			fmt.Printf("  %s: %d%% (%d/%d)\n", share.Path, *analysis.RoundPercent(share.Percent), share.AILines, share.TotalLines)
		}
	}

	return nil
}

func queryUnreviewedCode(store *notes.Store, reader *history.Reader) error {
	entries, err := store.List("", "")
	if err != nil {
		return err
	}
	commits := make([]*models.CommitRecord, 0, len(entries))
	for _, e := range entries {
		commits = append(commits, e.Record)
	}

	files, errs := reader.SnapshotAll(queryRev)
	reportErrors(errs)

	items := analysis.Unreviewed(commits, files)

	if done, err := emit(items); done {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No unreviewed AI code found")
		return nil
	}

	fmt.Printf("Found %d unreviewed AI items:\n\n", len(items))
	for _, item := range items {
		if item.CommitID != "" {
			subject, _ := git.CommitSubject(item.CommitID)
			fmt.Printf("  %s [%s:%s] %s\n", item.CommitID[:8], item.Tool, item.Confidence, subject)
		} else {
			fmt.Printf("  %s:%d-%d [%s:%s]\n", item.Path, item.StartLine, item.EndLine, item.Tool, item.Confidence)
		}
	}

	return nil
}

func queryTraceID(store *notes.Store) error {
	entries, err := store.List("", "")
	if err != nil {
		return err
	}

	type traceHit struct {
		CommitID string   `json:"commit_id"`
		Date     string   `json:"date"`
		Subject  string   `json:"subject"`
		Files    []string `json:"files,omitempty"`
	}

	var hits []traceHit
	for _, e := range entries {
		if !e.Record.HasTrace(queryTrace) {
			continue
		}
		subject, _ := git.CommitSubject(e.CommitID)
		hits = append(hits, traceHit{
			CommitID: e.CommitID,
			Date:     e.Time.Format("2006-01-02"),
			Subject:  subject,
			Files:    e.Record.Files,
		})
	}

	if done, err := emit(hits); done {
		return err
	}

	if len(hits) == 0 {
		fmt.Printf("No commits found for %s\n", queryTrace)
		return nil
	}

	fmt.Printf("Commits for %s:\n\n", queryTrace)
	for _, hit := range hits {
		fmt.Printf("  %s (%s) %s\n", hit.CommitID[:8], hit.Date, hit.Subject)
		for _, f := range hit.Files {
			fmt.Printf("    - %s\n", f)
		}
	}
	return nil
}

// emit handles the shared --json/--toon output paths. done=true means the
// caller should not print the human-readable form.
func emit(v any) (done bool, err error) {
	switch {
	case queryJSON:
		output, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return true, nil
	case queryToon:
		output, err := gotoon.Encode(v)
		if err != nil {
			return true, fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return true, nil
	}
	return false, nil
}

// reportErrors writes per-file warnings to stderr so they survive
// machine-readable output modes without corrupting them.
func reportErrors(errs []error) {
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}
