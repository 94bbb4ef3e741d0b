package cmd

import (
	"fmt"

	"github.com/pders01/git-provenance/internal/config"
	"github.com/pders01/git-provenance/internal/git"
	"github.com/pders01/git-provenance/internal/notes"
	"github.com/spf13/cobra"
)

var (
	logSince string
	logUntil string
	logJSON  bool
	logToon  bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "List ledger entries in reverse-chronological order",
	Long: `Walk the notes ledger and print every provenance record, newest first.
Bounds accept a revision or a YYYY-MM-DD date.

Examples:
  git-provenance log
  git-provenance log --since 2025-01-01
  git-provenance log --since v1.0.0 --until v2.0.0 --json`,
	RunE: runLog,
}

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().StringVar(&logSince, "since", "", "lower bound (revision or YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "upper bound (revision or YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "Output as JSON")
	logCmd.Flags().BoolVar(&logToon, "toon", false, "Output in LLM-friendly toon format")
}

func runLog(cmd *cobra.Command, args []string) error {
	if !git.IsGitRepo() {
		return git.ErrNotARepository
	}

	store := notes.NewStore(config.Namespace())
	entries, err := store.List(logSince, logUntil)
	if err != nil {
		return err
	}

	// reuse the shared query output flags
	queryJSON, queryToon = logJSON, logToon
	if done, err := emit(entries); done {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No ledger entries found")
		return nil
	}

	for _, e := range entries {
		subject, _ := git.CommitSubject(e.CommitID)
		fmt.Printf("%s  %s  [%s:%s]  %s\n",
			e.CommitID[:8],
			e.Time.Format("2006-01-02"),
			e.Record.Tool,
			e.Record.Confidence,
			subject,
		)
		if len(e.Record.Trace) > 0 {
			fmt.Printf("          trace: %v\n", e.Record.Trace)
		}
	}
	return nil
}
