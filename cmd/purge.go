package cmd

import (
	"fmt"

	"github.com/pders01/git-provenance/internal/config"
	"github.com/pders01/git-provenance/internal/git"
	"github.com/pders01/git-provenance/internal/notes"
	"github.com/spf13/cobra"
)

var purgeReason string

var purgeCmd = &cobra.Command{
	Use:   "purge <commit>",
	Short: "Delete the ledger entry for a commit",
	Long: `Remove a commit's provenance record from the ledger. Purges are
irreversible and always appended to the local audit log with the given
reason.

Example:
  git-provenance purge abc123 --reason "metadata attached to wrong commit"`,
	Args: cobra.ExactArgs(1),
	RunE: runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)

	purgeCmd.Flags().StringVar(&purgeReason, "reason", "", "why the entry is being purged")
	purgeCmd.MarkFlagRequired("reason")
}

func runPurge(cmd *cobra.Command, args []string) error {
	if !git.IsGitRepo() {
		return git.ErrNotARepository
	}

	store := notes.NewStore(config.Namespace())
	if err := store.Remove(args[0], purgeReason); err != nil {
		return err
	}

	fmt.Printf("Purged ledger entry for %s (audit logged)\n", args[0])
	return nil
}
