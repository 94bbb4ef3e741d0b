package cmd

import (
	"errors"
	"fmt"

	"github.com/pders01/git-provenance/internal/config"
	"github.com/pders01/git-provenance/internal/git"
	"github.com/pders01/git-provenance/internal/notes"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish [remote]",
	Short: "Push the provenance ledger to a remote",
	Long: `Copy the notes namespace to a remote. Ledger writes stay local until
this explicit step; nothing is ever published implicitly.

Examples:
  git-provenance publish
  git-provenance publish upstream`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPublish,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [remote]",
	Short: "Fetch and merge the provenance ledger from a remote",
	Long: `Fetch the remote notes namespace and merge it into the local ledger.
Entries for disjoint commits merge by key union. When both sides changed
the same commit's entry the merge stops with a conflict for manual
resolution; one side is never picked silently.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(fetchCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	if !git.IsGitRepo() {
		return git.ErrNotARepository
	}

	remote := config.DefaultRemote()
	if len(args) == 1 {
		remote = args[0]
	}

	store := notes.NewStore(config.Namespace())
	if err := store.Publish(remote); err != nil {
		return err
	}
	fmt.Printf("Published %s to %s\n", store.Ref(), remote)
	return nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	if !git.IsGitRepo() {
		return git.ErrNotARepository
	}

	remote := config.DefaultRemote()
	if len(args) == 1 {
		remote = args[0]
	}

	store := notes.NewStore(config.Namespace())
	incoming := fmt.Sprintf("refs/notes/%s-incoming", store.Namespace)

	if err := git.FetchRef(remote, store.Ref()+":"+incoming); err != nil {
		return err
	}

	err := store.Merge(incoming)
	var conflict *notes.MergeConflictError
	if errors.As(err, &conflict) {
		return fmt.Errorf("ledger merge from %s has conflicts; resolve with `git notes --ref=%s merge --commit` after editing", remote, store.Namespace)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Merged ledger from %s\n", remote)
	return nil
}
