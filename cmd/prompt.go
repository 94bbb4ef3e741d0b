package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/alpkeskin/gotoon"
	"github.com/pders01/git-provenance/internal/git"
	"github.com/pders01/git-provenance/internal/models"
	"github.com/pders01/git-provenance/internal/prompts"
	"github.com/spf13/cobra"
)

var (
	promptStoreFile  string
	promptStoreText  string
	promptStoreTrace []string
	promptStoreTests []string
	promptStoreTool  string
	promptStoreConf  string

	promptListFile  string
	promptListTrace string
	promptListJSON  bool
	promptListToon  bool
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Store and list the prompts behind AI-assisted changes",
}

var promptStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Store a prompt used to generate code",
	Long: `Save a prompt as a JSON file under .ai-prov/prompts/ and link it
to the files and requirement IDs it produced.

Examples:
  git-provenance prompt store --prompt "Add JWT refresh" --file auth.py
  git-provenance prompt store --prompt "..." --trace SPEC-89 --test TC-210`,
	Args: cobra.NoArgs,
	RunE: runPromptStore,
}

var promptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored prompts",
	Long: `List stored prompts, oldest first. With --file or --trace the list
is narrowed to prompts linked to that file or requirement.

Examples:
  git-provenance prompt list
  git-provenance prompt list --file auth.py
  git-provenance prompt list --trace SPEC-89 --json`,
	Args: cobra.NoArgs,
	RunE: runPromptList,
}

func init() {
	rootCmd.AddCommand(promptCmd)
	promptCmd.AddCommand(promptStoreCmd)
	promptCmd.AddCommand(promptListCmd)

	promptStoreCmd.Flags().StringVar(&promptStoreText, "prompt", "", "The prompt text (required)")
	promptStoreCmd.Flags().StringVar(&promptStoreFile, "file", "", "File this prompt generated or modified")
	promptStoreCmd.Flags().StringSliceVar(&promptStoreTrace, "trace", nil, "Requirement IDs")
	promptStoreCmd.Flags().StringSliceVar(&promptStoreTests, "test", nil, "Test case IDs")
	promptStoreCmd.Flags().StringVar(&promptStoreTool, "tool", "claude", "AI tool used")
	promptStoreCmd.Flags().StringVar(&promptStoreConf, "confidence", "high", "Confidence level (high, med, low)")
	promptStoreCmd.MarkFlagRequired("prompt")

	promptListCmd.Flags().StringVar(&promptListFile, "file", "", "List prompts for a specific file")
	promptListCmd.Flags().StringVar(&promptListTrace, "trace", "", "List prompts for a requirement")
	promptListCmd.Flags().BoolVar(&promptListJSON, "json", false, "Output as JSON")
	promptListCmd.Flags().BoolVar(&promptListToon, "toon", false, "Output in LLM-friendly toon format")
}

func runPromptStore(cmd *cobra.Command, args []string) error {
	if !git.IsGitRepo() {
		return git.ErrNotARepository
	}
	if promptStoreText == "" {
		return fmt.Errorf("--prompt must not be empty")
	}

	confidence, ok := models.ParseConfidence(promptStoreConf)
	if !ok {
		return fmt.Errorf("invalid confidence %q (want high, med or low)", promptStoreConf)
	}

	root, err := git.RepoRoot()
	if err != nil {
		return err
	}

	p := &prompts.Prompt{
		Text:       promptStoreText,
		Tool:       models.Tool(promptStoreTool),
		Confidence: confidence,
		Trace:      promptStoreTrace,
		Tests:      promptStoreTests,
	}
	if promptStoreFile != "" {
		p.FilesModified = []string{promptStoreFile}
	}

	if err := prompts.NewStore(root).Create(p); err != nil {
		return err
	}

	fmt.Printf("Stored prompt %s\n", p.ID)
	if promptStoreFile != "" {
		fmt.Printf("  Linked to file: %s\n", promptStoreFile)
	}
	return nil
}

func runPromptList(cmd *cobra.Command, args []string) error {
	if !git.IsGitRepo() {
		return git.ErrNotARepository
	}

	root, err := git.RepoRoot()
	if err != nil {
		return err
	}
	store := prompts.NewStore(root)

	var list []*prompts.Prompt
	var heading string
	switch {
	case promptListFile != "":
		list, err = store.ListForFile(promptListFile)
		heading = fmt.Sprintf("Prompts for %s", promptListFile)
	case promptListTrace != "":
		list, err = store.ListForRequirement(promptListTrace)
		heading = fmt.Sprintf("Prompts for %s", promptListTrace)
	default:
		list, err = store.All()
		heading = "All prompts"
	}
	if err != nil {
		return err
	}

	if promptListJSON {
		output, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if promptListToon {
		output, err := gotoon.Encode(list)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	fmt.Printf("%s (%d):\n", heading, len(list))
	for _, p := range list {
		fmt.Printf("  %s - %s\n", p.ID, p.Timestamp.Format("2006-01-02 15:04"))
		fmt.Printf("    %s\n", truncate(p.Text, 80))
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
