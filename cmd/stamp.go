package cmd

import (
	"fmt"
	"time"

	"github.com/pders01/git-provenance/internal/config"
	"github.com/pders01/git-provenance/internal/models"
	"github.com/pders01/git-provenance/internal/stamp"
	"github.com/spf13/cobra"
)

var (
	stampTool       string
	stampConfidence string
	stampTrace      []string
	stampTests      []string
	stampReviewer   string
	stampPosition   string
)

var stampCmd = &cobra.Command{
	Use:   "stamp <file>...",
	Short: "Write an inline provenance tag into files",
	Long: `Stamp one or more files with an inline provenance comment using the
comment style registered for each file's extension.

Examples:
  git-provenance stamp --tool claude --confidence high src/auth.go
  git-provenance stamp --tool copilot --confidence med --trace SPEC-89 --test TC-210 src/auth.go
  git-provenance stamp --tool claude --confidence high --reviewer alice@example.com src/*.py`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStamp,
}

func init() {
	rootCmd.AddCommand(stampCmd)

	stampCmd.Flags().StringVar(&stampTool, "tool", "", "AI tool identifier (claude, copilot, chatgpt, gemini, cursor, other)")
	stampCmd.Flags().StringVar(&stampConfidence, "confidence", "", "confidence level: high, med or low")
	stampCmd.Flags().StringSliceVar(&stampTrace, "trace", nil, "requirement IDs (e.g. SPEC-89)")
	stampCmd.Flags().StringSliceVar(&stampTests, "test", nil, "test case IDs (e.g. TC-210)")
	stampCmd.Flags().StringVar(&stampReviewer, "reviewer", "", "reviewer identity; records today's date")
	stampCmd.Flags().StringVar(&stampPosition, "position", "", "insertion position: top or bottom (default from config)")

	stampCmd.MarkFlagRequired("tool")
	stampCmd.MarkFlagRequired("confidence")
}

func runStamp(cmd *cobra.Command, args []string) error {
	confidence, ok := models.ParseConfidence(stampConfidence)
	if !ok {
		return fmt.Errorf("invalid confidence %q (want high, med or low)", stampConfidence)
	}

	tag := &models.Tag{
		Tool:       models.Tool(stampTool),
		Confidence: confidence,
		Trace:      stampTrace,
		Tests:      stampTests,
	}
	if stampReviewer != "" {
		tag.Reviewer = shortReviewer(stampReviewer)
		tag.ReviewedAt = time.Now().UTC().Format("2006-01-02")
	}

	position := stamp.Position(stampPosition)
	if stampPosition == "" {
		position = stamp.Position(config.StampPosition())
	}

	for _, path := range args {
		if err := stamp.File(path, tag, position); err != nil {
			return err
		}
		fmt.Printf("Stamped %s\n", path)
	}
	return nil
}

// shortReviewer trims the domain off an email address
func shortReviewer(reviewer string) string {
	for i := range reviewer {
		if reviewer[i] == '@' {
			return reviewer[:i]
		}
	}
	return reviewer
}
