package cmd

import (
	"fmt"

	"github.com/pders01/git-provenance/internal/tagparse"
	"github.com/spf13/cobra"
)

var prefixesCmd = &cobra.Command{
	Use:   "prefixes",
	Short: "List the registered comment styles per file extension",
	Long: `Show which comment prefix is used to recognize and write inline tags
for each registered file extension, plus the language-agnostic fallback
set used for unknown extensions.`,
	RunE: runPrefixes,
}

func init() {
	rootCmd.AddCommand(prefixesCmd)
}

func runPrefixes(cmd *cobra.Command, args []string) error {
	fmt.Println("Registered comment styles:")
	for _, ext := range tagparse.RegisteredExtensions() {
		styles := tagparse.StylesFor("x" + ext)
		fmt.Printf("  %-7s", ext)
		for i, s := range styles {
			if i > 0 {
				fmt.Print(", ")
			}
			if s.Suffix != "" {
				fmt.Printf(" %s ... %s", s.Prefix, s.Suffix)
			} else {
				fmt.Printf(" %s", s.Prefix)
			}
		}
		fmt.Println()
	}

	fmt.Println()
	fmt.Println("Fallback styles (unknown extensions):")
	for _, s := range tagparse.FallbackStyles {
		if s.Suffix != "" {
			fmt.Printf("  %s ... %s\n", s.Prefix, s.Suffix)
		} else {
			fmt.Printf("  %s\n", s.Prefix)
		}
	}
	return nil
}
