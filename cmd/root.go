package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "git-provenance",
	Short: "Git-native provenance tracking for AI-assisted code",
	Long: `git-provenance attaches machine-verifiable provenance metadata to source
code: which AI tool wrote it, at what confidence, tied to which requirement
and test case.

Metadata lives inside git itself - inline comment tags in files and an
append-only ledger in git notes - and is reconstructed on demand into
percentages, audit reports and requirement traceability matrices at any
point in history.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/git-provenance/config.toml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "git-provenance")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("notes.namespace", "ai-provenance")
	viper.SetDefault("notes.max_retries", 3)
	viper.SetDefault("requirements.path", "requirements.yaml")
	viper.SetDefault("stamp.position", "top")
	viper.SetDefault("publish.remote", "origin")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
