// Package main provides the owidrag CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// Persistent flags shared by all commands.
var (
	configPath string
	datasetKey string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "owidrag",
	Short: "Educational retrieval engine for Our World in Data documentation",
	Long: `owidrag answers natural-language questions about an Our World in Data
dataset by ranking passages from its documentation with embedding
similarity. It surfaces the retrieved passages and can narrate each step
of the pipeline for teaching purposes; it never composes answers.

Document embeddings are cached on disk after the first build. All commands
output JSON by default for easy integration with other tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "owidrag.yml", "Path to the settings file")
	rootCmd.PersistentFlags().StringVar(&datasetKey, "dataset", "hdi", "Dataset key to operate on")
	rootCmd.Version = Version
}
