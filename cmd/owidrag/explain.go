package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(explainCmd)
}

var explainCmd = &cobra.Command{
	Use:   "explain <query>",
	Short: "Trace the retrieval pipeline step by step",
	Long: `Run a query and narrate each stage of the retrieval pipeline: query
intake, embedding generation, semantic comparison, retrieval filtering and
context hand-off, each parameterized with the live numbers.

Intended for teaching how retrieval-augmented generation finds its context.`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func runExplain(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	query := strings.TrimSpace(args[0])

	if query == "" {
		exitWithError(ExitError, "query cannot be empty")
	}

	settings := loadSettings()
	engine := newEngine(ctx, settings)

	trace, err := engine.Explain(ctx, query)
	if err != nil {
		exitWithError(ExitError, "explaining query: %v", err)
	}

	if humanOutput {
		fmt.Printf("Query: %q\n", trace.Query)
		fmt.Printf("Embedding dimension: %d | Knowledge base: %d documents\n\n", trace.EmbeddingDimension, trace.KnowledgeBaseSize)
		for _, step := range trace.Steps {
			fmt.Printf("%d. %s\n   %s\n\n", step.Number, step.Name, step.Description)
		}
		printPassagesHuman(buildPassageResults(trace.Results))
		return nil
	}

	return outputJSON(trace)
}
