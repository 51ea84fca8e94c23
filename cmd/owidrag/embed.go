package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(embedCmd)
}

// EmbedResponse is the response for the embed command.
type EmbedResponse struct {
	Query      string    `json:"query"`
	Model      string    `json:"model"`
	Dimensions int       `json:"dimensions"`
	Embedding  []float32 `json:"embedding"`
}

var embedCmd = &cobra.Command{
	Use:   "embed <query>",
	Short: "Show the raw embedding vector of a query",
	Long: `Embed a query and print the resulting vector. Uses the exact encoding
path the search command uses, so the output is the vector that would be
compared against the knowledge base.`,
	Args: cobra.ExactArgs(1),
	RunE: runEmbed,
}

func runEmbed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	query := strings.TrimSpace(args[0])

	if query == "" {
		exitWithError(ExitError, "query cannot be empty")
	}

	settings := loadSettings()
	engine := newEngine(ctx, settings)

	emb, err := engine.EmbedQuery(ctx, query)
	if err != nil {
		exitWithError(ExitError, "embedding query: %v", err)
	}

	if humanOutput {
		fmt.Printf("Query: %q\n", query)
		fmt.Printf("Model: %s | Dimensions: %d\n", settings.Model, emb.Dimensions())
		fmt.Printf("First components: %v...\n", emb.Vector[:min(8, len(emb.Vector))])
		return nil
	}

	return outputJSON(EmbedResponse{
		Query:      query,
		Model:      settings.Model,
		Dimensions: emb.Dimensions(),
		Embedding:  emb.Vector,
	})
}
