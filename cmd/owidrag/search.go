package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	searchLimit     int
	searchThreshold float32
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVarP(&searchLimit, "limit", "k", 0, "Maximum number of results (default from settings)")
	searchCmd.Flags().Float32VarP(&searchThreshold, "threshold", "t", -1, "Minimum similarity threshold (default from settings)")
}

// SearchResponse is the response for the search command.
type SearchResponse struct {
	Query     string          `json:"query"`
	Results   []PassageResult `json:"results"`
	Total     int             `json:"total"`
	Threshold float32         `json:"threshold"`
	Model     string          `json:"model"`
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Retrieve documentation passages by semantic similarity",
	Long: `Search the dataset's knowledge base for passages semantically related
to a natural-language question.

The query is embedded with the same model as the knowledge base, compared
against every passage by cosine similarity, and the top matches above the
similarity threshold come back ranked. The first run builds and caches the
embedding index; later runs reuse the cache.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	query := strings.TrimSpace(args[0])

	if query == "" {
		exitWithError(ExitError, "search query cannot be empty")
	}

	settings := loadSettings()
	engine := newEngine(ctx, settings)

	topK := searchLimit
	if topK == 0 {
		topK = engine.TopK()
	}
	threshold := searchThreshold
	if threshold < 0 {
		threshold = engine.Threshold()
	}

	results, err := engine.Search(ctx, query, topK, threshold)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	passages := buildPassageResults(results)

	if humanOutput {
		fmt.Printf("Search: %q\n", query)
		fmt.Printf("Found %d passages (threshold: %.2f)\n\n", len(passages), threshold)
		printPassagesHuman(passages)
		return nil
	}

	return outputJSON(SearchResponse{
		Query:     query,
		Results:   passages,
		Total:     len(passages),
		Threshold: threshold,
		Model:     settings.Model,
	})
}
