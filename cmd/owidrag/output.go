package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/owid-edu/owidrag/internal/index"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// warnf writes a non-fatal warning to stderr.
func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PassageResult is one retrieved passage in command output.
type PassageResult struct {
	Rank   int     `json:"rank"`
	Score  float32 `json:"score"`
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Type   string  `json:"type"`
}

// buildPassageResults flattens engine results for output.
func buildPassageResults(results []index.Result) []PassageResult {
	passages := make([]PassageResult, 0, len(results))
	for _, r := range results {
		passages = append(passages, PassageResult{
			Rank:   r.Rank,
			Score:  r.Score,
			Text:   r.Document.Text,
			Source: r.Document.Source,
			Type:   string(r.Document.Type),
		})
	}
	return passages
}

// printPassagesHuman prints retrieved passages in human-readable format.
func printPassagesHuman(passages []PassageResult) {
	if len(passages) == 0 {
		fmt.Println("No relevant documents found.")
		return
	}
	for _, p := range passages {
		fmt.Printf("%d. [%.2f] %s (%s)\n", p.Rank, p.Score, p.Source, p.Type)
		fmt.Printf("   %s\n\n", p.Text)
	}
}
