package main

import (
	"context"
	"fmt"

	"github.com/owid-edu/owidrag/internal/index"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexStatusCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the embedding index",
}

// IndexBuildResponse is the response for the index build command.
type IndexBuildResponse struct {
	Status     string `json:"status"`
	Documents  int    `json:"documents"`
	Dimensions int    `json:"dimensions"`
	Model      string `json:"model"`
	DurationMs int64  `json:"duration_ms"`
	CachePath  string `json:"cache_path"`
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the embedding index, replacing any cache",
	Long: `Assemble the knowledge base from the dataset's metadata and
documentation, embed every document, and write the snapshot cache. Any
existing cache is overwritten.`,
	Args: cobra.NoArgs,
	RunE: runIndexBuild,
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	settings := loadSettings()
	engine := newEngine(ctx, settings)

	snap, stats, err := engine.Rebuild(ctx)
	if err != nil {
		exitWithError(ExitError, "building index: %v", err)
	}

	if humanOutput {
		fmt.Printf("Indexed %d documents (%d dimensions, model %s) in %dms\n",
			stats.Documents, stats.Dimensions, snap.ModelName, stats.DurationMs)
		fmt.Printf("Cache: %s\n", settings.CachePath())
		return nil
	}

	return outputJSON(IndexBuildResponse{
		Status:     "built",
		Documents:  stats.Documents,
		Dimensions: stats.Dimensions,
		Model:      snap.ModelName,
		DurationMs: stats.DurationMs,
		CachePath:  settings.CachePath(),
	})
}

// IndexStatusResponse is the response for the index status command.
type IndexStatusResponse struct {
	Exists     bool   `json:"exists"`
	Status     string `json:"status,omitempty"`
	Documents  int    `json:"documents,omitempty"`
	Dimensions int    `json:"dimensions,omitempty"`
	Model      string `json:"model,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
	SizeBytes  int64  `json:"size_bytes,omitempty"`
	CachePath  string `json:"cache_path"`
}

var indexStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the cached index",
	Args:  cobra.NoArgs,
	RunE:  runIndexStatus,
}

func runIndexStatus(cmd *cobra.Command, args []string) error {
	settings := loadSettings()
	cachePath := settings.CachePath()

	resp := IndexStatusResponse{CachePath: cachePath}

	res := index.Load(cachePath)
	switch res.Status {
	case index.SnapshotAbsent:
		resp.Status = "absent"
	case index.SnapshotCorrupt:
		resp.Exists = true
		resp.Status = "corrupt"
		if !humanOutput {
			warnf("cache unreadable: %v", res.Err)
		}
	case index.SnapshotValid:
		resp.Exists = true
		resp.Status = "valid"
		resp.Documents = res.Snapshot.Size()
		resp.Dimensions = res.Snapshot.Dimensions
		resp.Model = res.Snapshot.ModelName
		resp.CreatedAt = res.Snapshot.CreatedAt.Format("2006-01-02 15:04:05")
		resp.SizeBytes = index.FileSize(cachePath)
	}

	if humanOutput {
		fmt.Printf("Cache: %s\n", cachePath)
		fmt.Printf("Status: %s\n", resp.Status)
		if res.Status == index.SnapshotValid {
			fmt.Printf("Documents: %d | Dimensions: %d | Model: %s\n", resp.Documents, resp.Dimensions, resp.Model)
			fmt.Printf("Created: %s | Size: %d bytes\n", resp.CreatedAt, resp.SizeBytes)
		}
		return nil
	}

	return outputJSON(resp)
}
