package main

import (
	"context"
	"errors"
	"os"

	"github.com/owid-edu/owidrag/internal/config"
	"github.com/owid-edu/owidrag/internal/embedding"
	"github.com/owid-edu/owidrag/internal/knowledge"
	"github.com/owid-edu/owidrag/internal/rag"
)

// loadSettings reads the settings file, applying environment overrides.
// Never returns on failure.
func loadSettings() config.Settings {
	settings, err := config.LoadSettings(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading settings: %v", err)
	}

	if url := os.Getenv("OWIDRAG_OLLAMA_URL"); url != "" {
		settings.OllamaURL = url
	}
	if model := os.Getenv("OWIDRAG_MODEL"); model != "" {
		settings.Model = model
	}
	if dataDir := os.Getenv("OWIDRAG_DATA_DIR"); dataDir != "" {
		settings.DataDir = dataDir
	}

	return settings
}

// mustDataset resolves the selected dataset key or exits.
func mustDataset() config.Dataset {
	ds, err := config.DatasetByKey(datasetKey)
	if err != nil {
		if errors.Is(err, config.ErrUnknownDataset) {
			exitWithError(ExitConfigError, "%v", err)
		}
		exitWithError(ExitError, "resolving dataset: %v", err)
	}
	return ds
}

// newProvider builds the Ollama embedding provider from settings and checks
// it is reachable with the configured model present.
func newProvider(ctx context.Context, settings config.Settings) *embedding.OllamaProvider {
	provider := embedding.NewOllamaProvider(
		embedding.WithBaseURL(settings.OllamaURL),
		embedding.WithModel(settings.Model),
	)

	if err := provider.IsAvailable(ctx); err != nil {
		exitWithError(ExitDataError, "Ollama is not running at %s\n\nStart Ollama with 'ollama serve' or install from https://ollama.ai", settings.OllamaURL)
	}
	ok, err := provider.HasModel(ctx)
	if err != nil {
		exitWithError(ExitError, "checking model availability: %v", err)
	}
	if !ok {
		exitWithError(ExitModelNotFound, "model %s not found in Ollama\n\nPull it with 'ollama pull %s'", settings.Model, settings.Model)
	}

	return provider
}

// newEngine wires provider, builder and cache into a retrieval engine.
func newEngine(ctx context.Context, settings config.Settings) *rag.Engine {
	ds := mustDataset()
	provider := newProvider(ctx, settings)

	builder := knowledge.NewBuilder(
		ds.MetadataPath(settings.DataDir),
		ds.Indicator,
		ds.ReadmePath(settings.DataDir),
	)
	if settings.DocsDir != "" {
		builder.SetDocsDir(settings.DocsDir)
	}

	return rag.New(provider, builder, settings.CachePath(),
		rag.WithTopK(settings.TopK),
		rag.WithThreshold(settings.SimilarityThreshold),
		rag.WithWarnf(warnf),
	)
}
