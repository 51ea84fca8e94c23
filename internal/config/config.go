// Package config handles application settings and the dataset registry.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default retrieval settings.
const (
	DefaultTopK                = 5
	DefaultSimilarityThreshold = 0.3
	DefaultModel               = "all-minilm:l6-v2"
	DefaultOllamaURL           = "http://localhost:11434"

	// DefaultDataDir holds the dataset files (CSV, metadata JSON, readme).
	DefaultDataDir = "Database"

	// DefaultCacheFile is the snapshot cache location under the data dir.
	DefaultCacheFile = "embeddings/knowledge_base.gob"
)

// Settings is the application configuration, read from a YAML file.
// Zero fields take defaults, so a partial file is fine.
type Settings struct {
	Model               string  `yaml:"model,omitempty"`
	OllamaURL           string  `yaml:"ollama_url,omitempty"`
	TopK                int     `yaml:"top_k,omitempty"`
	SimilarityThreshold float32 `yaml:"similarity_threshold,omitempty"`
	CacheFile           string  `yaml:"cache_file,omitempty"`
	DataDir             string  `yaml:"data_dir,omitempty"`
	DocsDir             string  `yaml:"docs_dir,omitempty"`
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		Model:               DefaultModel,
		OllamaURL:           DefaultOllamaURL,
		TopK:                DefaultTopK,
		SimilarityThreshold: DefaultSimilarityThreshold,
		CacheFile:           DefaultCacheFile,
		DataDir:             DefaultDataDir,
	}
}

// LoadSettings reads settings from a YAML file. A missing file returns the
// defaults; present files have defaults applied to any omitted field.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return Settings{}, fmt.Errorf("reading settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing settings: %w", err)
	}
	applyDefaults(&s)
	return s, nil
}

// Save writes settings to the given path, creating directories as needed.
func (s Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

func applyDefaults(s *Settings) {
	if s.Model == "" {
		s.Model = DefaultModel
	}
	if s.OllamaURL == "" {
		s.OllamaURL = DefaultOllamaURL
	}
	if s.TopK == 0 {
		s.TopK = DefaultTopK
	}
	if s.SimilarityThreshold == 0 {
		s.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if s.CacheFile == "" {
		s.CacheFile = DefaultCacheFile
	}
	if s.DataDir == "" {
		s.DataDir = DefaultDataDir
	}
}

// CachePath resolves the snapshot cache file against the data root when the
// configured path is relative.
func (s Settings) CachePath() string {
	if filepath.IsAbs(s.CacheFile) {
		return s.CacheFile
	}
	return filepath.Join(s.DataDir, s.CacheFile)
}
