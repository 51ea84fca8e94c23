package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
)

// ErrUnknownDataset is returned when a dataset key has no registry entry.
// This is a fatal configuration error, surfaced at construction.
var ErrUnknownDataset = errors.New("unknown dataset")

// Dataset describes one registered dataset's files and indicator column.
type Dataset struct {
	Key          string
	Name         string
	Description  string
	Indicator    string
	CSVFile      string
	MetadataFile string
	ReadmeFile   string
}

// datasets is the built-in dataset registry, keyed like the dashboard's
// dataset map. File names are relative to the data directory.
var datasets = map[string]Dataset{
	"hdi": {
		Key:          "hdi",
		Name:         "Human Development Index",
		Description:  "Índice de Desenvolvimento Humano (HDI)",
		Indicator:    "Human Development Index",
		CSVFile:      "human-development-index.csv",
		MetadataFile: "human-development-index.metadata.json",
		ReadmeFile:   "readme.md",
	},
}

// DatasetByKey looks up a dataset in the registry.
func DatasetByKey(key string) (Dataset, error) {
	ds, ok := datasets[key]
	if !ok {
		return Dataset{}, fmt.Errorf("%w: %q (available: %v)", ErrUnknownDataset, key, DatasetKeys())
	}
	return ds, nil
}

// DatasetKeys returns the registered dataset keys in sorted order.
func DatasetKeys() []string {
	keys := make([]string, 0, len(datasets))
	for k := range datasets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CSVPath returns the dataset's CSV file resolved against the data dir.
func (d Dataset) CSVPath(dataDir string) string {
	return filepath.Join(dataDir, d.CSVFile)
}

// MetadataPath returns the dataset's metadata file resolved against the data dir.
func (d Dataset) MetadataPath(dataDir string) string {
	return filepath.Join(dataDir, d.MetadataFile)
}

// ReadmePath returns the dataset's readme file resolved against the data dir.
func (d Dataset) ReadmePath(dataDir string) string {
	return filepath.Join(dataDir, d.ReadmeFile)
}
