package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
)

// IndicatorMetadata holds the optional documentation fields of one indicator
// column in an OWID metadata file. A zero-value field means the source did not
// provide it; absence is decoded once here and never re-checked downstream.
type IndicatorMetadata struct {
	DescriptionShort string   `json:"descriptionShort"`
	DescriptionKey   []string `json:"descriptionKey"`
	CitationShort    string   `json:"citationShort"`
	Timespan         string   `json:"timespan"`
	LastUpdated      string   `json:"lastUpdated"`
}

// metadataFile mirrors the outer shape of an OWID .metadata.json file.
type metadataFile struct {
	Columns map[string]IndicatorMetadata `json:"columns"`
}

// LoadIndicatorMetadata reads the metadata record for the named indicator
// column. A missing file or missing column is not an error: the build simply
// proceeds without metadata-derived documents. Malformed JSON in an existing
// file is reported.
func LoadIndicatorMetadata(path, indicator string) (IndicatorMetadata, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return IndicatorMetadata{}, false, nil
		}
		return IndicatorMetadata{}, false, fmt.Errorf("reading metadata: %w", err)
	}

	var file metadataFile
	if err := json.Unmarshal(data, &file); err != nil {
		return IndicatorMetadata{}, false, fmt.Errorf("parsing metadata: %w", err)
	}

	meta, ok := file.Columns[indicator]
	return meta, ok, nil
}
