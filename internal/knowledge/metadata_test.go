package knowledge

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadIndicatorMetadata(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("all fields present", func(t *testing.T) {
		path := writeFile(t, tmpDir, "full.metadata.json", `{
			"columns": {
				"Human Development Index": {
					"descriptionShort": "Resumo do HDI",
					"descriptionKey": ["Detalhe um", "Detalhe dois"],
					"citationShort": "UNDP (2024)",
					"timespan": "1990-2023",
					"lastUpdated": "2024-04-01"
				}
			}
		}`)

		meta, ok, err := LoadIndicatorMetadata(path, "Human Development Index")
		if err != nil {
			t.Fatalf("LoadIndicatorMetadata failed: %v", err)
		}
		if !ok {
			t.Fatal("expected indicator to be found")
		}
		if meta.DescriptionShort != "Resumo do HDI" {
			t.Errorf("DescriptionShort = %q", meta.DescriptionShort)
		}
		if len(meta.DescriptionKey) != 2 {
			t.Errorf("DescriptionKey length = %d, want 2", len(meta.DescriptionKey))
		}
		if meta.CitationShort != "UNDP (2024)" {
			t.Errorf("CitationShort = %q", meta.CitationShort)
		}
		if meta.Timespan != "1990-2023" {
			t.Errorf("Timespan = %q", meta.Timespan)
		}
		if meta.LastUpdated != "2024-04-01" {
			t.Errorf("LastUpdated = %q", meta.LastUpdated)
		}
	})

	t.Run("optional fields absent", func(t *testing.T) {
		path := writeFile(t, tmpDir, "partial.metadata.json", `{
			"columns": {
				"Human Development Index": {
					"descriptionShort": "Resumo do HDI"
				}
			}
		}`)

		meta, ok, err := LoadIndicatorMetadata(path, "Human Development Index")
		if err != nil {
			t.Fatalf("LoadIndicatorMetadata failed: %v", err)
		}
		if !ok {
			t.Fatal("expected indicator to be found")
		}
		if meta.CitationShort != "" || meta.Timespan != "" || len(meta.DescriptionKey) != 0 {
			t.Errorf("absent fields should be zero valued: %+v", meta)
		}
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		_, ok, err := LoadIndicatorMetadata(filepath.Join(tmpDir, "nope.json"), "HDI")
		if err != nil {
			t.Fatalf("missing file should not error: %v", err)
		}
		if ok {
			t.Error("expected ok=false for missing file")
		}
	})

	t.Run("unknown indicator", func(t *testing.T) {
		path := writeFile(t, tmpDir, "other.metadata.json", `{"columns": {"Other": {}}}`)

		_, ok, err := LoadIndicatorMetadata(path, "Human Development Index")
		if err != nil {
			t.Fatalf("LoadIndicatorMetadata failed: %v", err)
		}
		if ok {
			t.Error("expected ok=false for unknown indicator")
		}
	})

	t.Run("malformed json is an error", func(t *testing.T) {
		path := writeFile(t, tmpDir, "bad.metadata.json", `{"columns": `)

		_, _, err := LoadIndicatorMetadata(path, "Human Development Index")
		if err == nil {
			t.Error("expected error for malformed JSON")
		}
	})
}
