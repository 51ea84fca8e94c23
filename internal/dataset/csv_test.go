package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

const testIndicator = "Human Development Index"

const testCSV = `Entity,Code,Year,Human Development Index,World regions according to OWID
Brazil,BRA,1990,0.610,South America
Brazil,BRA,2020,0.758,South America
Norway,NOR,1990,0.849,Europe
Norway,NOR,2020,0.961,Europe
Somalia,SOM,1990,,Africa
Atlantis,ATL,not-a-year,0.5,
World,OWID_WRL,2020,0.737,
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing csv: %v", err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	rows, err := LoadCSV(writeCSV(t, testCSV), testIndicator)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	if len(rows) != 7 {
		t.Fatalf("expected 7 raw rows, got %d", len(rows))
	}
	if rows[0].Entity != "Brazil" || rows[0].Value != "0.610" {
		t.Errorf("rows[0] = %+v", rows[0])
	}
	if rows[4].Value != "" {
		t.Errorf("missing value should stay empty, got %q", rows[4].Value)
	}
}

func TestLoadCSV_MissingColumn(t *testing.T) {
	path := writeCSV(t, "Entity,Year\nBrazil,1990\n")

	_, err := LoadCSV(path, testIndicator)
	if err == nil {
		t.Error("expected error for missing indicator column")
	}
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"), testIndicator)
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestClean(t *testing.T) {
	rows, err := LoadCSV(writeCSV(t, testCSV), testIndicator)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	records := Clean(rows)

	// Somalia (no value) and Atlantis (bad year) are dropped.
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}

	// Sorted by entity then year.
	wantOrder := []string{"Brazil", "Brazil", "Norway", "Norway", "World"}
	for i, want := range wantOrder {
		if records[i].Entity != want {
			t.Errorf("records[%d].Entity = %s, want %s", i, records[i].Entity, want)
		}
	}
	if records[0].Year != 1990 || records[1].Year != 2020 {
		t.Error("records not sorted by year within entity")
	}
	if records[0].Value != 0.610 {
		t.Errorf("records[0].Value = %v", records[0].Value)
	}
}
