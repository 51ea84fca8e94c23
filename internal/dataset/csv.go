// Package dataset loads OWID indicator CSVs and serves filtered views of
// them from an ephemeral SQLite store. It feeds the dashboard side of the
// system; the retrieval engine never reads from it.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Standard OWID column headers.
const (
	colEntity = "Entity"
	colCode   = "Code"
	colYear   = "Year"
	colRegion = "World regions according to OWID"
)

// Row is one raw CSV line, values as written. Year and indicator value are
// validated later by Clean.
type Row struct {
	Entity string
	Code   string
	Year   string
	Value  string
	Region string
}

// Record is one cleaned observation.
type Record struct {
	Entity string  `json:"entity"`
	Code   string  `json:"code"`
	Year   int     `json:"year"`
	Value  float64 `json:"value"`
	Region string  `json:"region,omitempty"`
}

// LoadCSV reads an OWID CSV and extracts the named indicator column. The
// header row decides column positions; Entity, Year and the indicator column
// are required, Code and region are optional.
func LoadCSV(path, indicator string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colEntity, colYear, indicator} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv missing column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []Row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		rows = append(rows, Row{
			Entity: field(record, colEntity),
			Code:   field(record, colCode),
			Year:   field(record, colYear),
			Value:  field(record, indicator),
			Region: field(record, colRegion),
		})
	}

	return rows, nil
}

// Clean drops rows without a numeric indicator value or year and sorts the
// result by entity then year, mirroring how the dashboard prepares the data.
func Clean(rows []Row) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		if row.Value == "" || row.Entity == "" {
			continue
		}
		value, err := strconv.ParseFloat(row.Value, 64)
		if err != nil {
			continue
		}
		year, err := strconv.Atoi(row.Year)
		if err != nil {
			continue
		}
		records = append(records, Record{
			Entity: row.Entity,
			Code:   row.Code,
			Year:   year,
			Value:  value,
			Region: row.Region,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Entity != records[j].Entity {
			return records[i].Entity < records[j].Entity
		}
		return records[i].Year < records[j].Year
	})

	return records
}
