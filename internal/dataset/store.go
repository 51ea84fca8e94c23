package dataset

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// regionEntities are aggregate entities mixed into OWID country columns.
// They are excluded from country listings.
var regionEntities = []string{
	"Africa", "Asia", "Europe", "North America", "South America",
	"Oceania", "World", "European Union",
}

// Store is an ephemeral SQLite view over the dataset. The CSV stays the
// source of truth; the store is rebuilt from it and holds no state worth
// keeping.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates a SQLite database at the given path.
// Use ":memory:" for a throwaway store.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS observations (
			entity TEXT NOT NULL,
			code TEXT,
			year INTEGER NOT NULL,
			value REAL NOT NULL,
			region TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_observations_entity_year
			ON observations(entity, year);
	`
	_, err := db.Exec(schema)
	return err
}

// Rebuild clears the store and repopulates it from cleaned records.
func (s *Store) Rebuild(records []Record) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM observations"); err != nil {
		return 0, fmt.Errorf("clearing observations: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO observations (entity, code, year, value, region) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(rec.Entity, rec.Code, rec.Year, rec.Value, rec.Region); err != nil {
			return 0, fmt.Errorf("inserting observation for %s/%d: %w", rec.Entity, rec.Year, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}

	return len(records), nil
}

// Count returns the number of observations in the store.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM observations").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting observations: %w", err)
	}
	return n, nil
}

// Countries returns the distinct entities, sorted, with aggregate regions
// excluded.
func (s *Store) Countries() ([]string, error) {
	placeholders := strings.Repeat("?,", len(regionEntities))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(regionEntities))
	for i, r := range regionEntities {
		args[i] = r
	}

	query := fmt.Sprintf(
		"SELECT DISTINCT entity FROM observations WHERE entity NOT IN (%s) ORDER BY entity",
		placeholders)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying countries: %w", err)
	}
	defer rows.Close()

	var countries []string
	for rows.Next() {
		var entity string
		if err := rows.Scan(&entity); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		countries = append(countries, entity)
	}
	return countries, rows.Err()
}

// Years returns the minimum and maximum observation years.
func (s *Store) Years() (int, int, error) {
	var minYear, maxYear sql.NullInt64
	err := s.db.QueryRow("SELECT MIN(year), MAX(year) FROM observations").Scan(&minYear, &maxYear)
	if err != nil {
		return 0, 0, fmt.Errorf("querying year range: %w", err)
	}
	if !minYear.Valid {
		return 0, 0, nil
	}
	return int(minYear.Int64), int(maxYear.Int64), nil
}

// FilterOptions narrows an observation query. Zero fields are ignored.
type FilterOptions struct {
	Countries []string
	MinYear   int
	MaxYear   int
	Region    string
}

// Filter returns observations matching the options, ordered by entity and
// year.
func (s *Store) Filter(opts FilterOptions) ([]Record, error) {
	query := "SELECT entity, code, year, value, region FROM observations WHERE 1=1"
	var args []any

	if len(opts.Countries) > 0 {
		placeholders := strings.Repeat("?,", len(opts.Countries))
		query += fmt.Sprintf(" AND entity IN (%s)", placeholders[:len(placeholders)-1])
		for _, c := range opts.Countries {
			args = append(args, c)
		}
	}
	if opts.MinYear != 0 {
		query += " AND year >= ?"
		args = append(args, opts.MinYear)
	}
	if opts.MaxYear != 0 {
		query += " AND year <= ?"
		args = append(args, opts.MaxYear)
	}
	if opts.Region != "" {
		query += " AND region = ?"
		args = append(args, opts.Region)
	}
	query += " ORDER BY entity, year"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying observations: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var code, region sql.NullString
		if err := rows.Scan(&rec.Entity, &code, &rec.Year, &rec.Value, &region); err != nil {
			return nil, fmt.Errorf("scanning observation: %w", err)
		}
		rec.Code = code.String
		rec.Region = region.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountryStats summarizes one entity's trajectory.
type CountryStats struct {
	Entity     string  `json:"entity"`
	FirstYear  int     `json:"first_year"`
	FirstValue float64 `json:"first_value"`
	LastYear   int     `json:"last_year"`
	LastValue  float64 `json:"last_value"`
	Change     float64 `json:"change"`
}

// Stats returns first/last observations and the change for one entity.
// Returns sql.ErrNoRows if the entity has no observations.
func (s *Store) Stats(entity string) (CountryStats, error) {
	stats := CountryStats{Entity: entity}

	err := s.db.QueryRow(
		"SELECT year, value FROM observations WHERE entity = ? ORDER BY year ASC LIMIT 1",
		entity).Scan(&stats.FirstYear, &stats.FirstValue)
	if err != nil {
		return CountryStats{}, err
	}

	err = s.db.QueryRow(
		"SELECT year, value FROM observations WHERE entity = ? ORDER BY year DESC LIMIT 1",
		entity).Scan(&stats.LastYear, &stats.LastValue)
	if err != nil {
		return CountryStats{}, err
	}

	stats.Change = stats.LastValue - stats.FirstValue
	return stats, nil
}
