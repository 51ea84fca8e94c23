// Package index holds the knowledge base together with its embedding matrix
// and provides similarity search over it.
package index

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/owid-edu/owidrag/internal/knowledge"
)

// ErrInvalidSnapshot is returned when saving a snapshot whose documents and
// embeddings are out of step.
var ErrInvalidSnapshot = errors.New("snapshot violates document/embedding coupling")

// CurrentSnapshotVersion is the cache format version. Increment on breaking
// changes; a mismatch on load is treated as a cache miss.
const CurrentSnapshotVersion = 1

// Snapshot pairs the knowledge base with its embedding matrix. Embeddings[i]
// is the embedding of Documents[i].Text under ModelName; that positional
// coupling is the contract every consumer relies on. A snapshot is written
// once and never mutated afterwards, so it is safe for concurrent reads.
type Snapshot struct {
	Version    int
	ModelName  string
	Dimensions int
	CreatedAt  time.Time

	Documents  []knowledge.Document
	Embeddings [][]float32
}

// NewSnapshot creates a snapshot from parallel document and embedding slices.
func NewSnapshot(modelName string, dimensions int, docs []knowledge.Document, embeddings [][]float32) *Snapshot {
	return &Snapshot{
		Version:    CurrentSnapshotVersion,
		ModelName:  modelName,
		Dimensions: dimensions,
		CreatedAt:  time.Now(),
		Documents:  docs,
		Embeddings: embeddings,
	}
}

// Size returns the number of documents in the snapshot.
func (s *Snapshot) Size() int {
	return len(s.Documents)
}

// Validate checks the positional coupling: one embedding row per document,
// every row at the declared dimension.
func (s *Snapshot) Validate() error {
	if len(s.Documents) != len(s.Embeddings) {
		return fmt.Errorf("%w: %d documents, %d embeddings",
			ErrInvalidSnapshot, len(s.Documents), len(s.Embeddings))
	}
	for i, emb := range s.Embeddings {
		if len(emb) != s.Dimensions {
			return fmt.Errorf("%w: embedding %d has %d dimensions, want %d",
				ErrInvalidSnapshot, i, len(emb), s.Dimensions)
		}
	}
	return nil
}

// Save persists the snapshot to path using GOB encoding. The write goes
// through a temp file and rename so readers never observe a partial cache.
// An invalid snapshot is refused, inconsistency must never reach disk.
func (s *Snapshot) Save(path string) error {
	if err := s.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	enc := gob.NewEncoder(f)
	if err := enc.Encode(s); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// Status classifies the outcome of loading a cached snapshot.
type Status int

// Load outcomes. Corrupt covers unreadable files, version mismatches and
// coupling violations; callers decide to rebuild rather than fail.
const (
	SnapshotValid Status = iota
	SnapshotAbsent
	SnapshotCorrupt
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case SnapshotValid:
		return "valid"
	case SnapshotAbsent:
		return "absent"
	case SnapshotCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// LoadResult is the explicit three-state outcome of Load. Snapshot is only
// set when Status is SnapshotValid; Err carries the cause when Status is
// SnapshotCorrupt.
type LoadResult struct {
	Status   Status
	Snapshot *Snapshot
	Err      error
}

// Load reads a persisted snapshot. It never fails: a missing file is
// reported as absent and anything unreadable or inconsistent as corrupt,
// leaving the rebuild decision to the caller.
func Load(path string) LoadResult {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return LoadResult{Status: SnapshotAbsent}
		}
		return LoadResult{Status: SnapshotCorrupt, Err: fmt.Errorf("opening snapshot: %w", err)}
	}
	defer f.Close()

	var snap Snapshot
	dec := gob.NewDecoder(f)
	if err := dec.Decode(&snap); err != nil {
		return LoadResult{Status: SnapshotCorrupt, Err: fmt.Errorf("decoding snapshot: %w", err)}
	}

	if snap.Version != CurrentSnapshotVersion {
		return LoadResult{Status: SnapshotCorrupt, Err: fmt.Errorf("snapshot version %d, want %d", snap.Version, CurrentSnapshotVersion)}
	}

	if err := snap.Validate(); err != nil {
		return LoadResult{Status: SnapshotCorrupt, Err: err}
	}

	return LoadResult{Status: SnapshotValid, Snapshot: &snap}
}

// Exists checks if a snapshot file exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FileSize returns the size of the snapshot file in bytes, or 0 if absent.
func FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
