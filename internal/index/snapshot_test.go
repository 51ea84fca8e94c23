package index

import (
	"encoding/gob"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/owid-edu/owidrag/internal/knowledge"
)

func snapshotPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "cache", "knowledge_base.gob")
}

func sampleSnapshot() *Snapshot {
	docs := []knowledge.Document{
		{Text: "O HDI mede desenvolvimento humano", Source: "Definição HDI", Type: knowledge.TypeDefinition},
		{Text: "Fonte dos dados: UNDP", Source: "Metadados HDI - Citação", Type: knowledge.TypeCitation},
	}
	embeddings := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
	}
	return NewSnapshot("test-model", 3, docs, embeddings)
}

func TestSnapshot_Validate(t *testing.T) {
	t.Run("valid snapshot", func(t *testing.T) {
		if err := sampleSnapshot().Validate(); err != nil {
			t.Errorf("Validate failed: %v", err)
		}
	})

	t.Run("count mismatch", func(t *testing.T) {
		snap := sampleSnapshot()
		snap.Embeddings = snap.Embeddings[:1]

		err := snap.Validate()
		if !errors.Is(err, ErrInvalidSnapshot) {
			t.Errorf("expected ErrInvalidSnapshot, got %v", err)
		}
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		snap := sampleSnapshot()
		snap.Embeddings[1] = []float32{0, 1}

		err := snap.Validate()
		if !errors.Is(err, ErrInvalidSnapshot) {
			t.Errorf("expected ErrInvalidSnapshot, got %v", err)
		}
	})

	t.Run("empty snapshot is valid", func(t *testing.T) {
		snap := NewSnapshot("test-model", 3, nil, nil)
		if err := snap.Validate(); err != nil {
			t.Errorf("Validate failed for empty snapshot: %v", err)
		}
	})
}

func TestSnapshot_SaveAndLoad(t *testing.T) {
	path := snapshotPath(t)
	snap := sampleSnapshot()

	if err := snap.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !Exists(path) {
		t.Fatal("snapshot file should exist after Save")
	}
	if FileSize(path) <= 0 {
		t.Error("snapshot file size should be positive")
	}

	res := Load(path)
	if res.Status != SnapshotValid {
		t.Fatalf("Load status = %v, want valid (err: %v)", res.Status, res.Err)
	}

	loaded := res.Snapshot
	if loaded.ModelName != snap.ModelName {
		t.Errorf("model name = %s, want %s", loaded.ModelName, snap.ModelName)
	}
	if loaded.Dimensions != snap.Dimensions {
		t.Errorf("dimensions = %d, want %d", loaded.Dimensions, snap.Dimensions)
	}
	if loaded.Size() != snap.Size() {
		t.Fatalf("size = %d, want %d", loaded.Size(), snap.Size())
	}
	for i, doc := range snap.Documents {
		if loaded.Documents[i] != doc {
			t.Errorf("document %d mismatch: got %+v, want %+v", i, loaded.Documents[i], doc)
		}
		for j, v := range snap.Embeddings[i] {
			if math.Abs(float64(loaded.Embeddings[i][j]-v)) > 1e-6 {
				t.Errorf("embedding [%d][%d] = %v, want %v", i, j, loaded.Embeddings[i][j], v)
			}
		}
	}
}

func TestSnapshot_Save_RefusesInvalid(t *testing.T) {
	path := snapshotPath(t)
	snap := sampleSnapshot()
	snap.Embeddings = snap.Embeddings[:1]

	err := snap.Save(path)
	if !errors.Is(err, ErrInvalidSnapshot) {
		t.Errorf("expected ErrInvalidSnapshot, got %v", err)
	}
	if Exists(path) {
		t.Error("inconsistent snapshot must not reach disk")
	}
}

func TestSnapshot_Save_Overwrites(t *testing.T) {
	path := snapshotPath(t)

	first := sampleSnapshot()
	if err := first.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second := NewSnapshot("test-model", 3,
		[]knowledge.Document{{Text: "novo", Source: "x", Type: knowledge.TypeDocumentation}},
		[][]float32{{0, 0, 1}},
	)
	if err := second.Save(path); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	res := Load(path)
	if res.Status != SnapshotValid {
		t.Fatalf("Load status = %v, want valid", res.Status)
	}
	if res.Snapshot.Size() != 1 {
		t.Errorf("size = %d, want 1 after overwrite", res.Snapshot.Size())
	}
}

func TestLoad_Absent(t *testing.T) {
	res := Load(filepath.Join(t.TempDir(), "missing.gob"))

	if res.Status != SnapshotAbsent {
		t.Errorf("status = %v, want absent", res.Status)
	}
	if res.Snapshot != nil {
		t.Error("absent result must not carry a snapshot")
	}
}

func TestLoad_Corrupt(t *testing.T) {
	t.Run("garbage bytes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.gob")
		if err := os.WriteFile(path, []byte("not a gob stream"), 0644); err != nil {
			t.Fatalf("writing file: %v", err)
		}

		res := Load(path)
		if res.Status != SnapshotCorrupt {
			t.Errorf("status = %v, want corrupt", res.Status)
		}
		if res.Err == nil {
			t.Error("corrupt result should carry the cause")
		}
	})

	t.Run("version mismatch", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.gob")
		snap := sampleSnapshot()
		snap.Version = CurrentSnapshotVersion + 1
		// Bypass Save's own version stamp by encoding directly through Save;
		// Validate does not check version, Load does.
		if err := snap.Save(path); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		res := Load(path)
		if res.Status != SnapshotCorrupt {
			t.Errorf("status = %v, want corrupt", res.Status)
		}
	})

	t.Run("coupling violation", func(t *testing.T) {
		// Encode a snapshot with mismatched slices without going through
		// Save's validation.
		path := filepath.Join(t.TempDir(), "cache.gob")
		snap := sampleSnapshot()
		snap.Save(path)

		good := Load(path)
		if good.Status != SnapshotValid {
			t.Fatalf("setup load failed: %v", good.Status)
		}

		bad := *good.Snapshot
		bad.Embeddings = bad.Embeddings[:1]
		if err := encodeRaw(path, &bad); err != nil {
			t.Fatalf("encoding raw snapshot: %v", err)
		}

		res := Load(path)
		if res.Status != SnapshotCorrupt {
			t.Errorf("status = %v, want corrupt", res.Status)
		}
		if !errors.Is(res.Err, ErrInvalidSnapshot) {
			t.Errorf("expected ErrInvalidSnapshot cause, got %v", res.Err)
		}
	})
}

// encodeRaw gob-encodes a snapshot straight to disk, skipping Save's
// validation, so tests can plant inconsistent caches.
func encodeRaw(path string, snap *Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(snap)
}

func TestLoad_TruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.gob")
	snap := sampleSnapshot()
	if err := snap.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	if err := os.WriteFile(path, data[:len(data)/2], 0644); err != nil {
		t.Fatalf("truncating snapshot: %v", err)
	}

	res := Load(path)
	if res.Status != SnapshotCorrupt {
		t.Errorf("status = %v, want corrupt", res.Status)
	}
}
