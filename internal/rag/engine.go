// Package rag wires the knowledge-base builder, embedding provider and
// snapshot cache into a query-time retrieval engine.
package rag

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/owid-edu/owidrag/internal/embedding"
	"github.com/owid-edu/owidrag/internal/index"
	"github.com/owid-edu/owidrag/internal/knowledge"
)

// KnowledgeBuilder assembles the document collection to index.
// *knowledge.Builder is the production implementation.
type KnowledgeBuilder interface {
	Build() ([]knowledge.Document, error)
}

// Engine answers similarity queries against a snapshot that is materialized
// at most once per process: the cache is tried first, and a full
// build-embed-save runs only on a miss. After materialization the snapshot
// is immutable, so concurrent Search/Explain calls need no locking.
type Engine struct {
	provider  embedding.Provider
	builder   KnowledgeBuilder
	cachePath string
	topK      int
	threshold float32
	warnf     func(format string, args ...any)

	once    sync.Once
	snap    *index.Snapshot
	initErr error
}

// Option configures an Engine.
type Option func(*Engine)

// WithTopK sets the default result cap used by SearchDefaults and Explain.
func WithTopK(k int) Option {
	return func(e *Engine) {
		e.topK = k
	}
}

// WithThreshold sets the default similarity floor.
func WithThreshold(threshold float32) Option {
	return func(e *Engine) {
		e.threshold = threshold
	}
}

// WithWarnf sets the sink for non-fatal warnings (e.g. a cache write that
// failed while the in-memory snapshot keeps serving queries).
func WithWarnf(warnf func(format string, args ...any)) Option {
	return func(e *Engine) {
		e.warnf = warnf
	}
}

// New creates an engine. Dependencies are passed explicitly; the engine
// keeps no global state.
func New(provider embedding.Provider, builder KnowledgeBuilder, cachePath string, opts ...Option) *Engine {
	e := &Engine{
		provider:  provider,
		builder:   builder,
		cachePath: cachePath,
		topK:      5,
		threshold: 0.3,
		warnf:     func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TopK returns the configured default result cap.
func (e *Engine) TopK() int { return e.topK }

// Threshold returns the configured default similarity floor.
func (e *Engine) Threshold() float32 { return e.threshold }

// init materializes the snapshot exactly once. Concurrent first callers
// block on the same build; the cache write is last-writer-wins across
// processes, which is fine because the content is deterministic.
func (e *Engine) init(ctx context.Context) error {
	e.once.Do(func() {
		e.snap, e.initErr = e.loadOrBuild(ctx)
	})
	return e.initErr
}

// Snapshot returns the materialized snapshot, building it if needed.
func (e *Engine) Snapshot(ctx context.Context) (*index.Snapshot, error) {
	if err := e.init(ctx); err != nil {
		return nil, err
	}
	return e.snap, nil
}

func (e *Engine) loadOrBuild(ctx context.Context) (*index.Snapshot, error) {
	res := index.Load(e.cachePath)
	switch res.Status {
	case index.SnapshotValid:
		// A cache written by a different model is unusable: its scores
		// would be silently meaningless. Treat it as a miss.
		if res.Snapshot.ModelName == e.provider.ModelName() && res.Snapshot.Dimensions == e.provider.Dimensions() {
			return res.Snapshot, nil
		}
		e.warnf("cache built with model %s (%d dims), want %s (%d dims); rebuilding",
			res.Snapshot.ModelName, res.Snapshot.Dimensions, e.provider.ModelName(), e.provider.Dimensions())
	case index.SnapshotCorrupt:
		e.warnf("cache unreadable (%v); rebuilding", res.Err)
	}

	snap, _, err := e.buildSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	if err := snap.Save(e.cachePath); err != nil {
		// The in-memory snapshot still serves queries; only the next
		// process pays the rebuild again.
		e.warnf("saving cache: %v", err)
	}

	return snap, nil
}

// BuildStats reports the outcome of a snapshot build.
type BuildStats struct {
	Documents  int           `json:"documents"`
	Dimensions int           `json:"dimensions"`
	Duration   time.Duration `json:"-"`
	DurationMs int64         `json:"duration_ms"`
}

// buildSnapshot assembles the knowledge base and embeds every document.
// Any embedding failure aborts: nothing partial is ever returned or cached.
func (e *Engine) buildSnapshot(ctx context.Context) (*index.Snapshot, *BuildStats, error) {
	start := time.Now()

	docs, err := e.builder.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("building knowledge base: %w", err)
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}

	embs, err := e.provider.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, nil, fmt.Errorf("embedding knowledge base: %w", err)
	}
	if len(embs) != len(docs) {
		return nil, nil, fmt.Errorf("embedding knowledge base: got %d embeddings for %d documents", len(embs), len(docs))
	}

	vectors := make([][]float32, len(embs))
	for i, emb := range embs {
		vectors[i] = emb.Vector
	}

	snap := index.NewSnapshot(e.provider.ModelName(), e.provider.Dimensions(), docs, vectors)
	if err := snap.Validate(); err != nil {
		return nil, nil, err
	}

	d := time.Since(start)
	stats := &BuildStats{
		Documents:  snap.Size(),
		Dimensions: snap.Dimensions,
		Duration:   d,
		DurationMs: d.Milliseconds(),
	}
	return snap, stats, nil
}

// Rebuild discards any cached snapshot, builds a fresh one and overwrites
// the cache. Not safe to call concurrently with queries; it exists for the
// CLI's explicit index-build path.
func (e *Engine) Rebuild(ctx context.Context) (*index.Snapshot, *BuildStats, error) {
	snap, stats, err := e.buildSnapshot(ctx)
	if err != nil {
		return nil, nil, err
	}

	if err := snap.Save(e.cachePath); err != nil {
		return nil, nil, fmt.Errorf("saving cache: %w", err)
	}

	// Later queries on this engine see the fresh snapshot.
	e.once.Do(func() {})
	e.snap, e.initErr = snap, nil

	return snap, stats, nil
}

// Search embeds the query and returns the ranked documents above the
// threshold within the topK window. An empty or degraded knowledge base
// yields an empty result slice, not an error.
func (e *Engine) Search(ctx context.Context, query string, topK int, threshold float32) ([]index.Result, error) {
	if err := e.init(ctx); err != nil {
		return nil, err
	}

	queryEmb, err := e.provider.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	return e.snap.Search(queryEmb.Vector, topK, threshold), nil
}

// SearchDefaults runs Search with the engine's configured defaults.
func (e *Engine) SearchDefaults(ctx context.Context, query string) ([]index.Result, error) {
	return e.Search(ctx, query, e.topK, e.threshold)
}

// EmbedQuery exposes the raw query embedding for inspection. It uses the
// exact encoding path Search uses.
func (e *Engine) EmbedQuery(ctx context.Context, query string) (embedding.Embedding, error) {
	if err := e.init(ctx); err != nil {
		return embedding.Embedding{}, err
	}
	return e.provider.Embed(ctx, query)
}
