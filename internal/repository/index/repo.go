// Package index stores chunk embeddings in one Valkey FT index per domain.
package index

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/ragdesk/internal/db"
	"github.com/kailas-cloud/ragdesk/internal/domain"
	"github.com/kailas-cloud/ragdesk/internal/domain/chunk"
	"github.com/kailas-cloud/ragdesk/internal/domain/corpus"
	"github.com/kailas-cloud/ragdesk/internal/domain/domainname"
	"github.com/kailas-cloud/ragdesk/internal/domain/retrieval"
)

// store is the consumer interface for the domain index (ISP).
//
//nolint:interfacebloat // index repo needs hash, counter, index and search operations
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// HNSWConfig HNSW index parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo implements the domain-scoped index over a Valkey store.
type Repo struct {
	store      store
	keys       keys
	dimensions int
	hnsw       HNSWConfig
}

// New creates an index repository. dimensions is the embedding length every index is built with.
func New(s store, keyPrefix string, dimensions int) *Repo {
	return &Repo{
		store:      s,
		keys:       keys{prefix: keyPrefix},
		dimensions: dimensions,
		hnsw:       HNSWConfig{M: 16, EFConstruct: 200},
	}
}

// WithHNSW configures HNSW index parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// GetOrCreate returns the domain index, creating it (FT.CREATE + metadata hash) when absent.
// Idempotent: a concurrent creator winning the race is not an error.
func (r *Repo) GetOrCreate(ctx context.Context, d domainname.Name) (corpus.Index, error) {
	idx := r.keys.index(d)

	exists, err := r.store.IndexExists(ctx, idx)
	if err != nil {
		return corpus.Index{}, fmt.Errorf("check index %s: %w", idx, err)
	}
	if !exists {
		def, err := buildIndex(r.keys, d, r.dimensions, r.hnsw)
		if err != nil {
			return corpus.Index{}, fmt.Errorf("build index: %w", err)
		}
		if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
			return corpus.Index{}, fmt.Errorf("create index %s: %w", idx, err)
		}
	}

	meta, err := r.store.HGetAll(ctx, r.keys.meta(d))
	if err != nil {
		return corpus.Index{}, fmt.Errorf("hgetall domain %s: %w", d, err)
	}
	if len(meta) > 0 {
		return r.handleFromMeta(d, meta)
	}

	h := corpus.Index{Domain: d, Dimensions: r.dimensions, CreatedAt: time.Now().UnixMilli()}
	if err := r.store.HSet(ctx, r.keys.meta(d), metaToHash(h)); err != nil {
		return corpus.Index{}, fmt.Errorf("hset domain %s: %w", d, err)
	}
	return h, nil
}

// Get returns the domain index or domain.ErrDomainNotFound when it was never created.
func (r *Repo) Get(ctx context.Context, d domainname.Name) (corpus.Index, error) {
	idx := r.keys.index(d)

	exists, err := r.store.IndexExists(ctx, idx)
	if err != nil {
		return corpus.Index{}, fmt.Errorf("check index %s: %w", idx, err)
	}
	if !exists {
		return corpus.Index{}, domain.ErrDomainNotFound
	}

	meta, err := r.store.HGetAll(ctx, r.keys.meta(d))
	if err != nil {
		return corpus.Index{}, fmt.Errorf("hgetall domain %s: %w", d, err)
	}
	if len(meta) == 0 {
		// index created by an older process before metadata existed
		return corpus.Index{Domain: d, Dimensions: r.dimensions}, nil
	}
	return r.handleFromMeta(d, meta)
}

// NextIDs reserves n sequential ids for the domain and returns the first one.
// INCRBY is atomic, so concurrent ingestion never hands out the same id twice.
func (r *Repo) NextIDs(ctx context.Context, d domainname.Name, n int) (int64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("reserve %d ids: count must be positive", n)
	}
	last, err := r.store.IncrBy(ctx, r.keys.seq(d), int64(n))
	if err != nil {
		return 0, fmt.Errorf("incrby seq %s: %w", d, err)
	}
	return last - int64(n), nil
}

// Insert writes records in one pipelined round-trip. No dedup: an existing id is overwritten.
// On failure earlier records in the pipeline may already be stored.
func (r *Repo) Insert(ctx context.Context, h corpus.Index, records []chunk.Record) error {
	if len(records) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(records))
	for i := range records {
		rec := &records[i]
		if len(rec.Vector) != h.Dimensions {
			return fmt.Errorf("record %s has %d dims, index %s expects %d: %w",
				rec.ID, len(rec.Vector), h.Domain, h.Dimensions, domain.ErrVectorDimMismatch)
		}
		items[i] = db.HashSetItem{
			Key:    r.keys.chunk(h.Domain, rec.ID),
			Fields: recordToHash(rec),
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset chunks %s: %w", h.Domain, err)
	}
	return nil
}

// Query returns up to topK chunks closest to vec, best first.
// A vanished index reports domain.ErrDomainNotFound.
func (r *Repo) Query(ctx context.Context, h corpus.Index, vec []float32, topK int) ([]retrieval.Hit, error) {
	if len(vec) != h.Dimensions {
		return nil, fmt.Errorf("query has %d dims, index %s expects %d: %w",
			len(vec), h.Domain, h.Dimensions, domain.ErrVectorDimMismatch)
	}

	res, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.keys.index(h.Domain),
		Vector:       vec,
		K:            topK,
		ReturnFields: []string{fieldContent},
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, domain.ErrDomainNotFound
		}
		return nil, fmt.Errorf("knn search %s: %w", h.Domain, err)
	}

	hits := make([]retrieval.Hit, 0, len(res.Entries))
	for _, e := range res.Entries {
		hits = append(hits, retrieval.Hit{
			ID:      r.keys.chunkID(h.Domain, e.Key),
			Content: e.Fields[fieldContent],
			Score:   e.Score,
		})
	}
	return hits, nil
}

func (r *Repo) handleFromMeta(d domainname.Name, meta map[string]string) (corpus.Index, error) {
	h := corpus.Index{Domain: d, Dimensions: r.dimensions}
	if s := meta[metaDimensions]; s != "" {
		dims, err := strconv.Atoi(s)
		if err != nil {
			return corpus.Index{}, fmt.Errorf("invalid dimensions %q for domain %s: %w", s, d, err)
		}
		h.Dimensions = dims
	}
	if s := meta[metaCreatedAt]; s != "" {
		if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
			h.CreatedAt = ts
		}
	}
	if h.Dimensions != r.dimensions {
		return corpus.Index{}, fmt.Errorf("domain %s was indexed with %d dims, embedder produces %d: %w",
			d, h.Dimensions, r.dimensions, domain.ErrVectorDimMismatch)
	}
	return h, nil
}
