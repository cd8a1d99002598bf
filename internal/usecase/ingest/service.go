// Package ingest turns submitted documents into indexed, embedded chunks.
package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdesk/internal/domain"
	"github.com/kailas-cloud/ragdesk/internal/domain/chunk"
	"github.com/kailas-cloud/ragdesk/internal/domain/domainname"
	"github.com/kailas-cloud/ragdesk/internal/logger"
	"github.com/kailas-cloud/ragdesk/internal/metrics"
)

// Result is the outcome of one submission.
type Result struct {
	OK     bool
	Chunks int
	Err    error
}

func failed(err error) Result {
	return Result{Err: err}
}

// Service runs the ingestion pipeline: split, embed, get-or-create index, reserve ids, insert.
type Service struct {
	splitter Splitter
	embed    domain.Embedder
	index    IndexWriter
}

// New creates an ingestion service.
func New(splitter Splitter, embed domain.Embedder, index IndexWriter) *Service {
	return &Service{splitter: splitter, embed: embed, index: index}
}

// Ingest stores texts under d. Failures are logged and reported in the result, never panicked.
// Chunks already inserted before a failure stay in the index.
func (s *Service) Ingest(ctx context.Context, d domainname.Name, texts []string) Result {
	log := logger.FromContext(ctx).With(zap.String("domain", d.String()))
	start := time.Now()

	res := s.ingest(ctx, d, texts)
	if res.OK {
		metrics.IngestTotal.WithLabelValues("success").Inc()
		metrics.IngestChunksTotal.Add(float64(res.Chunks))
		log.Info("documents ingested",
			zap.Int("documents", len(texts)),
			zap.Int("chunks", res.Chunks),
			zap.Duration("duration", time.Since(start)),
		)
		return res
	}

	metrics.IngestTotal.WithLabelValues("error").Inc()
	log.Error("ingestion failed",
		zap.Int("documents", len(texts)),
		zap.Duration("duration", time.Since(start)),
		zap.Error(res.Err),
	)
	return res
}

func (s *Service) ingest(ctx context.Context, d domainname.Name, texts []string) Result {
	pieces := s.splitter.Split(texts)
	if len(pieces) == 0 {
		return failed(domain.ErrEmptyDocument)
	}

	contents := make([]string, len(pieces))
	for i := range pieces {
		contents[i] = pieces[i].Content
	}
	emb, err := domain.EmbedAll(ctx, s.embed, contents)
	if err != nil {
		return failed(fmt.Errorf("embed chunks: %w", err))
	}
	if len(emb.Embeddings) != len(pieces) {
		return failed(fmt.Errorf("embed chunks: expected %d vectors, got %d: %w",
			len(pieces), len(emb.Embeddings), domain.ErrEmbeddingProviderError))
	}

	idx, err := s.index.GetOrCreate(ctx, d)
	if err != nil {
		return failed(fmt.Errorf("open index: %w", err))
	}

	first, err := s.index.NextIDs(ctx, d, len(pieces))
	if err != nil {
		return failed(fmt.Errorf("reserve ids: %w", err))
	}

	records := make([]chunk.Record, len(pieces))
	for i := range pieces {
		records[i] = chunk.Record{
			ID:     chunk.ID(d, first+int64(i)),
			Domain: d,
			Piece:  pieces[i],
			Vector: emb.Embeddings[i],
		}
	}
	if err := s.index.Insert(ctx, idx, records); err != nil {
		return failed(fmt.Errorf("insert chunks: %w", err))
	}

	return Result{OK: true, Chunks: len(records)}
}
