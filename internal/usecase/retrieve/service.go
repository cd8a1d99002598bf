// Package retrieve finds the stored chunk nearest to a question.
package retrieve

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdesk/internal/domain"
	"github.com/kailas-cloud/ragdesk/internal/domain/domainname"
	"github.com/kailas-cloud/ragdesk/internal/domain/retrieval"
	"github.com/kailas-cloud/ragdesk/internal/logger"
	"github.com/kailas-cloud/ragdesk/internal/metrics"
)

// topK is fixed: only the single nearest chunk feeds the prompt.
const topK = 1

// Service runs the retrieval pipeline: open index, embed query, nearest-neighbour lookup.
type Service struct {
	index IndexReader
	embed domain.Embedder
}

// New creates a retrieval service.
func New(index IndexReader, embed domain.Embedder) *Service {
	return &Service{index: index, embed: embed}
}

// Retrieve returns the chunk of d most similar to query.
// Every failure degrades to an empty result whose Err records the cause.
// The index is never created here.
func (s *Service) Retrieve(ctx context.Context, d domainname.Name, query string) retrieval.Result {
	log := logger.FromContext(ctx).With(zap.String("domain", d.String()))

	res := s.retrieve(ctx, d, query)
	switch {
	case !res.IsEmpty():
		metrics.RetrievalTotal.WithLabelValues("hit").Inc()
		hit, _ := res.Hit()
		log.Debug("chunk retrieved", zap.String("chunk_id", hit.ID), zap.Float64("score", hit.Score))
	case res.Err == nil || errors.Is(res.Err, domain.ErrDomainNotFound):
		metrics.RetrievalTotal.WithLabelValues("miss").Inc()
		log.Info("no relevant chunk", zap.NamedError("cause", res.Err))
	default:
		metrics.RetrievalTotal.WithLabelValues("error").Inc()
		log.Error("retrieval failed", zap.Error(res.Err))
	}
	return res
}

func (s *Service) retrieve(ctx context.Context, d domainname.Name, query string) retrieval.Result {
	idx, err := s.index.Get(ctx, d)
	if err != nil {
		return retrieval.Empty(fmt.Errorf("open index: %w", err))
	}

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return retrieval.Empty(fmt.Errorf("embed query: %w", err))
	}

	hits, err := s.index.Query(ctx, idx, emb.Embedding, topK)
	if err != nil {
		return retrieval.Empty(fmt.Errorf("query index: %w", err))
	}
	if len(hits) == 0 {
		return retrieval.Empty(nil)
	}
	return retrieval.Found(hits[0])
}
