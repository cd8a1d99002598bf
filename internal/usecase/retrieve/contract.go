package retrieve

import (
	"context"

	"github.com/kailas-cloud/ragdesk/internal/domain/corpus"
	"github.com/kailas-cloud/ragdesk/internal/domain/domainname"
	"github.com/kailas-cloud/ragdesk/internal/domain/retrieval"
)

// IndexReader is the read side of the domain-scoped index.
type IndexReader interface {
	Get(ctx context.Context, d domainname.Name) (corpus.Index, error)
	Query(ctx context.Context, idx corpus.Index, vec []float32, topK int) ([]retrieval.Hit, error)
}
