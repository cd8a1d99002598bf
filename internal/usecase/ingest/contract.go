package ingest

import (
	"context"

	"github.com/kailas-cloud/ragdesk/internal/domain/chunk"
	"github.com/kailas-cloud/ragdesk/internal/domain/corpus"
	"github.com/kailas-cloud/ragdesk/internal/domain/domainname"
)

// Splitter cuts documents into pieces.
type Splitter interface {
	Split(docs []string) []chunk.Piece
}

// IndexWriter is the write side of the domain-scoped index.
type IndexWriter interface {
	GetOrCreate(ctx context.Context, d domainname.Name) (corpus.Index, error)
	NextIDs(ctx context.Context, d domainname.Name, n int) (int64, error)
	Insert(ctx context.Context, idx corpus.Index, records []chunk.Record) error
}
