package ragdesk

import (
	"context"

	"github.com/kailas-cloud/ragdesk/internal/db"
	"github.com/kailas-cloud/ragdesk/internal/domain/domainname"
	"github.com/kailas-cloud/ragdesk/internal/domain/retrieval"
	healthuc "github.com/kailas-cloud/ragdesk/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/ragdesk/internal/usecase/ingest"
)

// --- ingestUseCase mock ---

type mockIngestUC struct {
	fn func(ctx context.Context, d domainname.Name, texts []string) ingestuc.Result
}

func (m *mockIngestUC) Ingest(ctx context.Context, d domainname.Name, texts []string) ingestuc.Result {
	return m.fn(ctx, d, texts)
}

// --- retrieveUseCase mock ---

type mockRetrieveUC struct {
	fn func(ctx context.Context, d domainname.Name, query string) retrieval.Result
}

func (m *mockRetrieveUC) Retrieve(ctx context.Context, d domainname.Name, query string) retrieval.Result {
	return m.fn(ctx, d, query)
}

// --- answerUseCase mock ---

type mockAnswerUC struct {
	fn func(ctx context.Context, passage, query string) string
}

func (m *mockAnswerUC) Answer(ctx context.Context, passage, query string) string {
	return m.fn(ctx, passage, query)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- db.Store stub for Ping/Close ---

type pingStore struct {
	db.Store
	err    error
	closed bool
}

func (s *pingStore) Ping(context.Context) error { return s.err }
func (s *pingStore) Close()                     { s.closed = true }

// --- public provider mocks ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

type mockBatchEmbedder struct {
	mockEmbedder
	batchFn func(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

func (m *mockBatchEmbedder) BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error) {
	return m.batchFn(ctx, texts)
}

type mockCompleter struct {
	fn func(ctx context.Context, prompt string) (CompletionResult, error)
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (CompletionResult, error) {
	return m.fn(ctx, prompt)
}
