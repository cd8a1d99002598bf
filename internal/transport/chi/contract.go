package chi

import (
	"context"

	"github.com/kailas-cloud/ragdesk/internal/domain/domainname"
	"github.com/kailas-cloud/ragdesk/internal/domain/retrieval"
	healthuc "github.com/kailas-cloud/ragdesk/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/ragdesk/internal/usecase/ingest"
)

// Ingester stores submitted documents under a domain.
type Ingester interface {
	Ingest(ctx context.Context, d domainname.Name, texts []string) ingestuc.Result
}

// Retriever finds the chunk nearest to a question.
type Retriever interface {
	Retrieve(ctx context.Context, d domainname.Name, query string) retrieval.Result
}

// Answerer writes the reply from a passage and a question.
type Answerer interface {
	Answer(ctx context.Context, passage, query string) string
}

// Sessions issues session ids and records the domains they use.
type Sessions interface {
	NewID() string
	Valid(id string) bool
	Remember(ctx context.Context, id string, d domainname.Name) error
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
