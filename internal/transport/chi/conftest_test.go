package chi

import (
	"context"
	"hash/fnv"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdesk/internal/chunker"
	"github.com/kailas-cloud/ragdesk/internal/domain"
	"github.com/kailas-cloud/ragdesk/internal/domain/chunk"
	"github.com/kailas-cloud/ragdesk/internal/domain/corpus"
	"github.com/kailas-cloud/ragdesk/internal/domain/domainname"
	"github.com/kailas-cloud/ragdesk/internal/domain/retrieval"
	answeruc "github.com/kailas-cloud/ragdesk/internal/usecase/answer"
	healthuc "github.com/kailas-cloud/ragdesk/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/ragdesk/internal/usecase/ingest"
	retrieveuc "github.com/kailas-cloud/ragdesk/internal/usecase/retrieve"
	sessionuc "github.com/kailas-cloud/ragdesk/internal/usecase/session"
)

const testDims = 32

// wordEmbedder is a deterministic bag-of-words embedder.
type wordEmbedder struct{}

func (wordEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	v := make([]float32, testDims)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(strings.Trim(w, ".,?!")))
		v[h.Sum32()%testDims]++
	}
	return domain.EmbeddingResult{Embedding: v, TotalTokens: len(text) / 4}, nil
}

// memIndex is an in-memory cosine index keyed by domain.
type memIndex struct {
	mu      sync.Mutex
	records map[string][]chunk.Record
	seq     map[string]int64
}

func newMemIndex() *memIndex {
	return &memIndex{records: make(map[string][]chunk.Record), seq: make(map[string]int64)}
}

func (m *memIndex) GetOrCreate(_ context.Context, d domainname.Name) (corpus.Index, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[d.String()]; !ok {
		m.records[d.String()] = nil
	}
	return corpus.Index{Domain: d, Dimensions: testDims}, nil
}

func (m *memIndex) Get(_ context.Context, d domainname.Name) (corpus.Index, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[d.String()]; !ok {
		return corpus.Index{}, domain.ErrDomainNotFound
	}
	return corpus.Index{Domain: d, Dimensions: testDims}, nil
}

func (m *memIndex) NextIDs(_ context.Context, d domainname.Name, n int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	first := m.seq[d.String()]
	m.seq[d.String()] += int64(n)
	return first, nil
}

func (m *memIndex) Insert(_ context.Context, idx corpus.Index, records []chunk.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[idx.Domain.String()] = append(m.records[idx.Domain.String()], records...)
	return nil
}

func (m *memIndex) Query(_ context.Context, idx corpus.Index, vec []float32, k int) ([]retrieval.Hit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var hits []retrieval.Hit
	for _, r := range m.records[idx.Domain.String()] {
		hits = append(hits, retrieval.Hit{ID: r.ID, Content: r.Piece.Content, Score: cosine(vec, r.Vector)})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// recordingCompleter remembers every prompt and answers with a fixed text.
type recordingCompleter struct {
	mu      sync.Mutex
	prompts []string
	reply   string
}

func (c *recordingCompleter) Complete(_ context.Context, prompt string) (domain.CompletionResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	return domain.CompletionResult{Content: c.reply, Choices: 1, PromptTokens: 10, CompletionTokens: 5}, nil
}

func (c *recordingCompleter) lastPrompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.prompts) == 0 {
		return ""
	}
	return c.prompts[len(c.prompts)-1]
}

// memSessions is an in-memory session repository.
type memSessions struct {
	mu      sync.Mutex
	domains map[string][]domainname.Name
	err     error
}

func (m *memSessions) AddDomain(_ context.Context, id string, d domainname.Name) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.domains == nil {
		m.domains = make(map[string][]domainname.Name)
	}
	m.domains[id] = append(m.domains[id], d)
	return nil
}

type stubHealth struct {
	report healthuc.Report
}

func (s stubHealth) Check(context.Context) healthuc.Report { return s.report }

type testEnv struct {
	handler   http.Handler
	index     *memIndex
	llm       *recordingCompleter
	sessions  *memSessions
	staticDir string
}

type envOption func(*RouterConfig)

func withAPIKeys(keys ...string) envOption {
	return func(c *RouterConfig) { c.APIKeys = keys }
}

func withHealth(h HealthChecker) envOption {
	return func(c *RouterConfig) { c.Server.health = h }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	staticDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>ragdesk</html>"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(staticDir, "assets"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(staticDir, "assets", "app.js"), []byte("console.log(1)"), 0o600); err != nil {
		t.Fatal(err)
	}

	idx := newMemIndex()
	llm := &recordingCompleter{reply: "The sky is blue."}
	sessRepo := &memSessions{}
	sessions := sessionuc.New(sessRepo)
	log := zap.NewNop()

	server := NewServer(
		ingestuc.New(chunker.New(), wordEmbedder{}, idx),
		retrieveuc.New(idx, wordEmbedder{}),
		answeruc.New(llm, ""),
		sessions,
		nil,
		log,
	)
	cfg := RouterConfig{
		Server:    server,
		Sessions:  sessions,
		Cookie:    CookieConfig{Name: "ragdesk_session", MaxAge: 24 * time.Hour},
		StaticDir: staticDir,
		Logger:    log,
	}
	for _, o := range opts {
		o(&cfg)
	}

	return &testEnv{
		handler:   NewRouter(cfg),
		index:     idx,
		llm:       llm,
		sessions:  sessRepo,
		staticDir: staticDir,
	}
}
