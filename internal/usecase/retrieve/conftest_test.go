package retrieve

import (
	"context"
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/kailas-cloud/ragdesk/internal/domain"
	"github.com/kailas-cloud/ragdesk/internal/domain/chunk"
	"github.com/kailas-cloud/ragdesk/internal/domain/corpus"
	"github.com/kailas-cloud/ragdesk/internal/domain/domainname"
	"github.com/kailas-cloud/ragdesk/internal/domain/retrieval"
)

const fakeDims = 64

// hashEmbedder maps text to a bag-of-words vector. Identical text gives identical vectors.
type hashEmbedder struct {
	err error
}

func (e *hashEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	return domain.EmbeddingResult{Embedding: hashVector(text), TotalTokens: 1}, nil
}

func (e *hashEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	return domain.BatchFallback(ctx, e, texts)
}

func hashVector(text string) []float32 {
	v := make([]float32, fakeDims)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		v[h.Sum32()%fakeDims]++
	}
	// position-sensitive component so different word orders differ
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	v[h.Sum32()%fakeDims] += 0.5
	return v
}

// memIndex is an in-memory cosine index keyed by domain.
type memIndex struct {
	mu      sync.Mutex
	records map[string][]chunk.Record
	seq     map[string]int64
	getErr  error
	qErr    error
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
	return corpus.Index{Domain: d, Dimensions: fakeDims}, nil
}

func (m *memIndex) Get(_ context.Context, d domainname.Name) (corpus.Index, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return corpus.Index{}, m.getErr
	}
	if _, ok := m.records[d.String()]; !ok {
		return corpus.Index{}, domain.ErrDomainNotFound
	}
	return corpus.Index{Domain: d, Dimensions: fakeDims}, nil
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
	if m.qErr != nil {
		return nil, m.qErr
	}
	recs := m.records[idx.Domain.String()]
	hits := make([]retrieval.Hit, 0, len(recs))
	for _, r := range recs {
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
