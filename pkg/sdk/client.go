package ragdesk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdesk/internal/chunker"
	"github.com/kailas-cloud/ragdesk/internal/db"
	dbValkey "github.com/kailas-cloud/ragdesk/internal/db/valkey"
	"github.com/kailas-cloud/ragdesk/internal/domain"
	"github.com/kailas-cloud/ragdesk/internal/domain/domainname"
	"github.com/kailas-cloud/ragdesk/internal/domain/retrieval"
	indexrepo "github.com/kailas-cloud/ragdesk/internal/repository/index"
	openaitransport "github.com/kailas-cloud/ragdesk/internal/transport/openai"
	answeruc "github.com/kailas-cloud/ragdesk/internal/usecase/answer"
	healthuc "github.com/kailas-cloud/ragdesk/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/ragdesk/internal/usecase/ingest"
	retrieveuc "github.com/kailas-cloud/ragdesk/internal/usecase/retrieve"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "rag:"
	defaultDimensions       = 1536
	defaultEmbeddingModel   = "text-embedding-3-small"
	defaultProviderTimeout  = 60 * time.Second
)

// Internal interfaces, swapped for fakes in tests.
type ingestUseCase interface {
	Ingest(ctx context.Context, d domainname.Name, texts []string) ingestuc.Result
}

type retrieveUseCase interface {
	Retrieve(ctx context.Context, d domainname.Name, query string) retrieval.Result
}

type answerUseCase interface {
	Answer(ctx context.Context, passage, query string) string
}

// Passage is the stored chunk closest to a question.
type Passage struct {
	ChunkID string
	Content string
	Score   float64
}

// Answer is the model's reply together with the passage it was grounded on.
type Answer struct {
	Text    string
	Passage Passage
}

// Client is the ragdesk SDK entry point.
type Client struct {
	store       db.Store
	ingestSvc   ingestUseCase
	retrieveSvc retrieveUseCase
	answerSvc   answerUseCase
	healthSvc   healthUseCase
	obs         *observer
}

// New creates a ragdesk Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:        defaultKeyPrefix,
		vectorDimensions: defaultDimensions,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("ragdesk: database address required (use WithValkey or WithRedis)")
	}
	if err := resolveProviders(cfg); err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := dbValkey.NewStore(dbValkey.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("ragdesk: create store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("ragdesk: database not ready: %w", err)
	}

	return wireClient(store, cfg, obs), nil
}

// resolveProviders fills in the OpenAI providers when WithOpenAI was given.
func resolveProviders(cfg *clientConfig) error {
	if cfg.openAIKey != "" {
		if cfg.embedder == nil {
			cfg.embedder = &domainEmbedder{inner: openaitransport.NewEmbedder(&openaitransport.Config{
				APIKey:     cfg.openAIKey,
				Model:      defaultEmbeddingModel,
				Dimensions: cfg.vectorDimensions,
				Provider:   "openai",
				Timeout:    defaultProviderTimeout,
				Logger:     zap.NewNop(),
			})}
		}
		if cfg.completer == nil {
			cfg.completer = &domainCompleter{inner: openaitransport.NewCompleter(&openaitransport.CompleterConfig{
				APIKey:  cfg.openAIKey,
				Timeout: defaultProviderTimeout,
				Logger:  zap.NewNop(),
			})}
		}
	}
	if cfg.embedder == nil {
		return errors.New("ragdesk: embedder required (use WithEmbedder or WithOpenAI)")
	}
	return nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	idx := indexrepo.New(store, cfg.keyPrefix, cfg.vectorDimensions)
	if cfg.hnswM > 0 || cfg.hnswEFConstruct > 0 {
		idx = idx.WithHNSW(indexrepo.HNSWConfig{
			M:           cfg.hnswM,
			EFConstruct: cfg.hnswEFConstruct,
		})
	}

	var splitOpts []chunker.Option
	if cfg.chunkSize > 0 {
		splitOpts = append(splitOpts, chunker.WithChunkSize(cfg.chunkSize))
	}
	if cfg.chunkOverlap > 0 {
		splitOpts = append(splitOpts, chunker.WithOverlap(cfg.chunkOverlap))
	}

	emb := &embedderAdapter{inner: cfg.embedder}

	var llm domain.Completer = &noopCompleter{}
	if cfg.completer != nil {
		llm = &completerAdapter{inner: cfg.completer}
	}

	return &Client{
		store:       store,
		ingestSvc:   ingestuc.New(chunker.New(splitOpts...), emb, idx),
		retrieveSvc: retrieveuc.New(idx, emb),
		answerSvc:   answeruc.New(llm, cfg.fallbackAnswer),
		healthSvc: healthuc.New(store,
			providerChecker(cfg.embedder), providerChecker(cfg.completer)),
		obs: obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Submit chunks, embeds and stores docs under the domain, creating its index on first use.
// It returns the number of chunks stored.
func (c *Client) Submit(ctx context.Context, domainName string, docs ...string) (n int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("submit", start, err) }()

	d, err := domainname.New(domainName)
	if err != nil {
		return 0, err
	}
	res := c.ingestSvc.Ingest(ctx, d, docs)
	if !res.OK {
		return 0, fmt.Errorf("submit to %s: %w", d, res.Err)
	}
	return res.Chunks, nil
}

// Retrieve returns the single stored chunk most similar to question.
func (c *Client) Retrieve(ctx context.Context, domainName, question string) (p Passage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("retrieve", start, err) }()

	return c.retrieve(ctx, domainName, question)
}

func (c *Client) retrieve(ctx context.Context, domainName, question string) (Passage, error) {
	d, err := domainname.New(domainName)
	if err != nil {
		return Passage{}, err
	}
	res := c.retrieveSvc.Retrieve(ctx, d, question)
	hit, ok := res.Hit()
	if !ok {
		if res.Err != nil {
			return Passage{}, fmt.Errorf("%w: %w", ErrNoRelevantDocuments, res.Err)
		}
		return Passage{}, ErrNoRelevantDocuments
	}
	return Passage{ChunkID: hit.ID, Content: hit.Content, Score: hit.Score}, nil
}

// Ask answers question from the closest chunk in the domain.
// A model failure is not an error: Text then holds the fallback apology.
func (c *Client) Ask(ctx context.Context, domainName, question string) (a Answer, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ask", start, err) }()

	if question == "" {
		return Answer{}, errors.New("ragdesk: question is empty")
	}
	p, err := c.retrieve(ctx, domainName, question)
	if err != nil {
		return Answer{}, err
	}
	return Answer{
		Text:    c.answerSvc.Answer(ctx, p.Content, question),
		Passage: p,
	}, nil
}
