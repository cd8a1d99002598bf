package ragdesk

import (
	"context"
	"errors"

	"github.com/kailas-cloud/ragdesk/internal/domain"
	healthuc "github.com/kailas-cloud/ragdesk/internal/usecase/health"
)

// embedderAdapter exposes a public Embedder as domain.Embedder and domain.BatchEmbedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

func (a *embedderAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	be, ok := a.inner.(BatchEmbedder)
	if !ok {
		return domain.BatchFallback(ctx, a, texts)
	}
	r, err := be.BatchEmbed(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, err
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   r.Embeddings,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// domainEmbedder exposes a domain.Embedder (the built-in OpenAI provider) as a public Embedder.
type domainEmbedder struct {
	inner domain.Embedder
}

func (e *domainEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	r, err := e.inner.Embed(ctx, text)
	if err != nil {
		return EmbeddingResult{}, err
	}
	return EmbeddingResult(r), nil
}

func (e *domainEmbedder) BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error) {
	r, err := domain.EmbedAll(ctx, e.inner, texts)
	if err != nil {
		return BatchEmbeddingResult{}, err
	}
	return BatchEmbeddingResult(r), nil
}

func (e *domainEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := e.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// completerAdapter exposes a public Completer as domain.Completer.
type completerAdapter struct {
	inner Completer
}

func (a *completerAdapter) Complete(ctx context.Context, prompt string) (domain.CompletionResult, error) {
	r, err := a.inner.Complete(ctx, prompt)
	if err != nil {
		return domain.CompletionResult{}, err
	}
	return domain.CompletionResult(r), nil
}

// domainCompleter exposes a domain.Completer as a public Completer.
type domainCompleter struct {
	inner domain.Completer
}

func (c *domainCompleter) Complete(ctx context.Context, prompt string) (CompletionResult, error) {
	r, err := c.inner.Complete(ctx, prompt)
	if err != nil {
		return CompletionResult{}, err
	}
	return CompletionResult(r), nil
}

func (c *domainCompleter) HealthCheck(ctx context.Context) error {
	if hc, ok := c.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// noopCompleter fails every call, so Ask falls back to the apology text.
type noopCompleter struct{}

func (n *noopCompleter) Complete(context.Context, string) (domain.CompletionResult, error) {
	return domain.CompletionResult{}, errors.New("ragdesk: completer not configured (use WithCompleter or WithOpenAI)")
}

// providerChecker returns v as a health checker, or nil when v cannot report health.
func providerChecker(v any) healthuc.ProviderChecker {
	if hc, ok := v.(healthuc.ProviderChecker); ok {
		return hc
	}
	return nil
}
