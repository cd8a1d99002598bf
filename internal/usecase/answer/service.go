// Package answer turns a retrieved passage and a question into a natural-language reply.
package answer

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdesk/internal/domain"
	"github.com/kailas-cloud/ragdesk/internal/logger"
	"github.com/kailas-cloud/ragdesk/internal/metrics"
)

// DefaultFallback is returned whenever the provider gives no usable answer.
const DefaultFallback = "I am sorry, I could not generate a response."

const promptTemplate = "Based on the following context, answer the question in a detailed and conversational manner:" +
	"\n\nContext: {context}\n\nQuestion: {query}\n\nAnswer:"

// BuildPrompt fills the answer template. Placeholders are substituted once, in one pass.
func BuildPrompt(passage, query string) string {
	return strings.NewReplacer("{context}", passage, "{query}", query).Replace(promptTemplate)
}

// Service generates answers with a single chat completion per question.
type Service struct {
	llm      domain.Completer
	fallback string
}

// New creates an answer service. An empty fallback selects DefaultFallback.
func New(llm domain.Completer, fallback string) *Service {
	if fallback == "" {
		fallback = DefaultFallback
	}
	return &Service{llm: llm, fallback: fallback}
}

// Answer never fails: provider errors, zero choices and empty content all yield the fallback text.
func (s *Service) Answer(ctx context.Context, passage, query string) string {
	log := logger.FromContext(ctx)
	start := time.Now()

	res, err := s.llm.Complete(ctx, BuildPrompt(passage, query))
	if err != nil {
		metrics.AnswerFallbacksTotal.WithLabelValues("error").Inc()
		log.Error("answer generation failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return s.fallback
	}

	domain.UsageFromContext(ctx).AddCompletionTokens(res.PromptTokens + res.CompletionTokens)

	if res.Choices == 0 {
		metrics.AnswerFallbacksTotal.WithLabelValues("no_choices").Inc()
		log.Warn("completion returned no choices")
		return s.fallback
	}
	if strings.TrimSpace(res.Content) == "" {
		metrics.AnswerFallbacksTotal.WithLabelValues("empty").Inc()
		log.Warn("completion returned empty content")
		return s.fallback
	}

	log.Debug("answer generated",
		zap.Duration("duration", time.Since(start)),
		zap.Int("prompt_tokens", res.PromptTokens),
		zap.Int("completion_tokens", res.CompletionTokens),
	)
	return res.Content
}
