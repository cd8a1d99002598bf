package answer

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/ragdesk/internal/domain"
	"github.com/kailas-cloud/ragdesk/internal/metrics"
)

type mockCompleter struct {
	res    domain.CompletionResult
	err    error
	prompt string
}

func (m *mockCompleter) Complete(_ context.Context, prompt string) (domain.CompletionResult, error) {
	m.prompt = prompt
	return m.res, m.err
}

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("The sky is blue.", "What color is the sky?")
	want := "Based on the following context, answer the question in a detailed and conversational manner:\n\n" +
		"Context: The sky is blue.\n\nQuestion: What color is the sky?\n\nAnswer:"
	if got != want {
		t.Errorf("prompt mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestBuildPrompt_PlaceholdersInValues(t *testing.T) {
	got := BuildPrompt("about {query}", "q")
	want := "Based on the following context, answer the question in a detailed and conversational manner:\n\n" +
		"Context: about {query}\n\nQuestion: q\n\nAnswer:"
	if got != want {
		t.Errorf("context text must not be re-substituted: %q", got)
	}
}

func TestAnswer_ReturnsFirstChoice(t *testing.T) {
	llm := &mockCompleter{res: domain.CompletionResult{
		Content: "It is blue.", Choices: 1, PromptTokens: 30, CompletionTokens: 4,
	}}
	ctx, usage := domain.NewContextWithUsage(context.Background())

	got := New(llm, "").Answer(ctx, "The sky is blue.", "What color is the sky?")
	if got != "It is blue." {
		t.Errorf("got %q", got)
	}
	if llm.prompt != BuildPrompt("The sky is blue.", "What color is the sky?") {
		t.Errorf("unexpected prompt %q", llm.prompt)
	}
	if usage.CompletionTokens != 34 {
		t.Errorf("usage = %d, want 34", usage.CompletionTokens)
	}
}

func TestAnswer_Fallbacks(t *testing.T) {
	tests := []struct {
		name   string
		llm    *mockCompleter
		reason string
	}{
		{"provider error", &mockCompleter{err: domain.ErrCompletionProviderError}, "error"},
		{"no choices", &mockCompleter{res: domain.CompletionResult{Choices: 0}}, "no_choices"},
		{"empty content", &mockCompleter{res: domain.CompletionResult{Choices: 1, Content: "  "}}, "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(metrics.AnswerFallbacksTotal.WithLabelValues(tt.reason))

			got := New(tt.llm, "").Answer(context.Background(), "ctx", "q")
			if got != DefaultFallback {
				t.Errorf("got %q, want fallback", got)
			}
			if after := testutil.ToFloat64(metrics.AnswerFallbacksTotal.WithLabelValues(tt.reason)); after != before+1 {
				t.Errorf("answer_fallbacks_total{%s} = %v, want %v", tt.reason, after, before+1)
			}
		})
	}
}

func TestAnswer_CustomFallback(t *testing.T) {
	got := New(&mockCompleter{err: errors.New("down")}, "try later").Answer(context.Background(), "c", "q")
	if got != "try later" {
		t.Errorf("got %q", got)
	}
}
