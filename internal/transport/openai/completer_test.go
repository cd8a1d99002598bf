package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdesk/internal/domain"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatServer(t *testing.T, got *chatRequest, choices ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got != nil {
			_ = json.NewDecoder(r.Body).Decode(got)
		}

		out := make([]map[string]any, 0, len(choices))
		for i, c := range choices {
			out = append(out, map[string]any{
				"index":         i,
				"message":       map[string]any{"role": "assistant", "content": c},
				"finish_reason": "stop",
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"model":   "gpt-4",
			"choices": out,
			"usage":   map[string]any{"prompt_tokens": 30, "completion_tokens": 12, "total_tokens": 42},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestCompleter(baseURL, model string) *Completer {
	return NewCompleter(&CompleterConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   model,
		Logger:  zap.NewNop(),
	})
}

func TestCompleter_SingleSystemMessage(t *testing.T) {
	var req chatRequest
	srv := chatServer(t, &req, "The sky is blue.", "ignored")

	res, err := newTestCompleter(srv.URL, "").Complete(context.Background(), "Context: The sky is blue.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Model != "gpt-4" {
		t.Errorf("expected default model gpt-4, got %q", req.Model)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != "system" {
		t.Fatalf("expected one system message, got %+v", req.Messages)
	}
	if req.Messages[0].Content != "Context: The sky is blue." {
		t.Errorf("prompt not forwarded verbatim: %q", req.Messages[0].Content)
	}
	if res.Content != "The sky is blue." || res.Choices != 2 {
		t.Errorf("unexpected result %+v", res)
	}
	if res.PromptTokens != 30 || res.CompletionTokens != 12 {
		t.Errorf("unexpected usage %+v", res)
	}
}

func TestCompleter_ConfiguredModel(t *testing.T) {
	var req chatRequest
	srv := chatServer(t, &req, "ok")

	if _, err := newTestCompleter(srv.URL, "gpt-4o-mini").Complete(context.Background(), "p"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", req.Model)
	}
}

func TestCompleter_NoChoices(t *testing.T) {
	srv := chatServer(t, nil)

	res, err := newTestCompleter(srv.URL, "").Complete(context.Background(), "p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Choices != 0 || res.Content != "" {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestCompleter_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "invalid api key", "type": "invalid_request_error"},
		})
	}))
	defer srv.Close()

	_, err := newTestCompleter(srv.URL, "").Complete(context.Background(), "p")
	if !errors.Is(err, domain.ErrCompletionProviderError) {
		t.Fatalf("expected ErrCompletionProviderError, got %v", err)
	}
}
