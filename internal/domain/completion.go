package domain

import "context"

// Completer sends a single prompt to a chat completion provider.
type Completer interface {
	Complete(ctx context.Context, prompt string) (CompletionResult, error)
}

// CompletionResult is the first choice returned by the provider plus token usage.
type CompletionResult struct {
	Content          string
	Choices          int
	PromptTokens     int
	CompletionTokens int
}
