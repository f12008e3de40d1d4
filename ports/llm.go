package ports

import "context"

// LLMClient sends a single prompt to a chat-completion provider
type LLMClient interface {
	ChatCompletion(ctx context.Context, model string, prompt string, maxTokens int) (string, error)
}
