// Package llmclient sends prompts to the configured LLM provider and
// parses its JSON task-list response, retrying on transient failures
// and salvaging JSON from a markdown-wrapped or chatty response.
package llmclient

import (
	"context"
)

// Request is one planning call: a system prompt, a user prompt, and
// the raw JSON schema text embedded for the model's reference.
type Request struct {
	SystemPrompt string
	UserPrompt   string
}

// Response is the raw text returned by the provider, plus bookkeeping
// the Planner's PlanningResult wants to report.
type Response struct {
	RawText  string
	Attempts int
}

// Client sends one completion request to an LLM provider. Concrete
// implementations wrap a specific HTTP API; tests use a stub.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
