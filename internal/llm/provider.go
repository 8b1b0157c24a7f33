package llm

import (
	"context"
	"errors"
)

// ErrGenerationUnavailable wraps any transport or upstream failure of the
// generation backend. Callers are expected to catch it and degrade to their
// documented fallback response instead of surfacing it to the end user.
var ErrGenerationUnavailable = errors.New("generation backend unavailable")

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a minimal role-tagged chat message.
type Message struct {
	Role    string
	Content string
}

// Provider abstracts the text generation capability. Implementations can wrap
// any backend (Eino models, rule-based stubs, test fakes) as long as failures
// surface as ErrGenerationUnavailable.
type Provider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
