package agent

import (
	"context"

	"github.com/motoria/dealer-agent/internal/llm"
	"github.com/motoria/dealer-agent/internal/types"
)

// Result is a handler's response payload plus any structured side data.
type Result struct {
	Text          string
	Cars          []types.VehicleRecord
	FinancingPlan *types.FinancingPlan
}

// Handler consumes a query and the rendered conversation history and always
// produces a result. Upstream capability failures are recovered inside the
// handler with a natural-language fallback; they never propagate past this
// boundary.
type Handler interface {
	Handle(ctx context.Context, query, history string) *Result
}

// userContent prefixes the query with the truncated history block when one
// exists, matching what all three handlers send to the generation backend.
func userContent(query, history string) string {
	if history == "" {
		return query
	}
	return "History:\n" + history + "\n\nQuery: " + query
}

func userMessage(query, history string) llm.Message {
	return llm.Message{Role: llm.RoleUser, Content: userContent(query, history)}
}
