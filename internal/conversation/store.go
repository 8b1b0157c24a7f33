package conversation

import (
	"context"

	"github.com/motoria/dealer-agent/internal/types"
)

// Store keeps per-user conversation history for the session. Implementations
// must serialize read-modify-append per user identity so concurrent requests
// for the same user cannot interleave or lose turns.
type Store interface {
	// History returns a snapshot of the user's conversation.
	History(ctx context.Context, userID string) (types.Conversation, error)
	// AppendTurn appends one completed turn to the user's conversation.
	AppendTurn(ctx context.Context, userID string, turn types.ConversationTurn) error
}
