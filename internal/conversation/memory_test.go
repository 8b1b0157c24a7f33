package conversation

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/motoria/dealer-agent/internal/types"
)

func TestMemoryStore_AppendAndHistory(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.AppendTurn(ctx, "u1", types.ConversationTurn{User: "hi", Assistant: "hello"}))
	require.NoError(t, store.AppendTurn(ctx, "u1", types.ConversationTurn{User: "bye", Assistant: "see you"}))

	conv, err := store.History(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, conv.Turns, 2)
	require.Equal(t, "hi", conv.Turns[0].User)
	require.Equal(t, "see you", conv.Turns[1].Assistant)
}

func TestMemoryStore_UsersAreIsolated(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.AppendTurn(ctx, "u1", types.ConversationTurn{User: "a"}))

	conv, err := store.History(ctx, "u2")
	require.NoError(t, err)
	require.Empty(t, conv.Turns)
}

func TestMemoryStore_HistoryReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.AppendTurn(ctx, "u1", types.ConversationTurn{User: "a"}))

	conv, err := store.History(ctx, "u1")
	require.NoError(t, err)
	conv.Turns[0].User = "mutated"

	again, err := store.History(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "a", again.Turns[0].User)
}

func TestMemoryStore_ConcurrentAppends(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	const writers = 10
	const turnsEach = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < turnsEach; i++ {
				userID := fmt.Sprintf("user-%d", w%3)
				_ = store.AppendTurn(ctx, userID, types.ConversationTurn{User: "m"})
			}
		}(w)
	}
	wg.Wait()

	total := 0
	for u := 0; u < 3; u++ {
		conv, err := store.History(ctx, fmt.Sprintf("user-%d", u))
		require.NoError(t, err)
		total += len(conv.Turns)
	}
	require.Equal(t, writers*turnsEach, total)
}
