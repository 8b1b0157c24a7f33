package conversation

import (
	"context"
	"sync"

	"github.com/motoria/dealer-agent/internal/types"
)

type userSession struct {
	mu    sync.Mutex
	turns []types.ConversationTurn
}

// MemoryStore is the default in-process conversation store. A lock per user
// identity serializes appends; the outer map lock is only held long enough to
// find or create the session.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*userSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*userSession)}
}

func (s *MemoryStore) session(userID string) *userSession {
	s.mu.RLock()
	sess, ok := s.sessions[userID]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[userID]; ok {
		return sess
	}
	sess = &userSession{}
	s.sessions[userID] = sess
	return sess
}

func (s *MemoryStore) History(ctx context.Context, userID string) (types.Conversation, error) {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	turns := make([]types.ConversationTurn, len(sess.turns))
	copy(turns, sess.turns)
	return types.Conversation{Turns: turns}, nil
}

func (s *MemoryStore) AppendTurn(ctx context.Context, userID string, turn types.ConversationTurn) error {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.turns = append(sess.turns, turn)
	return nil
}
