package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/motoria/dealer-agent/internal/types"
	"github.com/motoria/dealer-agent/internal/utils"
)

const sessionTTL = 24 * time.Hour

// RedisStore keeps conversation turns in a Redis list per user, so sessions
// survive restarts and can be shared between instances. Each turn is a
// single RPUSH, which keeps appends atomic without client-side locking.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	utils.Zlog.Info("Connected to Redis conversation store", zap.String("addr", addr))
	return &RedisStore{client: rdb}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func sessionKey(userID string) string {
	return "conversation:" + userID
}

func (s *RedisStore) History(ctx context.Context, userID string) (types.Conversation, error) {
	raw, err := s.client.LRange(ctx, sessionKey(userID), 0, -1).Result()
	if err != nil {
		return types.Conversation{}, fmt.Errorf("failed to load conversation: %w", err)
	}

	conv := types.Conversation{}
	for _, item := range raw {
		var turn types.ConversationTurn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			utils.Zlog.Warn("Skipping undecodable conversation turn",
				zap.String("user_id", userID), zap.Error(err))
			continue
		}
		conv.Turns = append(conv.Turns, turn)
	}
	return conv, nil
}

func (s *RedisStore) AppendTurn(ctx context.Context, userID string, turn types.ConversationTurn) error {
	payload, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("failed to encode turn: %w", err)
	}

	key := sessionKey(userID)
	if err := s.client.RPush(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}
	if err := s.client.Expire(ctx, key, sessionTTL).Err(); err != nil {
		utils.Zlog.Warn("Failed to refresh session TTL",
			zap.String("user_id", userID), zap.Error(err))
	}
	return nil
}
