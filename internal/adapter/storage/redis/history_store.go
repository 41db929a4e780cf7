package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"casino-round-engine/internal/core/domain"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// HistoryStore implements ports.HistoryStore using Redis lists.
// Each player+game pair maps to one list of JSON-encoded results,
// newest at the head, trimmed to maxEntries.
type HistoryStore struct {
	client     *goredis.Client
	prefix     string
	maxEntries int64
	ttl        time.Duration
}

// NewHistoryStore creates a Redis-backed game history store.
func NewHistoryStore(client *goredis.Client, maxEntries int64, ttl time.Duration) *HistoryStore {
	return &HistoryStore{
		client:     client,
		prefix:     "history:",
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

func (s *HistoryStore) key(playerID uuid.UUID, game domain.GameType) string {
	return fmt.Sprintf("%s%s:%s", s.prefix, playerID, game)
}

// Push prepends a result to the player's history for its game and trims
// the list to the configured cap. The whole key expires after the TTL so
// idle histories age out.
func (s *HistoryStore) Push(ctx context.Context, result *domain.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	key := s.key(result.PlayerID, result.GameType)
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.LPush(ctx, key, data)
		pipe.LTrim(ctx, key, 0, s.maxEntries-1)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis history push: %w", err)
	}
	return nil
}

// List returns up to limit results for the player and game, newest first.
// A missing key yields an empty slice.
func (s *HistoryStore) List(ctx context.Context, playerID uuid.UUID, game domain.GameType, limit int64) ([]domain.Result, error) {
	if limit > s.maxEntries {
		limit = s.maxEntries
	}

	entries, err := s.client.LRange(ctx, s.key(playerID, game), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis history range: %w", err)
	}

	results := make([]domain.Result, 0, len(entries))
	for _, entry := range entries {
		var r domain.Result
		if err := json.Unmarshal([]byte(entry), &r); err != nil {
			return nil, fmt.Errorf("unmarshal history entry: %w", err)
		}
		results = append(results, r)
	}
	return results, nil
}
