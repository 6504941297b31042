package likes

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix is the Redis key prefix for like sets:
//
//	Key:     likes:<from>
//	Members: <to>
const KeyPrefix = "likes:"

// RedisStore keeps one Redis set per liking profile.
type RedisStore struct {
	client redis.UniversalClient
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a RedisStore on an existing client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Like implements Store.
func (s *RedisStore) Like(ctx context.Context, from, to string) error {
	if from == to {
		return ErrSelfLike
	}
	if err := s.client.SAdd(ctx, KeyPrefix+from, to).Err(); err != nil {
		return fmt.Errorf("likes: sadd %s: %w", from, err)
	}
	return nil
}

// Likes implements Store.
func (s *RedisStore) Likes(ctx context.Context, from, to string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, KeyPrefix+from, to).Result()
	if err != nil {
		return false, fmt.Errorf("likes: sismember %s: %w", from, err)
	}
	return ok, nil
}

// Forget implements Store.
func (s *RedisStore) Forget(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, KeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("likes: del %s: %w", id, err)
	}
	return nil
}
