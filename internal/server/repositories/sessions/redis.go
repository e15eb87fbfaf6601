package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophquiz/internal/common"
	"github.com/dmitrijs2005/gophquiz/internal/server/models"
	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "session:"

// RedisClient is the part of *redis.Client used by RedisRepository.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisRepository keeps each session as a JSON value under session:<id>
// with a TTL matching its expiry, so Redis evicts stale sessions itself.
type RedisRepository struct {
	rdb RedisClient
	now func() time.Time
}

func NewRedisRepository(rdb RedisClient) *RedisRepository {
	return &RedisRepository{rdb: rdb, now: time.Now}
}

func (r *RedisRepository) Create(ctx context.Context, s *models.Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = r.now()
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, redisKeyPrefix+s.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) Find(ctx context.Context, id string) (*models.Session, error) {
	val, err := r.rdb.Get(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	s := &models.Session{}
	if err := json.Unmarshal([]byte(val), s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}
