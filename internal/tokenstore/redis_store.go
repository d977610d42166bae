package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/prohmpiriya/bazaar-client/pkg/logger"
	"github.com/prohmpiriya/bazaar-client/pkg/redis"
	"go.uber.org/zap"
)

// RedisStore keeps the token under "<prefix>:jwt_token". Lets several CLI
// hosts share one session.
type RedisStore struct {
	client *redis.Client
	key    string
	log    *logger.Logger
	now    func() time.Time
}

// NewRedisStore creates a redis-backed store
func NewRedisStore(client *redis.Client, prefix string, log *logger.Logger) *RedisStore {
	if log == nil {
		log = logger.NewNop()
	}
	key := Key
	if prefix != "" {
		key = prefix + ":" + Key
	}
	return &RedisStore{
		client: client,
		key:    key,
		log:    log.Named("tokenstore.redis"),
		now:    time.Now,
	}
}

// RedisKey returns the key the token lives under
func (s *RedisStore) RedisKey() string {
	return s.key
}

func (s *RedisStore) Get(ctx context.Context) (string, bool) {
	token, err := s.client.Get(ctx, s.key)
	if err != nil {
		if !redis.IsNil(err) {
			s.log.Warn("read token", zap.String("key", s.key), zap.Error(err))
		}
		return "", false
	}
	return token, token != ""
}

// Set stores the token. When the token carries an exp claim the key expires
// with it; an already expired token is not stored.
func (s *RedisStore) Set(ctx context.Context, token string) error {
	ttl := ttlFor(token, s.now())
	if ttl < 0 {
		return s.Clear(ctx)
	}
	if err := s.client.Set(ctx, s.key, token, ttl); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
