package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ecomm-platform/ecomm/internal/auth/domain"
	"github.com/ecomm-platform/ecomm/pkg/cache"
)

type sessionRedisRepository struct {
	cache  *cache.RedisCache
	prefix string
}

func NewSessionRepository(c *cache.RedisCache) domain.SessionRepository {
	return &sessionRedisRepository{
		cache:  c,
		prefix: "auth:session:",
	}
}

func (r *sessionRedisRepository) Save(ctx context.Context, session *domain.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}
	return r.cache.SetJSON(ctx, r.prefix+session.Token, session, ttl)
}

func (r *sessionRedisRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	var session domain.Session
	if err := r.cache.GetJSON(ctx, r.prefix+token, &session); err != nil {
		return nil, err
	}
	if session.Token == "" {
		return nil, nil
	}
	return &session, nil
}

func (r *sessionRedisRepository) Delete(ctx context.Context, token string) error {
	return r.cache.Delete(ctx, r.prefix+token)
}
