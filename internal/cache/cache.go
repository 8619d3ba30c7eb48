// Package cache keeps a short-lived copy of published editorials so
// verification re-reads and bulk reruns do not hammer the judge. The
// cache is an optimization only: every operation fails open and the
// pipeline behaves identically with caching disabled.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/omegaup-tools/editorialgen/internal/logger"
)

// Store is a read-through cache of editorial content keyed by problem
// and locale.
type Store interface {
	GetSolution(ctx context.Context, alias, locale string) (string, bool)
	SetSolution(ctx context.Context, alias, locale, markdown string)
	Invalidate(ctx context.Context, alias string, locales []string)
}

// Ensure implementations satisfy Store.
var _ Store = (*RedisStore)(nil)
var _ Store = (*NoopStore)(nil)

type RedisStore struct {
	db       *redis.Client
	ttl      time.Duration
	failOpen bool
}

type RedisStoreConfig struct {
	RedisClient *redis.Client
	TTL         time.Duration
	FailOpen    bool
}

func NewRedisStore(config RedisStoreConfig) *RedisStore {
	return &RedisStore{
		db:       config.RedisClient,
		ttl:      config.TTL,
		failOpen: config.FailOpen,
	}
}

func solutionKey(alias, locale string) string {
	return "editorialgen-solution-" + alias + "-" + locale
}

func (s *RedisStore) GetSolution(ctx context.Context, alias, locale string) (string, bool) {
	markdown, err := s.db.Get(ctx, solutionKey(alias, locale)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Logger.WarnContext(ctx, "cache read failed",
				"error", err, "problem", alias, "locale", locale)
		}
		return "", false
	}
	return markdown, true
}

func (s *RedisStore) SetSolution(ctx context.Context, alias, locale, markdown string) {
	err := s.db.Set(ctx, solutionKey(alias, locale), markdown, s.ttl).Err()
	if err != nil {
		logger.Logger.WarnContext(ctx, "cache write failed",
			"error", err, "problem", alias, "locale", locale)
	}
}

// Invalidate drops every cached locale for a problem. Called after
// publication so verification never sees a pre-publication copy.
func (s *RedisStore) Invalidate(ctx context.Context, alias string, locales []string) {
	keys := make([]string, 0, len(locales))
	for _, locale := range locales {
		keys = append(keys, solutionKey(alias, locale))
	}
	if err := s.db.Del(ctx, keys...).Err(); err != nil {
		logger.Logger.WarnContext(ctx, "cache invalidation failed",
			"error", err, "problem", alias)
	}
}

// NoopStore is the Store used when no redis host is configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (*NoopStore) GetSolution(context.Context, string, string) (string, bool) {
	return "", false
}

func (*NoopStore) SetSolution(context.Context, string, string, string) {}

func (*NoopStore) Invalidate(context.Context, string, []string) {}
