// Package ratelimit provides a fixed-window request limiter for the
// authentication routes. Two backends exist: the rate_limits table (default)
// and Redis when a REDIS_URL is configured.
package ratelimit

import (
	"context"
	"time"

	"github.com/stackkit/auth-starter/internal/repository"
)

type Limiter interface {
	// Allow reports whether the caller identified by key may proceed.
	Allow(ctx context.Context, key string) (bool, error)
}

// StoreLimiter counts requests in the relational store.
type StoreLimiter struct {
	repo   repository.RateLimitRepository
	max    int64
	window time.Duration
}

func NewStoreLimiter(repo repository.RateLimitRepository, max int64, window time.Duration) *StoreLimiter {
	return &StoreLimiter{repo: repo, max: max, window: window}
}

func (l *StoreLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.repo.Increment(ctx, key, time.Now(), l.window)
	if err != nil {
		return false, err
	}
	return count <= l.max, nil
}
