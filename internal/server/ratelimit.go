// internal/server/ratelimit.go
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"scholarship-workers/internal/common/config"
	apperrors "scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "ratelimit:chat:"

// RateLimiter is a fixed-window counter per client kept in Redis. Redis
// errors let the request through.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
	logger logger.Logger
}

func NewRateLimiter(client *redis.Client, cfg config.RateLimitConfig, log logger.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  cfg.Requests,
		window: cfg.Window(),
		now:    time.Now,
		logger: log,
	}
}

// Allow counts one request for key in the current window.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := l.now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, key, bucket)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return true, err
	}
	return incr.Val() <= int64(l.limit), nil
}

func (l *RateLimiter) Middleware(onReject func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := l.Allow(r.Context(), clientKey(r))
			if err != nil {
				l.logger.Warn("rate limiter unavailable, allowing request", map[string]interface{}{"error": err})
			}
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
				onReject(w, r, apperrors.NewRateLimitExceededError(l.limit, l.window))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
