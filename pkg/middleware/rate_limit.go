package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const rateLimitTimeout = 200 * time.Millisecond

// RateLimiter is a fixed-window per-IP counter kept in Redis.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
	log    *zap.Logger
	now    func() time.Time
}

func NewRateLimiter(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "ratelimit:checkout",
		log:    logger.With(zap.String("middleware", "rate_limit")),
		now:    time.Now,
	}
}

// Allow counts one hit for key and reports whether it is within the limit,
// along with the remaining hits and the time until the window resets.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Duration, error) {
	now := l.now()
	windowStart := now.Truncate(l.window)
	resetIn := windowStart.Add(l.window).Sub(now)
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, windowStart.Unix())

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return true, l.limit, resetIn, err
	}

	count := int(incr.Val())
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= l.limit, remaining, resetIn, nil
}

// RateLimit applies the limiter per client IP. A nil client or a non-positive
// limit disables it; Redis errors let the request through.
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil || limiter.client == nil || limiter.limit <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), rateLimitTimeout)
			allowed, remaining, resetIn, err := limiter.Allow(ctx, clientIP(r))
			cancel()
			if err != nil {
				limiter.log.Warn("Rate limiter unavailable, allowing request", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				limiter.log.Warn("Rate limit exceeded",
					zap.String("ip", clientIP(r)),
					zap.String("path", r.URL.Path))
				utils.ResponseTooManyRequests(w, "Too many requests, please try again later", resetIn)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
