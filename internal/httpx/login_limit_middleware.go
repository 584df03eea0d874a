package httpx

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptCounter counts attempts for key within a fixed window.
type AttemptCounter interface {
	Count(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter is an AttemptCounter on INCR + EXPIRE.
type RedisCounter struct {
	rdb *redis.Client
}

func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

func (c *RedisCounter) Count(ctx context.Context, key string) (int64, error) {
	n, err := c.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", key, err)
	}
	return n, nil
}

func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", key, err)
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return n, fmt.Errorf("expire %s: %w", key, err)
		}
	}
	return n, nil
}

// LoginRateLimit rejects logins from a client IP once it has max rejected
// attempts (401 responses) within window. Successful logins are not
// counted. It fails open when the counter is nil or unavailable.
func LoginRateLimit(counter AttemptCounter, max int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			if counter == nil || ip == "" {
				next.ServeHTTP(w, r)
				return
			}
			key := "rl:login:" + ip

			n, err := counter.Count(r.Context(), key)
			if err != nil {
				log.Printf("login limit: counter unavailable ip=%s err=%v", ip, err)
				next.ServeHTTP(w, r)
				return
			}
			if n >= int64(max) {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				JSONError(w, r, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "Too many login attempts", nil)
				return
			}

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)
			if rw.statusCode != http.StatusUnauthorized {
				return
			}
			if _, err := counter.Incr(r.Context(), key, window); err != nil {
				log.Printf("login limit: counter unavailable ip=%s err=%v", ip, err)
			}
		})
	}
}
