package rest

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/travelbook/internal/logging"
	redis "github.com/redis/go-redis/v9"
)

var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local rate = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local requested = tonumber(ARGV[4])

	local info = redis.call("HMGET", key, "tokens", "last_refill")
	local tokens = tonumber(info[1])
	local last_refill = tonumber(info[2])

	if tokens == nil then
		tokens = capacity
		last_refill = now
	end

	local delta = math.max(0, now - last_refill)
	local filled_tokens = math.min(capacity, tokens + (delta / 1000 * rate))

	local allowed = 0
	if filled_tokens >= requested then
		filled_tokens = filled_tokens - requested
		allowed = 1
	end
	redis.call("HMSET", key, "tokens", filled_tokens, "last_refill", now)
	redis.call("EXPIRE", key, math.ceil(capacity / rate) * 2)

	return allowed
`)

// Limiter is a per-client token bucket kept in Redis. Redis errors fail open.
type Limiter struct {
	client redis.Scripter
	log    logging.Logger
	rate   float64
	burst  int
	now    func() time.Time
}

func NewLimiter(client redis.Scripter, rate float64, burst int, log logging.Logger) *Limiter {
	return &Limiter{
		client: client,
		log:    log.With("module", "rate_limiter"),
		rate:   rate,
		burst:  burst,
		now:    time.Now,
	}
}

// NewRedisLimiter connects to addr and returns nil when Redis is unreachable,
// leaving the API unthrottled.
func NewRedisLimiter(ctx context.Context, addr string, rate float64, burst int, log logging.Logger) *Limiter {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn(ctx, "redis unavailable, rate limiter disabled", "address", addr, "error", err)
		_ = rdb.Close()
		return nil
	}

	log.Info(ctx, "connected to redis", "address", addr)
	return NewLimiter(rdb, rate, burst, log)
}

func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	keys := []string{fmt.Sprintf("rate_limit:%s", key)}
	args := []any{l.burst, l.rate, l.now().UnixMilli(), 1}

	result, err := tokenBucketScript.Run(ctx, l.client, keys, args...).Int64()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}

func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 200*time.Millisecond)
		defer cancel()

		allowed, err := l.Allow(ctx, "ip:"+getRealIP(r))
		if err != nil {
			l.log.Warn(r.Context(), "limiter redis error", "error", err)
		} else if !allowed {
			writeMessage(w, http.StatusTooManyRequests, true, "too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func getRealIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
