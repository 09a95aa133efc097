package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/cppla/portfolio/utils"
)

type rateLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

type limiterStore struct {
	mu       sync.Mutex
	limiters map[string]*rateLimiter
	limit    rate.Limit
	burst    int
	idle     time.Duration
}

// RateLimitMiddleware allows each client IP `events` requests per `window`, refilled evenly.
// Every call gets its own store, so scopes (login, contact) never share budgets.
func RateLimitMiddleware(scope string, events int, window time.Duration) gin.HandlerFunc {
	if events < 1 {
		events = 1
	}
	store := &limiterStore{
		limiters: map[string]*rateLimiter{},
		limit:    rate.Every(window / time.Duration(events)),
		burst:    events,
		idle:     window + 5*time.Minute,
	}

	return func(ctx *gin.Context) {
		if !store.allow(ctx.ClientIP()) {
			ctx.Header("Retry-After", fmt.Sprintf("%.0f", (window / time.Duration(events)).Seconds()))
			utils.Sugar.Infow("rate limited", "scope", scope, "path", ctx.Request.URL.Path)
			utils.Abort(ctx, http.StatusTooManyRequests, 42901, "rate limit exceeded")
			return
		}
		ctx.Next()
	}
}

func (s *limiterStore) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for k, l := range s.limiters {
		if now.After(l.expires) {
			delete(s.limiters, k)
		}
	}

	l, ok := s.limiters[key]
	if !ok {
		l = &rateLimiter{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.limiters[key] = l
	}
	l.expires = now.Add(s.idle)
	return l.limiter.Allow()
}
