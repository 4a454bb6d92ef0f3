package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"applytrack/internal/httputil"

	"golang.org/x/time/rate"
)

// UserRateLimiter hands out one token bucket per user.
type UserRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewUserRateLimiter allows perMinute requests per user, with bursts of the
// same size. perMinute <= 0 disables limiting.
func NewUserRateLimiter(perMinute int) *UserRateLimiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &UserRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    perMinute,
	}
}

// Allow reports whether userID may make another request now.
func (l *UserRateLimiter) Allow(userID string) bool {
	if l.limit == rate.Inf {
		return true
	}

	l.mu.Lock()
	limiter, ok := l.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[userID] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}

// RateLimit rejects requests over the caller's budget with 429.
func RateLimit(limiter *UserRateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := httputil.GetUserID(r)
			if !limiter.Allow(userID) {
				logger.Warn("rate limit exceeded", "user_id", userID, "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				httputil.RespondError(w, http.StatusTooManyRequests, "too many requests, try again in a minute")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
