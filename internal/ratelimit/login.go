package ratelimit

import (
	"context"
	"fmt"
	"time"

	"devsecops-platform/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles credential attempts per email+IP pair using a
// redis fixed window. It guards against online guessing only; lockout and
// CAPTCHA escalation are out of scope.
type LoginLimiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
}

func NewLoginLimiter(rdb *redis.Client, limit int64, window time.Duration) *LoginLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LoginLimiter{rdb: rdb, limit: limit, window: window}
}

// Allow records one attempt and reports whether it is within the window
// limit. Redis unavailability fails open: authentication still works when
// the throttle store is down, and the error is returned for logging.
func (l *LoginLimiter) Allow(ctx context.Context, email, ip string) (bool, error) {
	key := fmt.Sprintf("login_attempts:%s:%s", email, ip)

	count, err := utils.FixedWindowIncr(ctx, l.rdb, key, l.window)
	if err != nil {
		return true, err
	}
	return count <= l.limit, nil
}
