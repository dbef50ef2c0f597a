package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTooManyAttempts indicates the login throttle is engaged for the account.
var ErrTooManyAttempts = errors.New("too many failed login attempts")

// LoginThrottle counts failed logins per email in Redis. A nil throttle or a
// non-positive limit disables it.
type LoginThrottle struct {
	client *redis.Client
	max    int64
	window time.Duration
	prefix string
}

// NewLoginThrottle constructs a LoginThrottle.
func NewLoginThrottle(client *redis.Client, max int, window time.Duration) *LoginThrottle {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginThrottle{client: client, max: int64(max), window: window, prefix: "odyssey:login:fail:"}
}

func (t *LoginThrottle) enabled() bool {
	return t != nil && t.client != nil && t.max > 0
}

func (t *LoginThrottle) key(email string) string {
	return t.prefix + NormalizeEmail(email)
}

// Allow reports whether another attempt is permitted for email.
func (t *LoginThrottle) Allow(ctx context.Context, email string) (bool, error) {
	if !t.enabled() {
		return true, nil
	}
	count, err := t.client.Get(ctx, t.key(email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return true, err
	}
	return count < t.max, nil
}

// Fail records a failed attempt. The window starts at the first failure.
func (t *LoginThrottle) Fail(ctx context.Context, email string) error {
	if !t.enabled() {
		return nil
	}
	key := t.key(email)
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		return t.client.Expire(ctx, key, t.window).Err()
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	if !t.enabled() {
		return nil
	}
	return t.client.Del(ctx, t.key(email)).Err()
}
