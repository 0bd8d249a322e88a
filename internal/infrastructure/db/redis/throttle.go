package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const throttleWindow = 15 * time.Minute

// SignInThrottle counts failed basic-auth attempts per username in Redis.
// Key format: signin_fail:<username>, expiring after throttleWindow.
type SignInThrottle struct {
	client      *redis.Client
	maxFailures int
}

// NewSignInThrottle creates a throttle allowing maxFailures failed attempts
// per username per window.
func NewSignInThrottle(client *redis.Client, maxFailures int) *SignInThrottle {
	if maxFailures <= 0 {
		maxFailures = 10
	}
	return &SignInThrottle{client: client, maxFailures: maxFailures}
}

// Allowed reports whether username is still under the failure cap.
func (t *SignInThrottle) Allowed(ctx context.Context, username string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(username)).Int()
	if err != nil {
		if err == redis.Nil {
			return true, nil
		}
		return true, fmt.Errorf("throttle check: %w", err)
	}
	return n < t.maxFailures, nil
}

// RecordFailure counts one failed attempt and refreshes the window.
func (t *SignInThrottle) RecordFailure(ctx context.Context, username string) error {
	key := t.key(username)
	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, throttleWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("throttle record: %w", err)
	}
	return nil
}

// Reset clears the failure count after a successful authentication.
func (t *SignInThrottle) Reset(ctx context.Context, username string) error {
	return t.client.Del(ctx, t.key(username)).Err()
}

func (t *SignInThrottle) key(username string) string {
	return "signin_fail:" + username
}
