package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxFailures = 5
	defaultWindow      = 15 * time.Minute
)

// PasswordLimiter throttles failed password verifications with a fixed Redis
// window per account. Key format: pwfail:<account_id>, expiring with the
// window. A successful verification resets the window.
type PasswordLimiter struct {
	client      *redis.Client
	maxFailures int
	window      time.Duration
}

// NewPasswordLimiter creates a PasswordLimiter wrapping the given client.
// Non-positive limits fall back to 5 failures per 15 minutes.
func NewPasswordLimiter(client *redis.Client, maxFailures int, window time.Duration) *PasswordLimiter {
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &PasswordLimiter{client: client, maxFailures: maxFailures, window: window}
}

// Allow reports whether the account is still under the failure budget.
func (l *PasswordLimiter) Allow(ctx context.Context, accountID string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(accountID)).Int()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("attempt limit check: %w", err)
	}
	return n < l.maxFailures, nil
}

// RecordFailure counts one failed attempt. The window starts at the first
// failure and is not extended by later ones.
func (l *PasswordLimiter) RecordFailure(ctx context.Context, accountID string) error {
	key := l.key(accountID)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("record password failure: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("set failure window: %w", err)
		}
	}
	return nil
}

// Reset clears the failure window after a successful verification.
func (l *PasswordLimiter) Reset(ctx context.Context, accountID string) error {
	return l.client.Del(ctx, l.key(accountID)).Err()
}

func (l *PasswordLimiter) key(accountID string) string {
	return fmt.Sprintf("pwfail:%s", accountID)
}
