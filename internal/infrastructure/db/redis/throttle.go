package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// failureLimit is how many failed logins a username/IP pair gets before
	// further attempts are rejected for the rest of the window.
	failureLimit = 5
	// failureWindow starts at the first failure; the counter expires with it.
	failureWindow = 15 * time.Minute
)

// LoginThrottle counts failed login attempts in Redis.
// Key format: login_fail:<username>:<ip>
type LoginThrottle struct {
	client *redis.Client
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis client.
func NewLoginThrottle(client *redis.Client) *LoginThrottle {
	return &LoginThrottle{client: client}
}

// Blocked reports whether the pair has exhausted its failure budget.
func (t *LoginThrottle) Blocked(ctx context.Context, username, ip string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(username, ip)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n >= failureLimit, nil
}

// RecordFailure bumps the pair's failure counter. The first failure in a
// window also arms the expiry.
func (t *LoginThrottle) RecordFailure(ctx context.Context, username, ip string) error {
	key := t.key(username, ip)

	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("throttle record: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, failureWindow).Err(); err != nil {
			return fmt.Errorf("throttle expire: %w", err)
		}
	}
	return nil
}

// Reset clears the pair's counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, username, ip string) error {
	if err := t.client.Del(ctx, t.key(username, ip)).Err(); err != nil {
		return fmt.Errorf("throttle reset: %w", err)
	}
	return nil
}

// key lowercases the username so attempts against the same account share
// one counter regardless of casing.
func (t *LoginThrottle) key(username, ip string) string {
	return fmt.Sprintf("login_fail:%s:%s", strings.ToLower(username), ip)
}
