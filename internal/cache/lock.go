// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// lock.go provides a per-store lock held in Valkey while a storefront is
// generated. Replicas sharing the same sites volume take turns writing a
// bundle, and concurrent requests for the same store wait for the first
// one instead of rendering again.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockKeyPrefix = "site-lock:"

	// DefaultLockTTL bounds how long a crashed holder can block a store.
	DefaultLockTTL = 30 * time.Second

	// DefaultLockWait is how long Acquire waits for a busy lock.
	DefaultLockWait = 15 * time.Second

	lockRetryInterval = 50 * time.Millisecond
)

// ErrLockTimeout is returned when a lock could not be taken in time.
var ErrLockTimeout = errors.New("timed out waiting for site lock")

// releaseScript deletes the key only when it still holds our token, so an
// expired holder never removes a lock taken over by someone else.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SiteLock hands out per-store generation locks.
type SiteLock struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewSiteLock creates a lock manager on the given Valkey client. Zero
// durations fall back to DefaultLockTTL and DefaultLockWait.
func NewSiteLock(client *redis.Client, ttl, wait time.Duration) *SiteLock {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	if wait <= 0 {
		wait = DefaultLockWait
	}
	return &SiteLock{client: client, ttl: ttl, wait: wait}
}

// Acquire blocks until the lock of storeID is held, ctx is done or the
// wait time elapses. The returned function releases the lock.
func (l *SiteLock) Acquire(ctx context.Context, storeID int64) (func(), error) {
	key := lockKeyPrefix + strconv.FormatInt(storeID, 10)
	token := uuid.NewString()

	deadline := time.Now().Add(l.wait)
	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire site lock %d: %w", storeID, err)
		}
		if ok {
			slog.Debug("site lock acquired", "store_id", storeID)
			return func() { l.release(key, token) }, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: store %d", ErrLockTimeout, storeID)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *SiteLock) release(key, token string) {
	// Use a fresh context: the request may already be canceled.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		slog.Warn("site lock release failed", "key", key, "error", err)
		return
	}
	slog.Debug("site lock released", "key", key)
}
