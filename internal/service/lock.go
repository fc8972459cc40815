package service

import (
	"context"
	"sync"
)

// LocalLocker is an in-process Locker for single-instance deployments.
type LocalLocker struct {
	mu   sync.Mutex
	held map[int64]chan struct{}
}

// Acquire blocks until the lock of storeID is free or ctx is done.
func (l *LocalLocker) Acquire(ctx context.Context, storeID int64) (func(), error) {
	for {
		l.mu.Lock()
		if l.held == nil {
			l.held = make(map[int64]chan struct{})
		}
		wait, busy := l.held[storeID]
		if !busy {
			done := make(chan struct{})
			l.held[storeID] = done
			l.mu.Unlock()

			var once sync.Once
			return func() {
				once.Do(func() {
					l.mu.Lock()
					delete(l.held, storeID)
					l.mu.Unlock()
					close(done)
				})
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-wait:
		}
	}
}
