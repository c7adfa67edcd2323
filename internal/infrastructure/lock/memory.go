// Package lock implements per-owner mutual exclusion for compliance evaluation.
package lock

import (
	"context"
	"sync"
)

// MemoryLocker is an in-process keyed mutex. Entries are dropped once no caller holds or waits on them.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*ownerLock
}

type ownerLock struct {
	sem  chan struct{}
	refs int
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*ownerLock)}
}

// Lock blocks until the owner's lock is free or ctx is done.
func (l *MemoryLocker) Lock(ctx context.Context, ownerID string) (func(), error) {
	l.mu.Lock()
	ol, ok := l.locks[ownerID]
	if !ok {
		ol = &ownerLock{sem: make(chan struct{}, 1)}
		l.locks[ownerID] = ol
	}
	ol.refs++
	l.mu.Unlock()

	select {
	case ol.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(ownerID, ol)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-ol.sem
			l.release(ownerID, ol)
		})
	}, nil
}

func (l *MemoryLocker) release(ownerID string, ol *ownerLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ol.refs--
	if ol.refs == 0 {
		delete(l.locks, ownerID)
	}
}
