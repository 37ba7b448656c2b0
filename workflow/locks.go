package workflow

import (
	"context"
	"sync"
)

// keyedLocks serialises work per product id. Waiting honours ctx.
type keyedLocks struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{slots: make(map[string]chan struct{})}
}

func (l *keyedLocks) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

func (l *keyedLocks) Lock(ctx context.Context, key string) (func(), error) {
	ch := l.slot(key)
	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// reset drops slots of products that no longer exist.
func (l *keyedLocks) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.slots = make(map[string]chan struct{})
}
