// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package source

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// memo holds values for the lifetime of the process. Entries are written once
// on the first successful load and never evicted; a failed load stores nothing.
// Concurrent loads of the same key share one call.
type memo[V any] struct {
	mu     sync.RWMutex
	values map[string]V
	group  singleflight.Group
}

func newMemo[V any]() *memo[V] {
	return &memo[V]{values: make(map[string]V)}
}

// Get returns the stored value for key.
func (m *memo[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Len reports the number of stored keys.
func (m *memo[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// Load returns the stored value for key, calling load and storing its result
// when none exists yet. The shared load runs detached from the cancellation of
// whichever caller started it; each caller stops waiting when its own ctx ends.
func (m *memo[V]) Load(ctx context.Context, key string, load func(context.Context) (V, error)) (V, error) {
	var zero V
	if v, ok := m.Get(key); ok {
		return v, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := m.group.DoChan(key, func() (any, error) {
		if v, ok := m.Get(key); ok {
			return v, nil
		}
		v, err := load(detached)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.values[key] = v
		m.mu.Unlock()
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}
