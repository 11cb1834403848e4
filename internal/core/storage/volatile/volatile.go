// Package volatile implements storage.Backend as a per-kind in-memory map,
// snapshotted per transaction (spec §4.2). Chosen for tests and ephemeral
// deployments that need no database.
package volatile

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/opendut/carl/internal/core/resource"
	"github.com/opendut/carl/internal/core/storage"
)

type table = map[uuid.UUID]any

// Backend is a volatile storage.Backend. Zero value is not usable; use New.
type Backend struct {
	txLock sync.Mutex // serializes open transactions; released on Commit/Rollback
	mu     sync.RWMutex
	store  map[resource.Kind]table
}

func New() *Backend {
	return &Backend{store: make(map[resource.Kind]table)}
}

func cloneStore(src map[resource.Kind]table) map[resource.Kind]table {
	dst := make(map[resource.Kind]table, len(src))
	for kind, inner := range src {
		innerCopy := make(table, len(inner))
		for id, v := range inner {
			innerCopy[id] = v
		}
		dst[kind] = innerCopy
	}
	return dst
}

func (b *Backend) Get(_ context.Context, kind resource.Kind, id uuid.UUID) (any, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.store[kind][id]
	return v, ok, nil
}

func (b *Backend) List(_ context.Context, kind resource.Kind) ([]any, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	inner := b.store[kind]
	out := make([]any, 0, len(inner))
	for _, v := range inner {
		out = append(out, v)
	}
	return out, nil
}

// Begin snapshots the current store and serializes against any other open
// transaction, matching the single-writer discipline the resource manager
// also enforces one layer up (belt and braces: this backend is usable on
// its own in tests, without a manager's lock).
func (b *Backend) Begin(_ context.Context) (storage.Transaction, error) {
	b.txLock.Lock()
	b.mu.RLock()
	snapshot := cloneStore(b.store)
	b.mu.RUnlock()
	return &transaction{backend: b, snapshot: snapshot}, nil
}

func (b *Backend) Close(_ context.Context) error { return nil }

type transaction struct {
	backend  *Backend
	snapshot map[resource.Kind]table
	closed   bool
}

func (t *transaction) Insert(_ context.Context, kind resource.Kind, id uuid.UUID, value any) error {
	inner, ok := t.snapshot[kind]
	if !ok {
		inner = make(table)
		t.snapshot[kind] = inner
	}
	inner[id] = value
	return nil
}

func (t *transaction) Remove(_ context.Context, kind resource.Kind, id uuid.UUID) (any, bool, error) {
	inner := t.snapshot[kind]
	v, ok := inner[id]
	if ok {
		delete(inner, id)
	}
	return v, ok, nil
}

func (t *transaction) Get(_ context.Context, kind resource.Kind, id uuid.UUID) (any, bool, error) {
	v, ok := t.snapshot[kind][id]
	return v, ok, nil
}

func (t *transaction) List(_ context.Context, kind resource.Kind) ([]any, error) {
	inner := t.snapshot[kind]
	out := make([]any, 0, len(inner))
	for _, v := range inner {
		out = append(out, v)
	}
	return out, nil
}

func (t *transaction) Commit() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.backend.mu.Lock()
	t.backend.store = t.snapshot
	t.backend.mu.Unlock()
	t.backend.txLock.Unlock()
	return nil
}

func (t *transaction) Rollback() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.backend.txLock.Unlock()
	return nil
}
