// Package resourcemanager implements the public façade of spec §4.1: the
// typed Insert/Remove/Get/List/Read/Mutate/Subscribe operations, a single
// reader-writer lock protecting the combined (storage, subscribers) state,
// and the commit/rollback protocol that reconciles transactional storage
// with deferred subscription publication.
//
// Grounded directly on original_source/opendut-carl/src/resources/manager.rs
// (ResourcesManager / State{resources, subscribers}); Go generics take the
// place of the source's generic `<R: Resource>` trait-bounded methods.
package resourcemanager

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/opendut/carl/internal/core/resource"
	"github.com/opendut/carl/internal/core/storage"
	"github.com/opendut/carl/internal/core/subscription"
	"github.com/opendut/carl/pkg/mlog"
)

// Manager is the Resource Manager façade. The zero value is not usable; use
// New. Safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	backend storage.Backend
	bus     *subscription.Bus
	log     mlog.Logger
}

// New constructs a Manager around an already-connected backend. Backend
// selection (volatile vs relational) happens one layer up, in
// internal/bootstrap, mirroring the source's
// `ResourcesManager::create(storage_options)`.
func New(backend storage.Backend, log mlog.Logger) *Manager {
	if log == nil {
		log = mlog.NoOp()
	}
	return &Manager{backend: backend, bus: subscription.NewBus(), log: log}
}

// Close releases the underlying backend's connections.
func (m *Manager) Close(ctx context.Context) error {
	return m.backend.Close(ctx)
}

// ReadView is the read-only store view passed to Read's callback (spec
// §4.1's "read-only store view" for composing several gets/lists
// atomically with respect to writers).
type ReadView struct {
	ctx     context.Context
	backend storage.Backend
}

// Read acquires the reader lock for the duration of f only (spec §4.1,
// §5's ordering guarantee: "a reader that starts after a writer's commit
// sees all of that writer's effects").
func Read(ctx context.Context, m *Manager, f func(ReadView) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return f(ReadView{ctx: ctx, backend: m.backend})
}

// Mutate opens a write transaction, passes a Transaction handle to f,
// commits on a nil error and rolls back otherwise — spec §4.1's
// commit/rollback protocol, steps 1-5. The writer lock is held for f's
// entire execution (spec §5: "the lock is held across suspension points").
//
// f's own error is returned unmodified so callers can distinguish it from
// an *resource.Error infrastructure failure via errors.As — see
// SPEC_FULL.md's rendering of the source's nested
// Result<Result<T,UserErr>,Persistence>.
func Mutate[T any](ctx context.Context, m *Manager, f func(tx *Tx) (T, error)) (result T, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	storageTx, beginErr := m.backend.Begin(ctx)
	if beginErr != nil {
		var zero T
		return zero, resource.NewError(resource.ErrorConnection, "", nil, beginErr)
	}

	tx := &Tx{ctx: ctx, txn: storageTx, relay: subscription.NewRelay()}

	// A panic unwinding out of f runs this deferred rollback before
	// propagating further, so a panicking closure is indistinguishable
	// from one that returned an error (spec §4.7).
	committed := false
	defer func() {
		if !committed {
			if rbErr := storageTx.Rollback(); rbErr != nil {
				m.log.Warn("resourcemanager: rollback failed", "cause", rbErr)
			}
		}
	}()

	value, userErr := f(tx)
	if userErr != nil {
		var zero T
		return zero, userErr
	}

	if commitErr := storageTx.Commit(); commitErr != nil {
		var zero T
		return zero, resource.NewError(resource.ErrorConnection, "", nil, commitErr)
	}
	committed = true

	tx.relay.Drain(m.bus)

	return value, nil
}

// Insert opens a write transaction containing just this insert (spec §4.1).
func Insert[R resource.Resource](ctx context.Context, m *Manager, id uuid.UUID, value R) error {
	_, err := Mutate(ctx, m, func(tx *Tx) (struct{}, error) {
		return struct{}{}, TxInsert(tx, id, value)
	})
	return err
}

// Remove opens a write transaction containing just this remove (spec §4.1).
func Remove[R resource.Resource](ctx context.Context, m *Manager, id uuid.UUID) (R, bool, error) {
	type removal struct {
		value R
		found bool
	}
	res, err := Mutate(ctx, m, func(tx *Tx) (removal, error) {
		v, ok, err := TxRemove[R](tx, id)
		return removal{value: v, found: ok}, err
	})
	return res.value, res.found, err
}

// Get is a read path: acquires a reader (spec §4.1).
func Get[R resource.Resource](ctx context.Context, m *Manager, id uuid.UUID) (R, bool, error) {
	var value R
	var found bool
	err := Read(ctx, m, func(v ReadView) error {
		got, ok, err := ReadGet[R](v, id)
		value, found = got, ok
		return err
	})
	return value, found, err
}

// List is a read path: acquires a reader (spec §4.1).
func List[R resource.Resource](ctx context.Context, m *Manager) ([]R, error) {
	var values []R
	err := Read(ctx, m, func(v ReadView) error {
		got, err := ReadList[R](v)
		values = got
		return err
	})
	return values, err
}

// Subscribe registers a new subscriber for kind R; it receives only events
// from transactions that commit after this call returns (spec §4.1, §4.6).
// Subscribing briefly takes the writer lock since it mutates the bus's
// subscriber table.
func Subscribe[R resource.Resource](m *Manager) *subscription.Subscription[R] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return subscription.Subscribe[R](m.bus)
}
