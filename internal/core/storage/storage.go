// Package storage defines the contract shared by the volatile and
// relational backends (spec §4.2). The contract itself is untyped (kind and
// value are carried as resource.Kind / any); internal/core/resourcemanager
// restores static typing at its public boundary via generics, mirroring the
// split between the source's ResourcesStorageApi trait and its generic
// caller-facing methods.
package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/opendut/carl/internal/core/resource"
)

//go:generate mockgen --destination=storagemock/storage_mock.go --package=storagemock . Backend,Transaction

// Backend is a swappable storage implementation: volatile or relational.
// The resource manager knows only this contract, never which backend it
// holds (spec §4.2).
type Backend interface {
	// Get and List are read paths used directly by the manager's reader
	// lock. Backend has no Insert/Remove of its own: every mutation goes
	// through a Transaction opened with Begin.
	Get(ctx context.Context, kind resource.Kind, id uuid.UUID) (any, bool, error)
	List(ctx context.Context, kind resource.Kind) ([]any, error)

	// Begin opens a new transaction. The caller must Commit or Rollback it.
	Begin(ctx context.Context) (Transaction, error)

	// Close releases any held connections. Safe to call on a backend that
	// was never connected.
	Close(ctx context.Context) error
}

// Transaction is the storage-level half of spec §4.4's Transaction handle:
// it forwards typed operations to whichever backend opened it. The
// resourcemanager.Tx wraps one of these together with a subscription.Relay.
type Transaction interface {
	Insert(ctx context.Context, kind resource.Kind, id uuid.UUID, value any) error
	Remove(ctx context.Context, kind resource.Kind, id uuid.UUID) (any, bool, error)
	Get(ctx context.Context, kind resource.Kind, id uuid.UUID) (any, bool, error)
	List(ctx context.Context, kind resource.Kind) ([]any, error)

	Commit() error
	Rollback() error
}
