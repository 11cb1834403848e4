package volatile_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendut/carl/internal/core/resource"
	"github.com/opendut/carl/internal/core/storage/volatile"
)

// A transaction's own writes are visible to its own Get/List (read-your-writes)
// before Commit, but not to reads made directly against the backend.
func TestTransactionIsolatedUntilCommit(t *testing.T) {
	backend := volatile.New()
	ctx := context.Background()
	id := uuid.New()
	state := resource.PeerState{ID: resource.PeerID(id), Reachability: resource.PeerReachabilityOnline}

	tx, err := backend.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, tx.Insert(ctx, resource.KindPeerState, id, state))

	got, ok, err := tx.Get(ctx, resource.KindPeerState, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, state, got)

	_, outsideOk, err := backend.Get(ctx, resource.KindPeerState, id)
	require.NoError(t, err)
	assert.False(t, outsideOk, "uncommitted writes must not be visible outside the transaction")

	require.NoError(t, tx.Commit())

	_, outsideOk, err = backend.Get(ctx, resource.KindPeerState, id)
	require.NoError(t, err)
	assert.True(t, outsideOk)
}

// Rollback discards every write performed through the transaction.
func TestRollbackDiscardsWrites(t *testing.T) {
	backend := volatile.New()
	ctx := context.Background()
	id := uuid.New()

	tx, err := backend.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Insert(ctx, resource.KindPeerState, id, resource.PeerState{
		ID: resource.PeerID(id), Reachability: resource.PeerReachabilityOnline,
	}))
	require.NoError(t, tx.Rollback())

	_, ok, err := backend.Get(ctx, resource.KindPeerState, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

// Begin serializes against a concurrently open transaction: a second Begin
// blocks until the first transaction closes.
func TestBeginSerializesWriters(t *testing.T) {
	backend := volatile.New()
	ctx := context.Background()

	tx1, err := backend.Begin(ctx)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		tx2, err := backend.Begin(ctx)
		require.NoError(t, err)
		close(done)
		_ = tx2.Rollback()
	}()

	select {
	case <-done:
		t.Fatal("second Begin must not complete while the first transaction is open")
	default:
	}

	require.NoError(t, tx1.Rollback())
	<-done
}
