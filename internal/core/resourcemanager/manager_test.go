package resourcemanager_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendut/carl/internal/core/resource"
	"github.com/opendut/carl/internal/core/resourcemanager"
	"github.com/opendut/carl/internal/core/storage/volatile"
	"github.com/opendut/carl/internal/core/subscription"
	"github.com/opendut/carl/pkg/mlog"
)

func testPeer(id uuid.UUID) resource.PeerDescriptor {
	bridge := "br-opendut-1"
	return resource.PeerDescriptor{
		ID:   resource.PeerID(id),
		Name: "TestPeer",
		Network: resource.PeerNetworkDescriptor{
			BridgeName: &bridge,
			Interfaces: []resource.NetworkInterfaceDescriptor{
				{
					ID:   uuid.New(),
					Name: "eth0",
					Configuration: resource.NetworkInterfaceConfiguration{
						Kind: resource.NetworkInterfaceEthernet,
					},
				},
			},
		},
		Executors: []resource.ExecutorDescriptor{
			{
				ID:   uuid.New(),
				Kind: resource.ExecutorContainer,
				Container: &resource.ContainerExecutor{
					Image: "testUrl",
				},
			},
		},
	}
}

func newTestManager() *resourcemanager.Manager {
	return resourcemanager.New(volatile.New(), mlog.NoOp())
}

// Insert then Get returns the identical value (scenario 1).
func TestInsertThenGetRoundTrip(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	peer := testPeer(id)

	require.NoError(t, resourcemanager.Insert(ctx, m, id, peer))

	got, found, err := resourcemanager.Get[resource.PeerDescriptor](ctx, m, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, peer, got)
}

// A kind never sees another kind's data under the same id (scenario 2).
func TestKindIsolation(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, resourcemanager.Insert(ctx, m, id, testPeer(id)))

	_, found, err := resourcemanager.Get[resource.PeerState](ctx, m, id)
	require.NoError(t, err)
	assert.False(t, found)
}

// Two subscribers to the same kind each receive exactly one Inserted event,
// and a remove afterward produces exactly one Removed event each (scenario
// 4's insert half plus the corresponding remove half).
func TestSubscriptionFanOut(t *testing.T) {
	m := newTestManager()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	sub1 := resourcemanager.Subscribe[resource.PeerState](m)
	defer sub1.Close()
	sub2 := resourcemanager.Subscribe[resource.PeerState](m)
	defer sub2.Close()

	id := uuid.New()
	state := resource.PeerState{ID: resource.PeerID(id), Reachability: resource.PeerReachabilityOnline}
	require.NoError(t, resourcemanager.Insert(ctx, m, id, state))

	for _, sub := range []*subscription.Subscription[resource.PeerState]{sub1, sub2} {
		ev, ok := sub.Recv(ctx)
		require.True(t, ok)
		assert.Equal(t, subscription.Inserted, ev.Type)
		assert.Equal(t, id, ev.ID)
		assert.Equal(t, state, ev.Value)
	}

	_, _, err := resourcemanager.Remove[resource.PeerState](ctx, m, id)
	require.NoError(t, err)

	for _, sub := range []*subscription.Subscription[resource.PeerState]{sub1, sub2} {
		ev, ok := sub.Recv(ctx)
		require.True(t, ok)
		assert.Equal(t, subscription.Removed, ev.Type)
		assert.Equal(t, id, ev.ID)
	}
}

// Multiple mutations committed within one transaction are delivered to a
// subscriber in the order they were performed (scenario 5).
func TestEventOrderWithinTransaction(t *testing.T) {
	m := newTestManager()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	sub := resourcemanager.Subscribe[resource.PeerState](m)
	defer sub.Close()

	first := uuid.New()
	second := uuid.New()

	_, err := resourcemanager.Mutate(ctx, m, func(tx *resourcemanager.Tx) (struct{}, error) {
		if err := resourcemanager.TxInsert(tx, first, resource.PeerState{ID: resource.PeerID(first), Reachability: resource.PeerReachabilityOnline}); err != nil {
			return struct{}{}, err
		}
		if err := resourcemanager.TxInsert(tx, second, resource.PeerState{ID: resource.PeerID(second), Reachability: resource.PeerReachabilityOnline}); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	require.NoError(t, err)

	ev1, ok := sub.Recv(ctx)
	require.True(t, ok)
	assert.Equal(t, first, ev1.ID)

	ev2, ok := sub.Recv(ctx)
	require.True(t, ok)
	assert.Equal(t, second, ev2.ID)
}

// A transaction that returns an error rolls back: no value is stored and no
// event reaches subscribers (scenario 6).
func TestRollbackOnUserError(t *testing.T) {
	m := newTestManager()
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	sub := resourcemanager.Subscribe[resource.PeerState](m)
	defer sub.Close()

	id := uuid.New()
	boom := errors.New("boom")

	_, err := resourcemanager.Mutate(ctx, m, func(tx *resourcemanager.Tx) (struct{}, error) {
		if err := resourcemanager.TxInsert(tx, id, resource.PeerState{ID: resource.PeerID(id), Reachability: resource.PeerReachabilityOnline}); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, boom
	})
	require.ErrorIs(t, err, boom)

	_, found, getErr := resourcemanager.Get[resource.PeerState](context.Background(), m, id)
	require.NoError(t, getErr)
	assert.False(t, found)

	_, ok := sub.Recv(ctx)
	assert.False(t, ok, "rolled-back transaction must not publish any event")
}

// Remove reports found=false and does not error when the id never existed.
func TestRemoveMissingIsNotAnError(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	_, found, err := resourcemanager.Remove[resource.PeerState](ctx, m, uuid.New())
	require.NoError(t, err)
	assert.False(t, found)
}

// List reflects every inserted value of that kind, and nothing from others.
func TestListReturnsOnlyItsOwnKind(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	peerID := uuid.New()
	require.NoError(t, resourcemanager.Insert(ctx, m, peerID, testPeer(peerID)))

	stateID := uuid.New()
	require.NoError(t, resourcemanager.Insert(ctx, m, stateID, resource.PeerState{
		ID: resource.PeerID(stateID), Reachability: resource.PeerReachabilityOffline,
	}))

	peers, err := resourcemanager.List[resource.PeerDescriptor](ctx, m)
	require.NoError(t, err)
	assert.Len(t, peers, 1)

	states, err := resourcemanager.List[resource.PeerState](ctx, m)
	require.NoError(t, err)
	assert.Len(t, states, 1)
}
