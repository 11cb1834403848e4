package resourcemanager_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/opendut/carl/internal/core/resource"
	"github.com/opendut/carl/internal/core/resourcemanager"
	"github.com/opendut/carl/internal/core/storage/storagemock"
	"github.com/opendut/carl/pkg/mlog"
)

// A transaction that commits cleanly at the storage level but whose backend
// Commit call itself fails must surface as a *resource.Error and must not
// drain its relay buffer.
func TestMutateWrapsCommitFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := storagemock.NewMockBackend(ctrl)
	txn := storagemock.NewMockTransaction(ctrl)

	id := uuid.New()
	commitErr := errors.New("connection reset")

	backend.EXPECT().Begin(gomock.Any()).Return(txn, nil)
	txn.EXPECT().Insert(gomock.Any(), resource.KindPeerState, id, gomock.Any()).Return(nil)
	txn.EXPECT().Commit().Return(commitErr)
	txn.EXPECT().Rollback().Return(nil)

	m := resourcemanager.New(backend, mlog.NoOp())
	ctx := context.Background()

	err := resourcemanager.Insert(ctx, m, id, resource.PeerState{
		ID: resource.PeerID(id), Reachability: resource.PeerReachabilityOnline,
	})

	require.Error(t, err)
	var persistenceErr *resource.Error
	require.ErrorAs(t, err, &persistenceErr)
	require.ErrorIs(t, persistenceErr, commitErr)
}
