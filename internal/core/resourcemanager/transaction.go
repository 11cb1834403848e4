package resourcemanager

import (
	"context"

	"github.com/google/uuid"

	"github.com/opendut/carl/internal/core/resource"
	"github.com/opendut/carl/internal/core/storage"
	"github.com/opendut/carl/internal/core/subscription"
)

// Tx is the Transaction handle of spec §4.4: it forwards typed operations
// to the enclosing backend transaction and, on successful mutation, appends
// the corresponding event to the relay buffer. A Get/List performed through
// Tx sees the transaction's own preceding writes (read-your-writes), since
// both are served by the same backend transaction.
type Tx struct {
	ctx   context.Context
	txn   storage.Transaction
	relay *subscription.Relay
}

// TxInsert inserts value under id within tx, enqueueing an Inserted event.
func TxInsert[R resource.Resource](tx *Tx, id uuid.UUID, value R) error {
	kind := value.ResourceKind()
	if err := tx.txn.Insert(tx.ctx, kind, id, value); err != nil {
		return resource.NewError(resource.ErrorInsert, kind, id, err)
	}
	subscription.Enqueue(tx.relay, subscription.InsertedEvent(id, value))
	return nil
}

// TxRemove removes the value under id within tx, if present, enqueueing a
// Removed event when something was actually removed.
func TxRemove[R resource.Resource](tx *Tx, id uuid.UUID) (R, bool, error) {
	var zero R
	kind := zero.ResourceKind()
	raw, ok, err := tx.txn.Remove(tx.ctx, kind, id)
	if err != nil {
		return zero, false, resource.NewError(resource.ErrorRemove, kind, id, err)
	}
	if !ok {
		return zero, false, nil
	}
	value := raw.(R)
	subscription.Enqueue(tx.relay, subscription.RemovedEvent(id, value))
	return value, true, nil
}

// TxGet reads the value under id as seen by tx (including tx's own prior
// writes).
func TxGet[R resource.Resource](tx *Tx, id uuid.UUID) (R, bool, error) {
	var zero R
	kind := zero.ResourceKind()
	raw, ok, err := tx.txn.Get(tx.ctx, kind, id)
	if err != nil {
		return zero, false, resource.NewError(resource.ErrorGet, kind, id, err)
	}
	if !ok {
		return zero, false, nil
	}
	return raw.(R), true, nil
}

// TxList lists every value of kind R as seen by tx.
func TxList[R resource.Resource](tx *Tx) ([]R, error) {
	var zero R
	kind := zero.ResourceKind()
	raws, err := tx.txn.List(tx.ctx, kind)
	if err != nil {
		return nil, resource.NewError(resource.ErrorList, kind, nil, err)
	}
	out := make([]R, len(raws))
	for i, raw := range raws {
		out[i] = raw.(R)
	}
	return out, nil
}

// ReadGet is ReadView's typed Get, used by the package-level Get helper and
// available directly to Read's callback for composing several lookups.
func ReadGet[R resource.Resource](v ReadView, id uuid.UUID) (R, bool, error) {
	var zero R
	kind := zero.ResourceKind()
	raw, ok, err := v.backend.Get(v.ctx, kind, id)
	if err != nil {
		return zero, false, resource.NewError(resource.ErrorGet, kind, id, err)
	}
	if !ok {
		return zero, false, nil
	}
	return raw.(R), true, nil
}

// ReadList is ReadView's typed List.
func ReadList[R resource.Resource](v ReadView) ([]R, error) {
	var zero R
	kind := zero.ResourceKind()
	raws, err := v.backend.List(v.ctx, kind)
	if err != nil {
		return nil, resource.NewError(resource.ErrorList, kind, nil, err)
	}
	out := make([]R, len(raws))
	for i, raw := range raws {
		out[i] = raw.(R)
	}
	return out, nil
}
