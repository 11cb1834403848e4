package subscription

import (
	"github.com/google/uuid"

	"github.com/opendut/carl/internal/core/resource"
)

// Relay is the per-transaction buffer of events mirroring the bus's
// per-kind layout (spec §4.3). Operations performed through a Transaction
// handle append here instead of publishing directly; the resource manager
// drains a Relay into the Bus on commit, in enqueue order, and discards it
// on rollback.
//
// The buffer is an unbounded slice rather than a bounded channel, which
// resolves spec §9's open question about overflow by construction: there is
// no fixed capacity for a transaction's own operations to exceed.
type Relay struct {
	order  []resource.Kind
	queues map[resource.Kind][]any
}

func NewRelay() *Relay {
	return &Relay{queues: make(map[resource.Kind][]any)}
}

// Enqueue records an event produced by an in-flight transaction.
func Enqueue[R resource.Resource](r *Relay, e Event[R]) {
	var zero R
	kind := zero.ResourceKind()
	if _, seen := r.queues[kind]; !seen {
		r.order = append(r.order, kind)
	}
	r.queues[kind] = append(r.queues[kind], e)
}

// Drain publishes every queued event to bus, per kind, in enqueue order.
// Call only after the owning transaction has committed successfully.
func (r *Relay) Drain(bus *Bus) {
	for _, kind := range r.order {
		for _, raw := range r.queues[kind] {
			bus.notifyRaw(kind, raw)
		}
	}
}

// InsertedEvent builds an Inserted event for enqueueing.
func InsertedEvent[R resource.Resource](id uuid.UUID, value R) Event[R] {
	return Event[R]{Type: Inserted, ID: id, Value: value}
}

// RemovedEvent builds a Removed event for enqueueing.
func RemovedEvent[R resource.Resource](id uuid.UUID, value R) Event[R] {
	return Event[R]{Type: Removed, ID: id, Value: value}
}
