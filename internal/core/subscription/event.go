// Package subscription implements the per-kind broadcast bus and the
// per-transaction relay buffer described in spec §4.3: operations inside a
// transaction enqueue events into a relay buffer; the resource manager drains
// the buffer into live subscriber channels only on commit, in enqueue order,
// and discards it on rollback.
package subscription

import (
	"github.com/google/uuid"

	"github.com/opendut/carl/internal/core/resource"
)

// EventType distinguishes an Inserted event from a Removed event.
type EventType int

const (
	Inserted EventType = iota
	Removed
)

func (t EventType) String() string {
	if t == Removed {
		return "Removed"
	}
	return "Inserted"
}

// Event is a single observed mutation of a resource of kind R.
type Event[R resource.Resource] struct {
	Type  EventType
	ID    uuid.UUID
	Value R
}
