package subscription

import (
	"context"
	"sync"

	"github.com/opendut/carl/internal/core/resource"
)

// defaultBuffer is the per-subscriber channel capacity. Subscribers slower
// than this fall behind and start losing events — an accepted trade-off per
// spec §4.3's best-effort delivery guarantee.
const defaultBuffer = 64

// Bus fans out committed events to subscribers, keyed by resource kind. The
// events it carries are untyped at this layer (a Bus serves all six kinds at
// once); Subscription[R] restores the static type at the edge.
type Bus struct {
	mu   sync.Mutex
	subs map[resource.Kind][]chan any
}

func NewBus() *Bus {
	return &Bus{subs: make(map[resource.Kind][]chan any)}
}

// Subscription is a typed receiving endpoint obtained from Subscribe. It
// receives events from the moment it is created onward (spec §4.6: a
// subscriber is Active while its receiver exists).
type Subscription[R resource.Resource] struct {
	kind resource.Kind
	ch   chan any
	bus  *Bus
	once sync.Once
}

// Subscribe registers a new endpoint for kind R. Must be called with the
// resource manager's writer lock held, since it mutates the bus's
// subscriber table (spec §4.1: subscribe is itself a brief write).
func Subscribe[R resource.Resource](bus *Bus) *Subscription[R] {
	var zero R
	kind := zero.ResourceKind()
	ch := make(chan any, defaultBuffer)

	bus.mu.Lock()
	bus.subs[kind] = append(bus.subs[kind], ch)
	bus.mu.Unlock()

	return &Subscription[R]{kind: kind, ch: ch, bus: bus}
}

// Recv blocks for the next event, or returns false if the subscription was
// closed or ctx was cancelled. The core imposes no timeout (spec §5); ctx
// cancellation is the caller's own mechanism for giving up.
func (s *Subscription[R]) Recv(ctx context.Context) (Event[R], bool) {
	select {
	case raw, ok := <-s.ch:
		if !ok {
			var zero Event[R]
			return zero, false
		}
		return raw.(Event[R]), true
	case <-ctx.Done():
		var zero Event[R]
		return zero, false
	}
}

// Close unregisters the subscription. A dropped subscription that is never
// closed is a benign leak (spec §4.6: "on drop it is implicitly
// unregistered" — Go has no drop, so callers that want that semantics must
// call Close explicitly, typically via defer).
func (s *Subscription[R]) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()
		subs := s.bus.subs[s.kind]
		for i, ch := range subs {
			if ch == s.ch {
				s.bus.subs[s.kind] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		close(s.ch)
	})
}

// notifyRaw delivers a single already-typed event (an Event[R] boxed as any)
// to every live subscriber of kind, non-blocking: a saturated or abandoned
// subscriber simply misses it (spec §4.3 delivery guarantees).
func (b *Bus) notifyRaw(kind resource.Kind, raw any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[kind] {
		select {
		case ch <- raw:
		default:
		}
	}
}
