package event

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/l1jgo/arena/internal/core/ecs"
	"go.uber.org/zap"
)

const (
	// MaxEventKinds bounds the number of distinct event types.
	MaxEventKinds = 256

	// DefaultMaxDepth bounds nested emission (a handler emitting while being
	// dispatched).
	DefaultMaxDepth = 16
)

// ErrMaxDepth is returned by Emit when handlers emit recursively deeper than
// the bus allows. The event is not dispatched.
var ErrMaxDepth = errors.New("event emission depth exceeded")

// ErrOwnerNotComparable is returned by Subscribe for an owner that cannot be
// matched by Unsubscribe (a map, slice or func value).
var ErrOwnerNotComparable = errors.New("subscription owner is not comparable")

func isComparable(owner any) bool {
	t := reflect.TypeOf(owner)
	return t == nil || t.Comparable()
}

type handler struct {
	owner any
	fn    any // func(*E) for the list's event kind
}

// Bus is a synchronous, type-routed event bus. Emit calls every handler of
// the event's type, in subscription order, before returning. Subscriptions
// live until Reset, which the frame driver calls once per tick before
// systems subscribe again.
// Single-goroutine access only (game loop).
type Bus struct {
	kinds    *ecs.TypeRegistry
	handlers [][]handler // by event kind id
	depth    int
	maxDepth int
	log      *zap.Logger
}

func NewBus(maxDepth int, log *zap.Logger) *Bus {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Bus{
		kinds:    ecs.NewTypeRegistry("event", MaxEventKinds),
		handlers: make([][]handler, 0, 16),
		maxDepth: maxDepth,
		log:      log,
	}
}

// Subscribe registers fn for events of type E on behalf of owner. owner must
// be comparable (usually the subscribing system's pointer) so Unsubscribe can
// find it. Subscribing twice registers twice.
func Subscribe[E any](b *Bus, owner any, fn func(*E)) error {
	if !isComparable(owner) {
		return fmt.Errorf("subscribe %T: %w", owner, ErrOwnerNotComparable)
	}
	id, err := b.kinds.IDOf(ecs.KindOf[E]())
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	for len(b.handlers) <= id {
		b.handlers = append(b.handlers, nil)
	}
	b.handlers[id] = append(b.handlers[id], handler{owner: owner, fn: fn})
	return nil
}

// Emit delivers ev to every handler subscribed to E. All handlers receive the
// same *E, so a change made by one is seen by the next. Handlers subscribed
// while the event is being delivered are not called for it.
func Emit[E any](b *Bus, ev E) error {
	id, ok := b.kinds.Lookup(ecs.KindOf[E]())
	if !ok || id >= len(b.handlers) {
		return nil
	}
	hs := b.handlers[id]
	if len(hs) == 0 {
		return nil
	}
	if b.depth >= b.maxDepth {
		return fmt.Errorf("emit %s at depth %d: %w", ecs.KindOf[E](), b.depth, ErrMaxDepth)
	}
	b.depth++
	defer func() { b.depth-- }()

	for _, h := range hs {
		h.fn.(func(*E))(&ev)
	}
	return nil
}

// Reset drops every subscription.
func (b *Bus) Reset() {
	for i := range b.handlers {
		b.handlers[i] = nil
	}
}

// Unsubscribe drops every handler registered by owner, across all event types.
// An owner that is not comparable never subscribed, so there is nothing to drop.
func (b *Bus) Unsubscribe(owner any) {
	if !isComparable(owner) {
		return
	}
	removed := 0
	for i, hs := range b.handlers {
		kept := make([]handler, 0, len(hs))
		for _, h := range hs {
			if h.owner == owner {
				removed++
				continue
			}
			kept = append(kept, h)
		}
		b.handlers[i] = kept
	}
	if removed > 0 {
		b.log.Debug("handlers unsubscribed", zap.Int("count", removed))
	}
}

// HandlerCount returns the number of handlers subscribed to E.
func HandlerCount[E any](b *Bus) int {
	id, ok := b.kinds.Lookup(ecs.KindOf[E]())
	if !ok || id >= len(b.handlers) {
		return 0
	}
	return len(b.handlers[id])
}
