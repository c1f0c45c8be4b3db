package ecs

import "fmt"

const poolPageSize = 256

// componentPool is implemented by every Pool so the Registry can invalidate
// an entity's slots without knowing the component type.
type componentPool interface {
	Remove(id EntityID)
	Has(id EntityID) bool
	Cap() int
}

// Pool is dense, entity-indexed storage for one component kind.
// Storage is paged: a page never moves once allocated, so a pointer returned
// by Get stays valid while other entities grow the pool in the same tick.
type Pool[T any] struct {
	pages [][]T
	valid []bool
	count int
}

func NewPool[T any](capacity int) *Pool[T] {
	p := &Pool[T]{}
	p.EnsureCapacity(capacity)
	return p
}

// EnsureCapacity grows the pool so index n-1 is addressable. It never shrinks.
func (p *Pool[T]) EnsureCapacity(n int) {
	for len(p.pages)*poolPageSize < n {
		p.pages = append(p.pages, make([]T, poolPageSize))
	}
	if len(p.valid) < len(p.pages)*poolPageSize {
		grown := make([]bool, len(p.pages)*poolPageSize)
		copy(grown, p.valid)
		p.valid = grown
	}
}

// Set writes v into the slot of id, growing the pool first if needed.
func (p *Pool[T]) Set(id EntityID, v T) {
	p.EnsureCapacity(int(id) + 1)
	*p.slot(id) = v
	if !p.valid[id] {
		p.valid[id] = true
		p.count++
	}
}

// Get returns the stored value for id. It fails with ErrComponentMissing when
// the slot was never written or has been removed.
func (p *Pool[T]) Get(id EntityID) (*T, error) {
	if !p.Has(id) {
		var zero T
		return nil, fmt.Errorf("%T for entity %d: %w", zero, id, ErrComponentMissing)
	}
	return p.slot(id), nil
}

func (p *Pool[T]) Has(id EntityID) bool {
	return int(id) < len(p.valid) && p.valid[id]
}

// Remove invalidates the slot of id and zeroes it so stale values can be
// neither read nor kept alive. No-op for empty slots.
func (p *Pool[T]) Remove(id EntityID) {
	if !p.Has(id) {
		return
	}
	var zero T
	*p.slot(id) = zero
	p.valid[id] = false
	p.count--
}

// Cap returns the number of addressable slots.
func (p *Pool[T]) Cap() int { return len(p.pages) * poolPageSize }

// Len returns the number of valid slots.
func (p *Pool[T]) Len() int { return p.count }

// Each calls fn for every valid slot in id order.
func (p *Pool[T]) Each(fn func(EntityID, *T)) {
	for i, ok := range p.valid {
		if ok {
			fn(EntityID(i), p.slot(EntityID(i)))
		}
	}
}

func (p *Pool[T]) slot(id EntityID) *T {
	return &p.pages[int(id)/poolPageSize][int(id)%poolPageSize]
}
