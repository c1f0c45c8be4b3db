package ecs

import (
	"fmt"
	"reflect"
)

// TypeRegistry hands out a dense integer id per Go type, starting at 0, on
// first reference. Ids are never reused or unregistered.
// Single-goroutine access only (game loop).
type TypeRegistry struct {
	name  string
	limit int // 0 = unbounded
	ids   map[reflect.Type]int
	types []reflect.Type
}

func NewTypeRegistry(name string, limit int) *TypeRegistry {
	return &TypeRegistry{
		name:  name,
		limit: limit,
		ids:   make(map[reflect.Type]int, 32),
		types: make([]reflect.Type, 0, 32),
	}
}

// IDOf returns the id of t, registering it if unseen.
func (r *TypeRegistry) IDOf(t reflect.Type) (int, error) {
	if id, ok := r.ids[t]; ok {
		return id, nil
	}
	if r.limit > 0 && len(r.types) >= r.limit {
		return 0, fmt.Errorf("register %s kind %s (limit %d): %w", r.name, t, r.limit, ErrCapacityExceeded)
	}
	id := len(r.types)
	r.ids[t] = id
	r.types = append(r.types, t)
	return id, nil
}

// Lookup returns the id of t without registering it.
func (r *TypeRegistry) Lookup(t reflect.Type) (int, bool) {
	id, ok := r.ids[t]
	return id, ok
}

// TypeOf returns the type registered under id, or nil.
func (r *TypeRegistry) TypeOf(id int) reflect.Type {
	if id < 0 || id >= len(r.types) {
		return nil
	}
	return r.types[id]
}

func (r *TypeRegistry) Len() int { return len(r.types) }

// KindOf returns the type key used for T.
func KindOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
