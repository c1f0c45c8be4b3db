package ecs

import "slices"

// System is what the Registry stores and routes entities to. Concrete
// systems get it by embedding BaseSystem.
type System interface {
	Signature() Signature
	Entities() []EntityID
	base() *BaseSystem
}

// BaseSystem holds a system's required signature and the cached list of
// entities matching it. The list changes only inside Registry.Update.
type BaseSystem struct {
	signature Signature
	entities  []EntityID
	members   map[EntityID]struct{}
}

func (s *BaseSystem) base() *BaseSystem { return s }

// Signature returns the set of component kinds the system requires.
func (s *BaseSystem) Signature() Signature { return s.signature }

// Entities returns a snapshot of the matching entities in the order they
// were committed.
func (s *BaseSystem) Entities() []EntityID {
	return slices.Clone(s.entities)
}

func (s *BaseSystem) HasEntity(id EntityID) bool {
	_, ok := s.members[id]
	return ok
}

func (s *BaseSystem) add(id EntityID) {
	if s.members == nil {
		s.members = make(map[EntityID]struct{}, 64)
	}
	if _, ok := s.members[id]; ok {
		return
	}
	s.members[id] = struct{}{}
	s.entities = append(s.entities, id)
}

func (s *BaseSystem) remove(id EntityID) {
	if _, ok := s.members[id]; !ok {
		return
	}
	delete(s.members, id)
	if i := slices.Index(s.entities, id); i >= 0 {
		s.entities = slices.Delete(s.entities, i, i+1)
	}
}

// RequireComponent declares that s only wants entities carrying K. Call it
// from the concrete system's constructor, before AddSystem.
func RequireComponent[K any](r *Registry, s *BaseSystem) error {
	id, err := RegisterComponent[K](r)
	if err != nil {
		return err
	}
	s.signature.Set(id)
	return nil
}
