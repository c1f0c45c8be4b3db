package ecs

import (
	"fmt"

	"go.uber.org/zap"
)

// Registry owns every entity, component pool and system. Entity creation and
// destruction are deferred: CreateEntity and KillEntity only queue work, and
// Update commits it at a tick boundary so systems can iterate their entity
// lists while others request structural changes.
// Single-goroutine access only (game loop), no locking.
type Registry struct {
	log *zap.Logger

	kinds       *TypeRegistry
	systemKinds *TypeRegistry

	entities   *entityAllocator
	signatures []Signature     // by EntityID
	pools      []componentPool // by ComponentID
	systems    []System        // by system type id, nil once removed

	toAdd       []EntityID
	toKill      []EntityID
	pendingKill map[EntityID]struct{}
	dirty       []EntityID // live entities whose signature changed since the last commit
	dirtySet    map[EntityID]struct{}

	tags   *tagIndex
	groups *groupIndex
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		log:         log,
		kinds:       NewTypeRegistry("component", MaxComponents),
		systemKinds: NewTypeRegistry("system", 0),
		entities:    newEntityAllocator(),
		signatures:  make([]Signature, 0, 1024),
		pools:       make([]componentPool, 0, MaxComponents),
		toAdd:       make([]EntityID, 0, 64),
		toKill:      make([]EntityID, 0, 64),
		pendingKill: make(map[EntityID]struct{}, 64),
		dirtySet:    make(map[EntityID]struct{}, 64),
		tags:        newTagIndex(),
		groups:      newGroupIndex(),
	}
}

// CreateEntity allocates an id and queues it for the next Update. Until then
// no system sees it, but components may already be attached.
func (r *Registry) CreateEntity() EntityID {
	id, reused := r.entities.create()
	if n := int(id) + 1; n > len(r.signatures) {
		r.signatures = append(r.signatures, make([]Signature, n-len(r.signatures))...)
	}
	r.toAdd = append(r.toAdd, id)
	r.log.Debug("entity created", zap.Uint32("entity", uint32(id)), zap.Bool("reused", reused))
	return id
}

// KillEntity queues id for destruction at the next Update. The entity stays
// fully readable for the rest of the tick. Killing twice, or killing an id
// that is not alive, does nothing.
func (r *Registry) KillEntity(id EntityID) {
	if !r.entities.alive(id) {
		r.log.Debug("kill ignored, entity not alive", zap.Uint32("entity", uint32(id)))
		return
	}
	if _, ok := r.pendingKill[id]; ok {
		return
	}
	r.pendingKill[id] = struct{}{}
	r.toKill = append(r.toKill, id)
}

// IsAlive reports whether id is allocated, committed or not.
func (r *Registry) IsAlive(id EntityID) bool {
	return r.entities.alive(id)
}

// NumEntities returns the number of allocated entities.
func (r *Registry) NumEntities() int {
	n := 0
	for id := 0; id < r.entities.size(); id++ {
		if r.entities.alive(EntityID(id)) {
			n++
		}
	}
	return n
}

// Signature returns the component signature of id.
func (r *Registry) Signature(id EntityID) Signature {
	if int(id) >= len(r.signatures) {
		return Signature{}
	}
	return r.signatures[id]
}

// Update is the single commit point. Pending entities are routed to every
// system whose signature they match, live entities whose components changed
// are re-matched, then pending kills are removed from all systems, their
// components and tag/group entries dropped and their ids freed.
func (r *Registry) Update() {
	for _, id := range r.toAdd {
		r.entities.commit(id)
		r.matchSystems(id)
	}
	r.toAdd = r.toAdd[:0]

	for _, id := range r.dirty {
		if r.entities.state(id) == stateLive {
			r.matchSystems(id)
		}
	}
	r.dirty = r.dirty[:0]
	clear(r.dirtySet)

	for _, id := range r.toKill {
		for _, s := range r.systems {
			if s != nil {
				s.base().remove(id)
			}
		}
		sig := r.signatures[id]
		for cid, p := range r.pools {
			if p != nil && sig.Test(ComponentID(cid)) {
				p.Remove(id)
			}
		}
		r.signatures[id].Reset()
		r.RemoveEntityTag(id)
		r.RemoveEntityGroup(id)
		r.entities.release(id)
		r.log.Debug("entity killed", zap.Uint32("entity", uint32(id)))
	}
	r.toKill = r.toKill[:0]
	clear(r.pendingKill)
}

func (r *Registry) matchSystems(id EntityID) {
	sig := r.signatures[id]
	for _, s := range r.systems {
		if s == nil {
			continue
		}
		if sig.Matches(s.Signature()) {
			s.base().add(id)
		} else {
			s.base().remove(id)
		}
	}
}

func (r *Registry) markDirty(id EntityID) {
	if r.entities.state(id) != stateLive {
		return
	}
	if _, ok := r.dirtySet[id]; ok {
		return
	}
	r.dirtySet[id] = struct{}{}
	r.dirty = append(r.dirty, id)
}

// Systems returns the registered systems in registration order.
func (r *Registry) Systems() []System {
	out := make([]System, 0, len(r.systems))
	for _, s := range r.systems {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// RegisterComponent assigns K a component id and creates its pool. It fails
// with ErrCapacityExceeded once MaxComponents kinds exist.
func RegisterComponent[K any](r *Registry) (ComponentID, error) {
	id, err := r.kinds.IDOf(KindOf[K]())
	if err != nil {
		return 0, err
	}
	for len(r.pools) <= id {
		r.pools = append(r.pools, nil)
	}
	if r.pools[id] == nil {
		r.pools[id] = NewPool[K](r.entities.size())
	}
	return ComponentID(id), nil
}

// AddComponent stores c on id and sets the matching signature bit. A value
// already present is overwritten.
func AddComponent[K any](r *Registry, id EntityID, c K) error {
	if !r.entities.alive(id) {
		return fmt.Errorf("add %s to entity %d: %w", KindOf[K](), id, ErrEntityNotAlive)
	}
	cid, err := RegisterComponent[K](r)
	if err != nil {
		return err
	}
	pool, err := poolOf[K](r, cid)
	if err != nil {
		return err
	}
	pool.Set(id, c)
	r.signatures[id].Set(cid)
	r.markDirty(id)
	r.log.Debug("component added",
		zap.Int("component", int(cid)),
		zap.Stringer("kind", KindOf[K]()),
		zap.Uint32("entity", uint32(id)))
	return nil
}

// RemoveComponent clears K from id. Removing a component the entity does not
// have is a no-op.
func RemoveComponent[K any](r *Registry, id EntityID) {
	cid, ok := componentID[K](r)
	if !ok || !r.Signature(id).Test(cid) {
		return
	}
	r.signatures[id].Clear(cid)
	r.pools[cid].Remove(id)
	r.markDirty(id)
	r.log.Debug("component removed",
		zap.Int("component", int(cid)),
		zap.Stringer("kind", KindOf[K]()),
		zap.Uint32("entity", uint32(id)))
}

func HasComponent[K any](r *Registry, id EntityID) bool {
	cid, ok := componentID[K](r)
	return ok && r.Signature(id).Test(cid)
}

// GetComponent returns a pointer to id's K. Callers are expected to check
// HasComponent first; a missing component is ErrComponentMissing.
func GetComponent[K any](r *Registry, id EntityID) (*K, error) {
	cid, ok := componentID[K](r)
	if !ok || !r.Signature(id).Test(cid) {
		return nil, fmt.Errorf("%s for entity %d: %w", KindOf[K](), id, ErrComponentMissing)
	}
	pool, err := poolOf[K](r, cid)
	if err != nil {
		return nil, err
	}
	return pool.Get(id)
}

func componentID[K any](r *Registry) (ComponentID, bool) {
	id, ok := r.kinds.Lookup(KindOf[K]())
	return ComponentID(id), ok
}

func poolOf[K any](r *Registry, cid ComponentID) (*Pool[K], error) {
	pool, ok := r.pools[cid].(*Pool[K])
	if !ok {
		return nil, fmt.Errorf("pool %d does not hold %s", cid, KindOf[K]())
	}
	return pool, nil
}

// AddSystem registers s as the single instance of its type. Entities already
// committed are matched against it right away.
func AddSystem[S System](r *Registry, s S) error {
	sid, err := r.systemKinds.IDOf(KindOf[S]())
	if err != nil {
		return err
	}
	for len(r.systems) <= sid {
		r.systems = append(r.systems, nil)
	}
	if r.systems[sid] != nil {
		return fmt.Errorf("add %s: %w", KindOf[S](), ErrSystemExists)
	}
	r.systems[sid] = s
	for i := 0; i < r.entities.size(); i++ {
		id := EntityID(i)
		if r.entities.state(id) == stateLive && r.signatures[id].Matches(s.Signature()) {
			s.base().add(id)
		}
	}
	r.log.Debug("system added", zap.Stringer("system", KindOf[S]()), zap.Stringer("signature", s.Signature()))
	return nil
}

// RemoveSystem drops the S instance. No-op if none is registered.
func RemoveSystem[S System](r *Registry) {
	sid, ok := r.systemKinds.Lookup(KindOf[S]())
	if !ok || sid >= len(r.systems) {
		return
	}
	r.systems[sid] = nil
}

func HasSystem[S System](r *Registry) bool {
	_, err := GetSystem[S](r)
	return err == nil
}

func GetSystem[S System](r *Registry) (S, error) {
	var zero S
	sid, ok := r.systemKinds.Lookup(KindOf[S]())
	if !ok || sid >= len(r.systems) || r.systems[sid] == nil {
		return zero, fmt.Errorf("get %s: %w", KindOf[S](), ErrSystemNotFound)
	}
	s, ok := r.systems[sid].(S)
	if !ok {
		return zero, fmt.Errorf("get %s: %w", KindOf[S](), ErrSystemNotFound)
	}
	return s, nil
}
