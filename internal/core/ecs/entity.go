package ecs

// EntityID is a bare integer handle. It is unique among live entities only:
// ids freed by Registry.Update are handed out again.
type EntityID uint32

type entityState uint8

const (
	stateFree    entityState = iota
	statePending             // created, not yet committed to systems
	stateLive
)

// entityAllocator issues entity ids and recycles freed ones first-in,
// first-out, so ids come back in the order they were freed.
type entityAllocator struct {
	states   []entityState
	freeList []EntityID
	next     EntityID
}

func newEntityAllocator() *entityAllocator {
	return &entityAllocator{
		states:   make([]entityState, 0, 1024),
		freeList: make([]EntityID, 0, 256),
	}
}

// create returns a recycled id if one is free, else the next fresh id.
// The id starts out pending.
func (a *entityAllocator) create() (EntityID, bool) {
	if len(a.freeList) > 0 {
		id := a.freeList[0]
		a.freeList = a.freeList[1:]
		a.states[id] = statePending
		return id, true
	}
	id := a.next
	a.next++
	a.states = append(a.states, statePending)
	return id, false
}

func (a *entityAllocator) state(id EntityID) entityState {
	if int(id) >= len(a.states) {
		return stateFree
	}
	return a.states[id]
}

func (a *entityAllocator) commit(id EntityID) {
	if a.state(id) == statePending {
		a.states[id] = stateLive
	}
}

// release returns id to the free list. Releasing a free id is a no-op.
func (a *entityAllocator) release(id EntityID) {
	if a.state(id) == stateFree {
		return
	}
	a.states[id] = stateFree
	a.freeList = append(a.freeList, id)
}

// alive reports whether id is allocated (pending or live).
func (a *entityAllocator) alive(id EntityID) bool {
	return a.state(id) != stateFree
}

// size is one past the highest id ever issued.
func (a *entityAllocator) size() int { return int(a.next) }
