package ecs

import (
	"math/bits"
	"strconv"
	"strings"
)

// MaxComponents is the number of component kinds a Signature can index.
// Raise signatureWords to extend it.
const MaxComponents = signatureWords * 64

const signatureWords = 2

// ComponentID is the dense id the registry assigns to a component kind.
type ComponentID int

// Signature is a fixed-width bit vector over component kinds. An entity's
// signature says what it has; a system's signature says what it needs.
type Signature [signatureWords]uint64

func (s *Signature) Set(id ComponentID) {
	s[id/64] |= 1 << (uint(id) % 64)
}

func (s *Signature) Clear(id ComponentID) {
	s[id/64] &^= 1 << (uint(id) % 64)
}

func (s Signature) Test(id ComponentID) bool {
	if id < 0 || int(id) >= MaxComponents {
		return false
	}
	return s[id/64]&(1<<(uint(id)%64)) != 0
}

func (s *Signature) Reset() {
	*s = Signature{}
}

// Matches reports whether every bit of required is also set in s,
// i.e. s & required == required.
func (s Signature) Matches(required Signature) bool {
	for i := range s {
		if s[i]&required[i] != required[i] {
			return false
		}
	}
	return true
}

func (s Signature) IsZero() bool {
	return s == Signature{}
}

// Count returns the number of set bits.
func (s Signature) Count() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// String lists the set component ids, e.g. "{0,3,7}".
func (s Signature) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for id := ComponentID(0); int(id) < MaxComponents; id++ {
		if !s.Test(id) {
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(id)))
		first = false
	}
	b.WriteByte('}')
	return b.String()
}
