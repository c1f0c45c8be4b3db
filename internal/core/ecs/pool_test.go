package ecs

import (
	"errors"
	"testing"
)

func TestPoolSetGrowsAndGetChecksValidity(t *testing.T) {
	p := NewPool[int](0)
	if p.Cap() != 0 {
		t.Fatalf("expected empty pool, got cap %d", p.Cap())
	}
	p.Set(300, 7)
	if p.Cap() < 301 {
		t.Errorf("expected cap >= 301, got %d", p.Cap())
	}
	v, err := p.Get(300)
	if err != nil || *v != 7 {
		t.Fatalf("expected 7, got %v, %v", v, err)
	}
	if _, err := p.Get(299); !errors.Is(err, ErrComponentMissing) {
		t.Errorf("expected ErrComponentMissing for unwritten slot, got %v", err)
	}
	if _, err := p.Get(100000); !errors.Is(err, ErrComponentMissing) {
		t.Errorf("expected ErrComponentMissing out of range, got %v", err)
	}
}

func TestPoolRemoveZeroesSlot(t *testing.T) {
	p := NewPool[string](4)
	p.Set(1, "tank")
	p.Remove(1)
	p.Remove(1)
	if p.Has(1) || p.Len() != 0 {
		t.Fatal("expected slot invalid after remove")
	}
	if got := p.pages[0][1]; got != "" {
		t.Errorf("expected zeroed slot, got %q", got)
	}
}

func TestPoolEnsureCapacityNeverShrinks(t *testing.T) {
	p := NewPool[int](600)
	c := p.Cap()
	p.EnsureCapacity(10)
	if p.Cap() != c {
		t.Errorf("expected cap %d, got %d", c, p.Cap())
	}
}

func TestPoolEach(t *testing.T) {
	p := NewPool[int](0)
	p.Set(5, 50)
	p.Set(2, 20)
	var ids []EntityID
	sum := 0
	p.Each(func(id EntityID, v *int) {
		ids = append(ids, id)
		sum += *v
	})
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 5 || sum != 70 {
		t.Errorf("unexpected iteration ids=%v sum=%d", ids, sum)
	}
}
