package system

import "time"

// Clock is simulation time. The frame driver advances it by each frame's
// delta, so timers (animations, projectile lifetimes, emitters) replay the
// same way for the same frame sequence.
type Clock struct {
	now time.Duration
}

func (c *Clock) Now() time.Duration { return c.now }

func (c *Clock) Advance(dt time.Duration) { c.now += dt }
