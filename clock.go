package raystack

import (
	"time"
)

// FrameClock converts wall-clock samples into the per-frame (dt, t) pair the scene consumes.
// It lives with the driver; the scene itself never reads a clock.
type FrameClock struct {
	first time.Time
	last  time.Time
	Dt    float32 // seconds since the previous Tick
	T     float32 // seconds since the first Tick
}

// Tick records now as the current frame time. The first call yields Dt = T = 0.
func (c *FrameClock) Tick(now time.Time) (dt, t float32) {
	if c.first.IsZero() {
		c.first = now
		c.last = now
	}
	c.Dt = float32(now.Sub(c.last).Seconds())
	c.T = float32(now.Sub(c.first).Seconds())
	c.last = now
	return c.Dt, c.T
}

// Reset forgets the start time so the next Tick begins a new timeline.
func (c *FrameClock) Reset() {
	*c = FrameClock{}
}
