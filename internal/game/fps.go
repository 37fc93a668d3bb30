package game

import "time"

// FPSCounter counts frames and reports a rate once per elapsed second.
type FPSCounter struct {
	now    func() time.Time
	start  time.Time
	frames int
	last   int
}

// NewFPSCounter creates a counter reading time from now.
func NewFPSCounter(now func() time.Time) *FPSCounter {
	return &FPSCounter{now: now, start: now()}
}

// Tick records a frame. Once at least a second has passed since the window
// opened it returns the frame count for that window and starts a new one.
func (c *FPSCounter) Tick() (int, bool) {
	c.frames++
	if c.now().Sub(c.start) < time.Second {
		return 0, false
	}
	c.last = c.frames
	c.frames = 0
	c.start = c.now()
	return c.last, true
}

// Last returns the most recently reported rate.
func (c *FPSCounter) Last() int {
	return c.last
}
