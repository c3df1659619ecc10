// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zoetrope

import (
	"sync"
	"time"
)

// Clock is a stopwatch for playback. The zero value is not usable; use
// NewClock. A Clock accumulates elapsed wall time between Start and Stop
// and has no persistence; a stopped clock reads zero.
type Clock struct {
	mu      sync.Mutex
	now     func() time.Time
	start   time.Time
	running bool
}

// NewClock returns a stopped Clock reading zero.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// Start begins elapsed time accumulation. Calling Start on a running
// Clock has no effect.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.start = c.now()
	c.running = true
}

// Stop halts accumulation and resets the accumulated value to zero. This
// is a full stop, not a pause; a subsequent Start begins from zero.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
}

// Elapsed returns the accumulated time since the last Start, or zero if
// the Clock is stopped.
func (c *Clock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return 0
	}
	return c.now().Sub(c.start)
}

// Running returns whether the Clock is accumulating time.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
