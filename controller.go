// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zoetrope

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// State is the playback state of a Controller.
type State int

const (
	// Empty indicates no source has been adopted.
	Empty State = iota
	// Loading indicates a source has been adopted but its first frame
	// is not yet ready.
	Loading
	// Playing indicates the controller is advancing through frames.
	Playing
	// Finished indicates the iteration limit has been reached and the
	// controller is frozen on the final frame.
	Finished
	// Failed indicates a decode error. Failed is terminal until a new
	// source is adopted.
	Failed
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// maxZeroCost bounds the number of consecutive zero-duration frame
// advances consumed in a single tick so a sequence with no time cost
// cannot stall the paint path.
const maxZeroCost = 16

// Options configures a Controller.
type Options struct {
	// Loops is the number of complete passes through the sequence
	// before playback freezes. A positive value plays that many passes,
	// a negative value loops forever, and zero defers to the source's
	// native loop count.
	Loops int

	// AutoStart starts the playback clock implicitly when the first
	// frame of a newly adopted source has been decoded. If AutoStart is
	// false the host must call Start explicitly.
	AutoStart bool

	// Background overrides the source's background color for
	// restore-background disposal. If nil, the source's declared
	// background is used.
	Background color.Color

	// OnRepaint is called when a tick or source replacement has
	// produced a visible change. It is called from the controller's
	// notifier goroutine, never from the paint path.
	OnRepaint func()

	// OnError is called once per decode failure, from the controller's
	// notifier goroutine.
	OnError func(error)
}

// generation is the state for one adopted source. A new generation is
// created by each source replacement; pending work tagged with a stale
// generation discards its results rather than installing them.
type generation struct {
	src   Source
	surf  *Surface
	limit int // complete passes, or -1 for unbounded.

	cancelled atomic.Bool
	inTick    atomic.Bool
	dispose   sync.Once

	// The fields below are mutated only from the tick path.
	state State
	cur   *Frame
	owed  time.Duration
	last  time.Duration // elapsed at last tick.
	loops int
}

// release closes the generation's source. It is safe to call more than
// once and from either the tick path or a replacing goroutine that has
// established the generation is out of use.
func (g *generation) release(log *slog.Logger) {
	g.dispose.Do(func() {
		if g.src == nil {
			return
		}
		err := g.src.Close()
		if err != nil {
			log.LogAttrs(context.Background(), slog.LevelWarn, "close source", slog.Any("error", err))
		}
	})
}

// Controller is the playback state machine. It owns a decoded frame
// sequence, advances it according to elapsed time and the configured
// repeat policy, and composes due frames into an offscreen buffer.
//
// Tick, State, Bounds, Image and Placement must be called from a single
// goroutine, the host's tick goroutine. ReplaceSource, ReplaceReader,
// Start, Stop and Close may be called from any goroutine.
type Controller struct {
	opts  Options
	log   *slog.Logger
	clock *Clock

	gen atomic.Pointer[generation]

	events    chan error
	done      chan struct{}
	closeOnce sync.Once
}

// NewController returns a Controller in the Empty state using the
// provided options. The log may be nil.
func NewController(opts Options, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Controller{
		opts:   opts,
		log:    log.With(slog.String("component", "zoetrope.controller")),
		clock:  NewClock(),
		events: make(chan error, 16),
		done:   make(chan struct{}),
	}
	c.gen.Store(&generation{state: Empty})
	go c.notify()
	return c
}

// notify delivers repaint and error notifications to the host's
// callbacks, keeping delivery off the paint path.
func (c *Controller) notify() {
	for {
		select {
		case <-c.done:
			return
		case err := <-c.events:
			switch {
			case err != nil:
				if c.opts.OnError != nil {
					c.opts.OnError(err)
				}
			default:
				if c.opts.OnRepaint != nil {
					c.opts.OnRepaint()
				}
			}
		}
	}
}

// post queues a notification. A nil error requests a repaint.
func (c *Controller) post(err error) {
	select {
	case c.events <- err:
	case <-c.done:
	}
}

// ReplaceReader adopts the data held by r as the new frame source,
// cancelling any pending work on the previous source and releasing its
// resources. If the stream is invalid the controller enters the Failed
// state and the failure is reported through OnError; the error is not
// returned to the caller.
func (c *Controller) ReplaceReader(r io.Reader) {
	src, err := OpenReader(r)
	if err != nil {
		c.adopt(&generation{state: Failed})
		c.log.LogAttrs(context.Background(), slog.LevelError, "adopt source", slog.Any("error", err))
		c.post(err)
		return
	}
	c.ReplaceSource(src)
}

// ReplaceSource adopts an already open source, cancelling any pending
// work on the previous source and releasing its resources. A nil src
// returns the controller to the Empty state.
func (c *Controller) ReplaceSource(src Source) {
	if src == nil {
		c.adopt(&generation{state: Empty})
		return
	}
	c.adopt(&generation{src: src, state: Loading, limit: c.limitFor(src)})
}

// adopt installs g as the current generation and retires the previous
// one. The previous generation's resources are released immediately if
// no tick is using them, otherwise by the in-flight tick when it
// observes cancellation.
func (c *Controller) adopt(g *generation) {
	old := c.gen.Swap(g)
	c.clock.Stop()
	if old == nil {
		return
	}
	old.cancelled.Store(true)
	if !old.inTick.Load() {
		old.release(c.log)
	}
}

// limitFor resolves the configured loop option against the source's
// native loop count into a pass limit, -1 meaning unbounded.
func (c *Controller) limitFor(src Source) int {
	switch l := c.opts.Loops; {
	case l > 0:
		return l
	case l < 0:
		return -1
	}
	n := src.LoopCount()
	if n <= 0 {
		n = -n - 1
	}
	if n == -1 {
		return -1
	}
	return n + 1
}

// Tick advances playback to the provided elapsed time, which is the
// host's stopwatch reading for this paint tick, typically
// [Controller.Elapsed]. Frames whose duration has been fully covered by
// elapsed time are consumed without being displayed so that playback
// tracks wall time rather than tick count. A repaint notification is
// posted only when the composited buffer has changed.
func (c *Controller) Tick(elapsed time.Duration) {
	g := c.gen.Load()
	if g == nil {
		return
	}
	g.inTick.Store(true)
	defer func() {
		g.inTick.Store(false)
		if g.cancelled.Load() {
			g.release(c.log)
		}
	}()
	if c.gen.Load() != g || g.cancelled.Load() {
		return
	}
	switch g.state {
	case Loading:
		c.load(g, elapsed)
	case Playing:
		c.advance(g, elapsed)
	}
}

// load decodes the first frame of a newly adopted source. The frame's
// own duration is charged starting from this tick; no elapsed time is
// consumed by loading.
func (c *Controller) load(g *generation, elapsed time.Duration) {
	f, err := g.src.Next()
	if err == io.EOF {
		err = fmt.Errorf("%w: empty sequence", ErrInvalidStream)
	}
	if err != nil {
		c.fail(g, err)
		return
	}
	if g.cancelled.Load() {
		return
	}
	bg := c.opts.Background
	if bg == nil {
		bg = g.src.Background()
	}
	g.surf = NewSurface(g.src.Bounds(), bg)
	g.surf.Compose(f)
	g.cur = f
	g.state = Playing
	g.owed = 0
	g.last = elapsed
	if c.opts.AutoStart {
		c.clock.Start()
	}
	c.post(nil)
}

// advance accumulates elapsed time against the current frame and
// consumes frames until the current frame's duration is no longer owed.
// A late tick catches up by skipping intermediate frames rather than
// replaying them one per tick.
func (c *Controller) advance(g *generation, elapsed time.Duration) {
	delta := elapsed - g.last
	if delta < 0 {
		delta = 0
	}
	g.last = elapsed
	g.owed += delta

	var (
		changed bool
		free    int
	)
	for g.state == Playing {
		if g.cur.Duration > 0 {
			if g.owed < g.cur.Duration {
				break
			}
			g.owed -= g.cur.Duration
			free = 0
		} else {
			free++
			if free > maxZeroCost {
				break
			}
		}
		if g.cancelled.Load() {
			return
		}
		f, err := g.src.Next()
		if err == io.EOF {
			g.loops++
			if g.limit >= 0 && g.loops >= g.limit {
				g.state = Finished
				break
			}
			err = g.src.Reset()
			if err == nil {
				f, err = g.src.Next()
			}
			if err == io.EOF {
				err = fmt.Errorf("%w: empty sequence", ErrInvalidStream)
			}
		}
		if err != nil {
			c.fail(g, err)
			return
		}
		if g.cancelled.Load() {
			return
		}
		g.surf.Compose(f)
		g.cur = f
		changed = true
	}
	if changed {
		c.post(nil)
	}
}

// fail moves the generation to the Failed state and reports the failure.
// The controller renders nothing further and requests no repaints until
// a new source is adopted. A failure from a retired generation is
// dropped; the error belongs to a source the host has already replaced.
func (c *Controller) fail(g *generation, err error) {
	if g.cancelled.Load() || c.gen.Load() != g {
		return
	}
	g.state = Failed
	c.log.LogAttrs(context.Background(), slog.LevelError, "decode failed", slog.Any("error", err))
	c.post(err)
}

// State returns the controller's current playback state.
func (c *Controller) State() State {
	g := c.gen.Load()
	if g == nil {
		return Empty
	}
	return g.state
}

// Bounds returns the native pixel bounds of the current sequence. The
// bounds are zero until the controller has left the Loading state.
func (c *Controller) Bounds() image.Rectangle {
	g := c.gen.Load()
	if g == nil || g.surf == nil {
		return image.Rectangle{}
	}
	return g.surf.Bounds()
}

// Image returns the composited offscreen buffer, or nil if no frame has
// been composed or the controller has failed. The buffer is owned by the
// engine and is only valid to read between ticks.
func (c *Controller) Image() *image.RGBA {
	g := c.gen.Load()
	if g == nil || g.surf == nil || g.state == Failed {
		return nil
	}
	return g.surf.Image()
}

// Placement computes the destination and source rectangles for blitting
// the composited buffer into the available area. The rectangles are zero
// if no frame has been composed.
func (c *Controller) Placement(avail image.Rectangle, mode Stretch, dir StretchDirection) (dst, src image.Rectangle) {
	g := c.gen.Load()
	if g == nil || g.surf == nil || g.state == Failed {
		return image.Rectangle{}, image.Rectangle{}
	}
	return g.surf.Placement(avail, mode, dir)
}

// Start starts the playback clock. It has no effect if the clock is
// already running.
func (c *Controller) Start() { c.clock.Start() }

// Stop stops the playback clock, resetting it to zero. Stopping twice is
// the same as stopping once.
func (c *Controller) Stop() { c.clock.Stop() }

// Elapsed returns the playback clock reading.
func (c *Controller) Elapsed() time.Duration { return c.clock.Elapsed() }

// Close tears the controller down, cancelling pending work, releasing
// the current source and stopping notification delivery. Close is
// idempotent.
func (c *Controller) Close() error {
	c.closeOnce.Do(func() {
		c.adopt(&generation{state: Empty})
		close(c.done)
	})
	return nil
}
