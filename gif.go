// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zoetrope

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"time"
)

// IsGIF returns whether the data held by r is a GIF image.
func IsGIF(r ReadPeeker) bool {
	return hasMagic("GIF8?a", r)
}

// defaultFrameDuration is used for frames that declare a zero delay.
// A zero-delay frame would otherwise never satisfy elapsed time.
const defaultFrameDuration = 100 * time.Millisecond

// gifSource is a Source backed by a GIF data stream. The container is
// parsed and validated once at open; per-frame work in Next is limited to
// building the frame descriptor, so Reset is a cursor rewind.
type gifSource struct {
	g      *gif.GIF
	bounds image.Rectangle
	bg     color.Color

	idx    int
	closed bool
}

// newGIFSource decodes and validates a GIF sequence from r. Delay,
// disposal and global background index values are checked for validity;
// all failures are reported as [ErrInvalidStream].
func newGIFSource(r ReadPeeker) (*gifSource, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStream, err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("%w: no frames", ErrInvalidStream)
	}
	if len(g.Image) != len(g.Delay) && g.Delay != nil {
		return nil, fmt.Errorf("%w: mismatched image count and delay count: %d != %d", ErrInvalidStream, len(g.Image), len(g.Delay))
	}
	if len(g.Image) != len(g.Disposal) && g.Disposal != nil {
		return nil, fmt.Errorf("%w: mismatched image count and disposal count: %d != %d", ErrInvalidStream, len(g.Image), len(g.Disposal))
	}
	var bg color.Color
	if pal, ok := g.Config.ColorModel.(color.Palette); ok {
		idx := int(g.BackgroundIndex)
		if idx >= len(pal) {
			return nil, fmt.Errorf("%w: global background colour index not in palette: %d", ErrInvalidStream, idx)
		}
		bg = pal[idx]
	}
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	return &gifSource{g: g, bounds: bounds, bg: bg}, nil
}

// Next implements the Source interface.
func (s *gifSource) Next() (*Frame, error) {
	if s.closed {
		return nil, errClosed
	}
	if s.idx >= len(s.g.Image) {
		return nil, io.EOF
	}
	i := s.idx
	s.idx++
	d := defaultFrameDuration
	if s.g.Delay != nil && s.g.Delay[i] > 0 {
		d = 10 * time.Duration(s.g.Delay[i]) * time.Millisecond
	}
	return &Frame{
		Image:    s.g.Image[i],
		Duration: d,
		Disposal: s.disposal(i),
		Index:    i,
	}, nil
}

// disposal maps the declared disposal of the frame preceding i to the
// policy applied before frame i is drawn. GIF declares disposal on the
// frame being retired; the engine reads it from the frame about to be
// shown. The first frame of a pass replaces the whole buffer so loop
// restarts do not inherit pixels from the previous pass.
func (s *gifSource) disposal(i int) Disposal {
	if i == 0 {
		return DisposalReplace
	}
	if s.g.Disposal == nil {
		return DisposalLeave
	}
	switch s.g.Disposal[i-1] {
	case gif.DisposalBackground:
		return DisposalBackground
	default:
		// DisposalNone, unspecified, and DisposalPrevious all leave
		// the buffer as drawn. See the restore-previous note in
		// DESIGN.md.
		return DisposalLeave
	}
}

// Reset implements the Source interface.
func (s *gifSource) Reset() error {
	if s.closed {
		return errClosed
	}
	s.idx = 0
	return nil
}

// Bounds implements the Source interface.
func (s *gifSource) Bounds() image.Rectangle { return s.bounds }

// Background implements the Source interface.
func (s *gifSource) Background() color.Color { return s.bg }

// LoopCount implements the Source interface.
func (s *gifSource) LoopCount() int {
	if s.g == nil {
		return -1
	}
	return s.g.LoopCount
}

// Close implements the Source interface.
func (s *gifSource) Close() error {
	s.closed = true
	s.g = nil
	return nil
}
