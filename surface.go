// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zoetrope

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Surface is an offscreen pixel buffer sized to a source's native
// bounds. Frames are composited into it honoring their disposal policy.
// A Surface is created per adopted source and never outlives it, so it
// never references a stale native size.
type Surface struct {
	dst *image.RGBA
	bg  *image.Uniform
}

// NewSurface returns a Surface for the provided native bounds. The
// background color is used for restore-background disposal; nil means
// transparent.
func NewSurface(bounds image.Rectangle, background color.Color) *Surface {
	if background == nil {
		background = color.Transparent
	}
	return &Surface{
		dst: image.NewRGBA(bounds),
		bg:  &image.Uniform{C: background},
	}
}

// Compose writes the frame's pixels into the buffer. The frame's
// disposal policy is applied to its region as a pre-step before the
// frame is drawn.
func (s *Surface) Compose(f *Frame) {
	r := f.Bounds().Intersect(s.dst.Bounds())
	if r.Empty() {
		return
	}
	switch f.Disposal {
	case DisposalReplace:
		draw.Copy(s.dst, r.Min, f.Image, r, draw.Src, nil)
	case DisposalBackground:
		draw.Copy(s.dst, r.Min, s.bg, r, draw.Src, nil)
		draw.Copy(s.dst, r.Min, f.Image, r, draw.Over, nil)
	default:
		draw.Copy(s.dst, r.Min, f.Image, r, draw.Over, nil)
	}
}

// Bounds returns the buffer's native bounds.
func (s *Surface) Bounds() image.Rectangle { return s.dst.Bounds() }

// Image returns the composited buffer. The buffer is mutated by Compose;
// callers must not retain it across composes.
func (s *Surface) Image() *image.RGBA { return s.dst }
