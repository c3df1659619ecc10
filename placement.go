// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zoetrope

import (
	"fmt"
	"image"
	"math"
)

// Stretch is the policy for scaling the native frame size into a
// host-provided available area.
type Stretch int

const (
	// StretchNone renders at the native size.
	StretchNone Stretch = iota
	// StretchFill scales each axis independently to fill the available
	// area, not preserving aspect ratio.
	StretchFill
	// StretchUniform scales uniformly so the whole image fits within
	// the available area.
	StretchUniform
	// StretchUniformToFill scales uniformly so the image covers the
	// available area, clipping the overflow.
	StretchUniformToFill
)

// String returns the name of the stretch mode.
func (s Stretch) String() string {
	switch s {
	case StretchNone:
		return "none"
	case StretchFill:
		return "fill"
	case StretchUniform:
		return "uniform"
	case StretchUniformToFill:
		return "uniform_to_fill"
	default:
		return fmt.Sprintf("stretch(%d)", int(s))
	}
}

// StretchDirection constrains which way a Stretch may scale.
type StretchDirection int

const (
	// StretchBoth allows scaling up and down.
	StretchBoth StretchDirection = iota
	// StretchUpOnly only enlarges; the image is never shrunk below its
	// native size.
	StretchUpOnly
	// StretchDownOnly only shrinks; the image is never enlarged beyond
	// its native size.
	StretchDownOnly
)

// String returns the name of the stretch direction.
func (d StretchDirection) String() string {
	switch d {
	case StretchBoth:
		return "both"
	case StretchUpOnly:
		return "up"
	case StretchDownOnly:
		return "down"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Placement computes the destination rectangle for blitting the buffer
// into the available area under the provided stretch policy, and the
// matching source sub-rectangle so unscaled source pixels map correctly
// when the destination is clipped. The scaled rectangle is centered
// within the available area and clipped to it.
func (s *Surface) Placement(avail image.Rectangle, mode Stretch, dir StretchDirection) (dst, src image.Rectangle) {
	native := s.dst.Bounds()
	w, h := native.Dx(), native.Dy()
	if w == 0 || h == 0 || avail.Empty() {
		return image.Rectangle{}, image.Rectangle{}
	}

	sx, sy := 1.0, 1.0
	aw, ah := float64(avail.Dx()), float64(avail.Dy())
	switch mode {
	case StretchFill:
		sx, sy = aw/float64(w), ah/float64(h)
	case StretchUniform:
		sx = math.Min(aw/float64(w), ah/float64(h))
		sy = sx
	case StretchUniformToFill:
		sx = math.Max(aw/float64(w), ah/float64(h))
		sy = sx
	}
	sx = constrain(sx, dir)
	sy = constrain(sy, dir)

	dw := int(math.Round(float64(w) * sx))
	dh := int(math.Round(float64(h) * sy))
	full := image.Rectangle{
		Min: image.Point{
			X: avail.Min.X + (avail.Dx()-dw)/2,
			Y: avail.Min.Y + (avail.Dy()-dh)/2,
		},
	}
	full.Max = full.Min.Add(image.Point{X: dw, Y: dh})
	dst = full.Intersect(avail)

	src = image.Rect(
		native.Min.X+int(math.Round(float64(dst.Min.X-full.Min.X)/sx)),
		native.Min.Y+int(math.Round(float64(dst.Min.Y-full.Min.Y)/sy)),
		native.Max.X-int(math.Round(float64(full.Max.X-dst.Max.X)/sx)),
		native.Max.Y-int(math.Round(float64(full.Max.Y-dst.Max.Y)/sy)),
	)
	return dst, src
}

func constrain(s float64, dir StretchDirection) float64 {
	switch dir {
	case StretchUpOnly:
		if s < 1 {
			return 1
		}
	case StretchDownOnly:
		if s > 1 {
			return 1
		}
	}
	return s
}
