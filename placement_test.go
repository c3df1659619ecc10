// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zoetrope

import (
	"image"
	"testing"
)

var placementTests = []struct {
	name   string
	native image.Rectangle
	avail  image.Rectangle
	mode   Stretch
	dir    StretchDirection

	dst image.Rectangle
	src image.Rectangle
}{
	{
		name:   "uniform_limited_by_width",
		native: image.Rect(0, 0, 100, 50),
		avail:  image.Rect(0, 0, 200, 200),
		mode:   StretchUniform,
		dir:    StretchBoth,
		// Scale 2, capped by the limiting dimension, centered
		// vertically, no clipping.
		dst: image.Rect(0, 50, 200, 150),
		src: image.Rect(0, 0, 100, 50),
	},
	{
		name:   "none_centered",
		native: image.Rect(0, 0, 100, 50),
		avail:  image.Rect(0, 0, 200, 200),
		mode:   StretchNone,
		dir:    StretchBoth,
		dst:    image.Rect(50, 75, 150, 125),
		src:    image.Rect(0, 0, 100, 50),
	},
	{
		name:   "fill",
		native: image.Rect(0, 0, 100, 50),
		avail:  image.Rect(0, 0, 200, 200),
		mode:   StretchFill,
		dir:    StretchBoth,
		dst:    image.Rect(0, 0, 200, 200),
		src:    image.Rect(0, 0, 100, 50),
	},
	{
		name:   "uniform_to_fill_clips",
		native: image.Rect(0, 0, 100, 50),
		avail:  image.Rect(0, 0, 200, 200),
		mode:   StretchUniformToFill,
		dir:    StretchBoth,
		// Scale 4 covers the area; the horizontal overflow is
		// clipped and mapped back to a centered source band.
		dst: image.Rect(0, 0, 200, 200),
		src: image.Rect(25, 0, 75, 50),
	},
	{
		name:   "uniform_down_only_never_enlarges",
		native: image.Rect(0, 0, 100, 50),
		avail:  image.Rect(0, 0, 200, 200),
		mode:   StretchUniform,
		dir:    StretchDownOnly,
		dst:    image.Rect(50, 75, 150, 125),
		src:    image.Rect(0, 0, 100, 50),
	},
	{
		name:   "uniform_up_only_never_shrinks",
		native: image.Rect(0, 0, 100, 50),
		avail:  image.Rect(0, 0, 50, 50),
		mode:   StretchUniform,
		dir:    StretchUpOnly,
		dst:    image.Rect(0, 0, 50, 50),
		src:    image.Rect(25, 0, 75, 50),
	},
	{
		name:   "uniform_shrinks_to_fit",
		native: image.Rect(0, 0, 100, 50),
		avail:  image.Rect(0, 0, 50, 50),
		mode:   StretchUniform,
		dir:    StretchBoth,
		dst:    image.Rect(0, 12, 50, 37),
		src:    image.Rect(0, 0, 100, 50),
	},
	{
		name:   "offset_available_area",
		native: image.Rect(0, 0, 100, 50),
		avail:  image.Rect(10, 20, 210, 220),
		mode:   StretchUniform,
		dir:    StretchBoth,
		dst:    image.Rect(10, 70, 210, 170),
		src:    image.Rect(0, 0, 100, 50),
	},
	{
		name:   "empty_available_area",
		native: image.Rect(0, 0, 100, 50),
		avail:  image.Rectangle{},
		mode:   StretchUniform,
		dir:    StretchBoth,
	},
}

func TestPlacement(t *testing.T) {
	for _, test := range placementTests {
		t.Run(test.name, func(t *testing.T) {
			s := NewSurface(test.native, nil)
			dst, src := s.Placement(test.avail, test.mode, test.dir)
			if dst != test.dst {
				t.Errorf("unexpected destination rect: got:%v want:%v", dst, test.dst)
			}
			if src != test.src {
				t.Errorf("unexpected source rect: got:%v want:%v", src, test.src)
			}
		})
	}
}
