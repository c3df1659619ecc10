// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zoetrope

import (
	"fmt"
	"image"
	"image/color"
	"io"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// stillSource adopts a still image as a single-frame sequence. The frame
// is rendered once and the controller then freezes on it.
type stillSource struct {
	img    image.Image
	idx    int
	closed bool
}

func newStillSource(r ReadPeeker) (*stillSource, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStream, err)
	}
	return &stillSource{img: img}, nil
}

// Next implements the Source interface.
func (s *stillSource) Next() (*Frame, error) {
	if s.closed {
		return nil, errClosed
	}
	if s.idx > 0 {
		return nil, io.EOF
	}
	s.idx++
	return &Frame{Image: s.img, Disposal: DisposalReplace}, nil
}

// Reset implements the Source interface.
func (s *stillSource) Reset() error {
	if s.closed {
		return errClosed
	}
	s.idx = 0
	return nil
}

// Bounds implements the Source interface.
func (s *stillSource) Bounds() image.Rectangle { return s.img.Bounds() }

// Background implements the Source interface.
func (s *stillSource) Background() color.Color { return nil }

// LoopCount implements the Source interface. A still image plays only
// once.
func (s *stillSource) LoopCount() int { return -1 }

// Close implements the Source interface.
func (s *stillSource) Close() error {
	s.closed = true
	s.img = nil
	return nil
}
