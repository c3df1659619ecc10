// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zoetrope

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"time"
)

// ErrInvalidStream indicates that a byte stream could not be adopted as a
// frame source. A malformed signature, a truncated stream and an unsupported
// image all collapse to this error; the only recovery is to supply a new
// source.
var ErrInvalidStream = errors.New("zoetrope: invalid stream")

// errClosed is returned by source operations after Close.
var errClosed = errors.New("zoetrope: closed source")

// Disposal is the policy applied to a frame's region of the offscreen
// buffer before the frame is drawn.
type Disposal byte

const (
	// DisposalReplace overwrites the frame's region with the frame's
	// pixels, discarding what was there.
	DisposalReplace Disposal = iota

	// DisposalLeave draws the frame over the existing buffer contents,
	// leaving pixels outside the frame's opaque area untouched.
	DisposalLeave

	// DisposalBackground clears the frame's region to the background
	// color before the frame is drawn.
	DisposalBackground
)

// String returns the name of the disposal policy.
func (d Disposal) String() string {
	switch d {
	case DisposalReplace:
		return "replace"
	case DisposalLeave:
		return "leave"
	case DisposalBackground:
		return "background"
	default:
		return fmt.Sprintf("disposal(%d)", byte(d))
	}
}

// Frame is a single decoded image in a sequence. A Frame is immutable; the
// pixel data is owned by the producing Source and must only be read for the
// duration of a single [Surface.Compose] call.
type Frame struct {
	// Image holds the frame's pixels. Its bounds are the frame's
	// logical sub-rectangle within the source's native bounds.
	Image image.Image

	// Duration is the frame's native display duration.
	Duration time.Duration

	// Disposal is applied to the frame's region before it is drawn.
	Disposal Disposal

	// Index is the frame's position in the sequence.
	Index int
}

// Bounds returns the frame's logical sub-rectangle within the source's
// native bounds.
func (f *Frame) Bounds() image.Rectangle {
	if f.Image == nil {
		return image.Rectangle{}
	}
	return f.Image.Bounds()
}

// Source is an ordered sequence of frames decoded lazily from a byte
// stream. Frames are produced in index order only; the cursor may not be
// rewound except by Reset, which restarts the sequence from index zero.
type Source interface {
	// Next decodes and returns the next frame in the sequence, or io.EOF
	// when the sequence is exhausted. Any other error indicates the
	// stream is not recoverable.
	Next() (*Frame, error)

	// Reset rewinds the cursor to the first frame. It must be cheap;
	// cached header data is reused, not re-validated.
	Reset() error

	// Bounds returns the native pixel bounds of the sequence, fixed for
	// its whole life.
	Bounds() image.Rectangle

	// Background returns the sequence's background color. It may be nil
	// if the source does not declare one.
	Background() color.Color

	// LoopCount returns the source's native loop count using GIF
	// conventions: 0 loops forever, -1 plays the sequence once, and a
	// positive n plays the sequence n+1 times.
	LoopCount() int

	// Close releases the underlying stream and any decode buffers.
	// Close is idempotent.
	Close() error
}

// ReadPeeker is an io.Reader that can also peek n bytes ahead.
type ReadPeeker interface {
	io.Reader
	Peek(n int) ([]byte, error)
}

// AsReadPeeker converts an io.Reader to a ReadPeeker.
func AsReadPeeker(r io.Reader) ReadPeeker {
	if r, ok := r.(ReadPeeker); ok {
		return r
	}
	return bufio.NewReader(r)
}

// hasMagic returns whether r starts with the provided magic bytes.
func hasMagic(magic string, r ReadPeeker) bool {
	b, err := r.Peek(len(magic))
	if err != nil || len(b) != len(magic) {
		return false
	}
	for i, c := range b {
		if magic[i] != c && magic[i] != '?' {
			return false
		}
	}
	return true
}

// OpenReader adopts the data held by r as a frame source. GIF data becomes
// an animated sequence; any other supported still image format becomes a
// single-frame sequence that renders once and freezes. The signature is
// validated before anything is allocated; failures are reported as
// [ErrInvalidStream].
func OpenReader(r io.Reader) (Source, error) {
	p := AsReadPeeker(r)
	if IsGIF(p) {
		return newGIFSource(p)
	}
	return newStillSource(p)
}
