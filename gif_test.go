// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zoetrope

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"
	"testing"
	"time"
)

var testPalette = color.Palette{
	color.RGBA{A: 0xff},
	color.RGBA{R: 0xff, A: 0xff},
	color.RGBA{G: 0xff, A: 0xff},
}

// encodeGIF returns GIF data for n full-canvas frames with the provided
// delays in 100ths of a second.
func encodeGIF(t *testing.T, delays []int, disposal []byte, loop int) []byte {
	t.Helper()
	g := &gif.GIF{LoopCount: loop, Disposal: disposal}
	for i, d := range delays {
		m := image.NewPaletted(image.Rect(0, 0, 4, 4), testPalette)
		for p := range m.Pix {
			m.Pix[p] = byte(i % len(testPalette))
		}
		g.Image = append(g.Image, m)
		g.Delay = append(g.Delay, d)
	}
	var buf bytes.Buffer
	err := gif.EncodeAll(&buf, g)
	if err != nil {
		t.Fatalf("unexpected error encoding test gif: %v", err)
	}
	return buf.Bytes()
}

func TestIsGIF(t *testing.T) {
	data := encodeGIF(t, []int{5, 10}, nil, 0)
	if !IsGIF(AsReadPeeker(bytes.NewReader(data))) {
		t.Error("valid gif data not recognised")
	}
	if IsGIF(AsReadPeeker(bytes.NewReader([]byte("FIG98a")))) {
		t.Error("corrupted signature recognised as gif")
	}
}

func TestGIFSource(t *testing.T) {
	data := encodeGIF(t, []int{5, 10, 0}, []byte{
		gif.DisposalNone,
		gif.DisposalBackground,
		gif.DisposalNone,
	}, 0)
	src, err := OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error opening source: %v", err)
	}
	defer src.Close()

	if got, want := src.Bounds(), image.Rect(0, 0, 4, 4); got != want {
		t.Errorf("unexpected bounds: got:%v want:%v", got, want)
	}
	if got := src.LoopCount(); got != 0 {
		t.Errorf("unexpected native loop count: got:%d want:0", got)
	}

	want := []struct {
		duration time.Duration
		disposal Disposal
	}{
		// The first frame of a pass replaces the buffer; later frames
		// carry the disposal declared by their predecessor. The zero
		// delay of the final frame is clamped to the default.
		{duration: 50 * time.Millisecond, disposal: DisposalReplace},
		{duration: 100 * time.Millisecond, disposal: DisposalLeave},
		{duration: defaultFrameDuration, disposal: DisposalBackground},
	}
	for i, w := range want {
		f, err := src.Next()
		if err != nil {
			t.Fatalf("unexpected error decoding frame %d: %v", i, err)
		}
		if f.Index != i {
			t.Errorf("unexpected index: got:%d want:%d", f.Index, i)
		}
		if f.Duration != w.duration {
			t.Errorf("unexpected duration for frame %d: got:%v want:%v", i, f.Duration, w.duration)
		}
		if f.Disposal != w.disposal {
			t.Errorf("unexpected disposal for frame %d: got:%v want:%v", i, f.Disposal, w.disposal)
		}
	}
	_, err = src.Next()
	if err != io.EOF {
		t.Errorf("unexpected error at end of sequence: got:%v want:%v", err, io.EOF)
	}

	// Reset rewinds to the first frame.
	err = src.Reset()
	if err != nil {
		t.Fatalf("unexpected error from reset: %v", err)
	}
	f, err := src.Next()
	if err != nil {
		t.Fatalf("unexpected error decoding after reset: %v", err)
	}
	if f.Index != 0 {
		t.Errorf("unexpected index after reset: got:%d want:0", f.Index)
	}

	// Close is idempotent.
	if err := src.Close(); err != nil {
		t.Errorf("unexpected error from close: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("unexpected error from second close: %v", err)
	}
	if _, err := src.Next(); err == nil {
		t.Error("expected error from next after close")
	}
}

func TestOpenReaderInvalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "corrupt_signature", data: []byte("GIFXXa lies")},
		{name: "truncated", data: encodeGIF(t, []int{5, 5}, nil, 0)[:20]},
		{name: "empty", data: nil},
		{name: "noise", data: bytes.Repeat([]byte{0xa5}, 128)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := OpenReader(bytes.NewReader(test.data))
			if !errors.Is(err, ErrInvalidStream) {
				t.Errorf("unexpected error: got:%v want:%v", err, ErrInvalidStream)
			}
		})
	}
}

func TestOpenReaderStill(t *testing.T) {
	var buf bytes.Buffer
	err := gif.Encode(&buf, image.NewPaletted(image.Rect(0, 0, 3, 2), testPalette), nil)
	if err != nil {
		t.Fatalf("unexpected error encoding still: %v", err)
	}
	// A single-frame GIF still adopts as a one-frame sequence.
	src, err := OpenReader(&buf)
	if err != nil {
		t.Fatalf("unexpected error opening source: %v", err)
	}
	defer src.Close()
	f, err := src.Next()
	if err != nil {
		t.Fatalf("unexpected error decoding frame: %v", err)
	}
	if got, want := f.Bounds(), image.Rect(0, 0, 3, 2); got != want {
		t.Errorf("unexpected frame bounds: got:%v want:%v", got, want)
	}
	if _, err := src.Next(); err != io.EOF {
		t.Errorf("unexpected error at end of sequence: got:%v want:%v", err, io.EOF)
	}
}
