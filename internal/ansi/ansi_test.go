// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ansi

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestEncode(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 0xff, A: 0xff})
	img.SetRGBA(1, 0, color.RGBA{G: 0xff, A: 0xff})
	img.SetRGBA(0, 1, color.RGBA{B: 0xff, A: 0xff})
	img.SetRGBA(1, 1, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})

	var buf bytes.Buffer
	err := Encode(&buf, img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := buf.String()

	if n := strings.Count(got, "▀"); n != 2 {
		t.Errorf("unexpected cell count: got:%d want:2", n)
	}
	if n := strings.Count(got, "\n"); n != 1 {
		t.Errorf("unexpected line count: got:%d want:1", n)
	}
	for _, want := range []string{
		"\x1b[38;2;255;0;0m", // upper left pixel, foreground.
		"\x1b[48;2;0;0;255m", // lower left pixel, background.
		"\x1b[38;2;0;255;0m",
		"\x1b[48;2;255;255;255m",
		reset,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing sequence %q in %q", want, got)
		}
	}
}

func TestEncodeOddHeight(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	var buf bytes.Buffer
	err := Encode(&buf, img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := buf.String()
	if n := strings.Count(got, "\n"); n != 2 {
		t.Errorf("unexpected line count: got:%d want:2", n)
	}
	// The final row must not set a background color.
	lines := strings.Split(got, "\n")
	if strings.Contains(lines[1], "\x1b[48;2;") {
		t.Errorf("final odd row sets background: %q", lines[1])
	}
}
