// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ansi renders images to a terminal as truecolor half-block
// cells. Each terminal cell carries two vertically stacked pixels, the
// upper in the foreground color of a '▀' and the lower in the cell's
// background color.
package ansi

import (
	"fmt"
	"image"
	"io"
	"strings"
)

// Terminal control sequences used by hosts driving an animation.
const (
	Home       = "\x1b[H"
	Clear      = "\x1b[2J"
	HideCursor = "\x1b[?25l"
	ShowCursor = "\x1b[?25h"
	AltScreen  = "\x1b[?1049h"
	MainScreen = "\x1b[?1049l"

	reset = "\x1b[0m"
)

// Encode writes img to w as half-block cells. The image's rows are
// consumed in pairs; for an odd height the final row's lower pixels are
// left as terminal background. Alpha is composited over black.
func Encode(w io.Writer, img image.Image) error {
	b := img.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			tr, tg, tb := rgb(img, x, y)
			if y+1 < b.Max.Y {
				br, bg, bb := rgb(img, x, y+1)
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", tr, tg, tb, br, bg, bb)
			} else {
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm▀", tr, tg, tb)
			}
		}
		sb.WriteString(reset)
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// rgb returns the 8-bit color at x,y composited over black.
func rgb(img image.Image, x, y int) (r, g, b uint8) {
	// RGBA returns alpha-premultiplied components, so truncation
	// composites over black.
	r16, g16, b16, _ := img.At(x, y).RGBA()
	return uint8(r16 >> 8), uint8(g16 >> 8), uint8(b16 >> 8)
}
