// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config provides player configuration types and schemas.
package config

import (
	"encoding/binary"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/kortschak/zoetrope"
)

// Player is a complete player configuration. Fields left unset defer to
// the player's defaults.
type Player struct {
	// Source is the path of the image to play.
	Source string `json:"source,omitempty" toml:"source"`

	// Loops is the number of complete passes to play. A positive value
	// plays that many passes, -1 loops forever and zero defers to the
	// source's native loop count.
	Loops *int `json:"loops,omitempty" toml:"loops"`

	// AutoStart starts playback when the first frame is ready.
	AutoStart *bool `json:"autostart,omitempty" toml:"autostart"`

	// Stretch is the scaling policy, one of "none", "fill", "uniform"
	// or "uniform_to_fill".
	Stretch string `json:"stretch,omitempty" toml:"stretch"`

	// StretchDirection constrains scaling, one of "both", "up" or
	// "down".
	StretchDirection string `json:"stretch_direction,omitempty" toml:"stretch_direction"`

	// FPS is the tick rate driving the player.
	FPS *int `json:"fps,omitempty" toml:"fps"`

	// Background is a web color, #rrggbb, used for restore-background
	// disposal. If unset, the source's declared background is used.
	Background string `json:"background,omitempty" toml:"background"`

	// Watch reloads the source when its file changes.
	Watch *bool `json:"watch,omitempty" toml:"watch"`

	LogLevel  *slog.Level `json:"log_level,omitempty" toml:"log_level"`
	AddSource *bool       `json:"log_add_source,omitempty" toml:"log_add_source"`
}

// Schema is the CUE schema for a valid player configuration.
const Schema = `
{
	source?:            string
	loops?:             int & >=-1
	autostart?:         bool
	stretch?:           "none" | "fill" | "uniform" | "uniform_to_fill"
	stretch_direction?: "both" | "up" | "down"
	fps?:               int & >0 & <=240
	background?:        _#web_color
	watch?:             bool
	log_level?:         _#log_level
	log_add_source?:    bool
}

_#web_color: =~"^#[0-9a-fA-F]{6}$"
_#log_level: =~"(?i)^(?:debug|info|warn|error)$"
`

// Load reads and validates the player configuration at path.
func Load(path string) (*Player, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Player
	err = toml.Unmarshal(b, &p)
	if err != nil {
		return nil, err
	}
	_, err = Validate(Schema, p)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return &p, nil
}

// ParseStretch returns the stretch mode named by s.
func ParseStretch(s string) (zoetrope.Stretch, error) {
	switch s {
	case "none":
		return zoetrope.StretchNone, nil
	case "fill":
		return zoetrope.StretchFill, nil
	case "uniform":
		return zoetrope.StretchUniform, nil
	case "uniform_to_fill":
		return zoetrope.StretchUniformToFill, nil
	default:
		return 0, fmt.Errorf("invalid stretch mode: %q", s)
	}
}

// ParseStretchDirection returns the stretch direction named by s.
func ParseStretchDirection(s string) (zoetrope.StretchDirection, error) {
	switch s {
	case "both":
		return zoetrope.StretchBoth, nil
	case "up":
		return zoetrope.StretchUpOnly, nil
	case "down":
		return zoetrope.StretchDownOnly, nil
	default:
		return 0, fmt.Errorf("invalid stretch direction: %q", s)
	}
}

// ParseColor returns the color for a web color string, #rrggbb.
func ParseColor(val string) (color.Color, error) {
	hex, ok := strings.CutPrefix(val, "#")
	if !ok || len(hex) != 6 {
		return nil, fmt.Errorf("invalid web color: %s", val)
	}
	c, err := strconv.ParseUint(hex, 16, 24)
	if err != nil {
		return nil, fmt.Errorf("invalid web color: %s", val)
	}
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(c))
	return color.NRGBA{R: b[1], G: b[2], B: b[3], A: 0xff}, nil
}
