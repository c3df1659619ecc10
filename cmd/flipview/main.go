// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The flipview command plays animated images in a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/font/basicfont"

	"github.com/kortschak/zoetrope"
	"github.com/kortschak/zoetrope/config"
	"github.com/kortschak/zoetrope/internal/ansi"
	"github.com/kortschak/zoetrope/internal/slogext"
	"github.com/kortschak/zoetrope/internal/text"
	"github.com/kortschak/zoetrope/internal/version"
)

func main() {
	os.Exit(Main())
}

func Main() int {
	logging := flag.String("log", "info", "logging level (debug, info, warn or error)")
	lines := flag.Bool("lines", false, "display source line details in logs")
	v := flag.Bool("version", false, "print version and exit")
	cfgPath := flag.String("config", "", "path of a player configuration file")
	loops := flag.Int("loop", 0, "number of passes (positive count, -1 to loop forever, 0 for the source's native count)")
	autostart := flag.Bool("autostart", true, "start playback as soon as the first frame is ready")
	stretchFlag := flag.String("stretch", "uniform", "scaling policy (none, fill, uniform or uniform_to_fill)")
	directionFlag := flag.String("direction", "both", "scaling constraint (both, up or down)")
	fps := flag.Int("fps", 30, "tick rate in frames per second")
	watch := flag.Bool("watch", false, "reload the image when the file changes")
	background := flag.String("background", "", "background web color (#rrggbb)")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: flipview [flags] <image>")
		flag.PrintDefaults()
	}
	flag.Parse()
	if *v {
		err := version.Print()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	var level slog.LevelVar
	err := level.UnmarshalText([]byte(*logging))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level: %v\n", err)
		flag.Usage()
		return 2
	}
	addSource := slogext.NewAtomicBool(*lines)
	log := slog.New(slogext.GoID{Handler: slogext.NewJSONHandler(os.Stderr, &slogext.HandlerOptions{
		Level:     &level,
		AddSource: addSource,
	})})

	path := flag.Arg(0)
	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			log.LogAttrs(context.Background(), slog.LevelError, "load config", slog.Any("error", err))
			return 1
		}
		set := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
		if !set["loop"] && cfg.Loops != nil {
			*loops = *cfg.Loops
		}
		if !set["autostart"] && cfg.AutoStart != nil {
			*autostart = *cfg.AutoStart
		}
		if !set["stretch"] && cfg.Stretch != "" {
			*stretchFlag = cfg.Stretch
		}
		if !set["direction"] && cfg.StretchDirection != "" {
			*directionFlag = cfg.StretchDirection
		}
		if !set["fps"] && cfg.FPS != nil {
			*fps = *cfg.FPS
		}
		if !set["watch"] && cfg.Watch != nil {
			*watch = *cfg.Watch
		}
		if !set["background"] && cfg.Background != "" {
			*background = cfg.Background
		}
		if !set["log"] && cfg.LogLevel != nil {
			level.Set(*cfg.LogLevel)
		}
		if !set["lines"] && cfg.AddSource != nil {
			addSource.Store(*cfg.AddSource)
		}
		if path == "" {
			path = cfg.Source
		}
	}
	if path == "" {
		flag.Usage()
		return 2
	}
	if *fps <= 0 || *fps > 240 {
		fmt.Fprintf(os.Stderr, "invalid tick rate: %d\n", *fps)
		flag.Usage()
		return 2
	}
	mode, err := config.ParseStretch(*stretchFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		return 2
	}
	dir, err := config.ParseStretchDirection(*directionFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		return 2
	}
	var bg color.Color
	if *background != "" {
		bg, err = config.ParseColor(*background)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			flag.Usage()
			return 2
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	p := &player{mode: mode, dir: dir, out: os.Stdout, log: log}
	p.ctrl = zoetrope.NewController(zoetrope.Options{
		Loops:      *loops,
		AutoStart:  *autostart,
		Background: bg,
		OnRepaint: func() {
			p.dirty.Store(true)
		},
		OnError: func(err error) {
			p.failed.Store(true)
			p.dirty.Store(true)
			log.LogAttrs(ctx, slog.LevelError, "decode failed", slog.Any("error", err))
			if !*watch {
				cancel()
			}
		},
	}, log)
	defer p.ctrl.Close()

	err = p.open(path)
	if err != nil {
		log.LogAttrs(ctx, slog.LevelError, "open image", slog.Any("error", err))
		return 1
	}

	changes := make(chan change, 1)
	if *watch {
		err = watchFile(ctx, path, changes, fileDebounce, log)
		if err != nil {
			log.LogAttrs(ctx, slog.LevelError, "watch image", slog.Any("error", err))
			return 1
		}
	}

	fmt.Fprint(p.out, ansi.AltScreen+ansi.HideCursor+ansi.Clear)
	defer fmt.Fprint(p.out, ansi.ShowCursor+ansi.MainScreen)

	ticker := time.NewTicker(time.Second / time.Duration(*fps))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if p.failed.Load() {
				return 1
			}
			return 0
		case c := <-changes:
			if c.err != nil {
				log.LogAttrs(ctx, slog.LevelWarn, "watch image", slog.Any("error", c.err))
				continue
			}
			log.LogAttrs(ctx, slog.LevelInfo, "reload image", slog.String("path", path))
			p.failed.Store(false)
			err = p.open(path)
			if err != nil {
				log.LogAttrs(ctx, slog.LevelWarn, "reload image", slog.Any("error", err))
			}
		case <-ticker.C:
			p.ctrl.Tick(p.ctrl.Elapsed())
			if p.dirty.Swap(false) {
				p.render()
			}
		}
	}
}

type player struct {
	ctrl *zoetrope.Controller
	mode zoetrope.Stretch
	dir  zoetrope.StretchDirection

	out *os.File
	log *slog.Logger

	dirty  atomic.Bool
	failed atomic.Bool
}

func (p *player) open(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	p.ctrl.ReplaceReader(f)
	return nil
}

// render writes the current composition to the terminal, leaving the
// bottom row free for the cursor.
func (p *player) render() {
	cols, rows := termSize(p.out)
	if rows > 1 {
		rows--
	}
	avail := image.Rect(0, 0, cols, 2*rows)
	canvas := image.NewRGBA(avail)
	if p.failed.Load() {
		card := text.Outlined[*image.RGBA]{
			Text:         image.NewRGBA(avail),
			Background:   image.NewRGBA(avail),
			OutlineColor: color.RGBA{A: 0xff},
		}
		text.Draw(text.Shrink{Image: card, Margin: 2}, "cannot decode image", color.White, basicfont.Face7x13, 0.5, 0.5, true)
		draw.Copy(canvas, avail.Min, card, avail, draw.Over, nil)
	} else {
		buf := p.ctrl.Image()
		if buf == nil {
			return
		}
		dst, src := p.ctrl.Placement(avail, p.mode, p.dir)
		if dst.Empty() {
			return
		}
		draw.BiLinear.Scale(canvas, dst, buf, src, draw.Src, nil)
	}
	fmt.Fprint(p.out, ansi.Home)
	err := ansi.Encode(p.out, canvas)
	if err != nil {
		p.log.LogAttrs(context.Background(), slog.LevelWarn, "render", slog.Any("error", err))
	}
}
