// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"crypto/sha1"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// fileDebounce is the default period we wait for further notifications
// after a file event before rereading the file.
const fileDebounce = 10 * time.Millisecond

// change is a file watcher notification. A nil err indicates the watched
// file's contents have changed.
type change struct {
	err error
}

// watchFile starts a file watcher on the directory holding path, sending
// a notification to changes each time the file's contents change. Events
// are debounced and changes are confirmed by content hash so editors that
// write in multiple operations, or rewrite identical contents, do not
// cause spurious reloads. The watcher runs until ctx is cancelled.
func watchFile(ctx context.Context, path string, changes chan<- change, debounce time.Duration, log *slog.Logger) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	// Watch the parent directory so that remove/rename cycles used
	// by atomic writers are still observed.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	err = watcher.Add(filepath.Dir(path))
	if err != nil {
		watcher.Close()
		return err
	}
	log = log.With(slog.String("component", "watcher"))
	go func() {
		defer watcher.Close()

		h := sha1.New()
		var last [sha1.Size]byte
		if b, err := os.ReadFile(path); err == nil {
			h.Write(b)
			h.Sum(last[:0])
			h.Reset()
		}

		timer := time.NewTimer(debounce)
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != path {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				log.LogAttrs(ctx, slog.LevelDebug, "file event", slog.Any("op", ev.Op))
				timer.Reset(debounce)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				select {
				case changes <- change{err: err}:
				case <-ctx.Done():
					return
				}
			case <-timer.C:
				b, err := os.ReadFile(path)
				if err != nil {
					log.LogAttrs(ctx, slog.LevelWarn, "read file", slog.Any("error", err))
					continue
				}
				h.Write(b)
				var sum [sha1.Size]byte
				h.Sum(sum[:0])
				h.Reset()
				if sum == last {
					continue
				}
				last = sum
				select {
				case changes <- change{}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return nil
}
