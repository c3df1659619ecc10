// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"flipview": Main,
	}))
}

func TestScripts(t *testing.T) {
	t.Parallel()

	p := testscript.Params{
		Dir: filepath.Join("testdata", "script"),
	}
	testscript.Run(t, p)
}

func TestWatchFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "anim.gif")
	err := os.WriteFile(path, []byte("first"), 0o644)
	if err != nil {
		t.Fatalf("unexpected error writing file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	changes := make(chan change, 1)
	err = watchFile(ctx, path, changes, time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("unexpected error starting watcher: %v", err)
	}

	// Rewriting identical contents must not notify.
	err = os.WriteFile(path, []byte("first"), 0o644)
	if err != nil {
		t.Fatalf("unexpected error rewriting file: %v", err)
	}
	select {
	case c := <-changes:
		t.Errorf("unexpected notification for unchanged contents: %+v", c)
	case <-time.After(100 * time.Millisecond):
	}

	err = os.WriteFile(path, []byte("second"), 0o644)
	if err != nil {
		t.Fatalf("unexpected error changing file: %v", err)
	}
	select {
	case c := <-changes:
		if c.err != nil {
			t.Errorf("unexpected watcher error: %v", c.err)
		}
	case <-ctx.Done():
		t.Fatal("missed notification for changed contents")
	}
}
