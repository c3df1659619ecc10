// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zoetrope provides an animated raster playback engine.
//
// The engine decodes a frame sequence from a byte stream and advances
// through it in step with a wall-clock stopwatch, producing a composited
// offscreen buffer that a host repaints from. A host drives the engine by
// calling [Controller.Tick] once per paint tick; the engine decides which
// frame is due, composes it, and fires a repaint notification when the
// visible image has changed.
package zoetrope
