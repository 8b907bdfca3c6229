// Package windowtest provides an in-memory window.Window for driving engine and sketch code
// without a display. Events are injected with the Fire* methods and dispatched synchronously.
package windowtest

import (
	"github.com/Carmen-Shannon/oxy-sketch/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window is a headless window. ProcessMessages runs the update callback until Close is called
// or MaxIterations is reached.
type Window struct {
	W, H          int
	MaxIterations int
	Iterations    int
	Closed        bool

	onUpdate    func()
	onResize    func(width, height int)
	onScroll    func(deltaX, deltaY float32)
	onKeyDown   func(keyCode uint32)
	onKeyUp     func(keyCode uint32)
	onMouseDown func(button int, x, y int32)
	onMouseUp   func(button int, x, y int32)
	onMouseMove func(x, y int32)
}

var _ window.Window = &Window{}

// New creates a headless window of the given size.
func New(width, height int) *Window {
	return &Window{W: width, H: height, MaxIterations: 1000}
}

func (w *Window) SetUpdateCallback(callback func())                          { w.onUpdate = callback }
func (w *Window) SetResizeCallback(callback func(width, height int))         { w.onResize = callback }
func (w *Window) SetScrollCallback(callback func(deltaX, deltaY float32))    { w.onScroll = callback }
func (w *Window) SetKeyDownCallback(callback func(keyCode uint32))           { w.onKeyDown = callback }
func (w *Window) SetKeyUpCallback(callback func(keyCode uint32))             { w.onKeyUp = callback }
func (w *Window) SetMouseDownCallback(callback func(button int, x, y int32)) { w.onMouseDown = callback }
func (w *Window) SetMouseUpCallback(callback func(button int, x, y int32))   { w.onMouseUp = callback }
func (w *Window) SetMouseMoveCallback(callback func(x, y int32))             { w.onMouseMove = callback }

// SurfaceDescriptor returns nil; headless windows have no surface.
func (w *Window) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }

func (w *Window) IsRunning() bool { return !w.Closed }

func (w *Window) Close() error {
	w.Closed = true
	return nil
}

func (w *Window) ProcessMessages() {
	for !w.Closed && w.Iterations < w.MaxIterations {
		w.Iterations++
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

func (w *Window) Width() int  { return w.W }
func (w *Window) Height() int { return w.H }

// FireResize updates the size and invokes the resize callback.
func (w *Window) FireResize(width, height int) {
	w.W, w.H = width, height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// FireScroll invokes the scroll callback with pixel deltas.
func (w *Window) FireScroll(deltaX, deltaY float32) {
	if w.onScroll != nil {
		w.onScroll(deltaX, deltaY)
	}
}

// FireKey invokes the key down then key up callbacks.
func (w *Window) FireKey(keyCode uint32) {
	if w.onKeyDown != nil {
		w.onKeyDown(keyCode)
	}
	if w.onKeyUp != nil {
		w.onKeyUp(keyCode)
	}
}

// FireMouseDown invokes the mouse down callback.
func (w *Window) FireMouseDown(button int, x, y int32) {
	if w.onMouseDown != nil {
		w.onMouseDown(button, x, y)
	}
}

// FireMouseUp invokes the mouse up callback.
func (w *Window) FireMouseUp(button int, x, y int32) {
	if w.onMouseUp != nil {
		w.onMouseUp(button, x, y)
	}
}

// FireMouseMove invokes the mouse move callback.
func (w *Window) FireMouseMove(x, y int32) {
	if w.onMouseMove != nil {
		w.onMouseMove(x, y)
	}
}
