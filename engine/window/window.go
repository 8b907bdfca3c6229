package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window is a native window that owns a WebGPU surface and reports input. All callbacks run
// on the goroutine that calls ProcessMessages.
type Window interface {
	// SetUpdateCallback sets the function run once per message loop iteration, after events
	// have been dispatched. The engine schedules its frames from it.
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function receiving the new framebuffer size in pixels.
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the wheel handler. Deltas are pixels with the browser sign: a
	// positive deltaY scrolls down, away from the user. Wheel notches are converted with the
	// configured scroll line height.
	//
	// Parameters:
	//   - callback: function receiving horizontal and vertical deltas
	SetScrollCallback(callback func(deltaX, deltaY float32))

	// SetKeyDownCallback sets the handler for key presses and key repeats.
	//
	// Parameters:
	//   - callback: function receiving the key code (common.Key*)
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the handler for key releases.
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetMouseDownCallback sets the handler for mouse button presses.
	//
	// Parameters:
	//   - callback: function receiving the button (common.MouseButton*) and the cursor
	//     position in framebuffer pixels
	SetMouseDownCallback(callback func(button int, x, y int32))

	// SetMouseUpCallback sets the handler for mouse button releases.
	SetMouseUpCallback(callback func(button int, x, y int32))

	// SetMouseMoveCallback sets the handler for cursor movement in framebuffer pixels.
	SetMouseMoveCallback(callback func(x, y int32))

	// SurfaceDescriptor returns the descriptor a WebGPU surface is created from, or nil before
	// the native window exists.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is still open.
	IsRunning() bool

	// Close destroys the native window.
	//
	// Returns:
	//   - error: an error if the window was never opened
	Close() error

	// ProcessMessages polls events and runs the update callback until the window closes.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

// settings are the construction-time window parameters.
type settings struct {
	title               string
	width, height       int
	minWidth, minHeight int
	maxWidth, maxHeight int
	scrollLineHeight    float32
}

// handlers are the registered event callbacks; nil entries are skipped.
type handlers struct {
	update    func()
	resize    func(width, height int)
	scroll    func(deltaX, deltaY float32)
	keyDown   func(keyCode uint32)
	keyUp     func(keyCode uint32)
	mouseDown func(button int, x, y int32)
	mouseUp   func(button int, x, y int32)
	mouseMove func(x, y int32)
}

type engineWindow struct {
	settings
	on       handlers
	platform *glfwWindow
}

var _ Window = &engineWindow{}

// DefaultScrollLineHeight is the pixel distance of one wheel notch, the deltaY browsers report
// for a line-mode wheel event.
const DefaultScrollLineHeight float32 = 100

// ScrollDelta turns a wheel offset in notches (positive yoff scrolls up) into browser-style
// pixel deltas (positive deltaY scrolls down).
//
// Parameters:
//   - xoff, yoff: the wheel offsets in notches
//   - lineHeight: pixels per notch
//
// Returns:
//   - deltaX, deltaY: pixel deltas
func ScrollDelta(xoff, yoff float64, lineHeight float32) (deltaX, deltaY float32) {
	return float32(xoff) * lineHeight, -float32(yoff) * lineHeight
}

// NewWindow opens a native window. It panics when the platform window cannot be created,
// since nothing can render without one.
//
// Parameters:
//   - options: functional options applied over the defaults (1280x720, limits 320x200 to 3840x2160)
//
// Returns:
//   - Window: the open window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{settings: settings{
		title:            "oxy-sketch",
		width:            1280,
		height:           720,
		minWidth:         320,
		minHeight:        200,
		maxWidth:         3840,
		maxHeight:        2160,
		scrollLineHeight: DefaultScrollLineHeight,
	}}
	for _, opt := range options {
		opt(w)
	}

	p, err := openGLFWWindow(w)
	if err != nil {
		panic(fmt.Sprintf("window: %v", err))
	}
	w.platform = p
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func())                  { w.on.update = callback }
func (w *engineWindow) SetResizeCallback(callback func(width, height int)) { w.on.resize = callback }
func (w *engineWindow) SetScrollCallback(callback func(deltaX, deltaY float32)) {
	w.on.scroll = callback
}
func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) { w.on.keyDown = callback }
func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32))   { w.on.keyUp = callback }
func (w *engineWindow) SetMouseDownCallback(callback func(button int, x, y int32)) {
	w.on.mouseDown = callback
}
func (w *engineWindow) SetMouseUpCallback(callback func(button int, x, y int32)) {
	w.on.mouseUp = callback
}
func (w *engineWindow) SetMouseMoveCallback(callback func(x, y int32)) { w.on.mouseMove = callback }

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.platform == nil {
		return nil
	}
	return w.platform.surfaceDescriptor()
}

func (w *engineWindow) IsRunning() bool {
	return w.platform != nil && w.platform.open()
}

func (w *engineWindow) Close() error {
	if w.platform == nil {
		return fmt.Errorf("window: not open")
	}
	w.platform.destroy()
	w.platform = nil
	return nil
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		w.platform.poll()
		if !w.IsRunning() {
			return
		}
		if w.on.update != nil {
			w.on.update()
		}
		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// resized records a framebuffer size change and notifies the resize handler.
func (w *engineWindow) resized(width, height int) {
	w.width, w.height = width, height
	if w.on.resize != nil {
		w.on.resize(width, height)
	}
}
