package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow is the GLFW side of an engineWindow.
type glfwWindow struct {
	owner  *engineWindow
	handle *glfw.Window
}

// openGLFWWindow initialises GLFW on the calling (locked) OS thread and opens a window without
// a client API, since WebGPU creates its own surface from the native handle.
func openGLFWWindow(w *engineWindow) (*glfwWindow, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	handle, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfw create window: %w", err)
	}
	handle.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)

	g := &glfwWindow{owner: w, handle: handle}
	g.bindInput()

	// The requested size is in screen units; the surface needs framebuffer pixels.
	w.width, w.height = handle.GetFramebufferSize()
	return g, nil
}

// bindInput forwards GLFW events to the owner's handlers.
func (g *glfwWindow) bindInput() {
	on := &g.owner.on

	g.handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		switch {
		case action == glfw.Release && on.keyUp != nil:
			on.keyUp(uint32(key))
		case action != glfw.Release && on.keyDown != nil:
			on.keyDown(uint32(key))
		}
	})

	g.handle.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		if on.scroll != nil {
			on.scroll(ScrollDelta(xoff, yoff, g.owner.scrollLineHeight))
		}
	})

	g.handle.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		x, y := g.cursor(g.handle.GetCursorPos())
		switch {
		case action == glfw.Press && on.mouseDown != nil:
			on.mouseDown(int(button), x, y)
		case action == glfw.Release && on.mouseUp != nil:
			on.mouseUp(int(button), x, y)
		}
	})

	g.handle.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		if on.mouseMove != nil {
			on.mouseMove(g.cursor(xpos, ypos))
		}
	})

	g.handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		g.owner.resized(width, height)
	})
}

// cursor converts a cursor position from screen units to framebuffer pixels, which differ on
// high-DPI displays.
func (g *glfwWindow) cursor(xpos, ypos float64) (x, y int32) {
	sw, sh := g.handle.GetSize()
	fw, fh := g.handle.GetFramebufferSize()
	sx, sy := 1.0, 1.0
	if sw > 0 && sh > 0 {
		sx, sy = float64(fw)/float64(sw), float64(fh)/float64(sh)
	}
	return int32(xpos * sx), int32(ypos * sy)
}

func (g *glfwWindow) surfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(g.handle)
}

func (g *glfwWindow) open() bool {
	return !g.handle.ShouldClose()
}

func (g *glfwWindow) poll() {
	glfw.PollEvents()
}

func (g *glfwWindow) destroy() {
	g.handle.Destroy()
	glfw.Terminate()
}
