// Package orbitplane draws one shader-driven plane through a perspective camera that orbits
// with mouse drag and zooms with the wheel.
package orbitplane

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-sketch/assets"
	"github.com/Carmen-Shannon/oxy-sketch/common"
	"github.com/Carmen-Shannon/oxy-sketch/engine"
	"github.com/Carmen-Shannon/oxy-sketch/engine/camera"
	"github.com/Carmen-Shannon/oxy-sketch/engine/mesh"
	"github.com/Carmen-Shannon/oxy-sketch/engine/pass"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-sketch/engine/scene"
	"github.com/chewxy/math32"
)

const (
	fovDegrees  float32 = 70
	nearPlane   float32 = 0.001
	farPlane    float32 = 1000
	orbitRadius float32 = 2

	progressStep float32 = 0.01

	// defaultPanSpeed converts a right-drag in pixels to world units.
	defaultPanSpeed float32 = 0.003
)

// dragState tracks the mouse button held down and the last cursor position.
type dragState struct {
	button int
	active bool
	x, y   int32
}

type orbitPlane struct {
	mu *sync.Mutex

	shader   shader.Shader
	progress float32

	// planeSize is a fixed edge length; 0 sizes the plane to fill the view from the start distance.
	planeSize    float32
	fillDistance float32

	controllerOptions []camera.CameraControllerOption

	clock *common.Clock
	drag  dragState

	width, height int

	controller camera.CameraController
	camera     camera.Camera
	plane      mesh.Mesh
	scene      scene.Scene
	pass       *pass.Pass
}

// OrbitPlane is the orbiting shader plane sketch.
type OrbitPlane interface {
	// Attach registers the pass, tick, resize and input handlers on an engine.
	//
	// Parameters:
	//   - e: the engine that drives the sketch; its window supplies input
	Attach(e engine.Engine)

	// Pass returns the single screen pass.
	Pass() *pass.Pass

	// Tick advances the clock, pushes uniforms and refreshes the camera. Called once per frame.
	Tick()

	// Resize updates the camera aspect, the plane's resolution uniform and, unless a fixed
	// plane size was set, the plane scale that fills the view.
	// Repeating the current size changes nothing.
	//
	// Parameters:
	//   - width, height: framebuffer size in pixels
	Resize(width, height int)

	// MouseDown starts an orbit (left button) or pan (right button) drag.
	MouseDown(button int, x, y int32)

	// MouseUp ends the drag started with the same button.
	MouseUp(button int, x, y int32)

	// MouseMove orbits or pans by the cursor movement while a drag is active.
	MouseMove(x, y int32)

	// Wheel zooms; positive deltaY (scrolling down) moves away from the plane.
	//
	// Parameters:
	//   - deltaY: the wheel delta in pixels
	Wheel(deltaY float32)

	// Key handles arrow keys (orbit) and the progress keys.
	//
	// Parameters:
	//   - keyCode: the GLFW key code
	//
	// Returns:
	//   - bool: true if the key was used
	Key(keyCode uint32) bool

	// Time returns the shader clock.
	Time() float32

	// Progress returns the shader progress in [0, 1].
	Progress() float32

	// SetProgress sets the shader progress, clamped to [0, 1].
	SetProgress(p float32)

	// Camera returns the perspective camera.
	Camera() camera.Camera

	// Plane returns the drawn plane.
	Plane() mesh.Mesh
}

var _ OrbitPlane = &orbitPlane{}

// NewOrbitPlane builds the plane scene sized to width x height.
//
// Parameters:
//   - width, height: initial framebuffer size in pixels
//   - options: functional options
//
// Returns:
//   - OrbitPlane: the sketch
//   - error: an error if the size is not positive or the shader fails to parse
func NewOrbitPlane(width, height int, options ...OrbitPlaneBuilderOption) (OrbitPlane, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("orbitplane: surface size %dx%d", width, height)
	}

	o := &orbitPlane{
		mu:    &sync.Mutex{},
		clock: common.NewClock(common.DefaultClockStep),
	}
	for _, option := range options {
		option(o)
	}
	if o.shader == nil {
		s, err := assets.Shader(assets.ShaderOrbitPlane)
		if err != nil {
			return nil, err
		}
		o.shader = s
	}

	o.controller = camera.NewOrbitController(append([]camera.CameraControllerOption{
		camera.WithRadius(orbitRadius),
		camera.WithRadiusBounds(0.5, 10),
		camera.WithPanSpeed(defaultPanSpeed),
	}, o.controllerOptions...)...)
	o.fillDistance = o.controller.Radius()
	o.camera = camera.NewCamera(
		camera.WithFov(fovDegrees*math32.Pi/180),
		camera.WithAspect(float32(width)/float32(height)),
		camera.WithNear(nearPlane),
		camera.WithFar(farPlane),
		camera.WithController(o.controller),
	)

	o.plane = mesh.NewMesh(mesh.UnitPlane(),
		material.NewMaterial(o.shader,
			material.WithName("orbitplane"),
			material.WithKind(material.KindShader),
			material.WithDoubleSided(true),
			material.WithProgress(o.progress),
		),
		mesh.WithName("plane"),
	)
	o.scene = scene.NewScene("orbitplane", scene.WithMeshes(o.plane))
	o.pass = &pass.Pass{Name: "plane", Scene: o.scene, Camera: o.camera}

	o.Resize(width, height)
	return o, nil
}

func (o *orbitPlane) Attach(e engine.Engine) {
	e.Passes().Add(o.pass)
	e.SetTickCallback(func(float32) { o.Tick() })
	e.OnResize(o.Resize)

	w := e.Window()
	if w == nil {
		return
	}
	w.SetMouseDownCallback(o.MouseDown)
	w.SetMouseUpCallback(o.MouseUp)
	w.SetMouseMoveCallback(o.MouseMove)
	w.SetScrollCallback(func(_, deltaY float32) {
		o.Wheel(deltaY)
	})
	w.SetKeyDownCallback(func(keyCode uint32) {
		if o.Key(keyCode) {
			return
		}
		switch keyCode {
		case common.KeySpace:
			if e.Playing() {
				e.Stop()
			} else {
				e.Start()
			}
		case common.KeyEsc:
			e.Quit()
		}
	})
}

func (o *orbitPlane) Pass() *pass.Pass {
	return o.pass
}

func (o *orbitPlane) Tick() {
	o.mu.Lock()
	t := o.clock.Advance()
	progress := o.progress
	o.mu.Unlock()

	mat := o.plane.Material()
	mat.SetTime(t)
	mat.SetProgress(progress)
	o.camera.Update()
}

func (o *orbitPlane) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if width == o.width && height == o.height {
		return
	}
	o.width, o.height = width, height

	aspect := float32(width) / float32(height)
	o.camera.SetAspect(aspect)
	o.plane.Material().SetResolution(common.Resolution(width, height, common.DefaultImageAspect))

	if o.planeSize > 0 {
		o.plane.SetScale(o.planeSize, o.planeSize, 1)
		return
	}
	h := FillHeight(o.camera.Fov(), o.fillDistance)
	o.plane.SetScale(h*aspect, h, 1)
}

// FillHeight returns the height of the view at distance from a perspective camera.
//
// Parameters:
//   - fov: the vertical field of view in radians
//   - distance: the distance along the view axis
//
// Returns:
//   - float32: the visible height in world units
func FillHeight(fov, distance float32) float32 {
	return 2 * distance * math32.Tan(fov/2)
}

func (o *orbitPlane) MouseDown(button int, x, y int32) {
	if button != common.MouseButtonLeft && button != common.MouseButtonRight {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.drag = dragState{button: button, active: true, x: x, y: y}
}

func (o *orbitPlane) MouseUp(button int, _, _ int32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.drag.active && o.drag.button == button {
		o.drag.active = false
	}
}

func (o *orbitPlane) MouseMove(x, y int32) {
	o.mu.Lock()
	if !o.drag.active {
		o.mu.Unlock()
		return
	}
	dx, dy := float32(x-o.drag.x), float32(y-o.drag.y)
	o.drag.x, o.drag.y = x, y
	button := o.drag.button
	o.mu.Unlock()

	switch button {
	case common.MouseButtonLeft:
		o.controller.Drag(dx, dy)
	case common.MouseButtonRight:
		o.controller.Pan(-dx, dy)
	}
	o.camera.Update()
}

func (o *orbitPlane) Wheel(deltaY float32) {
	o.controller.Zoom(-deltaY)
	o.camera.Update()
}

func (o *orbitPlane) Key(keyCode uint32) bool {
	switch keyCode {
	case common.KeyLeft:
		o.controller.OrbitStep(-1, 0)
	case common.KeyRight:
		o.controller.OrbitStep(1, 0)
	case common.KeyUp:
		o.controller.OrbitStep(0, 1)
	case common.KeyDown:
		o.controller.OrbitStep(0, -1)
	case common.KeyLeftBracket:
		o.SetProgress(o.Progress() - progressStep)
		return true
	case common.KeyRightBracket:
		o.SetProgress(o.Progress() + progressStep)
		return true
	default:
		return false
	}
	o.camera.Update()
	return true
}

func (o *orbitPlane) Time() float32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.clock.Time()
}

func (o *orbitPlane) Progress() float32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.progress
}

func (o *orbitPlane) SetProgress(p float32) {
	o.mu.Lock()
	o.progress = common.Clamp(p, 0, 1)
	progress := o.progress
	o.mu.Unlock()
	o.plane.Material().SetProgress(progress)
}

func (o *orbitPlane) Camera() camera.Camera {
	return o.camera
}

func (o *orbitPlane) Plane() mesh.Mesh {
	return o.plane
}
