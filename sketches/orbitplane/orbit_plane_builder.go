package orbitplane

import (
	"github.com/Carmen-Shannon/oxy-sketch/engine/camera"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/shader"
)

// OrbitPlaneBuilderOption is a functional option for configuring an OrbitPlane via NewOrbitPlane.
type OrbitPlaneBuilderOption func(*orbitPlane)

// WithShader replaces the plane shader, for example with a file-backed one that hot reloads.
//
// Parameters:
//   - s: the shader
//
// Returns:
//   - OrbitPlaneBuilderOption: a function that applies the shader to the sketch
func WithShader(s shader.Shader) OrbitPlaneBuilderOption {
	return func(o *orbitPlane) {
		o.shader = s
	}
}

// WithPlaneSize fixes the plane's edge length in world units instead of filling the view.
// Values <= 0 are ignored.
func WithPlaneSize(size float32) OrbitPlaneBuilderOption {
	return func(o *orbitPlane) {
		if size > 0 {
			o.planeSize = size
		}
	}
}

// WithProgress sets the initial shader progress.
func WithProgress(p float32) OrbitPlaneBuilderOption {
	return func(o *orbitPlane) {
		o.progress = min(max(p, 0), 1)
	}
}

// WithController adds orbit controller options, applied after the sketch defaults (radius 2,
// zoom between 0.5 and 10, pan of 0.003 units per pixel).
//
// Parameters:
//   - options: controller options such as camera.WithOrbitSpeed or camera.WithElevationBounds
//
// Returns:
//   - OrbitPlaneBuilderOption: a function that records the options for the controller
func WithController(options ...camera.CameraControllerOption) OrbitPlaneBuilderOption {
	return func(o *orbitPlane) {
		o.controllerOptions = append(o.controllerOptions, options...)
	}
}
