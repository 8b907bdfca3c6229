package camera

// Tuning holds the input scale factors of an orbit controller.
type Tuning struct {
	// OrbitStep is the angle in radians of one OrbitStep unit (one arrow key press).
	OrbitStep float32
	// DragSensitivity is the orbit angle in radians per pixel of Drag.
	DragSensitivity float32
	// ZoomSpeed scales Zoom input before it becomes a radius factor.
	ZoomSpeed float32
	// PanSpeed is the world distance moved per unit of Pan input.
	PanSpeed float32
}

// CameraController places a camera on a sphere around a target point. The camera reads its
// position and target from the controller and builds the view matrix from them.
//
// Orbiting (OrbitStep, Drag) changes the spherical angles, Zoom changes the radius, and Pan
// moves the target and the camera together so the orbit keeps its shape.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the point the camera orbits and looks at.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// Radius returns the distance from the target.
	Radius() float32

	// Azimuth returns the angle around the Y axis in radians; 0 puts the camera on +Z.
	Azimuth() float32

	// SetAzimuth sets the angle around the Y axis and moves the camera.
	//
	// Parameters:
	//   - azimuth: the angle in radians
	SetAzimuth(azimuth float32)

	// Elevation returns the angle above the horizontal plane in radians.
	Elevation() float32

	// RadiusBounds returns the zoom range.
	//
	// Returns:
	//   - lo, hi: the closest and farthest radius
	RadiusBounds() (lo, hi float32)

	// ElevationBounds returns the vertical orbit range.
	//
	// Returns:
	//   - lo, hi: the lowest and highest elevation in radians
	ElevationBounds() (lo, hi float32)

	// Tuning returns the input scale factors.
	Tuning() Tuning

	// OrbitStep orbits by whole key steps. Positive horizontal moves the camera right around
	// the target, positive vertical raises it, clamped to the elevation bounds.
	//
	// Parameters:
	//   - horizontal, vertical: step counts, usually -1, 0 or 1
	OrbitStep(horizontal, vertical int)

	// Drag orbits by a pointer movement. Moving right swings the camera to the left around the
	// target, moving down raises it.
	//
	// Parameters:
	//   - dx, dy: pointer movement in pixels, scaled by DragSensitivity
	Drag(dx, dy float32)

	// Zoom scales the radius exponentially, clamped to the radius bounds. Positive delta
	// moves closer; a delta of 1/ZoomSpeed changes the radius by one zoom step (5%).
	//
	// Parameters:
	//   - delta: zoom amount, typically a wheel delta in pixels
	Zoom(delta float32)

	// Pan moves the target and the camera along the camera's right and up axes.
	//
	// Parameters:
	//   - right, up: distances scaled by PanSpeed
	Pan(right, up float32)
}
