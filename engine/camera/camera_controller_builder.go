package camera

import "github.com/chewxy/math32"

// elevationLimit keeps the orbit short of the poles, where the LookAt up vector degenerates.
const elevationLimit = math32.Pi/2 - 0.01

// CameraControllerOption is a functional option for configuring a CameraController.
// Options that take a speed or distance ignore non-positive values and keep the default.
type CameraControllerOption func(*cameraControllerImpl)

// WithRadius sets the starting distance from the target.
//
// Parameters:
//   - radius: the orbit distance in world units
//
// Returns:
//   - CameraControllerOption: option setting the radius
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if radius > 0 {
			cc.radius = radius
		}
	}
}

// WithOrbitAngles sets the starting spherical angles around the target. An azimuth of 0 looks
// down -Z from the +Z side; positive elevation raises the camera above the target.
//
// Parameters:
//   - azimuth: angle around the Y axis in radians
//   - elevation: angle above the horizontal plane in radians, clamped to the elevation bounds
//
// Returns:
//   - CameraControllerOption: option setting both angles
func WithOrbitAngles(azimuth, elevation float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.azimuth = azimuth
		cc.elevation = elevation
	}
}

// WithTarget moves the pivot the camera orbits and looks at.
func WithTarget(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = [3]float32{x, y, z}
	}
}

// WithRadiusBounds limits how far Zoom can move the camera. Reversed bounds are swapped; a
// non-positive minimum leaves both bounds unchanged.
//
// Parameters:
//   - lo, hi: the closest and farthest allowed radius
//
// Returns:
//   - CameraControllerOption: option setting the zoom range
func WithRadiusBounds(lo, hi float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		lo, hi = min(lo, hi), max(lo, hi)
		if lo <= 0 {
			return
		}
		cc.minRadius, cc.maxRadius = lo, hi
	}
}

// WithElevationBounds limits vertical orbiting. Reversed bounds are swapped and both are held
// just inside the poles.
//
// Parameters:
//   - lo, hi: the lowest and highest elevation in radians
//
// Returns:
//   - CameraControllerOption: option setting the elevation range
func WithElevationBounds(lo, hi float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		lo, hi = min(lo, hi), max(lo, hi)
		cc.minElevation = math32.Max(lo, -elevationLimit)
		cc.maxElevation = math32.Min(hi, elevationLimit)
	}
}

// WithOrbitSpeed sets the angle in radians that one arrow key press orbits by.
func WithOrbitSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if speed > 0 {
			cc.tuning.OrbitStep = speed
		}
	}
}

// WithDragSensitivity sets the radians of orbit per pixel of drag.
func WithDragSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if sensitivity > 0 {
			cc.tuning.DragSensitivity = sensitivity
		}
	}
}

// WithZoomSpeed scales Zoom input before it becomes a radius factor.
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if speed > 0 {
			cc.tuning.ZoomSpeed = speed
		}
	}
}

// WithPanSpeed sets the world units moved per unit of Pan input.
func WithPanSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if speed > 0 {
			cc.tuning.PanSpeed = speed
		}
	}
}
