package camera

import (
	"sync"

	"github.com/chewxy/math32"
)

// zoomStep is the radius factor applied per unit of scaled zoom input.
const zoomStep float32 = 0.95

// cameraControllerImpl keeps spherical coordinates (radius, azimuth, elevation) around a
// target and derives the cartesian position from them after every change.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position [3]float32
	target   [3]float32

	radius    float32
	azimuth   float32
	elevation float32

	minRadius, maxRadius       float32
	minElevation, maxElevation float32

	tuning Tuning
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller looking at the origin from two units down the +Z
// axis, the framing used by the shader plane sketch.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:           &sync.Mutex{},
		radius:       2,
		minRadius:    0.5,
		maxRadius:    10,
		minElevation: -elevationLimit,
		maxElevation: elevationLimit,
		tuning: Tuning{
			OrbitStep:       0.03,
			DragSensitivity: 0.005,
			ZoomSpeed:       0.01,
			PanSpeed:        1,
		},
	}

	for _, option := range options {
		option(cc)
	}

	cc.radius = cc.clampRadius(cc.radius)
	cc.elevation = cc.clampElevation(cc.elevation)
	cc.updatePosition()
	return cc
}

// NewOrbitController is NewCameraController under the name the sketches use.
func NewOrbitController(options ...CameraControllerOption) CameraController {
	return NewCameraController(options...)
}

// updatePosition recomputes the position from the spherical coordinates. Caller holds mu.
func (cc *cameraControllerImpl) updatePosition() {
	sinElev, cosElev := math32.Sincos(cc.elevation)
	sinAzim, cosAzim := math32.Sincos(cc.azimuth)

	cc.position = [3]float32{
		cc.target[0] + cc.radius*cosElev*sinAzim,
		cc.target[1] + cc.radius*sinElev,
		cc.target[2] + cc.radius*cosElev*cosAzim,
	}
}

func (cc *cameraControllerImpl) clampRadius(r float32) float32 {
	return math32.Max(cc.minRadius, math32.Min(cc.maxRadius, r))
}

func (cc *cameraControllerImpl) clampElevation(e float32) float32 {
	return math32.Max(cc.minElevation, math32.Min(cc.maxElevation, e))
}

// screenAxes returns the camera's right and up unit vectors, matching the LookAt basis.
// Both are zero when the camera sits on the target or looks straight along Y. Caller holds mu.
func (cc *cameraControllerImpl) screenAxes() (right, up [3]float32) {
	var back [3]float32
	for i := range back {
		back[i] = cc.position[i] - cc.target[i]
	}
	bLen := math32.Sqrt(back[0]*back[0] + back[1]*back[1] + back[2]*back[2])
	if bLen < 1e-8 {
		return
	}
	for i := range back {
		back[i] /= bLen
	}

	// right = worldUp x back, which has no Y component
	rLen := math32.Sqrt(back[2]*back[2] + back[0]*back[0])
	if rLen < 1e-8 {
		return
	}
	right = [3]float32{back[2] / rLen, 0, -back[0] / rLen}

	// up = back x right
	up = [3]float32{
		back[1]*right[2] - back[2]*right[1],
		back[2]*right[0] - back[0]*right[2],
		back[0]*right[1] - back[1]*right[0],
	}
	return
}

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1], cc.position[2]
}

func (cc *cameraControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target[0], cc.target[1], cc.target[2]
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth = azimuth
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) RadiusBounds() (lo, hi float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minRadius, cc.maxRadius
}

func (cc *cameraControllerImpl) ElevationBounds() (lo, hi float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minElevation, cc.maxElevation
}

func (cc *cameraControllerImpl) Tuning() Tuning {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.tuning
}

func (cc *cameraControllerImpl) OrbitStep(horizontal, vertical int) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth += float32(horizontal) * cc.tuning.OrbitStep
	cc.elevation = cc.clampElevation(cc.elevation + float32(vertical)*cc.tuning.OrbitStep)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Drag(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth -= dx * cc.tuning.DragSensitivity
	cc.elevation = cc.clampElevation(cc.elevation + dy*cc.tuning.DragSensitivity)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = cc.clampRadius(cc.radius * math32.Pow(zoomStep, delta*cc.tuning.ZoomSpeed))
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Pan(right, up float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	r, u := cc.screenAxes()
	right *= cc.tuning.PanSpeed
	up *= cc.tuning.PanSpeed
	for i := range cc.target {
		d := r[i]*right + u[i]*up
		cc.target[i] += d
		cc.position[i] += d
	}
}
