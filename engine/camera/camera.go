package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-sketch/common"
	"github.com/chewxy/math32"
)

// ProjectionKind selects how the camera maps view space to clip space.
type ProjectionKind int

const (
	// ProjectionPerspective uses a vertical field of view and near/far planes.
	ProjectionPerspective ProjectionKind = iota

	// ProjectionOrthographic uses a fixed-height view volume (the frustum size) whose width
	// follows the aspect ratio.
	ProjectionOrthographic
)

type cameraImpl struct {
	mu *sync.Mutex

	projection ProjectionKind

	up       [3]float32
	position [3]float32
	target   [3]float32

	fov         float32
	frustumSize float32
	aspect      float32
	near        float32
	far         float32

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32

	controller CameraController
}

// Camera defines the interface for the camera system.
// The camera holds projection settings and computes view/projection matrices. The eye and
// target come from an attached CameraController when present, otherwise from the camera's
// own position and target.
type Camera interface {
	// Projection returns the projection kind.
	//
	// Returns:
	//   - ProjectionKind: perspective or orthographic
	Projection() ProjectionKind

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - x, y, z: up vector components
	Up() (x, y, z float32)

	// Position returns the eye position used for the view matrix.
	//
	// Returns:
	//   - x, y, z: world-space eye position
	Position() (x, y, z float32)

	// Fov returns the vertical field of view in radians (perspective only).
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// FrustumSize returns the height of the orthographic view volume.
	//
	// Returns:
	//   - float32: the view volume height in world units
	FrustumSize() float32

	// Bounds returns the orthographic view volume extents derived from the frustum size and aspect.
	//
	// Returns:
	//   - left, right, top, bottom: the extents in world units
	Bounds() (left, right, top, bottom float32)

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the current combined view-projection matrix as 16 floats (column-major).
	ViewProjectionMatrix() [16]float32

	// Controller returns the attached CameraController, or nil.
	//
	// Returns:
	//   - CameraController: the attached controller or nil
	Controller() CameraController

	// Update re-reads the controller (if any) and recomputes matrices.
	// Should be called once per frame after input has moved the controller.
	Update()

	// SetUp sets the camera's up vector and recomputes matrices.
	//
	// Parameters:
	//   - x, y, z: up vector components
	SetUp(x, y, z float32)

	// SetPosition sets the eye position used when no controller is attached and recomputes matrices.
	//
	// Parameters:
	//   - x, y, z: world-space eye position
	SetPosition(x, y, z float32)

	// SetTarget sets the look-at point used when no controller is attached and recomputes matrices.
	//
	// Parameters:
	//   - x, y, z: world-space target
	SetTarget(x, y, z float32)

	// SetFov sets the vertical field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetFrustumSize sets the orthographic view volume height and recomputes matrices.
	//
	// Parameters:
	//   - size: view volume height in world units
	SetFrustumSize(size float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes matrices.
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes matrices.
	SetFar(far float32)

	// SetController attaches a CameraController to the camera and recomputes matrices.
	//
	// Parameters:
	//   - ctrl: the controller to attach (nil detaches)
	SetController(ctrl CameraController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera. Defaults to a 45 degree perspective camera at (0, 0, 2)
// looking at the origin.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:          &sync.Mutex{},
		projection:  ProjectionPerspective,
		up:          [3]float32{0, 1, 0},
		position:    [3]float32{0, 0, 2},
		fov:         45 * (math32.Pi / 180),
		frustumSize: 2,
		aspect:      1,
		near:        0.1,
		far:         100,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

// NewOrthographicCamera creates a camera with an orthographic projection of the given
// frustum size. near and far may be negative.
//
// Parameters:
//   - frustumSize: view volume height in world units
//   - aspect: width / height
//   - near, far: depth extents
//   - options: additional options applied after the projection settings
//
// Returns:
//   - Camera: the newly created camera
func NewOrthographicCamera(frustumSize, aspect, near, far float32, options ...CameraBuilderOption) Camera {
	opts := append([]CameraBuilderOption{
		WithProjection(ProjectionOrthographic),
		WithFrustumSize(frustumSize),
		WithAspect(aspect),
		WithNear(near),
		WithFar(far),
	}, options...)
	return NewCamera(opts...)
}

func (c *cameraImpl) Projection() ProjectionKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) Up() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up[0], c.up[1], c.up[2]
}

func (c *cameraImpl) Position() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller != nil {
		return c.controller.Position()
	}
	return c.position[0], c.position[1], c.position[2]
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) FrustumSize() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frustumSize
}

func (c *cameraImpl) Bounds() (left, right, top, bottom float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bounds()
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) SetUp(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = [3]float32{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) SetPosition(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = [3]float32{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) SetTarget(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = [3]float32{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetFrustumSize(size float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frustumSize = size
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

// bounds returns the orthographic extents. Caller must hold the mutex.
func (c *cameraImpl) bounds() (left, right, top, bottom float32) {
	halfW := c.frustumSize * c.aspect / 2
	halfH := c.frustumSize / 2
	return -halfW, halfW, halfH, -halfH
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	px, py, pz := c.position[0], c.position[1], c.position[2]
	tx, ty, tz := c.target[0], c.target[1], c.target[2]
	if c.controller != nil {
		px, py, pz = c.controller.Position()
		tx, ty, tz = c.controller.Target()
	}

	common.LookAt(c.viewMatrix[:],
		px, py, pz,
		tx, ty, tz,
		c.up[0], c.up[1], c.up[2],
	)

	switch c.projection {
	case ProjectionOrthographic:
		left, right, top, bottom := c.bounds()
		common.Orthographic(c.projectionMatrix[:], left, right, bottom, top, c.near, c.far)
	default:
		common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
	}

	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}
