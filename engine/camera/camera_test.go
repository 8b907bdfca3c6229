package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-sketch/common"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrthographicCameraBounds(t *testing.T) {
	cam := NewOrthographicCamera(2, 1.5, -1000, 1000, WithPosition(0, 0, 2))

	assert.Equal(t, ProjectionOrthographic, cam.Projection())
	left, right, top, bottom := cam.Bounds()
	assert.InDelta(t, -1.5, left, 1e-6)
	assert.InDelta(t, 1.5, right, 1e-6)
	assert.InDelta(t, 1, top, 1e-6)
	assert.InDelta(t, -1, bottom, 1e-6)

	// A point on the right edge maps to clip x = 1 regardless of its depth.
	vp := cam.ViewProjectionMatrix()
	for _, z := range []float32{-0.5, 0, 1.9} {
		p := common.TransformPoint(vp[:], 1.5, 1, z)
		assert.InDelta(t, 1, p[0]/p[3], 1e-5)
		assert.InDelta(t, 1, p[1]/p[3], 1e-5)
		assert.GreaterOrEqual(t, p[2]/p[3], float32(0))
		assert.LessOrEqual(t, p[2]/p[3], float32(1))
	}
}

func TestWithLookAtCentersTheView(t *testing.T) {
	cam := NewOrthographicCamera(2, 1, -1000, 1000, WithPosition(1, 1, 2), WithLookAt(1, 1, 0))

	vp := cam.ViewProjectionMatrix()
	p := common.TransformPoint(vp[:], 1, 1, 0)
	assert.InDelta(t, 0, p[0]/p[3], 1e-5)
	assert.InDelta(t, 0, p[1]/p[3], 1e-5)

	// The edge stays one half-width away once the view is centred.
	p = common.TransformPoint(vp[:], 2, 1, 0)
	assert.InDelta(t, 1, p[0]/p[3], 1e-5)
}

func TestSetAspectRecomputesProjection(t *testing.T) {
	cam := NewOrthographicCamera(2, 1, -1000, 1000)
	before := cam.ProjectionMatrix()

	cam.SetAspect(2)

	after := cam.ProjectionMatrix()
	assert.NotEqual(t, before, after)
	assert.InDelta(t, 0.5, after[0], 1e-6)
	assert.InDelta(t, 1, after[5], 1e-6)
}

func TestPerspectiveCameraFollowsController(t *testing.T) {
	ctrl := NewOrbitController()
	cam := NewCamera(
		WithFov(70*math32.Pi/180),
		WithNear(0.001),
		WithFar(1000),
		WithController(ctrl),
	)

	x, y, z := cam.Position()
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
	assert.InDelta(t, 2, z, 1e-6)

	// The origin sits at the centre of the viewport.
	vp := cam.ViewProjectionMatrix()
	p := common.TransformPoint(vp[:], 0, 0, 0)
	require.NotZero(t, p[3])
	assert.InDelta(t, 0, p[0]/p[3], 1e-6)
	assert.InDelta(t, 0, p[1]/p[3], 1e-6)

	ctrl.SetAzimuth(math32.Pi / 2)
	cam.Update()
	x, _, z = cam.Position()
	assert.InDelta(t, 2, x, 1e-5)
	assert.InDelta(t, 0, z, 1e-5)
}

func TestControllerZoomIsClamped(t *testing.T) {
	ctrl := NewOrbitController(WithRadius(2), WithRadiusBounds(0.5, 10))

	ctrl.Zoom(100)
	assert.InDelta(t, 2*0.95, ctrl.Radius(), 1e-5)

	ctrl.Zoom(-100)
	assert.InDelta(t, 2, ctrl.Radius(), 1e-5)

	ctrl.Zoom(1e6)
	assert.Equal(t, float32(0.5), ctrl.Radius())

	ctrl.Zoom(-1e6)
	assert.Equal(t, float32(10), ctrl.Radius())
}

func TestControllerDrag(t *testing.T) {
	ctrl := NewOrbitController(WithDragSensitivity(0.01))

	ctrl.Drag(10, 0)
	assert.InDelta(t, -0.1, ctrl.Azimuth(), 1e-6)

	ctrl.Drag(0, 1e6)
	_, hi := ctrl.ElevationBounds()
	assert.Equal(t, hi, ctrl.Elevation())

	// Orbiting never changes the distance to the target.
	x, y, z := ctrl.Position()
	assert.InDelta(t, ctrl.Radius(), math32.Sqrt(x*x+y*y+z*z), 1e-5)
}

func TestControllerPanMovesTargetAndPosition(t *testing.T) {
	ctrl := NewOrbitController()

	ctrl.Pan(1, 0)
	tx, ty, tz := ctrl.Target()
	px, py, pz := ctrl.Position()
	assert.InDelta(t, 1, tx, 1e-6)
	assert.InDelta(t, 0, ty, 1e-6)
	assert.InDelta(t, 0, tz, 1e-6)
	assert.InDelta(t, 1, px, 1e-6)
	assert.InDelta(t, 0, py, 1e-6)
	assert.InDelta(t, 2, pz, 1e-6)

	ctrl.Pan(0, 0.5)
	_, ty, _ = ctrl.Target()
	assert.InDelta(t, 0.5, ty, 1e-6)
	assert.InDelta(t, 2, ctrl.Radius(), 1e-6)
}

func TestControllerOptions(t *testing.T) {
	ctrl := NewOrbitController(
		WithTarget(1, 0, 0),
		WithRadius(3),
		WithOrbitAngles(math32.Pi/2, 0.2),
		WithElevationBounds(0.5, -0.1),
		WithOrbitSpeed(0.1),
		WithZoomSpeed(0.02),
		WithPanSpeed(0.003),
	)

	lo, hi := ctrl.ElevationBounds()
	assert.InDelta(t, -0.1, lo, 1e-6)
	assert.InDelta(t, 0.5, hi, 1e-6)
	assert.InDelta(t, 0.2, ctrl.Elevation(), 1e-6)
	tuning := ctrl.Tuning()
	assert.InDelta(t, 0.1, tuning.OrbitStep, 1e-6)
	assert.InDelta(t, 0.02, tuning.ZoomSpeed, 1e-6)
	assert.InDelta(t, 0.003, tuning.PanSpeed, 1e-6)

	// Azimuth pi/2 puts the camera on the +X side of the target.
	x, _, z := ctrl.Position()
	assert.InDelta(t, 1+3*math32.Cos(0.2), x, 1e-5)
	assert.InDelta(t, 0, z, 1e-5)

	ctrl.OrbitStep(-1, 4)
	assert.InDelta(t, 0.5, ctrl.Elevation(), 1e-6)
	assert.InDelta(t, math32.Pi/2-0.1, ctrl.Azimuth(), 1e-6)
}

func TestControllerOptionsIgnoreBadValues(t *testing.T) {
	ctrl := NewOrbitController(
		WithRadius(-1),
		WithRadiusBounds(0, 4),
		WithElevationBounds(-10, 10),
		WithOrbitSpeed(0),
		WithDragSensitivity(-1),
		WithZoomSpeed(0),
		WithPanSpeed(-2),
	)

	assert.Equal(t, float32(2), ctrl.Radius())
	lo, hi := ctrl.RadiusBounds()
	assert.Equal(t, float32(0.5), lo)
	assert.Equal(t, float32(10), hi)
	lo, hi = ctrl.ElevationBounds()
	assert.InDelta(t, -(math32.Pi/2 - 0.01), lo, 1e-6)
	assert.InDelta(t, math32.Pi/2-0.01, hi, 1e-6)
	assert.Equal(t, Tuning{OrbitStep: 0.03, DragSensitivity: 0.005, ZoomSpeed: 0.01, PanSpeed: 1}, ctrl.Tuning())
}
