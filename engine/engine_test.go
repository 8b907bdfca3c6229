package engine

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-sketch/engine/camera"
	"github.com/Carmen-Shannon/oxy-sketch/engine/mesh"
	"github.com/Carmen-Shannon/oxy-sketch/engine/pass"
	"github.com/Carmen-Shannon/oxy-sketch/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-sketch/engine/scene"
	"github.com/Carmen-Shannon/oxy-sketch/engine/window/windowtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances by step every time it is read.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func newTestEngine(t *testing.T, options ...EngineBuilderOption) (*engine, *windowtest.Window, *renderertest.Backend) {
	t.Helper()
	win := windowtest.New(640, 480)
	backend := renderertest.New()
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win, renderer.WithBackend(backend))
	opts := append([]EngineBuilderOption{WithWindow(win), WithRenderer(r)}, options...)
	e := NewEngine(opts...).(*engine)
	return e, win, backend
}

func TestStepRunsTickBeforeRender(t *testing.T) {
	e, _, backend := newTestEngine(t)

	s := shader.NewShader("basic", "@vertex fn vs() {} @fragment fn fs() {}")
	sc := scene.NewScene("main", scene.WithMeshes(mesh.NewMesh(mesh.UnitPlane(), material.NewMaterial(s))))
	e.Passes().Add(&pass.Pass{Name: "screen", Scene: sc, Camera: camera.NewCamera()})

	order := []string{}
	e.SetTickCallback(func(dt float32) {
		assert.InDelta(t, 1.0/60.0, dt, 1e-6)
		order = append(order, "tick")
	})
	e.SetRenderCallback(func(float32) { order = append(order, "render") })

	require.True(t, e.Step())
	assert.Equal(t, []string{"tick", "render"}, order)
	assert.Equal(t, uint64(1), e.Frames())
	assert.Equal(t, []string{"screen"}, backend.Targets())
	assert.Equal(t, 1, backend.Presents)
}

func TestWithPassesAndProfiler(t *testing.T) {
	s := shader.NewShader("basic", "@vertex fn vs() {} @fragment fn fs() {}")
	sc := scene.NewScene("main", scene.WithMeshes(mesh.NewMesh(mesh.UnitPlane(), material.NewMaterial(s))))

	var reports []string
	p := profiler.NewProfiler(
		profiler.WithInterval(time.Nanosecond),
		profiler.WithLogf(func(format string, args ...any) { reports = append(reports, format) }),
	)
	e, _, backend := newTestEngine(t,
		WithPasses(&pass.Pass{Name: "screen", Scene: sc, Camera: camera.NewCamera()}),
		WithProfiler(p),
		WithProfiling(true),
	)

	time.Sleep(time.Millisecond)
	require.True(t, e.Step())
	assert.Equal(t, []string{"screen"}, backend.Targets())
	assert.Len(t, reports, 1)
	assert.Positive(t, p.Last().DrawsPerSec)
}

func TestStopStartResumesFrameCounter(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ticks := 0
	e.SetTickCallback(func(float32) { ticks++ })

	for range 3 {
		require.True(t, e.Step())
	}
	e.Stop()
	assert.False(t, e.Playing())
	assert.False(t, e.Step())
	assert.False(t, e.Step())
	assert.Equal(t, uint64(3), e.Frames())
	assert.Equal(t, 3, ticks)

	e.Start()
	e.Start()
	require.True(t, e.Step())
	assert.Equal(t, uint64(4), e.Frames())
	assert.Equal(t, 4, ticks)
}

func TestWithStopped(t *testing.T) {
	e, _, _ := newTestEngine(t, WithStopped())
	assert.False(t, e.Step())
	assert.Zero(t, e.Frames())
}

func TestResizeFanOutOrderAndZeroSizes(t *testing.T) {
	e, win, backend := newTestEngine(t)

	var got [][2]int
	e.OnResize(func(w, h int) {
		// The surface is configured before subscribers observe the size.
		last := backend.Configured[len(backend.Configured)-1]
		assert.Equal(t, [2]int{w, h}, last)
		got = append(got, [2]int{w, h})
	})

	win.FireResize(1024, 768)
	win.FireResize(0, 0)
	win.FireResize(800, 0)

	assert.Equal(t, [][2]int{{1024, 768}}, got)
	w, h := e.Renderer().Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
}

func TestResizeDebounceDeliversLastSize(t *testing.T) {
	e, win, _ := newTestEngine(t, WithResizeDebounce(100*time.Millisecond), WithStopped())
	clock := &fakeClock{t: time.Unix(0, 0), step: 10 * time.Millisecond}
	e.now = clock.now

	var got [][2]int
	e.OnResize(func(w, h int) { got = append(got, [2]int{w, h}) })

	win.FireResize(900, 600)
	win.FireResize(1000, 700)
	e.Step()
	assert.Empty(t, got)

	clock.step = 200 * time.Millisecond
	e.Step()
	assert.Equal(t, [][2]int{{1000, 700}}, got)

	e.Step()
	assert.Len(t, got, 1)
}

func TestRunUsesFixedTimestepAndQuit(t *testing.T) {
	e, win, _ := newTestEngine(t, WithTickRate(60), WithProfiling(true))
	clock := &fakeClock{t: time.Unix(0, 0), step: time.Second / 60}
	e.now = clock.now

	e.SetTickCallback(func(float32) {
		if e.Frames() == 4 {
			e.Quit()
		}
	})
	e.Run()

	assert.True(t, win.Closed)
	assert.Equal(t, uint64(5), e.Frames())
	assert.Less(t, win.Iterations, win.MaxIterations)
	e.Quit()
}

func TestRunCatchesUpAfterStall(t *testing.T) {
	e, win, _ := newTestEngine(t)
	win.MaxIterations = 1
	clock := &fakeClock{t: time.Unix(0, 0), step: time.Second}
	e.now = clock.now

	ticks := 0
	renders := 0
	e.SetTickCallback(func(float32) { ticks++ })
	e.SetRenderCallback(func(dt float32) {
		renders++
		assert.InDelta(t, float32(maxCatchUpTicks)/60, dt, 1e-5)
	})
	e.Run()

	assert.Equal(t, maxCatchUpTicks, ticks)
	assert.Equal(t, 1, renders)
}

func TestSetTickRateDefaults(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.SetTickRate(0)
	assert.Equal(t, time.Second/60, e.engineTickRate)
	e.SetRenderFrameLimit(-5)
	assert.Zero(t, e.renderFrameLimit)
}
