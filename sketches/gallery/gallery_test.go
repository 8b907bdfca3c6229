package gallery

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-sketch/common"
	"github.com/Carmen-Shannon/oxy-sketch/engine"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-sketch/engine/window/windowtest"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	win      *windowtest.Window
	backend  *renderertest.Backend
	renderer renderer.Renderer
	textures []texture.Texture
}

func newFixture(t *testing.T, width, height int) *fixture {
	t.Helper()
	f := &fixture{win: windowtest.New(width, height), backend: renderertest.New()}
	f.renderer = renderer.NewRenderer(renderer.BackendTypeWGPU, f.win, renderer.WithBackend(f.backend))

	for _, size := range [][2]uint32{{1280, 853}, {800, 1200}, {64, 64}} {
		tex, err := f.renderer.CreateTexture("img", common.TextureStagingData{
			Pixels: make([]byte, size[0]*size[1]*4),
			Width:  size[0],
			Height: size[1],
		})
		require.NoError(t, err)
		f.textures = append(f.textures, tex)
	}
	return f
}

func TestScrollDecaysToRest(t *testing.T) {
	var s ScrollState
	s.Wheel(120, 0.3)
	assert.InDelta(t, 36, s.Target, 1e-5)

	for range 1000 {
		settled := math32.Abs(s.Target) <= math32.Abs(s.Velocity)
		prev := math32.Abs(s.Velocity)
		s.Step()
		if settled {
			assert.LessOrEqual(t, math32.Abs(s.Velocity), prev+1e-6)
		}
	}
	assert.InDelta(t, 0, s.Target, 1e-4)
	assert.InDelta(t, 0, s.Velocity, 1e-4)

	rest := s.Position
	s.Step()
	assert.InDelta(t, rest, s.Position, 1e-6)
	assert.Greater(t, rest, float32(0))
}

func TestScrollWheelIsUnbounded(t *testing.T) {
	var s ScrollState
	for range 100 {
		s.Wheel(-1000, 0.3)
	}
	assert.InDelta(t, -30000, s.Target, 1e-2)
}

func TestTileXStaysInBand(t *testing.T) {
	const margin float32 = 1.1
	const count = 10
	wholeWidth := count * margin

	positions := []float32{0, 0.37, -0.37, 11, -11, 1e4, -1e4, -1e-9, 123.456, -987.654}
	for _, pos := range positions {
		for i := range count {
			x := TileX(i, count, margin, pos)
			assert.GreaterOrEqual(t, x, -2*margin, "tile %d at position %g", i, pos)
			assert.Less(t, x, wholeWidth-2*margin, "tile %d at position %g", i, pos)
		}
	}

	assert.InDelta(t, -2*margin, TileX(0, count, margin, 0), 1e-6)
	assert.InDelta(t, 3*margin, TileX(5, count, margin, 0), 1e-5)
	// One full strip width later every tile is back where it started.
	assert.InDelta(t, TileX(3, count, margin, 0.5), TileX(3, count, margin, 0.5+wholeWidth), 1e-4)
}

func TestNewGalleryValidatesInputs(t *testing.T) {
	f := newFixture(t, 640, 480)

	_, err := NewGallery(nil, f.textures)
	assert.Error(t, err)

	_, err = NewGallery(f.renderer, nil)
	assert.Error(t, err)

	zero := renderer.NewRenderer(renderer.BackendTypeWGPU, windowtest.New(0, 0), renderer.WithBackend(renderertest.New()))
	_, err = NewGallery(zero, f.textures)
	assert.Error(t, err)
}

func TestTilesCycleTexturesAndKeepImageAspect(t *testing.T) {
	f := newFixture(t, 640, 480)
	g, err := NewGallery(f.renderer, f.textures, WithTiles(7))
	require.NoError(t, err)

	tiles := g.Tiles()
	require.Len(t, tiles, 7)
	for i, tile := range tiles {
		want := f.textures[i%len(f.textures)]
		assert.Equal(t, want.ID(), tile.Material().Map().ID())

		sx, sy, _ := tile.Scale()
		assert.Equal(t, float32(1), sx)
		assert.InDelta(t, float32(want.Height())/float32(want.Width()), sy, 1e-6)
	}
}

func TestTickMovesTilesAndAdvancesClock(t *testing.T) {
	f := newFixture(t, 640, 480)
	g, err := NewGallery(f.renderer, f.textures)
	require.NoError(t, err)

	g.Wheel(200)
	for range 3 {
		g.Tick()
	}
	assert.InDelta(t, 0.15, g.Time(), 1e-6)
	assert.InDelta(t, 0.15, g.Quad().Material().Time(), 1e-6)

	pos := g.Scroll().Position
	assert.NotZero(t, pos)
	for i, tile := range g.Tiles() {
		x, y, z := tile.Position()
		assert.InDelta(t, TileX(i, 10, 1.1, pos), x, 1e-6)
		assert.Zero(t, y)
		assert.Zero(t, z)
	}
}

func TestResizeIsIdempotent(t *testing.T) {
	f := newFixture(t, 640, 480)
	g, err := NewGallery(f.renderer, f.textures)
	require.NoError(t, err)

	require.NoError(t, g.Resize(1024, 512))
	proj := g.Camera().ProjectionMatrix()
	res := g.Quad().Material().Resolution()
	bgX, bgY, _ := g.Background().Scale()
	a, b := g.Targets()
	released := len(f.backend.ReleasedLabels)

	require.NoError(t, g.Resize(1024, 512))
	assert.Equal(t, proj, g.Camera().ProjectionMatrix())
	assert.Equal(t, res, g.Quad().Material().Resolution())
	x, y, _ := g.Background().Scale()
	assert.Equal(t, bgX, x)
	assert.Equal(t, bgY, y)
	a2, b2 := g.Targets()
	assert.Same(t, a, a2)
	assert.Same(t, b, b2)
	assert.Len(t, f.backend.ReleasedLabels, released)

	assert.InDelta(t, 2, g.Camera().Aspect(), 1e-6)
	assert.InDelta(t, 4, bgX, 1e-6)
	assert.InDelta(t, 2, bgY, 1e-6)
	assert.Equal(t, common.Resolution(1024, 512, common.DefaultImageAspect), res)
	assert.Equal(t, uint32(1024), a.Width())
	assert.Equal(t, texture.FilterNearest, b.Filter())
}

func TestResizeRecreatesTargets(t *testing.T) {
	f := newFixture(t, 640, 480)
	g, err := NewGallery(f.renderer, f.textures)
	require.NoError(t, err)
	oldScene, oldEffect := g.Targets()

	require.NoError(t, g.Resize(800, 600))
	sceneTarget, effectTarget := g.Targets()
	assert.NotEqual(t, oldScene.ID(), sceneTarget.ID())
	assert.Equal(t, []string{sceneTargetLabel, effectTargetLabel}, f.backend.ReleasedLabels)

	passes := g.Passes()
	assert.Same(t, sceneTarget, passes[0].Target)
	assert.Same(t, effectTarget, passes[1].Target)
	assert.Nil(t, passes[2].Target)
	assert.NotEqual(t, oldEffect.ID(), effectTarget.ID())

	// Minimised windows are ignored.
	require.NoError(t, g.Resize(0, 0))
	s2, _ := g.Targets()
	assert.Same(t, sceneTarget, s2)
}

func TestFramePassesAndBindings(t *testing.T) {
	f := newFixture(t, 640, 480)
	g, err := NewGallery(f.renderer, f.textures, WithTiles(4))
	require.NoError(t, err)

	e := engine.NewEngine(engine.WithWindow(f.win), engine.WithRenderer(f.renderer))
	g.Attach(e)
	sceneTarget, effectTarget := g.Targets()

	require.True(t, e.Step())
	require.True(t, e.Step())

	assert.Equal(t, []string{
		sceneTargetLabel, effectTargetLabel, "screen",
		sceneTargetLabel, effectTargetLabel, "screen",
	}, f.backend.Targets())
	assert.Equal(t, 2, f.backend.Presents)

	second := f.backend.Passes[3:]
	for _, p := range second {
		assert.True(t, p.Ended)
		assert.Equal(t, common.Transparent, p.Clear)
	}

	// Pass 1: background (previous frame's effect) then every tile.
	require.Len(t, second[0].Draws, 5)
	assert.Equal(t, "background", second[0].Draws[0].Label)
	assert.Equal(t, effectTarget.ID(), second[0].Draws[0].Texture.ID())

	// Pass 2: the distortion quad samples pass 1.
	require.Len(t, second[1].Draws, 1)
	quad := second[1].Draws[0]
	assert.Equal(t, sceneTarget.ID(), quad.Texture.ID())
	assert.True(t, quad.Transparent)
	assert.True(t, quad.DoubleSided)

	// Pass 3: the same scene with the effect output as background.
	require.Len(t, second[2].Draws, 5)
	assert.Equal(t, effectTarget.ID(), second[2].Draws[0].Texture.ID())
	assert.Equal(t, f.textures[0].ID(), second[2].Draws[1].Texture.ID())
}

func TestAttachHandlesInputAndResize(t *testing.T) {
	f := newFixture(t, 640, 480)
	g, err := NewGallery(f.renderer, f.textures)
	require.NoError(t, err)
	e := engine.NewEngine(engine.WithWindow(f.win), engine.WithRenderer(f.renderer))
	g.Attach(e)

	f.win.FireScroll(0, 100)
	assert.InDelta(t, 30, g.Scroll().Target, 1e-5)

	f.win.FireKey(common.KeyRightBracket)
	f.win.FireKey(common.KeyRightBracket)
	assert.InDelta(t, 0.02, g.Progress(), 1e-6)
	assert.InDelta(t, 0.02, g.Quad().Material().Progress(), 1e-6)
	for range 5 {
		f.win.FireKey(common.KeyLeftBracket)
	}
	assert.Zero(t, g.Progress())

	require.True(t, e.Step())
	frames := e.Frames()
	f.win.FireKey(common.KeySpace)
	assert.False(t, e.Playing())
	assert.False(t, e.Step())
	f.win.FireKey(common.KeySpace)
	require.True(t, e.Step())
	assert.Equal(t, frames+1, e.Frames())

	f.win.FireResize(1000, 500)
	require.True(t, e.Step())
	assert.InDelta(t, 2, g.Camera().Aspect(), 1e-6)
	sceneTarget, _ := g.Targets()
	assert.Equal(t, uint32(1000), sceneTarget.Width())

	f.win.FireKey(common.KeyEsc)
	assert.True(t, f.win.Closed)
}

func TestRelease(t *testing.T) {
	f := newFixture(t, 320, 240)
	g, err := NewGallery(f.renderer, f.textures)
	require.NoError(t, err)

	e := engine.NewEngine(engine.WithWindow(f.win), engine.WithRenderer(f.renderer))
	g.Attach(e)
	require.True(t, e.Step())
	require.Len(t, f.backend.Passes, 3)

	g.Release()
	a, b := g.Targets()
	assert.Nil(t, a)
	assert.Nil(t, b)
	assert.Len(t, f.backend.ReleasedLabels, 2)
	assert.Nil(t, g.Quad().Material().Map())
	for _, p := range g.Passes()[:2] {
		assert.Nil(t, p.Target)
	}

	// Frames after Release draw nothing instead of failing on the freed targets.
	require.True(t, e.Step())
	assert.Len(t, f.backend.Passes, 3)
	assert.Equal(t, 1, f.backend.Presents)

	f.win.FireResize(800, 600)
	require.NoError(t, g.Resize(800, 600))
	a, _ = g.Targets()
	assert.Nil(t, a)
	assert.Len(t, f.backend.ReleasedLabels, 2)
}
