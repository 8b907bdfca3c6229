package pass

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-sketch/common"
	"github.com/Carmen-Shannon/oxy-sketch/engine/camera"
	"github.com/Carmen-Shannon/oxy-sketch/engine/mesh"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-sketch/engine/scene"
	"github.com/Carmen-Shannon/oxy-sketch/engine/window/windowtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSrc = "@vertex fn vs() {} @fragment fn fs() {}"

func setup(t *testing.T) (renderer.Renderer, *renderertest.Backend, camera.Camera) {
	t.Helper()
	backend := renderertest.New()
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, windowtest.New(400, 300), renderer.WithBackend(backend))
	cam := camera.NewOrthographicCamera(2, 4.0/3.0, -1000, 1000)
	return r, backend, cam
}

func floatAt(b []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[offset:]))
}

func TestGPUDrawUniformLayout(t *testing.T) {
	u := GPUDrawUniform{
		Material: material.GPUMaterialUniform{Params: [4]float32{1.5, 0.25, 1, 1}},
	}
	u.ViewProjection[0] = 2
	u.Model[15] = 3

	buf := u.Marshal()
	require.Len(t, buf, DrawUniformSize)
	assert.Equal(t, float32(2), floatAt(buf, 0))
	assert.Equal(t, float32(3), floatAt(buf, 64+15*4))
	assert.Equal(t, float32(1.5), floatAt(buf, 128+32))
	assert.Equal(t, float32(0.25), floatAt(buf, 128+36))
	assert.Contains(t, GPUDrawUniformSource, "material: MaterialUniform")
}

func TestSequenceRunsPassesInOrder(t *testing.T) {
	r, backend, cam := setup(t)
	s := shader.NewShader("basic", testSrc)

	target, err := r.CreateRenderTarget("A", 400, 300, texture.FilterNearest)
	require.NoError(t, err)

	hidden := mesh.NewMesh(mesh.UnitPlane(), material.NewMaterial(s), mesh.WithName("hidden"), mesh.WithVisible(false))
	tile := mesh.NewMesh(mesh.UnitPlane(), material.NewMaterial(s), mesh.WithName("tile"))
	sc := scene.NewScene("main", scene.WithMeshes(hidden, tile), scene.WithClearColor(common.Color{}))

	quadMat := material.NewMaterial(s, material.WithTransparent(true), material.WithDoubleSided(true))
	quad := mesh.NewMesh(mesh.UnitPlane(), quadMat, mesh.WithName("quad"))

	prepared := []string{}
	seq := NewSequence(
		&Pass{Name: "offscreen", Scene: sc, Camera: cam, Target: target,
			Prepare: func() { prepared = append(prepared, "offscreen") }},
		nil,
		&Pass{Name: "screen", Scene: scene.NewScene("quad", scene.WithMeshes(quad)), Camera: cam,
			Prepare: func() {
				prepared = append(prepared, "screen")
				quadMat.SetMap(target)
			}},
	)
	require.Len(t, seq.Passes(), 2)
	require.NoError(t, seq.Execute(r))

	assert.Equal(t, []string{"offscreen", "screen"}, prepared)
	assert.Equal(t, []string{"A", "screen"}, backend.Targets())
	assert.Equal(t, 1, backend.Presents)

	first := backend.Passes[0]
	require.Len(t, first.Draws, 1)
	assert.Equal(t, "tile", first.Draws[0].Label)
	assert.Equal(t, common.Color{}, first.Clear)
	assert.Len(t, first.Draws[0].Uniforms, DrawUniformSize)

	second := backend.Passes[1]
	require.Len(t, second.Draws, 1)
	assert.Equal(t, target.ID(), second.Draws[0].Texture.ID())
	assert.True(t, second.Draws[0].Transparent)
	assert.True(t, second.Draws[0].DoubleSided)
	assert.Equal(t, common.Color{A: 1}, second.Clear)

	assert.Equal(t, 2, r.TakeDrawCount())
}

func TestSequenceSkipsInactiveScenesAndOffscreenOnlyDoesNotPresent(t *testing.T) {
	r, backend, cam := setup(t)
	target, err := r.CreateRenderTarget("A", 4, 4, texture.FilterNearest)
	require.NoError(t, err)

	clear := common.Color{R: 1, A: 1}
	seq := NewSequence(
		&Pass{Name: "off", Scene: scene.NewScene("s"), Camera: cam, Target: target, Clear: &clear},
		&Pass{Name: "screen", Scene: scene.NewScene("s", scene.WithActive(false)), Camera: cam},
	)
	require.NoError(t, seq.Execute(r))

	assert.Equal(t, []string{"A"}, backend.Targets())
	assert.Equal(t, clear, backend.Passes[0].Clear)
	assert.Zero(t, backend.Presents)
}

func TestSequenceEndsPassOnDrawError(t *testing.T) {
	r, backend, cam := setup(t)
	backend.FailDraw = errors.New("device lost")
	s := shader.NewShader("basic", testSrc)
	sc := scene.NewScene("main", scene.WithMeshes(mesh.NewMesh(mesh.UnitPlane(), material.NewMaterial(s))))

	err := NewSequence(&Pass{Name: "screen", Scene: sc, Camera: cam}).Execute(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass screen")
	assert.Contains(t, err.Error(), "device lost")
	require.Len(t, backend.Passes, 1)
	assert.True(t, backend.Passes[0].Ended)

	// The renderer accepts a new pass afterwards.
	assert.NoError(t, r.BeginPass(nil, common.Color{}))
}

func TestSequenceRequiresCamera(t *testing.T) {
	r, _, _ := setup(t)
	err := NewSequence(&Pass{Name: "bad", Scene: scene.NewScene("s")}).Execute(r)
	assert.EqualError(t, err, "pass bad: no camera")
}
