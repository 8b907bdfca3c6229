package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-sketch/common"
	"github.com/Carmen-Shannon/oxy-sketch/engine/mesh"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMesh(name string) mesh.Mesh {
	s := shader.NewShader("basic", "@vertex fn vs() {} @fragment fn fs() {}")
	return mesh.NewMesh(mesh.UnitPlane(), material.NewMaterial(s), mesh.WithName(name))
}

func names(meshes []mesh.Mesh) []string {
	out := make([]string, len(meshes))
	for i, m := range meshes {
		out[i] = m.Name()
	}
	return out
}

func TestSceneKeepsInsertionOrder(t *testing.T) {
	bg := newMesh("background")
	a, b, c := newMesh("a"), newMesh("b"), newMesh("c")
	s := NewScene("gallery", WithMeshes(bg, a))
	s.Add(b, c, a, nil)

	assert.Equal(t, []string{"background", "a", "b", "c"}, names(s.Meshes()))
	assert.Equal(t, 4, s.Count())
	assert.Same(t, b, s.Get(b.ID()))

	require.True(t, s.Remove(a.ID()))
	assert.False(t, s.Remove(a.ID()))
	assert.Nil(t, s.Get(a.ID()))
	assert.Equal(t, []string{"background", "b", "c"}, names(s.Meshes()))
	assert.Same(t, c, s.Get(c.ID()))

	s.Clear()
	assert.Zero(t, s.Count())
}

func TestSceneDefaults(t *testing.T) {
	s := NewScene("quad")
	assert.True(t, s.Active())
	assert.Equal(t, common.Color{A: 1}, s.ClearColor())

	s = NewScene("quad", WithActive(false), WithClearColor(common.Color{R: 1, A: 0.5}))
	assert.False(t, s.Active())
	assert.Equal(t, float32(0.5), s.ClearColor().A)

	s.SetName("effect")
	assert.Equal(t, "effect", s.Name())
}

func TestMeshesSnapshotIsIndependent(t *testing.T) {
	s := NewScene("gallery", WithMeshes(newMesh("a")))
	snap := s.Meshes()
	s.Add(newMesh("b"))
	assert.Len(t, snap, 1)
	assert.Len(t, s.Meshes(), 2)
}
