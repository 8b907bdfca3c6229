package bind_group_provider

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/texture"
	"github.com/stretchr/testify/assert"
)

func TestProviderTracksBindGroupsPerTexture(t *testing.T) {
	p := NewBindGroupProvider("tile:0")
	assert.Equal(t, "tile:0", p.Label())
	assert.Zero(t, p.UniformSize())

	a := BindingKey{Texture: 1, Filter: texture.FilterLinear}
	b := BindingKey{Texture: 2, Filter: texture.FilterNearest}
	c := BindingKey{Texture: 2, Filter: texture.FilterLinear}
	for _, k := range []BindingKey{a, b, c} {
		p.SetBindGroup(k, nil)
	}
	assert.Equal(t, 3, p.BindGroupCount())
	assert.Nil(t, p.BindGroup(BindingKey{Texture: 9}))

	p.ReleaseTexture(2)
	assert.Equal(t, 1, p.BindGroupCount())

	p.ReleaseTexture(42)
	assert.Equal(t, 1, p.BindGroupCount())
}

func TestSetUniformBufferDropsBindGroups(t *testing.T) {
	p := NewBindGroupProvider("quad", WithUniformBuffer(nil, 176))
	assert.Equal(t, uint64(176), p.UniformSize())

	p.SetBindGroup(BindingKey{Texture: 1}, nil)
	p.SetUniformBuffer(nil, 256)
	assert.Equal(t, uint64(256), p.UniformSize())
	assert.Zero(t, p.BindGroupCount())
}

func TestGeometryProvider(t *testing.T) {
	p := NewBindGroupProvider("plane:1x1", WithGeometry(nil, nil, 6))
	assert.Equal(t, 6, p.IndexCount())
	assert.Nil(t, p.VertexBuffer())

	p.SetBindGroup(BindingKey{Texture: 3}, nil)
	p.Release()
	assert.Zero(t, p.BindGroupCount())
	assert.Zero(t, p.UniformSize())
}
