package material

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-sketch/common"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const src = "@vertex fn vs() {} @fragment fn fs() {}"

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial(shader.NewShader("basic", src))

	assert.Equal(t, "basic", m.Name())
	assert.Equal(t, KindBasic, m.Kind())
	assert.Equal(t, common.White, m.Color())
	assert.Equal(t, float32(1), m.Opacity())
	assert.False(t, m.Transparent())
	assert.False(t, m.DoubleSided())
	assert.Nil(t, m.Map())

	assert.Panics(t, func() { NewMaterial(nil) })
}

func TestShaderMaterialUniform(t *testing.T) {
	tex := texture.NewInfo("target", 8, 8, texture.FilterNearest)
	m := NewMaterial(shader.NewShader("distortion", src),
		WithName("effect"),
		WithKind(KindShader),
		WithMap(tex),
		WithTransparent(true),
		WithDoubleSided(true),
		WithProgress(0.25),
	)
	m.SetTime(1.5)
	m.SetResolution([4]float32{800, 600, 1, 0.9})

	assert.Equal(t, "shader", m.Kind().String())
	u := m.Uniform()
	assert.Equal(t, [4]float32{800, 600, 1, 0.9}, u.Resolution)
	assert.Equal(t, [4]float32{1.5, 0.25, 1, 1}, u.Params)

	m.SetMap(nil)
	assert.Equal(t, float32(0), m.Uniform().Params[2])
}

func TestGPUMaterialUniformMarshal(t *testing.T) {
	u := GPUMaterialUniform{
		Resolution: [4]float32{1, 2, 3, 4},
		Color:      [4]float32{5, 6, 7, 8},
		Params:     [4]float32{9, 10, 11, 12},
	}
	require.Equal(t, 48, u.Size())

	buf := u.Marshal()
	require.Len(t, buf, 48)
	for i := range 12 {
		assert.Equal(t, float32(i+1), math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])))
	}
}
