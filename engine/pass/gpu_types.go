package pass

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/material"
)

// GPUDrawUniformSource is the WGSL declaration matching GPUDrawUniform, bound at group 0
// binding 0 by every shader in assets/shaders.
const GPUDrawUniformSource = material.GPUMaterialUniformSource + `
struct DrawUniform {
    view_proj: mat4x4<f32>,
    model: mat4x4<f32>,
    material: MaterialUniform,
};`

// DrawUniformSize is the byte size of GPUDrawUniform: two mat4x4<f32> and the material block.
const DrawUniformSize = 64 + 64 + 48

// GPUDrawUniform is the uniform block written for every draw.
type GPUDrawUniform struct {
	ViewProjection [16]float32 // offset   0: camera view-projection, column-major
	Model          [16]float32 // offset  64: mesh model matrix, column-major
	Material       material.GPUMaterialUniform
}

// Marshal serializes the GPUDrawUniform into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: DrawUniformSize bytes ready for GPU upload
func (g *GPUDrawUniform) Marshal() []byte {
	buf := make([]byte, DrawUniformSize)
	for i, v := range g.ViewProjection {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	for i, v := range g.Model {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(v))
	}
	g.Material.MarshalTo(buf[128:])
	return buf
}
