package material

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMaterialUniformSource is the WGSL declaration matching GPUMaterialUniform. Shaders that
// read material state paste it into their uniform struct.
const GPUMaterialUniformSource = `struct MaterialUniform {
    resolution: vec4<f32>,
    color: vec4<f32>,
    params: vec4<f32>, // time, progress, hasMap, opacity
};`

// GPUMaterialUniform is the GPU-aligned material block written once per draw.
// Size: 48 bytes (three vec4<f32>).
type GPUMaterialUniform struct {
	Resolution [4]float32 // offset  0: viewport width, height and cover-fit scale a1, a2
	Color      [4]float32 // offset 16: RGBA tint
	Params     [4]float32 // offset 32: time, progress, hasMap (0 or 1), opacity
}

// Size returns the size of the GPUMaterialUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPUMaterialUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (g *GPUMaterialUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.MarshalTo(buf)
	return buf
}

// MarshalTo writes the block into buf, which must hold at least Size bytes.
func (g *GPUMaterialUniform) MarshalTo(buf []byte) {
	for i, v := range [12]float32{
		g.Resolution[0], g.Resolution[1], g.Resolution[2], g.Resolution[3],
		g.Color[0], g.Color[1], g.Color[2], g.Color[3],
		g.Params[0], g.Params[1], g.Params[2], g.Params[3],
	} {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
}
