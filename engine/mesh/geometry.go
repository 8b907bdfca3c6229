package mesh

import "unsafe"

// GPUVertex is one vertex of mesh geometry as laid out in the vertex buffer.
// Size: 20 bytes (position vec3<f32> at location 0, uv vec2<f32> at location 1).
type GPUVertex struct {
	Position [3]float32
	UV       [2]float32
}

// VertexStride is the byte size of a GPUVertex.
const VertexStride = uint64(unsafe.Sizeof(GPUVertex{}))

// Geometry is immutable indexed triangle data. Geometries with the same Key share GPU buffers.
type Geometry struct {
	Key      string
	Vertices []GPUVertex
	Indices  []uint32
}

// IndexCount returns the number of indices to draw.
func (g *Geometry) IndexCount() int {
	return len(g.Indices)
}

var unitPlane = &Geometry{
	Key: "plane:1x1",
	Vertices: []GPUVertex{
		{Position: [3]float32{-0.5, -0.5, 0}, UV: [2]float32{0, 1}},
		{Position: [3]float32{0.5, -0.5, 0}, UV: [2]float32{1, 1}},
		{Position: [3]float32{0.5, 0.5, 0}, UV: [2]float32{1, 0}},
		{Position: [3]float32{-0.5, 0.5, 0}, UV: [2]float32{0, 0}},
	},
	Indices: []uint32{0, 1, 2, 0, 2, 3},
}

// UnitPlane returns the shared 1x1 plane in the XY plane facing +Z, centred on the origin.
// UV (0, 0) is the top-left corner so images upload without flipping.
// Planes of other sizes are drawn by scaling a mesh that uses this geometry.
//
// Returns:
//   - *Geometry: the shared plane; callers must not modify it
func UnitPlane() *Geometry {
	return unitPlane
}
