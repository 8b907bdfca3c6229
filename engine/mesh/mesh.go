// Package mesh holds drawable scene entities: a geometry drawn with a material at a position
// and scale.
package mesh

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-sketch/common"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/material"
)

var nextMeshID atomic.Uint64

type mesh struct {
	mu *sync.RWMutex

	id       uint64
	name     string
	geometry *Geometry
	material material.Material
	position [3]float32
	scale    [3]float32
	visible  bool
}

// Mesh defines the interface for a drawable entity placed in a scene.
type Mesh interface {
	// ID returns the mesh's unique identifier.
	//
	// Returns:
	//   - uint64: the mesh ID
	ID() uint64

	// Name returns the debug name.
	Name() string

	// Geometry returns the drawn geometry.
	Geometry() *Geometry

	// Material returns the material the mesh is drawn with.
	Material() material.Material

	// Position returns the world-space translation.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// SetPosition sets the world-space translation.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// Scale returns the scale along each axis.
	Scale() (x, y, z float32)

	// SetScale sets the scale along each axis.
	//
	// Parameters:
	//   - x, y, z: scale factors
	SetScale(x, y, z float32)

	// Visible reports whether the mesh is drawn.
	Visible() bool

	// SetVisible shows or hides the mesh.
	SetVisible(visible bool)

	// ModelMatrix returns the column-major translation * scale matrix.
	//
	// Returns:
	//   - [16]float32: the model matrix
	ModelMatrix() [16]float32
}

var _ Mesh = &mesh{}

// NewMesh creates a visible mesh at the origin with unit scale.
//
// Parameters:
//   - geometry: the geometry to draw (must not be nil)
//   - mat: the material to draw with (must not be nil)
//   - options: functional options
//
// Returns:
//   - Mesh: the newly created mesh
func NewMesh(geometry *Geometry, mat material.Material, options ...MeshBuilderOption) Mesh {
	if geometry == nil || mat == nil {
		panic("mesh: geometry and material are required")
	}
	m := &mesh{
		mu:       &sync.RWMutex{},
		id:       nextMeshID.Add(1),
		name:     mat.Name(),
		geometry: geometry,
		material: mat,
		scale:    [3]float32{1, 1, 1},
		visible:  true,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *mesh) ID() uint64 {
	return m.id
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Geometry() *Geometry {
	return m.geometry
}

func (m *mesh) Material() material.Material {
	return m.material
}

func (m *mesh) Position() (x, y, z float32) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.position[0], m.position[1], m.position[2]
}

func (m *mesh) SetPosition(x, y, z float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = [3]float32{x, y, z}
}

func (m *mesh) Scale() (x, y, z float32) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scale[0], m.scale[1], m.scale[2]
}

func (m *mesh) SetScale(x, y, z float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scale = [3]float32{x, y, z}
}

func (m *mesh) Visible() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.visible
}

func (m *mesh) SetVisible(visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible = visible
}

func (m *mesh) ModelMatrix() [16]float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out [16]float32
	common.BuildModelMatrix(out[:],
		m.position[0], m.position[1], m.position[2],
		m.scale[0], m.scale[1], m.scale[2],
	)
	return out
}
