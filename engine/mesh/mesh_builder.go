package mesh

// MeshBuilderOption configures a mesh during construction.
type MeshBuilderOption func(*mesh)

// WithName sets the debug name. Defaults to the material name.
func WithName(name string) MeshBuilderOption {
	return func(m *mesh) {
		m.name = name
	}
}

// WithPosition sets the initial world-space translation.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - MeshBuilderOption: a function that sets the position
func WithPosition(x, y, z float32) MeshBuilderOption {
	return func(m *mesh) {
		m.position = [3]float32{x, y, z}
	}
}

// WithScale sets the initial scale.
//
// Parameters:
//   - x, y, z: scale factors
//
// Returns:
//   - MeshBuilderOption: a function that sets the scale
func WithScale(x, y, z float32) MeshBuilderOption {
	return func(m *mesh) {
		m.scale = [3]float32{x, y, z}
	}
}

// WithVisible sets the initial visibility.
func WithVisible(visible bool) MeshBuilderOption {
	return func(m *mesh) {
		m.visible = visible
	}
}
