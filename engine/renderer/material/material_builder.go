package material

import (
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/texture"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithKind marks the material as basic or custom shader.
func WithKind(kind Kind) MaterialBuilderOption {
	return func(m *material) {
		m.kind = kind
	}
}

// WithMap sets the texture the material samples.
//
// Parameters:
//   - t: the texture
//
// Returns:
//   - MaterialBuilderOption: a function that applies the map option to a material
func WithMap(t texture.Texture) MaterialBuilderOption {
	return func(m *material) {
		m.mapTexture = t
	}
}

// WithTransparent enables alpha blending.
//
// Parameters:
//   - transparent: true to blend with what is already in the target
//
// Returns:
//   - MaterialBuilderOption: a function that applies the transparency option to a material
func WithTransparent(transparent bool) MaterialBuilderOption {
	return func(m *material) {
		m.transparent = transparent
	}
}

// WithDoubleSided disables back-face culling.
//
// Parameters:
//   - doubleSided: true to draw both faces
//
// Returns:
//   - MaterialBuilderOption: a function that applies the sidedness option to a material
func WithDoubleSided(doubleSided bool) MaterialBuilderOption {
	return func(m *material) {
		m.doubleSided = doubleSided
	}
}

// WithProgress sets the initial progress uniform.
func WithProgress(p float32) MaterialBuilderOption {
	return func(m *material) {
		m.progress = p
	}
}
