package material

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-sketch/common"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/texture"
)

// Kind distinguishes a plain textured material from a custom shader material.
type Kind int

const (
	// KindBasic draws its colour multiplied by its map, if any.
	KindBasic Kind = iota

	// KindShader draws with a custom shader fed time, progress and resolution uniforms.
	KindShader
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	if k == KindShader {
		return "shader"
	}
	return "basic"
}

// material is the implementation of the Material interface.
type material struct {
	mu *sync.RWMutex

	name        string
	kind        Kind
	shader      shader.Shader
	mapTexture  texture.Texture
	color       common.Color
	opacity     float32
	transparent bool
	doubleSided bool

	time       float32
	progress   float32
	resolution [4]float32
}

// Material defines the interface for a render material: the shader that draws a mesh, the
// texture it samples and the per-frame uniform values.
//
// Uniform values (time, progress, resolution, map) are mutable so sketches can update them
// every frame; the render state (shader, transparency, sidedness) is fixed at construction.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Kind reports whether this is a basic or a custom shader material.
	Kind() Kind

	// Shader returns the shader used to draw with this material.
	//
	// Returns:
	//   - shader.Shader: the shader
	Shader() shader.Shader

	// Map returns the sampled texture, or nil.
	//
	// Returns:
	//   - texture.Texture: the texture bound to the material, or nil
	Map() texture.Texture

	// SetMap replaces the sampled texture. nil clears it.
	//
	// Parameters:
	//   - t: the texture to sample
	SetMap(t texture.Texture)

	// Color returns the RGBA tint.
	Color() common.Color

	// SetColor replaces the RGBA tint.
	SetColor(c common.Color)

	// Opacity returns the alpha multiplier.
	Opacity() float32

	// Transparent reports whether the material is alpha blended.
	Transparent() bool

	// DoubleSided reports whether back faces are drawn.
	DoubleSided() bool

	// Time returns the time uniform.
	Time() float32

	// SetTime sets the time uniform.
	//
	// Parameters:
	//   - t: the animation clock value
	SetTime(t float32)

	// Progress returns the progress uniform.
	Progress() float32

	// SetProgress sets the progress uniform.
	//
	// Parameters:
	//   - p: the effect progress, usually in [0, 1]
	SetProgress(p float32)

	// Resolution returns the resolution uniform (width, height, a1, a2).
	Resolution() [4]float32

	// SetResolution sets the resolution uniform.
	//
	// Parameters:
	//   - r: width, height and the cover-fit scale factors
	SetResolution(r [4]float32)

	// Uniform returns the current GPU uniform block.
	//
	// Returns:
	//   - GPUMaterialUniform: the block ready for upload
	Uniform() GPUMaterialUniform
}

var _ Material = &material{}

// NewMaterial creates a new Material that draws with the given shader.
// Defaults to an opaque, front-sided, white basic material without a map.
//
// Parameters:
//   - s: the shader to draw with (must not be nil)
//   - options: functional options to configure the material
//
// Returns:
//   - Material: the newly created material
func NewMaterial(s shader.Shader, options ...MaterialBuilderOption) Material {
	if s == nil {
		panic("material: shader must not be nil")
	}
	m := &material{
		mu:      &sync.RWMutex{},
		kind:    KindBasic,
		shader:  s,
		color:   common.White,
		opacity: 1,
	}
	for _, option := range options {
		option(m)
	}
	if m.name == "" {
		m.name = s.Key()
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Kind() Kind {
	return m.kind
}

func (m *material) Shader() shader.Shader {
	return m.shader
}

func (m *material) Map() texture.Texture {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mapTexture
}

func (m *material) SetMap(t texture.Texture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mapTexture = t
}

func (m *material) Color() common.Color {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.color
}

func (m *material) SetColor(c common.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.color = c
}

func (m *material) Opacity() float32 {
	return m.opacity
}

func (m *material) Transparent() bool {
	return m.transparent
}

func (m *material) DoubleSided() bool {
	return m.doubleSided
}

func (m *material) Time() float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.time
}

func (m *material) SetTime(t float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.time = t
}

func (m *material) Progress() float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.progress
}

func (m *material) SetProgress(p float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress = p
}

func (m *material) Resolution() [4]float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resolution
}

func (m *material) SetResolution(r [4]float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolution = r
}

func (m *material) Uniform() GPUMaterialUniform {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var hasMap float32
	if m.mapTexture != nil {
		hasMap = 1
	}
	return GPUMaterialUniform{
		Resolution: m.resolution,
		Color:      m.color.Vec4(),
		Params:     [4]float32{m.time, m.progress, hasMap, m.opacity},
	}
}
