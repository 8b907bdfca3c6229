package bind_group_provider

import (
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// BindingKey identifies one bind group of a provider: the texture bound at binding 1 and the
// filter of the sampler bound at binding 2.
type BindingKey struct {
	Texture uint64
	Filter  texture.FilterMode
}

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// The following fields are GPU allocated resources and must be released when no longer needed.
	// They are populated by the renderer backend on first draw, not by user-creation.

	// uniformBuffer backs binding 0 of every bind group of this provider.
	uniformBuffer *wgpu.Buffer
	// uniformSize is the allocated size of uniformBuffer in bytes.
	uniformSize uint64
	// bindGroups pairs the uniform buffer with each texture the owner has been drawn with.
	bindGroups map[BindingKey]*wgpu.BindGroup

	// The following fields are specific to geometry providers.

	// vertexBuffer is the GPU vertex buffer, or nil for uniform providers.
	vertexBuffer *wgpu.Buffer
	// indexBuffer is the GPU index buffer, or nil for uniform providers.
	indexBuffer *wgpu.Buffer
	// indexCount is the number of indices for draw calls.
	indexCount int
}

// BindGroupProvider holds the GPU resources of one drawable.
//
// A mesh's provider owns its uniform buffer and the bind groups pairing that buffer with the
// textures the mesh samples; a texture change selects (or creates) another bind group instead
// of rebuilding the buffer. A geometry's provider owns the vertex and index buffers shared by
// every mesh drawn with that geometry.
//
// Usage pattern:
//  1. The backend creates a provider the first time a mesh or geometry is drawn
//  2. It allocates buffers and passes them in with WithGeometry / SetUniformBuffer
//  3. Each draw looks up BindGroup(key) and stores a new one with SetBindGroup on a miss
//  4. Releasing a texture calls ReleaseTexture on every provider; Release frees everything
type BindGroupProvider interface {
	// Release releases every GPU resource held by this provider.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// UniformBuffer returns the uniform buffer, or nil if none has been allocated.
	UniformBuffer() *wgpu.Buffer

	// UniformSize returns the allocated uniform buffer size in bytes.
	UniformSize() uint64

	// SetUniformBuffer replaces the uniform buffer. The previous buffer and every bind group
	// that referenced it are released.
	//
	// Parameters:
	//   - buf: the new buffer
	//   - size: its size in bytes
	SetUniformBuffer(buf *wgpu.Buffer, size uint64)

	// BindGroup returns the bind group for key, or nil if none has been created.
	//
	// Parameters:
	//   - key: the texture and filter pair
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup(key BindingKey) *wgpu.BindGroup

	// SetBindGroup stores the bind group for key, releasing any previous one.
	//
	// Parameters:
	//   - key: the texture and filter pair
	//   - bg: the created bind group
	SetBindGroup(key BindingKey, bg *wgpu.BindGroup)

	// BindGroupCount returns the number of bind groups held.
	BindGroupCount() int

	// ReleaseTexture releases the bind groups that sample the given texture.
	//
	// Parameters:
	//   - textureID: the released texture's ID
	ReleaseTexture(textureID uint64)

	// VertexBuffer returns the GPU vertex buffer, or nil if not initialized.
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer or nil
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the GPU index buffer, or nil if not initialized.
	//
	// Returns:
	//   - *wgpu.Buffer: the index buffer or nil
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices for draw calls.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: the debug label
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:      label,
		bindGroups: make(map[BindingKey]*wgpu.BindGroup),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) UniformBuffer() *wgpu.Buffer {
	return p.uniformBuffer
}

func (p *bindGroupProvider) UniformSize() uint64 {
	return p.uniformSize
}

func (p *bindGroupProvider) SetUniformBuffer(buf *wgpu.Buffer, size uint64) {
	p.releaseBindGroups(func(BindingKey) bool { return true })
	if p.uniformBuffer != nil && p.uniformBuffer != buf {
		p.uniformBuffer.Release()
	}
	p.uniformBuffer = buf
	p.uniformSize = size
}

func (p *bindGroupProvider) BindGroup(key BindingKey) *wgpu.BindGroup {
	return p.bindGroups[key]
}

func (p *bindGroupProvider) SetBindGroup(key BindingKey, bg *wgpu.BindGroup) {
	if old := p.bindGroups[key]; old != nil && old != bg {
		old.Release()
	}
	p.bindGroups[key] = bg
}

func (p *bindGroupProvider) BindGroupCount() int {
	return len(p.bindGroups)
}

func (p *bindGroupProvider) ReleaseTexture(textureID uint64) {
	p.releaseBindGroups(func(k BindingKey) bool { return k.Texture == textureID })
}

func (p *bindGroupProvider) releaseBindGroups(match func(BindingKey) bool) {
	for k, bg := range p.bindGroups {
		if !match(k) {
			continue
		}
		if bg != nil {
			bg.Release()
		}
		delete(p.bindGroups, k)
	}
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) Release() {
	p.releaseBindGroups(func(BindingKey) bool { return true })

	if p.uniformBuffer != nil {
		p.uniformBuffer.Release()
		p.uniformBuffer = nil
	}
	p.uniformSize = 0
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
}
