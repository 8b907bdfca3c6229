package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithUniformBuffer sets the uniform buffer backing binding 0.
//
// Parameters:
//   - buf: the uniform buffer
//   - size: its size in bytes
//
// Returns:
//   - BindGroupProviderOption: a function that sets the uniform buffer for this provider
func WithUniformBuffer(buf *wgpu.Buffer, size uint64) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.uniformBuffer = buf
		p.uniformSize = size
	}
}

// WithGeometry sets the vertex and index buffers of a geometry provider.
//
// Parameters:
//   - vertex: the vertex buffer
//   - index: the index buffer
//   - indexCount: the number of indices drawn
//
// Returns:
//   - BindGroupProviderOption: a function that sets the geometry buffers for this provider
func WithGeometry(vertex, index *wgpu.Buffer, indexCount int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.vertexBuffer = vertex
		p.indexBuffer = index
		p.indexCount = indexCount
	}
}
