package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-sketch/common"
	"github.com/Carmen-Shannon/oxy-sketch/engine/mesh"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/texture"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

var (
	// ErrNoActivePass is returned by Draw and EndPass when no pass has been begun.
	ErrNoActivePass = errors.New("renderer: no active pass")

	// ErrPassActive is returned by BeginPass when the previous pass has not been ended.
	ErrPassActive = errors.New("renderer: a pass is already active")
)

// DrawCommand is one mesh draw inside a pass.
type DrawCommand struct {
	// MeshID keys per-mesh GPU state such as the uniform buffer.
	MeshID uint64
	// Label is used for GPU debug labels.
	Label string
	// Geometry is the indexed triangle data; buffers are shared per Geometry.Key.
	Geometry *mesh.Geometry
	// Shader is the WGSL module drawn with.
	Shader shader.Shader
	// Texture is bound at binding 1; nil binds a 1x1 white texture.
	Texture texture.Texture
	// Uniforms is the raw uniform block bound at binding 0.
	Uniforms []byte
	// Transparent enables alpha blending.
	Transparent bool
	// DoubleSided disables back-face culling.
	DoubleSided bool
}

// RendererBackend is the GPU-facing half of the Renderer. The wgpu implementation draws to a
// window surface; tests substitute a recording fake.
//
// A frame is a sequence of passes. Each pass renders into an offscreen target or, when target
// is nil, into the surface's current texture. EndPass submits the pass; Present shows the
// surface texture if any pass rendered into it.
type RendererBackend interface {
	// ConfigureSurface is a wrapper for boilerplate logic required when calling ConfigureSurface on a surface.
	// This is required when the surface size changes, such as when the window is resized.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// CreateTexture uploads RGBA pixels into a new sampled texture.
	//
	// Parameters:
	//   - label: debug label
	//   - data: the pixels and dimensions
	//
	// Returns:
	//   - texture.Texture: the uploaded texture
	//   - error: an error if the data is invalid or GPU allocation fails
	CreateTexture(label string, data common.TextureStagingData) (texture.Texture, error)

	// CreateRenderTarget allocates an RGBA texture that can be rendered into and sampled.
	//
	// Parameters:
	//   - label: debug label
	//   - width, height: size in pixels
	//   - filter: filter used when sampling the target
	//
	// Returns:
	//   - texture.RenderTarget: the target
	//   - error: an error if GPU allocation fails
	CreateRenderTarget(label string, width, height int, filter texture.FilterMode) (texture.RenderTarget, error)

	// ReleaseTexture frees a texture or render target and any bind groups that reference it.
	ReleaseTexture(t texture.Texture)

	// BeginPass starts a render pass that clears target (or the surface when target is nil)
	// to clear.
	//
	// Returns:
	//   - error: an error if the surface texture cannot be acquired
	BeginPass(target texture.RenderTarget, clear common.Color) error

	// Draw encodes one draw within the current pass.
	//
	// Returns:
	//   - error: an error if GPU resources for the draw cannot be created
	Draw(cmd DrawCommand) error

	// EndPass ends the current pass and submits its command buffer.
	EndPass() error

	// Present presents the surface to the display and releases the swapchain texture.
	// A no-op when no pass rendered to the surface this frame.
	Present()

	// Release frees all GPU resources owned by the backend.
	Release()
}
