package renderer

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-sketch/common"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceSource supplies what the renderer needs to create and size its surface.
// window.Window satisfies it.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	width, height int
	passActive    bool
	passTarget    texture.RenderTarget
	draws         int

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
}

// Renderer defines the interface for the rendering system.
//
// This is a high-level API designed to simplify rendering tasks into a streamlined and idiomatic flow.
// It owns the backend, enforces the Begin/Draw/End pass protocol and ignores degenerate surface
// sizes, so callers never configure a zero-sized swapchain.
type Renderer interface {
	// Resize configures the underlying backend to handle a new surface size.
	// Zero or negative sizes (a minimised window) are ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// Size returns the current surface size.
	//
	// Returns:
	//   - width, height: size in pixels
	Size() (width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// CreateTexture uploads RGBA pixels into a new sampled texture.
	//
	// Parameters:
	//   - label: debug label
	//   - data: the pixels and dimensions
	//
	// Returns:
	//   - texture.Texture: the uploaded texture
	//   - error: an error if the data is invalid or upload fails
	CreateTexture(label string, data common.TextureStagingData) (texture.Texture, error)

	// CreateRenderTarget allocates an offscreen target that later passes can sample.
	//
	// Parameters:
	//   - label: debug label
	//   - width, height: size in pixels (must be positive)
	//   - filter: filter used when the target is sampled
	//
	// Returns:
	//   - texture.RenderTarget: the target
	//   - error: an error if the size is invalid or allocation fails
	CreateRenderTarget(label string, width, height int, filter texture.FilterMode) (texture.RenderTarget, error)

	// ReleaseTexture frees a texture or render target. nil is ignored.
	ReleaseTexture(t texture.Texture)

	// BeginPass starts a pass into target, or into the window surface when target is nil.
	//
	// Returns:
	//   - error: ErrPassActive if a pass is open, or a backend error
	BeginPass(target texture.RenderTarget, clear common.Color) error

	// Draw encodes one draw in the current pass.
	//
	// Returns:
	//   - error: ErrNoActivePass outside a pass, or a backend error
	Draw(cmd DrawCommand) error

	// EndPass ends and submits the current pass.
	//
	// Returns:
	//   - error: ErrNoActivePass outside a pass, or a backend error
	EndPass() error

	// Present presents the surface to the display.
	// Must be called once per frame after the last pass.
	Present()

	// TakeDrawCount returns the number of draws issued since the previous call and resets it.
	TakeDrawCount() int

	// Release frees the backend's GPU resources.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type and surface source.
// Unless WithBackend supplies one, a wgpu backend is created against the surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - surface: the window (or other source) that provides the surface descriptor and size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, surface SurfaceSource, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	if r.backend == nil {
		switch backendType {
		case BackendTypeWGPU:
			fallthrough
		default:
			r.backend = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter)
		}
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.Resize(surface.Width(), surface.Height())
	return r
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	r.width, r.height = width, height
	r.mu.Unlock()
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) CreateTexture(label string, data common.TextureStagingData) (texture.Texture, error) {
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("renderer: texture %q: %w", label, err)
	}
	return r.backend.CreateTexture(label, data)
}

func (r *renderer) CreateRenderTarget(label string, width, height int, filter texture.FilterMode) (texture.RenderTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("renderer: render target %q has invalid size %dx%d", label, width, height)
	}
	t, err := r.backend.CreateRenderTarget(label, width, height, filter)
	if err != nil {
		return nil, fmt.Errorf("renderer: render target %q: %w", label, err)
	}
	log.Printf("[Renderer] created render target %s %dx%d (%s)", label, width, height, filter)
	return t, nil
}

func (r *renderer) ReleaseTexture(t texture.Texture) {
	if t == nil {
		return
	}
	r.backend.ReleaseTexture(t)
}

func (r *renderer) BeginPass(target texture.RenderTarget, clear common.Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.passActive {
		return ErrPassActive
	}
	if err := r.backend.BeginPass(target, clear); err != nil {
		return err
	}
	r.passActive = true
	r.passTarget = target
	return nil
}

func (r *renderer) Draw(cmd DrawCommand) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.passActive {
		return ErrNoActivePass
	}
	if r.passTarget != nil && cmd.Texture != nil && cmd.Texture.ID() == r.passTarget.ID() {
		return fmt.Errorf("renderer: %s samples %s while rendering into it", cmd.Label, cmd.Texture.Label())
	}
	if err := r.backend.Draw(cmd); err != nil {
		return err
	}
	r.draws++
	return nil
}

func (r *renderer) EndPass() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.passActive {
		return ErrNoActivePass
	}
	r.passActive = false
	r.passTarget = nil
	return r.backend.EndPass()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) TakeDrawCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.draws
	r.draws = 0
	return n
}

func (r *renderer) Release() {
	r.backend.Release()
}
