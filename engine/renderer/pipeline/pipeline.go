package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Key identifies a render pipeline by everything that changes the compiled GPU object.
type Key struct {
	Shader  string
	Version uint64
	Format  wgpu.TextureFormat
	Blend   bool
	Cull    wgpu.CullMode
}

// String formats the key for pipeline labels and logs.
func (k Key) String() string {
	return fmt.Sprintf("%s@v%d/%d/blend=%t/cull=%d", k.Shader, k.Version, k.Format, k.Blend, k.Cull)
}

// pipeline is the implementation of the Pipeline interface.
// It holds the render state needed to build a wgpu render pipeline and the built object itself.
type pipeline struct {
	key    Key
	shader shader.Shader

	renderPipeline *wgpu.RenderPipeline

	format       wgpu.TextureFormat
	blendEnabled bool
	cullMode     wgpu.CullMode
	topology     wgpu.PrimitiveTopology
	frontFace    wgpu.FrontFace
	writeMask    wgpu.ColorWriteMask
	blendState   *wgpu.BlendState
}

// Pipeline defines the interface for a GPU render pipeline description. It holds the shader,
// the colour target format and the blend and cull settings, and carries the compiled
// *wgpu.RenderPipeline once a backend has built it.
type Pipeline interface {
	// Key returns the cache key derived from the shader version and render state.
	//
	// Returns:
	//   - Key: the cache key
	Key() Key

	// PipelineKey returns Key formatted as a string, used for labels.
	PipelineKey() string

	// Shader returns the shader module the pipeline is built from.
	//
	// Returns:
	//   - shader.Shader: the shader
	Shader() shader.Shader

	// Format returns the colour target format.
	Format() wgpu.TextureFormat

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// BlendState returns the blend state used when blending is enabled.
	BlendState() *wgpu.BlendState

	// CullMode returns the cull mode configured for this pipeline.
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	WriteMask() wgpu.ColorWriteMask

	// ColorTargetState returns the colour target description for pipeline creation.
	//
	// Returns:
	//   - wgpu.ColorTargetState: format, write mask and blend (nil when disabled)
	ColorTargetState() wgpu.ColorTargetState

	// PrimitiveState returns the primitive assembly description for pipeline creation.
	PrimitiveState() wgpu.PrimitiveState

	// Pipeline returns the compiled render pipeline, or nil before a backend has built it.
	Pipeline() *wgpu.RenderPipeline

	// SetRenderPipeline sets the render pipeline
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)
}

var _ Pipeline = &pipeline{}

// NewPipeline describes a render pipeline for the given shader and colour target format.
// Defaults to opaque, back-face culled, counter-clockwise triangle lists. The key captures the
// shader's version at construction time.
//
// Parameters:
//   - s: the shader module (must not be nil)
//   - format: the colour target format
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(s shader.Shader, format wgpu.TextureFormat, opts ...PipelineBuilderOption) Pipeline {
	if s == nil {
		panic("pipeline: shader must not be nil")
	}
	p := &pipeline{
		shader:    s,
		format:    format,
		cullMode:  wgpu.CullModeBack,
		topology:  wgpu.PrimitiveTopologyTriangleList,
		frontFace: wgpu.FrontFaceCCW,
		writeMask: wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.key = Key{
		Shader:  s.Key(),
		Version: s.Version(),
		Format:  format,
		Blend:   p.blendEnabled,
		Cull:    p.cullMode,
	}
	return p
}

func (p *pipeline) Key() Key {
	return p.key
}

func (p *pipeline) PipelineKey() string {
	return p.key.String()
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) Format() wgpu.TextureFormat {
	return p.format
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) ColorTargetState() wgpu.ColorTargetState {
	state := wgpu.ColorTargetState{
		Format:    p.format,
		WriteMask: p.writeMask,
	}
	if p.blendEnabled {
		state.Blend = p.blendState
	}
	return state
}

func (p *pipeline) PrimitiveState() wgpu.PrimitiveState {
	return wgpu.PrimitiveState{
		Topology:  p.topology,
		FrontFace: p.frontFace,
		CullMode:  p.cullMode,
	}
}

func (p *pipeline) Pipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}
