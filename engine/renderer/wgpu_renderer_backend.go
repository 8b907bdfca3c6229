package renderer

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-sketch/common"
	"github.com/Carmen-Shannon/oxy-sketch/engine/mesh"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// targetFormat is the colour format of every offscreen render target and uploaded image.
// Pixels pass through without sRGB conversion.
const targetFormat = wgpu.TextureFormatRGBA8Unorm

// vertexLayout describes mesh.GPUVertex.
var vertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: mesh.VertexStride,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
	},
}

// wgpuTexture is a texture or render target owned by the wgpu backend.
type wgpuTexture struct {
	*texture.Info
	tex  *wgpu.Texture
	view *wgpu.TextureView
}

type shaderModule struct {
	version uint64
	module  *wgpu.ShaderModule
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	presentMode   wgpu.PresentMode // defaults to PresentModeImmediate (Uncapped)

	bindGroupLayout *wgpu.BindGroupLayout
	pipelineLayout  *wgpu.PipelineLayout
	pipelines       *pipeline.Cache
	modules         map[string]shaderModule
	samplers        map[texture.FilterMode]*wgpu.Sampler
	white           *wgpuTexture

	textures   map[uint64]*wgpuTexture
	geometries map[string]bind_group_provider.BindGroupProvider // by Geometry.Key
	meshes     map[uint64]bind_group_provider.BindGroupProvider // by mesh ID

	// Pass state; each pass owns its encoder and is submitted at EndPass
	passEncoder *wgpu.CommandEncoder
	pass        *wgpu.RenderPassEncoder
	passFormat  wgpu.TextureFormat

	// Surface texture acquired by the first screen pass of a frame, held until Present
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool) RendererBackend {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		pipelines:   pipeline.NewCache(),
		modules:     make(map[string]shaderModule),
		samplers:    make(map[texture.FilterMode]*wgpu.Sampler),
		textures:    make(map[uint64]*wgpuTexture),
		geometries:  make(map[string]bind_group_provider.BindGroupProvider),
		meshes:      make(map[uint64]bind_group_provider.BindGroupProvider),
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		panic(err)
	}
	b.device = d
	b.queue = d.GetQueue()

	if err := b.initSharedResources(); err != nil {
		panic(err)
	}
	return b
}

// initSharedResources creates the bind group layout every draw uses, the samplers and the
// fallback white texture.
func (b *wgpuRendererBackendImpl) initSharedResources() error {
	entries := make([]wgpu.BindGroupLayoutEntry, 3)
	entries[0].Binding = 0
	entries[0].Visibility = wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
	entries[0].Buffer.Type = wgpu.BufferBindingTypeUniform
	entries[1].Binding = 1
	entries[1].Visibility = wgpu.ShaderStageFragment
	entries[1].Texture.SampleType = wgpu.TextureSampleTypeFloat
	entries[1].Texture.ViewDimension = wgpu.TextureViewDimension2D
	entries[2].Binding = 2
	entries[2].Visibility = wgpu.ShaderStageFragment
	entries[2].Sampler.Type = wgpu.SamplerBindingTypeFiltering

	layout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Draw Bind Group Layout",
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	b.bindGroupLayout = layout

	b.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Draw Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	for _, f := range []texture.FilterMode{texture.FilterLinear, texture.FilterNearest} {
		mode, mip := wgpu.FilterModeLinear, wgpu.MipmapFilterModeLinear
		if f == texture.FilterNearest {
			mode, mip = wgpu.FilterModeNearest, wgpu.MipmapFilterModeNearest
		}
		samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
			Label:         f.String() + " Sampler",
			AddressModeU:  wgpu.AddressModeClampToEdge,
			AddressModeV:  wgpu.AddressModeClampToEdge,
			AddressModeW:  wgpu.AddressModeClampToEdge,
			MagFilter:     mode,
			MinFilter:     mode,
			MipmapFilter:  mip,
			LodMinClamp:   0,
			LodMaxClamp:   32,
			MaxAnisotropy: 1,
		})
		if err != nil {
			return fmt.Errorf("create %s sampler: %w", f, err)
		}
		b.samplers[f] = samp
	}

	white, err := b.createTexture("White", common.TextureStagingData{
		Pixels: []byte{255, 255, 255, 255},
		Width:  1,
		Height: 1,
	}, texture.FilterLinear, false)
	if err != nil {
		return err
	}
	b.white = white
	return nil
}

// pickSurfaceFormat prefers a non-sRGB 8-bit format so image bytes reach the screen unchanged.
func pickSurfaceFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, f := range formats {
		if f == wgpu.TextureFormatBGRA8Unorm || f == wgpu.TextureFormatRGBA8Unorm {
			return f
		}
	}
	if len(formats) == 0 {
		return wgpu.TextureFormatBGRA8Unorm
	}
	return formats[0]
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = pickSurfaceFormat(capabilities.Formats)

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackendImpl) CreateTexture(label string, data common.TextureStagingData) (texture.Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createTexture(label, data, texture.FilterLinear, false)
}

func (b *wgpuRendererBackendImpl) CreateRenderTarget(label string, width, height int, filter texture.FilterMode) (texture.RenderTarget, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createTexture(label, common.TextureStagingData{
		Width:  uint32(width),
		Height: uint32(height),
	}, filter, true)
}

// createTexture allocates a texture and view; pixels are uploaded when present.
// Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) createTexture(label string, data common.TextureStagingData, filter texture.FilterMode, renderable bool) (*wgpuTexture, error) {
	usage := wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst
	if renderable {
		usage |= wgpu.TextureUsageRenderAttachment
	}
	size := wgpu.Extent3D{
		Width:              data.Width,
		Height:             data.Height,
		DepthOrArrayLayers: 1,
	}

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Usage:         usage,
		Dimension:     wgpu.TextureDimension2D,
		Size:          size,
		Format:        targetFormat,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %q: %w", label, err)
	}

	if len(data.Pixels) > 0 {
		b.queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  tex,
				MipLevel: 0,
				Origin:   wgpu.Origin3D{},
				Aspect:   wgpu.TextureAspectAll,
			},
			data.Pixels,
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  data.Width * 4,
				RowsPerImage: data.Height,
			},
			&size,
		)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("create view for %q: %w", label, err)
	}

	t := &wgpuTexture{
		Info: texture.NewInfo(label, data.Width, data.Height, filter),
		tex:  tex,
		view: view,
	}
	b.textures[t.ID()] = t
	return t, nil
}

func (b *wgpuRendererBackendImpl) ReleaseTexture(t texture.Texture) {
	b.mu.Lock()
	defer b.mu.Unlock()

	wt, ok := b.textures[t.ID()]
	if !ok || wt == b.white {
		return
	}
	for _, p := range b.meshes {
		p.ReleaseTexture(wt.ID())
	}
	wt.view.Release()
	wt.tex.Release()
	delete(b.textures, wt.ID())
}

func (b *wgpuRendererBackendImpl) BeginPass(target texture.RenderTarget, clear common.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var view *wgpu.TextureView
	if target == nil {
		if b.frameSurface == nil {
			surfaceTexture, err := b.surface.GetCurrentTexture()
			if err != nil {
				return fmt.Errorf("acquire surface texture: %w", err)
			}
			surfaceView, err := surfaceTexture.CreateView(nil)
			if err != nil {
				surfaceTexture.Release()
				return fmt.Errorf("create surface view: %w", err)
			}
			b.frameSurface = surfaceTexture
			b.frameView = surfaceView
		}
		view = b.frameView
		b.passFormat = b.surfaceFormat
	} else {
		wt, ok := b.textures[target.ID()]
		if !ok {
			return fmt.Errorf("render target %s was not created by this backend", target.Label())
		}
		view = wt.view
		b.passFormat = targetFormat
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}

	b.passEncoder = encoder
	b.pass = encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    view,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: float64(clear.R), G: float64(clear.G), B: float64(clear.B), A: float64(clear.A),
				},
			},
		},
	})
	return nil
}

func (b *wgpuRendererBackendImpl) Draw(cmd DrawCommand) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pass == nil {
		return ErrNoActivePass
	}
	if cmd.Geometry == nil || cmd.Shader == nil {
		return errors.New("draw command needs geometry and shader")
	}

	p, err := b.renderPipeline(cmd)
	if err != nil {
		return fmt.Errorf("pipeline for %s: %w", cmd.Label, err)
	}
	geo, err := b.geometryBuffers(cmd.Geometry)
	if err != nil {
		return fmt.Errorf("geometry for %s: %w", cmd.Label, err)
	}
	bg, err := b.bindGroup(cmd)
	if err != nil {
		return fmt.Errorf("bind group for %s: %w", cmd.Label, err)
	}

	b.pass.SetPipeline(p.Pipeline())
	b.pass.SetBindGroup(0, bg, nil)
	b.pass.SetVertexBuffer(0, geo.VertexBuffer(), 0, wgpu.WholeSize)
	b.pass.SetIndexBuffer(geo.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.pass.DrawIndexed(uint32(geo.IndexCount()), 1, 0, 0, 0)
	return nil
}

// renderPipeline returns the pipeline for the command's shader version and render state,
// building it on a cache miss. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) renderPipeline(cmd DrawCommand) (pipeline.Pipeline, error) {
	desc := pipeline.NewPipeline(cmd.Shader, b.passFormat,
		pipeline.WithBlendEnabled(cmd.Transparent),
		pipeline.WithDoubleSided(cmd.DoubleSided),
	)
	if cached, ok := b.pipelines.Get(desc.Key()); ok {
		return cached, nil
	}

	module, err := b.shaderModule(cmd.Shader, desc.Key().Version)
	if err != nil {
		return nil, err
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.PipelineKey(),
		Layout: b.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: cmd.Shader.VertexEntryPoint(),
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: cmd.Shader.FragmentEntryPoint(),
			Targets:    []wgpu.ColorTargetState{desc.ColorTargetState()},
		},
		Primitive: desc.PrimitiveState(),
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}
	desc.SetRenderPipeline(created)
	b.pipelines.Put(desc)

	for _, stale := range b.pipelines.Evict(cmd.Shader.Key(), desc.Key().Version) {
		if rp := stale.Pipeline(); rp != nil {
			rp.Release()
		}
	}
	log.Printf("[Renderer] built pipeline %s", desc.PipelineKey())
	return desc, nil
}

// shaderModule compiles the shader once per version. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) shaderModule(s shader.Shader, version uint64) (*wgpu.ShaderModule, error) {
	if m, ok := b.modules[s.Key()]; ok && m.version == version {
		return m.module, nil
	}
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: s.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.Source(),
		},
	})
	if err != nil {
		return nil, err
	}
	if old, ok := b.modules[s.Key()]; ok {
		old.module.Release()
	}
	b.modules[s.Key()] = shaderModule{version: version, module: module}
	return module, nil
}

// geometryBuffers uploads a geometry once per key. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) geometryBuffers(g *mesh.Geometry) (bind_group_provider.BindGroupProvider, error) {
	if p, ok := b.geometries[g.Key]; ok {
		return p, nil
	}
	vertexData := common.SliceToBytes(g.Vertices)
	indexData := common.SliceToBytes(g.Indices)
	if len(vertexData) == 0 || len(indexData) == 0 {
		return nil, fmt.Errorf("geometry %q is empty", g.Key)
	}

	vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: g.Key + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(vb, 0, vertexData)

	ib, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: g.Key + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vb.Release()
		return nil, err
	}
	b.queue.WriteBuffer(ib, 0, indexData)

	p := bind_group_provider.NewBindGroupProvider(g.Key, bind_group_provider.WithGeometry(vb, ib, g.IndexCount()))
	b.geometries[g.Key] = p
	return p, nil
}

// bindGroup writes the command's uniforms into the mesh's buffer and returns the bind group
// for the (mesh, texture, filter) triple. A mesh drawn twice in one pass shares one buffer,
// so both draws see the last write. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) bindGroup(cmd DrawCommand) (*wgpu.BindGroup, error) {
	size := uint64(len(cmd.Uniforms)+15) &^ 15
	if size == 0 {
		size = 16
	}

	p, ok := b.meshes[cmd.MeshID]
	if !ok {
		p = bind_group_provider.NewBindGroupProvider(cmd.Label)
		b.meshes[cmd.MeshID] = p
	}
	if p.UniformSize() < size {
		buffer, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: cmd.Label + " Uniform Buffer",
			Size:  size,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, err
		}
		p.SetUniformBuffer(buffer, size)
	}
	if len(cmd.Uniforms) > 0 {
		b.queue.WriteBuffer(p.UniformBuffer(), 0, cmd.Uniforms)
	}

	tex := b.white
	filter := texture.FilterLinear
	if cmd.Texture != nil {
		wt, ok := b.textures[cmd.Texture.ID()]
		if !ok {
			return nil, fmt.Errorf("texture %s was not created by this backend", cmd.Texture.Label())
		}
		tex = wt
		if rt, ok := cmd.Texture.(texture.RenderTarget); ok {
			filter = rt.Filter()
		}
	}

	key := bind_group_provider.BindingKey{Texture: tex.ID(), Filter: filter}
	if bg := p.BindGroup(key); bg != nil {
		return bg, nil
	}
	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  cmd.Label + " Bind Group",
		Layout: b.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: p.UniformBuffer(), Offset: 0, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: tex.view},
			{Binding: 2, Sampler: b.samplers[filter]},
		},
	})
	if err != nil {
		return nil, err
	}
	p.SetBindGroup(key, bg)
	return bg, nil
}

func (b *wgpuRendererBackendImpl) EndPass() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pass == nil {
		return ErrNoActivePass
	}
	b.pass.End()
	b.pass = nil

	commandBuffer, err := b.passEncoder.Finish(nil)
	b.passEncoder.Release()
	b.passEncoder = nil
	if err != nil {
		return fmt.Errorf("finish pass: %w", err)
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If no frame surface is held, nothing to present.
	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	b.frameView.Release()
	b.frameView = nil
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range b.meshes {
		p.Release()
	}
	for _, p := range b.geometries {
		p.Release()
	}
	for _, t := range b.textures {
		t.view.Release()
		t.tex.Release()
	}
	for _, p := range b.pipelines.Drain() {
		if rp := p.Pipeline(); rp != nil {
			rp.Release()
		}
	}
	for _, m := range b.modules {
		m.module.Release()
	}
	for _, s := range b.samplers {
		s.Release()
	}
	b.meshes = map[uint64]bind_group_provider.BindGroupProvider{}
	b.geometries = map[string]bind_group_provider.BindGroupProvider{}
	b.textures = map[uint64]*wgpuTexture{}
	b.modules = map[string]shaderModule{}

	b.pipelineLayout.Release()
	b.bindGroupLayout.Release()
	b.queue.Release()
	b.device.Release()
	b.adapter.Release()
	b.surface.Release()
	b.instance.Release()
}
