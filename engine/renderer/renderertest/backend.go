// Package renderertest provides a RendererBackend that records passes and draws in memory so
// frame composition can be asserted without a GPU.
package renderertest

import (
	"errors"
	"sync"

	"github.com/Carmen-Shannon/oxy-sketch/common"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/texture"
)

// Pass is one recorded pass.
type Pass struct {
	// Target is nil for the screen.
	Target texture.RenderTarget
	Clear  common.Color
	Draws  []renderer.DrawCommand
	Ended  bool
}

// Backend records every call made by a renderer.
type Backend struct {
	mu *sync.Mutex

	Passes   []*Pass
	Presents int
	Released bool

	Configured  [][2]int
	PresentMode renderer.PresentMode

	Textures       map[uint64]texture.Texture
	ReleasedLabels []string

	// FailDraw, when set, is returned by every Draw.
	FailDraw error
}

var _ renderer.RendererBackend = &Backend{}

// New creates an empty recording backend.
func New() *Backend {
	return &Backend{
		mu:       &sync.Mutex{},
		Textures: make(map[uint64]texture.Texture),
	}
}

func (b *Backend) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Configured = append(b.Configured, [2]int{width, height})
}

func (b *Backend) SetPresentMode(mode renderer.PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.PresentMode = mode
}

func (b *Backend) CreateTexture(label string, data common.TextureStagingData) (texture.Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := texture.NewInfo(label, data.Width, data.Height, texture.FilterLinear)
	b.Textures[t.ID()] = t
	return t, nil
}

func (b *Backend) CreateRenderTarget(label string, width, height int, filter texture.FilterMode) (texture.RenderTarget, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := texture.NewInfo(label, uint32(width), uint32(height), filter)
	b.Textures[t.ID()] = t
	return t, nil
}

func (b *Backend) ReleaseTexture(t texture.Texture) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.Textures[t.ID()]; ok {
		delete(b.Textures, t.ID())
		b.ReleasedLabels = append(b.ReleasedLabels, t.Label())
	}
}

func (b *Backend) BeginPass(target texture.RenderTarget, clear common.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if target != nil {
		if _, ok := b.Textures[target.ID()]; !ok {
			return errors.New("renderertest: unknown render target " + target.Label())
		}
	}
	b.Passes = append(b.Passes, &Pass{Target: target, Clear: clear})
	return nil
}

func (b *Backend) Draw(cmd renderer.DrawCommand) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailDraw != nil {
		return b.FailDraw
	}
	p := b.current()
	if p == nil {
		return renderer.ErrNoActivePass
	}
	cmd.Uniforms = append([]byte(nil), cmd.Uniforms...)
	p.Draws = append(p.Draws, cmd)
	return nil
}

func (b *Backend) EndPass() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.current()
	if p == nil {
		return renderer.ErrNoActivePass
	}
	p.Ended = true
	return nil
}

func (b *Backend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Presents++
}

func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Released = true
}

// Reset forgets recorded passes and presents, keeping textures.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Passes = nil
	b.Presents = 0
}

// Targets returns the target label of each recorded pass, "screen" for the surface.
func (b *Backend) Targets() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.Passes))
	for i, p := range b.Passes {
		if p.Target == nil {
			out[i] = "screen"
		} else {
			out[i] = p.Target.Label()
		}
	}
	return out
}

func (b *Backend) current() *Pass {
	if len(b.Passes) == 0 {
		return nil
	}
	p := b.Passes[len(b.Passes)-1]
	if p.Ended {
		return nil
	}
	return p
}
