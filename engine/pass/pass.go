// Package pass describes render passes and runs them in order against a renderer.
//
// A pass draws one scene through one camera into an offscreen render target or, when Target is
// nil, into the window. Passes run in the order they were added; a later pass may sample the
// target an earlier pass rendered into during the same frame.
package pass

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-sketch/common"
	"github.com/Carmen-Shannon/oxy-sketch/engine/camera"
	"github.com/Carmen-Shannon/oxy-sketch/engine/mesh"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-sketch/engine/scene"
)

// Pass is one scene rendered through one camera.
type Pass struct {
	// Name identifies the pass in errors.
	Name string

	// Scene is drawn in mesh insertion order. Inactive scenes are skipped.
	Scene scene.Scene

	// Camera supplies the view-projection matrix.
	Camera camera.Camera

	// Target receives the pass; nil renders to the window surface.
	Target texture.RenderTarget

	// Clear overrides the scene's clear colour when set.
	Clear *common.Color

	// Prepare runs immediately before the pass begins, after earlier passes have ended.
	// Use it to rebind textures produced earlier in the frame.
	Prepare func()
}

// clearColor returns the colour the pass clears to.
func (p *Pass) clearColor() common.Color {
	if p.Clear != nil {
		return *p.Clear
	}
	return p.Scene.ClearColor()
}

// Sequence is an ordered list of passes executed once per frame.
// Thread-safe for concurrent access.
type Sequence struct {
	mu     *sync.RWMutex
	passes []*Pass
}

// NewSequence creates a sequence from passes in execution order.
//
// Parameters:
//   - passes: the passes to run
//
// Returns:
//   - *Sequence: the sequence
func NewSequence(passes ...*Pass) *Sequence {
	s := &Sequence{mu: &sync.RWMutex{}}
	s.Add(passes...)
	return s
}

// Add appends passes to the end of the sequence. nil passes are ignored.
func (s *Sequence) Add(passes ...*Pass) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range passes {
		if p != nil {
			s.passes = append(s.passes, p)
		}
	}
}

// Passes returns the passes in execution order.
func (s *Sequence) Passes() []*Pass {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Pass, len(s.passes))
	copy(out, s.passes)
	return out
}

// Execute runs every active pass in order and presents the surface if any pass rendered to it.
// A failed draw still ends its pass so the renderer is left ready for the next frame.
//
// Parameters:
//   - r: the renderer to draw with
//
// Returns:
//   - error: the first pass error, wrapped with the pass name
func (s *Sequence) Execute(r renderer.Renderer) error {
	presents := false
	for _, p := range s.Passes() {
		if p.Scene == nil || !p.Scene.Active() {
			continue
		}
		if p.Camera == nil {
			return fmt.Errorf("pass %s: no camera", p.Name)
		}
		if p.Prepare != nil {
			p.Prepare()
		}
		if err := runPass(r, p); err != nil {
			return fmt.Errorf("pass %s: %w", p.Name, err)
		}
		if p.Target == nil {
			presents = true
		}
	}
	if presents {
		r.Present()
	}
	return nil
}

func runPass(r renderer.Renderer, p *Pass) error {
	if err := r.BeginPass(p.Target, p.clearColor()); err != nil {
		return err
	}

	viewProj := p.Camera.ViewProjectionMatrix()
	var drawErr error
	for _, m := range p.Scene.Meshes() {
		if !m.Visible() {
			continue
		}
		if err := r.Draw(DrawCommand(m, viewProj)); err != nil {
			drawErr = fmt.Errorf("draw %s: %w", m.Name(), err)
			break
		}
	}
	return errors.Join(drawErr, r.EndPass())
}

// DrawCommand builds the renderer command for a mesh seen through viewProj.
//
// Parameters:
//   - m: the mesh to draw
//   - viewProj: the camera's view-projection matrix
//
// Returns:
//   - renderer.DrawCommand: the command, with the draw uniform block marshalled
func DrawCommand(m mesh.Mesh, viewProj [16]float32) renderer.DrawCommand {
	mat := m.Material()
	u := GPUDrawUniform{
		ViewProjection: viewProj,
		Model:          m.ModelMatrix(),
		Material:       mat.Uniform(),
	}
	return renderer.DrawCommand{
		MeshID:      m.ID(),
		Label:       m.Name(),
		Geometry:    m.Geometry(),
		Shader:      mat.Shader(),
		Texture:     mat.Map(),
		Uniforms:    u.Marshal(),
		Transparent: mat.Transparent(),
		DoubleSided: mat.DoubleSided(),
	}
}
