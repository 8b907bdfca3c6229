// Package gallery draws a horizontally scrolling strip of image tiles that wraps forever,
// post-processed by a distortion effect whose output becomes the next frame's background.
//
// Each frame runs three passes: the scene into target A, the distortion quad sampling A into
// target B, then the scene again to the screen with B as its background.
package gallery

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-sketch/assets"
	"github.com/Carmen-Shannon/oxy-sketch/common"
	"github.com/Carmen-Shannon/oxy-sketch/engine"
	"github.com/Carmen-Shannon/oxy-sketch/engine/camera"
	"github.com/Carmen-Shannon/oxy-sketch/engine/mesh"
	"github.com/Carmen-Shannon/oxy-sketch/engine/pass"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-sketch/engine/scene"
)

const (
	// frustumSize is the height of the orthographic view volume in world units.
	frustumSize float32 = 2
	// backgroundDepth places the background quad behind the tiles.
	backgroundDepth float32 = -0.5
	// progressStep is the change per progress key press.
	progressStep float32 = 0.01

	sceneTargetLabel  = "gallery:scene"
	effectTargetLabel = "gallery:effect"
)

type gallery struct {
	mu *sync.Mutex

	renderer renderer.Renderer
	textures []texture.Texture

	tileShader   shader.Shader
	effectShader shader.Shader

	tileCount  int
	margin     float32
	wheelScale float32
	progress   float32

	clock  *common.Clock
	scroll ScrollState

	width, height int

	camera     camera.Camera
	scene      scene.Scene
	quadScene  scene.Scene
	background mesh.Mesh
	quad       mesh.Mesh
	tiles      []mesh.Mesh

	sceneTarget  texture.RenderTarget
	effectTarget texture.RenderTarget

	passes   []*pass.Pass
	released bool
}

// Gallery is the scrolling image strip sketch.
type Gallery interface {
	// Attach registers the gallery's passes, tick, resize and input handlers on an engine.
	//
	// Parameters:
	//   - e: the engine that drives the sketch; its window supplies input
	Attach(e engine.Engine)

	// Passes returns the three frame passes in execution order.
	Passes() []*pass.Pass

	// Tick advances the clock, integrates scroll and moves the tiles. Called once per frame.
	Tick()

	// Resize adapts the camera, quads and offscreen targets to a new framebuffer size.
	// Repeating the current size changes nothing.
	//
	// Parameters:
	//   - width, height: framebuffer size in pixels
	//
	// Returns:
	//   - error: an error if the offscreen targets cannot be recreated
	Resize(width, height int) error

	// Wheel feeds a wheel movement into the scroll target.
	//
	// Parameters:
	//   - deltaY: the wheel delta in pixels, positive when scrolling down
	Wheel(deltaY float32)

	// Scroll returns a copy of the scroll integration state.
	Scroll() ScrollState

	// Time returns the shader clock.
	Time() float32

	// Progress returns the effect strength in [0, 1].
	Progress() float32

	// SetProgress sets the effect strength, clamped to [0, 1].
	SetProgress(p float32)

	// Camera returns the orthographic camera shared by every pass.
	Camera() camera.Camera

	// Tiles returns the tile meshes in index order.
	Tiles() []mesh.Mesh

	// Background returns the quad that shows the previous effect output.
	Background() mesh.Mesh

	// Quad returns the distortion effect quad.
	Quad() mesh.Mesh

	// Targets returns the scene and effect render targets.
	Targets() (sceneTarget, effectTarget texture.RenderTarget)

	// Release frees the offscreen targets and switches the passes off. Later frames and
	// resizes do nothing.
	Release()
}

var _ Gallery = &gallery{}

// NewGallery builds the gallery scene around the given textures and sizes it to the
// renderer's current surface.
//
// Parameters:
//   - r: the renderer the targets are created on
//   - textures: the tile images, cycled when there are fewer than the tile count
//   - options: functional options
//
// Returns:
//   - Gallery: the sketch
//   - error: an error if no textures are given, a shader fails to parse or the targets cannot be created
func NewGallery(r renderer.Renderer, textures []texture.Texture, options ...GalleryBuilderOption) (Gallery, error) {
	if r == nil {
		return nil, fmt.Errorf("gallery: renderer is required")
	}
	if len(textures) == 0 {
		return nil, fmt.Errorf("gallery: at least one texture is required")
	}

	g := &gallery{
		mu:         &sync.Mutex{},
		renderer:   r,
		textures:   textures,
		tileCount:  10,
		margin:     1.1,
		wheelScale: 0.3,
		clock:      common.NewClock(common.DefaultClockStep),
	}
	for _, option := range options {
		option(g)
	}

	var err error
	if g.tileShader == nil {
		if g.tileShader, err = assets.Shader(assets.ShaderBasic); err != nil {
			return nil, err
		}
	}
	if g.effectShader == nil {
		if g.effectShader, err = assets.Shader(assets.ShaderDistortion); err != nil {
			return nil, err
		}
	}

	width, height := r.Size()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("gallery: surface size %dx%d", width, height)
	}
	g.build(width, height)
	if err := g.Resize(width, height); err != nil {
		return nil, err
	}
	return g, nil
}

// build creates the camera, meshes, scenes and passes. Targets are attached by Resize.
func (g *gallery) build(width, height int) {
	aspect := float32(width) / float32(height)
	g.camera = camera.NewOrthographicCamera(frustumSize, aspect, -1000, 1000,
		camera.WithPosition(0, 0, 2),
		camera.WithLookAt(0, 0, 0),
	)

	g.background = mesh.NewMesh(mesh.UnitPlane(),
		material.NewMaterial(g.tileShader, material.WithName("gallery:background")),
		mesh.WithName("background"),
		mesh.WithPosition(0, 0, backgroundDepth),
	)

	g.tiles = make([]mesh.Mesh, g.tileCount)
	for i := range g.tiles {
		tex := g.textures[i%len(g.textures)]
		mat := material.NewMaterial(g.tileShader,
			material.WithName(fmt.Sprintf("gallery:tile:%d", i)),
			material.WithMap(tex),
		)
		g.tiles[i] = mesh.NewMesh(mesh.UnitPlane(), mat,
			mesh.WithName(fmt.Sprintf("tile:%d", i)),
			mesh.WithScale(1, float32(tex.Height())/float32(tex.Width()), 1),
			mesh.WithPosition(TileX(i, g.tileCount, g.margin, 0), 0, 0),
		)
	}

	g.quad = mesh.NewMesh(mesh.UnitPlane(),
		material.NewMaterial(g.effectShader,
			material.WithName("gallery:distortion"),
			material.WithKind(material.KindShader),
			material.WithTransparent(true),
			material.WithDoubleSided(true),
			material.WithProgress(g.progress),
		),
		mesh.WithName("distortion"),
	)

	g.scene = scene.NewScene("gallery",
		scene.WithClearColor(common.Transparent),
		scene.WithMeshes(append([]mesh.Mesh{g.background}, g.tiles...)...),
	)
	g.quadScene = scene.NewScene("gallery:quad",
		scene.WithClearColor(common.Transparent),
		scene.WithMeshes(g.quad),
	)

	g.passes = []*pass.Pass{
		{Name: "scene", Scene: g.scene, Camera: g.camera},
		{Name: "distortion", Scene: g.quadScene, Camera: g.camera, Prepare: func() {
			g.quad.Material().SetMap(g.sceneTarget)
		}},
		{Name: "composite", Scene: g.scene, Camera: g.camera, Prepare: func() {
			g.background.Material().SetMap(g.effectTarget)
		}},
	}
}

func (g *gallery) Attach(e engine.Engine) {
	e.Passes().Add(g.passes...)
	e.SetTickCallback(func(float32) { g.Tick() })
	e.OnResize(func(width, height int) {
		if err := g.Resize(width, height); err != nil {
			log.Printf("[Gallery] resize %dx%d: %v", width, height, err)
		}
	})

	w := e.Window()
	if w == nil {
		return
	}
	w.SetScrollCallback(func(_, deltaY float32) {
		g.Wheel(deltaY)
	})
	w.SetKeyDownCallback(func(keyCode uint32) {
		switch keyCode {
		case common.KeyLeftBracket:
			g.SetProgress(g.Progress() - progressStep)
		case common.KeyRightBracket:
			g.SetProgress(g.Progress() + progressStep)
		case common.KeySpace:
			if e.Playing() {
				e.Stop()
			} else {
				e.Start()
			}
		case common.KeyEsc:
			e.Quit()
		}
	})
}

func (g *gallery) Passes() []*pass.Pass {
	out := make([]*pass.Pass, len(g.passes))
	copy(out, g.passes)
	return out
}

func (g *gallery) Tick() {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.clock.Advance()
	g.scroll.Step()
	for i, tile := range g.tiles {
		_, y, z := tile.Position()
		tile.SetPosition(TileX(i, g.tileCount, g.margin, g.scroll.Position), y, z)
	}

	mat := g.quad.Material()
	mat.SetTime(t)
	mat.SetProgress(g.progress)
}

func (g *gallery) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.released || (width == g.width && height == g.height && g.sceneTarget != nil) {
		return nil
	}

	aspect := float32(width) / float32(height)
	g.camera.SetAspect(aspect)
	g.background.SetScale(2*aspect, 2, 1)
	g.quad.SetScale(2*aspect, 2, 1)
	g.quad.Material().SetResolution(common.Resolution(width, height, common.DefaultImageAspect))

	sceneTarget, err := g.renderer.CreateRenderTarget(sceneTargetLabel, width, height, texture.FilterNearest)
	if err != nil {
		return fmt.Errorf("gallery: %w", err)
	}
	effectTarget, err := g.renderer.CreateRenderTarget(effectTargetLabel, width, height, texture.FilterNearest)
	if err != nil {
		g.renderer.ReleaseTexture(sceneTarget)
		return fmt.Errorf("gallery: %w", err)
	}

	g.releaseTargets()
	g.sceneTarget, g.effectTarget = sceneTarget, effectTarget
	g.passes[0].Target = sceneTarget
	g.passes[1].Target = effectTarget

	// The previous effect target is gone; the feedback loop restarts from the empty new one.
	if g.background.Material().Map() != nil {
		g.background.Material().SetMap(effectTarget)
	}
	g.quad.Material().SetMap(sceneTarget)

	g.width, g.height = width, height
	return nil
}

func (g *gallery) releaseTargets() {
	g.renderer.ReleaseTexture(g.sceneTarget)
	g.renderer.ReleaseTexture(g.effectTarget)
	g.sceneTarget, g.effectTarget = nil, nil
}

func (g *gallery) Wheel(deltaY float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scroll.Wheel(deltaY, g.wheelScale)
}

func (g *gallery) Scroll() ScrollState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scroll
}

func (g *gallery) Time() float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.clock.Time()
}

func (g *gallery) Progress() float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.progress
}

func (g *gallery) SetProgress(p float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.progress = common.Clamp(p, 0, 1)
	g.quad.Material().SetProgress(g.progress)
}

func (g *gallery) Camera() camera.Camera {
	return g.camera
}

func (g *gallery) Tiles() []mesh.Mesh {
	out := make([]mesh.Mesh, len(g.tiles))
	copy(out, g.tiles)
	return out
}

func (g *gallery) Background() mesh.Mesh {
	return g.background
}

func (g *gallery) Quad() mesh.Mesh {
	return g.quad
}

func (g *gallery) Targets() (sceneTarget, effectTarget texture.RenderTarget) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sceneTarget, g.effectTarget
}

func (g *gallery) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.released = true
	g.scene.SetActive(false)
	g.quadScene.SetActive(false)
	g.releaseTargets()
	g.passes[0].Target = nil
	g.passes[1].Target = nil
	g.background.Material().SetMap(nil)
	g.quad.Material().SetMap(nil)
}
