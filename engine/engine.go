package engine

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-sketch/common"
	"github.com/Carmen-Shannon/oxy-sketch/engine/pass"
	"github.com/Carmen-Shannon/oxy-sketch/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sketch/engine/window"
)

// maxCatchUpTicks bounds how many logic ticks Run replays after a stall.
const maxCatchUpTicks = 4

// engine implements the Engine interface.
// Everything runs on the window thread: WebGPU surfaces must be driven from the thread that
// created them, so the tick and render phases are steps of the window's message loop.
type engine struct {
	mu *sync.Mutex

	playing  atomic.Bool
	frames   atomic.Uint64
	quitOnce sync.Once

	window   window.Window
	renderer renderer.Renderer
	passes   *pass.Sequence

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate   time.Duration
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	tickCallback     func(deltaTime float32)
	renderCallback   func(deltaTime float32)

	resizeSubscribers []func(width, height int)
	resizeDebounce    time.Duration
	resizes           *common.Debouncer[[2]int]

	now func() time.Time
}

// Engine is the main entry point for the engine.
// It owns the frame schedule: a logic tick followed by the ordered render passes, gated by a
// play/stop flag, plus the fan-out of window resizes to the renderer and sketches.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer passes draw with, or nil.
	Renderer() renderer.Renderer

	// Passes returns the pass sequence executed each frame.
	Passes() *pass.Sequence

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// Run calls the tick callback at this rate for logic updates.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick, before the passes run.
	//
	// Parameters:
	//   - callback: function receiving the tick duration in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each render frame after the passes.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// OnResize subscribes to window resizes. The renderer's surface is always resized before
	// any subscriber runs. Zero-sized resizes are never delivered.
	//
	// Parameters:
	//   - callback: function receiving the new framebuffer width and height in pixels
	OnResize(callback func(width, height int))

	// Step runs exactly one frame synchronously: pending resizes, one tick, the passes and
	// the render callback.
	//
	// Returns:
	//   - bool: false if the engine is stopped and nothing ran
	Step() bool

	// Stop pauses frame production. No state is discarded.
	Stop()

	// Start resumes frame production after Stop.
	Start()

	// Playing reports whether frames are being produced.
	Playing() bool

	// Frames returns the number of frames rendered so far.
	Frames() uint64

	// Run starts the main engine loop (blocks until window closes). After a stall it may run up
	// to maxCatchUpTicks ticks before the next render, so tick-driven state such as scroll and
	// shader time advances several steps in one visible frame. Step always runs exactly one.
	Run()

	// Quit closes the window, which ends Run.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// The engine starts in the playing state with a 60Hz tick rate.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, passes, profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:             &sync.Mutex{},
		passes:         pass.NewSequence(),
		profiler:       profiler.NewProfiler(),
		engineTickRate: time.Second / 60,
		now:            time.Now,
	}
	e.playing.Store(true)

	for _, opt := range options {
		opt(e)
	}

	e.resizes = common.NewDebouncer[[2]int](e.resizeDebounce)
	if e.window != nil {
		e.window.SetResizeCallback(e.handleResize)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Passes() *pass.Sequence {
	return e.passes
}

func (e *engine) OnResize(callback func(width, height int)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resizeSubscribers = append(e.resizeSubscribers, callback)
}

// handleResize receives raw window resizes. Without a debounce they are dispatched at once.
func (e *engine) handleResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.mu.Lock()
	debounce := e.resizeDebounce
	if debounce > 0 {
		e.resizes.Push([2]int{width, height}, e.now())
	}
	e.mu.Unlock()

	if debounce <= 0 {
		e.dispatchResize(width, height)
	}
}

// pollResize releases a debounced resize once the window has been quiet long enough.
func (e *engine) pollResize() {
	e.mu.Lock()
	size, ok := e.resizes.Poll(e.now())
	e.mu.Unlock()
	if ok {
		e.dispatchResize(size[0], size[1])
	}
}

func (e *engine) dispatchResize(width, height int) {
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
	e.mu.Lock()
	subscribers := append([]func(int, int){}, e.resizeSubscribers...)
	e.mu.Unlock()
	for _, fn := range subscribers {
		fn(width, height)
	}
}

func (e *engine) Step() bool {
	e.pollResize()
	if !e.playing.Load() {
		return false
	}
	dt := float32(e.engineTickRate.Seconds())
	e.tick(dt)
	e.render(dt)
	return true
}

func (e *engine) tick(dt float32) {
	if e.tickCallback != nil {
		e.tickCallback(dt)
	}
}

// render executes the passes, the render callback and the profiler hook, then counts the frame.
func (e *engine) render(dt float32) {
	if e.renderer != nil {
		if err := e.passes.Execute(e.renderer); err != nil {
			log.Printf("[Engine] frame %d: %v", e.frames.Load(), err)
		}
	}

	if e.renderCallback != nil {
		e.renderCallback(dt)
	}

	if e.profilingEnabled && e.profiler != nil {
		if e.renderer != nil {
			e.profiler.RecordDraws(e.renderer.TakeDrawCount())
		}
		e.profiler.Tick()
	}
	e.frames.Add(1)
}

func (e *engine) Stop() {
	if e.playing.CompareAndSwap(true, false) {
		log.Printf("[Engine] stopped at frame %d", e.frames.Load())
	}
}

func (e *engine) Start() {
	if e.playing.CompareAndSwap(false, true) {
		log.Printf("[Engine] started at frame %d", e.frames.Load())
	}
}

func (e *engine) Playing() bool {
	return e.playing.Load()
}

func (e *engine) Frames() uint64 {
	return e.frames.Load()
}

// Run drives frames from the window's message loop with a fixed-timestep accumulator: every
// whole tick period that has elapsed runs one tick, and a frame is rendered after at least one
// tick ran. Stalls longer than maxCatchUpTicks periods are dropped rather than replayed.
func (e *engine) Run() {
	if e.window == nil {
		panic("engine: Run requires a window")
	}

	var accumulator time.Duration
	last := e.now()

	e.window.SetUpdateCallback(func() {
		frameStart := e.now()
		elapsed := frameStart.Sub(last)
		last = frameStart

		e.pollResize()
		if !e.playing.Load() {
			accumulator = 0
			return
		}

		accumulator += elapsed
		if limit := time.Duration(maxCatchUpTicks) * e.engineTickRate; accumulator > limit {
			accumulator = limit
		}

		dt := float32(e.engineTickRate.Seconds())
		ticks := 0
		for accumulator >= e.engineTickRate && e.playing.Load() {
			e.tick(dt)
			accumulator -= e.engineTickRate
			ticks++
		}
		if ticks > 0 {
			e.render(dt * float32(ticks))
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - e.now().Sub(frameStart); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	})

	e.window.ProcessMessages()
}

// Quit closes the window so ProcessMessages returns.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.playing.Store(false)
		if e.window != nil {
			if err := e.window.Close(); err != nil {
				log.Printf("[Engine] close window: %v", err)
			}
		}
	})
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	e.engineTickRate = time.Duration(float64(time.Second) / fps)
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
