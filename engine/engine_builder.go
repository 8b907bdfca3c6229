package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-sketch/engine/pass"
	"github.com/Carmen-Shannon/oxy-sketch/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sketch/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler, e.g. to change its interval or log sink.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithTickRate sets the engine tick rate in frames per second.
// The tick callback will be called at this rate for logic updates.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetTickRate(fps)
	}
}

// WithWindow sets the window whose message loop drives Run and whose resizes are fanned out.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer the pass sequence draws with. Its surface is resized before
// any OnResize subscriber runs.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithPasses appends passes to the frame's pass sequence during engine construction.
// Passes are executed in the order given.
//
// Parameters:
//   - passes: the passes to run each frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPasses(passes ...*pass.Pass) EngineBuilderOption {
	return func(e *engine) {
		e.passes.Add(passes...)
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetRenderFrameLimit(fps)
	}
}

// WithResizeDebounce coalesces bursts of window resizes, delivering only the last size once
// the window has been quiet for d. Zero (the default) delivers every resize immediately.
//
// Parameters:
//   - d: the quiet period
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithResizeDebounce(d time.Duration) EngineBuilderOption {
	return func(e *engine) {
		if d < 0 {
			d = 0
		}
		e.resizeDebounce = d
	}
}

// WithStopped creates the engine in the stopped state.
func WithStopped() EngineBuilderOption {
	return func(e *engine) {
		e.playing.Store(false)
	}
}
