package loader

import (
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithRenderer is an option builder that sets the Renderer used by Upload.
//
// Parameters:
//   - r: the renderer instance
//
// Returns:
//   - LoaderBuilderOption: a function that applies the renderer option to a loader
func WithRenderer(r renderer.Renderer) LoaderBuilderOption {
	return func(l *loader) {
		l.renderer = r
	}
}

// WithWorkers sets the maximum number of images decoded concurrently.
// Values below 1 keep the default of one worker per CPU.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithMaxDimension downscales images whose longest side exceeds px. 0 disables downscaling.
//
// Parameters:
//   - px: the maximum width or height in pixels
//
// Returns:
//   - LoaderBuilderOption: a function that applies the max dimension option to a loader
func WithMaxDimension(px int) LoaderBuilderOption {
	return func(l *loader) {
		l.maxDimension = max(px, 0)
	}
}

// WithImage pre-populates the cache with an image under its path.
func WithImage(img Image) LoaderBuilderOption {
	return func(l *loader) {
		l.cache[img.Path] = img
	}
}
