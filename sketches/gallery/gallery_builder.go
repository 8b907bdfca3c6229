package gallery

import (
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/shader"
)

// GalleryBuilderOption is a functional option for configuring a Gallery via NewGallery.
type GalleryBuilderOption func(*gallery)

// WithTiles sets the number of tiles in the strip. Values below 1 are ignored.
//
// Parameters:
//   - n: the tile count
//
// Returns:
//   - GalleryBuilderOption: a function that applies the tile count to a gallery
func WithTiles(n int) GalleryBuilderOption {
	return func(g *gallery) {
		if n > 0 {
			g.tileCount = n
		}
	}
}

// WithMargin sets the distance between tile centres. Values <= 0 are ignored.
//
// Parameters:
//   - margin: spacing in world units
//
// Returns:
//   - GalleryBuilderOption: a function that applies the margin to a gallery
func WithMargin(margin float32) GalleryBuilderOption {
	return func(g *gallery) {
		if margin > 0 {
			g.margin = margin
		}
	}
}

// WithWheelScale sets the scroll target change per wheel pixel.
func WithWheelScale(scale float32) GalleryBuilderOption {
	return func(g *gallery) {
		g.wheelScale = scale
	}
}

// WithProgress sets the initial effect strength.
func WithProgress(p float32) GalleryBuilderOption {
	return func(g *gallery) {
		g.progress = min(max(p, 0), 1)
	}
}

// WithTileShader replaces the shader the tiles and background are drawn with.
//
// Parameters:
//   - s: the shader
//
// Returns:
//   - GalleryBuilderOption: a function that applies the shader to a gallery
func WithTileShader(s shader.Shader) GalleryBuilderOption {
	return func(g *gallery) {
		g.tileShader = s
	}
}

// WithEffectShader replaces the distortion shader.
//
// Parameters:
//   - s: the shader
//
// Returns:
//   - GalleryBuilderOption: a function that applies the shader to a gallery
func WithEffectShader(s shader.Shader) GalleryBuilderOption {
	return func(g *gallery) {
		g.effectShader = s
	}
}
