// package common contains plain data types and helpers shared across the engine and the sketches.
// They are not interface-wrapped structs.
package common

import (
	"fmt"
	"image"
	"image/draw"
)

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
type TextureStagingData struct {
	// Pixels is the RGBA8 pixel data, 4 bytes per pixel, row-major from the top-left corner.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// Aspect returns height divided by width, the ratio used to size a unit-wide plane showing this texture.
//
// Returns:
//   - float32: height / width, or 1 when the width is zero
func (t TextureStagingData) Aspect() float32 {
	if t.Width == 0 {
		return 1
	}
	return float32(t.Height) / float32(t.Width)
}

// Validate checks that the pixel buffer matches the declared dimensions.
//
// Returns:
//   - error: an error if the dimensions are zero or the buffer length is wrong
func (t TextureStagingData) Validate() error {
	if t.Width == 0 || t.Height == 0 {
		return fmt.Errorf("texture has zero size %dx%d", t.Width, t.Height)
	}
	if want := int(t.Width) * int(t.Height) * 4; len(t.Pixels) != want {
		return fmt.Errorf("texture pixel buffer has %d bytes, want %d for %dx%d", len(t.Pixels), want, t.Width, t.Height)
	}
	return nil
}

// StagingFromImage converts any image into tightly packed RGBA staging data.
//
// Parameters:
//   - img: the decoded image
//
// Returns:
//   - TextureStagingData: the RGBA pixels and dimensions
func StagingFromImage(img image.Image) TextureStagingData {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || bounds.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}
}

// Color is a linear RGBA colour with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Vec4 returns the colour as a vec4 suitable for a uniform block.
func (c Color) Vec4() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

var (
	// Transparent is fully transparent black, the clear colour of an alpha-enabled canvas.
	Transparent = Color{0, 0, 0, 0}
	// White is opaque white, the neutral tint for textured materials.
	White = Color{1, 1, 1, 1}
)
