package common

// DefaultImageAspect is the height/width ratio of the source photographs (853x1280).
const DefaultImageAspect float32 = 853.0 / 1280.0

// CoverFit computes the UV scale factors that make an image with the given aspect cover a
// viewport of width x height without distortion, the same way CSS background-size: cover does.
// The factors are packed into the z/w components of a resolution uniform.
//
// Parameters:
//   - width, height: viewport size in pixels (must be > 0)
//   - imageAspect: image height divided by image width
//
// Returns:
//   - a1: horizontal UV scale
//   - a2: vertical UV scale
func CoverFit(width, height int, imageAspect float32) (a1, a2 float32) {
	w, h := float32(width), float32(height)
	if h/w > imageAspect {
		return (w / h) * imageAspect, 1
	}
	return 1, (h / w) / imageAspect
}

// Resolution returns the vec4 (width, height, a1, a2) consumed by the sketch shaders.
//
// Parameters:
//   - width, height: viewport size in pixels (must be > 0)
//   - imageAspect: image height divided by image width
//
// Returns:
//   - [4]float32: the resolution uniform value
func Resolution(width, height int, imageAspect float32) [4]float32 {
	a1, a2 := CoverFit(width, height, imageAspect)
	return [4]float32{float32(width), float32(height), a1, a2}
}
