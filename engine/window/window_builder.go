package window

// WindowBuilderOption configures a window before NewWindow opens it.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the title bar text.
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the requested window size in screen units. The framebuffer may be larger on
// high-DPI displays; Width and Height report the framebuffer. Non-positive sizes are ignored.
//
// Parameters:
//   - width, height: the requested size
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 && height > 0 {
			w.width, w.height = width, height
		}
	}
}

// WithSizeLimits bounds interactive resizing. A limit of glfw.DontCare (-1) leaves that edge
// unbounded.
//
// Parameters:
//   - minWidth, minHeight: the smallest size
//   - maxWidth, maxHeight: the largest size
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth, w.minHeight = minWidth, minHeight
		w.maxWidth, w.maxHeight = maxWidth, maxHeight
	}
}

// WithScrollLineHeight sets the pixels reported per wheel notch. Values <= 0 keep
// DefaultScrollLineHeight.
func WithScrollLineHeight(pixels float32) WindowBuilderOption {
	return func(w *engineWindow) {
		if pixels > 0 {
			w.scrollLineHeight = pixels
		}
	}
}
