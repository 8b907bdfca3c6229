package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrollDeltaFollowsBrowserConvention(t *testing.T) {
	dx, dy := ScrollDelta(0, 1, DefaultScrollLineHeight)
	assert.Equal(t, float32(0), dx)
	assert.Equal(t, float32(-100), dy, "wheel up scrolls content back")

	dx, dy = ScrollDelta(0.5, -2, 40)
	assert.Equal(t, float32(20), dx)
	assert.Equal(t, float32(80), dy)
}

func TestBuilderOptions(t *testing.T) {
	w := &engineWindow{settings: settings{width: 1280, height: 720, scrollLineHeight: DefaultScrollLineHeight}}
	for _, opt := range []WindowBuilderOption{
		WithTitle("gallery"),
		WithSize(0, 600),
		WithSizeLimits(320, 200, 1920, 1080),
		WithScrollLineHeight(-5),
	} {
		opt(w)
	}
	assert.Equal(t, "gallery", w.title)
	assert.Equal(t, 1280, w.Width(), "non-positive size is ignored")
	assert.Equal(t, [4]int{320, 200, 1920, 1080}, [4]int{w.minWidth, w.minHeight, w.maxWidth, w.maxHeight})
	assert.Equal(t, DefaultScrollLineHeight, w.scrollLineHeight)

	WithSize(800, 600)(w)
	WithScrollLineHeight(40)(w)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
	assert.Equal(t, float32(40), w.scrollLineHeight)
}

func TestUnopenedWindow(t *testing.T) {
	w := &engineWindow{}
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())

	var got [2]int
	w.SetResizeCallback(func(width, height int) { got = [2]int{width, height} })
	w.resized(640, 480)
	assert.Equal(t, [2]int{640, 480}, got)
	assert.Equal(t, 640, w.Width())

	// Without a native window the message loop returns immediately.
	w.ProcessMessages()
}
