package renderer

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestPickSurfaceFormat(t *testing.T) {
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, pickSurfaceFormat([]wgpu.TextureFormat{
		wgpu.TextureFormatBGRA8UnormSrgb,
		wgpu.TextureFormatBGRA8Unorm,
	}))
	assert.Equal(t, wgpu.TextureFormatRGBA16Float, pickSurfaceFormat([]wgpu.TextureFormat{
		wgpu.TextureFormatRGBA16Float,
	}))
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, pickSurfaceFormat(nil))
}
