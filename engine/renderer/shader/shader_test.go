package shader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSource = `
struct Uniforms {
    viewProj: mat4x4<f32>,
};

@group(0) @binding(2) var mapSampler: sampler;
@group(0) @binding(0) var<uniform> u: Uniforms;
@group(0) @binding(1) var mapTexture: texture_2d<f32>;

// @vertex fn commented_out() {}
@vertex
fn vs_main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {
    return u.viewProj * vec4<f32>(position, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`

func TestParseFindsEntryPointsAndBindings(t *testing.T) {
	s, err := Parse("basic", testSource)
	require.NoError(t, err)

	assert.Equal(t, "basic", s.Key())
	assert.Equal(t, "vs_main", s.VertexEntryPoint())
	assert.Equal(t, "fs_main", s.FragmentEntryPoint())
	assert.Equal(t, uint64(1), s.Version())
	assert.Empty(t, s.Path())

	b := s.Bindings()
	require.Len(t, b, 3)
	assert.Equal(t, Binding{Group: 0, Binding: 0, AddressSpace: "uniform", Name: "u", Type: "Uniforms"}, b[0])
	assert.Equal(t, "mapTexture", b[1].Name)
	assert.Equal(t, "texture_2d<f32>", b[1].Type)
	assert.Equal(t, "sampler", b[2].Type)
}

func TestParseRejectsMissingEntryPoints(t *testing.T) {
	_, err := Parse("no-frag", "@vertex fn vs() {}")
	assert.ErrorIs(t, err, ErrNoEntryPoint)

	_, err = Parse("commented", "// @vertex fn vs() {}\n@fragment fn fs() {}")
	assert.ErrorIs(t, err, ErrNoEntryPoint)

	assert.Panics(t, func() { NewShader("bad", "") })
}

func TestSetSourceKeepsPreviousOnError(t *testing.T) {
	s := NewShader("basic", testSource)

	require.Error(t, s.SetSource("fn nothing() {}"))
	assert.Equal(t, uint64(1), s.Version())
	assert.Equal(t, testSource, s.Source())

	require.NoError(t, s.SetSource("@vertex fn a() {} @fragment fn b() {}"))
	assert.Equal(t, uint64(2), s.Version())
	assert.Equal(t, "a", s.VertexEntryPoint())
}

func TestLoadAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plane.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(testSource), 0o644))

	s, err := Load("plane", path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())

	require.NoError(t, os.WriteFile(path, []byte("@vertex fn v2() {} @fragment fn f2() {}"), 0o644))
	require.NoError(t, s.Reload())
	assert.Equal(t, "v2", s.VertexEntryPoint())
	assert.Equal(t, uint64(2), s.Version())

	_, err = Load("missing", filepath.Join(t.TempDir(), "nope.wgsl"))
	assert.Error(t, err)
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plane.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(testSource), 0o644))
	s, err := Load("plane", path)
	require.NoError(t, err)

	w, err := NewWatcher(s, NewShader("memory", testSource))
	require.NoError(t, err)
	succeeded := make(chan struct{}, 8)
	// A write may be observed mid-truncate; only successful reloads are counted.
	w.OnReload = func(_ Shader, err error) {
		if err == nil {
			succeeded <- struct{}{}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("@vertex fn hot() {} @fragment fn f() {}"), 0o644))

	select {
	case <-succeeded:
	case <-time.After(5 * time.Second):
		t.Fatal("shader was not reloaded")
	}
	assert.Eventually(t, func() bool { return s.VertexEntryPoint() == "hot" }, 5*time.Second, 10*time.Millisecond)
}
