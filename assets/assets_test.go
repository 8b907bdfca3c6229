package assets

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-sketch/engine/pass"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedShadersParse(t *testing.T) {
	for _, key := range []string{ShaderBasic, ShaderDistortion, ShaderOrbitPlane} {
		t.Run(key, func(t *testing.T) {
			s, err := Shader(key)
			require.NoError(t, err)
			assert.Equal(t, "vs_main", s.VertexEntryPoint())
			assert.Equal(t, "fs_main", s.FragmentEntryPoint())

			bindings := s.Bindings()
			require.Len(t, bindings, 3)
			assert.Equal(t, "uniform", bindings[0].AddressSpace)
			assert.Equal(t, "DrawUniform", bindings[0].Type)
			assert.Equal(t, "texture_2d<f32>", bindings[1].Type)
			assert.Equal(t, "sampler", bindings[2].Type)
		})
	}
}

func TestShadersDeclareDrawUniformLayout(t *testing.T) {
	// Every shader's uniform block must match the Go-side marshalling.
	err := fs.WalkDir(ShaderFS(), ".", func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err)
		if d.IsDir() {
			return nil
		}
		src, err := fs.ReadFile(ShaderFS(), path)
		require.NoError(t, err)
		assert.Contains(t, string(src), "material: MaterialUniform", path)
		assert.Contains(t, string(src), "params: vec4<f32>", path)
		return nil
	})
	require.NoError(t, err)
	assert.Contains(t, pass.GPUDrawUniformSource, "view_proj: mat4x4<f32>")
}

func TestUnknownShader(t *testing.T) {
	_, err := Shader("missing")
	assert.Error(t, err)
}

func TestLoadShaderFromDir(t *testing.T) {
	s, err := LoadShader("", ShaderBasic)
	require.NoError(t, err)
	assert.Empty(t, s.Path())

	dir := t.TempDir()
	src, err := fs.ReadFile(ShaderFS(), ShaderOrbitPlane+".wgsl")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ShaderOrbitPlane+".wgsl"), src, 0o644))

	s, err = LoadShader(dir, ShaderOrbitPlane)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "orbit_plane.wgsl"), s.Path())
	assert.Equal(t, string(src), s.Source())

	_, err = LoadShader(dir, ShaderBasic)
	assert.Error(t, err)
}

func TestWatchReloadsFileBackedShaders(t *testing.T) {
	embedded, err := Shader(ShaderBasic)
	require.NoError(t, err)
	w, err := Watch(context.Background(), embedded)
	require.NoError(t, err)
	assert.Nil(t, w)

	dir := t.TempDir()
	path := filepath.Join(dir, ShaderDistortion+".wgsl")
	src, err := fs.ReadFile(ShaderFS(), ShaderDistortion+".wgsl")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, src, 0o644))

	s, err := LoadShader(dir, ShaderDistortion)
	require.NoError(t, err)
	version := s.Version()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w, err = Watch(ctx, embedded, s)
	require.NoError(t, err)
	require.NotNil(t, w)

	edited := strings.Replace(string(src), "fn fs_main", "fn fs_edited", 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o644))
	assert.Eventually(t, func() bool {
		return s.FragmentEntryPoint() == "fs_edited" && s.Version() > version
	}, 5*time.Second, 10*time.Millisecond)
}
