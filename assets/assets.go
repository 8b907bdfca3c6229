// Package assets embeds the WGSL shaders the sketches draw with.
package assets

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/shader"
)

// Shader keys, also the file names under shaders/ without the .wgsl suffix.
const (
	ShaderBasic      = "basic"
	ShaderDistortion = "distortion"
	ShaderOrbitPlane = "orbit_plane"
)

//go:embed shaders/*.wgsl
var shaderFS embed.FS

// ShaderFS returns the embedded shaders directory.
func ShaderFS() fs.FS {
	sub, err := fs.Sub(shaderFS, "shaders")
	if err != nil {
		panic(err)
	}
	return sub
}

// Shader parses an embedded shader by key.
//
// Parameters:
//   - key: one of the Shader* constants
//
// Returns:
//   - shader.Shader: the parsed shader
//   - error: an error if the key is unknown or the source has no entry points
func Shader(key string) (shader.Shader, error) {
	src, err := fs.ReadFile(shaderFS, "shaders/"+key+".wgsl")
	if err != nil {
		return nil, fmt.Errorf("assets: shader %q: %w", key, err)
	}
	return shader.Parse(key, string(src))
}

// LoadShader reads the shader from dir when dir is set, so it can be hot reloaded, and falls
// back to the embedded copy otherwise.
//
// Parameters:
//   - dir: directory holding <key>.wgsl, or "" for the embedded source
//   - key: one of the Shader* constants
//
// Returns:
//   - shader.Shader: the parsed shader
//   - error: an error if the file cannot be read or parsed
func LoadShader(dir, key string) (shader.Shader, error) {
	if dir == "" {
		return Shader(key)
	}
	return shader.Load(key, filepath.Join(dir, key+".wgsl"))
}

// Watch hot reloads the file-backed shaders among shaders until ctx is cancelled.
// Embedded shaders are skipped; when none are file-backed no watcher is started.
//
// Parameters:
//   - ctx: stops the watcher when cancelled
//   - shaders: the shaders to watch
//
// Returns:
//   - *shader.Watcher: the running watcher, or nil when there is nothing to watch
//   - error: an error if the OS watcher cannot be created
func Watch(ctx context.Context, shaders ...shader.Shader) (*shader.Watcher, error) {
	var files []shader.Shader
	for _, s := range shaders {
		if s != nil && s.Path() != "" {
			files = append(files, s)
		}
	}
	if len(files) == 0 {
		return nil, nil
	}

	w, err := shader.NewWatcher(files...)
	if err != nil {
		return nil, err
	}
	go func() {
		w.Run(ctx)
		w.Close()
	}()
	return w, nil
}
