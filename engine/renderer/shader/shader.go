package shader

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrNoEntryPoint is returned when WGSL source lacks a @vertex or @fragment function.
var ErrNoEntryPoint = errors.New("shader: missing entry point")

// shader is the implementation of the Shader interface.
// A shader holds one WGSL module containing both the vertex and fragment stages.
type shader struct {
	mu *sync.RWMutex

	key     string
	path    string
	source  string
	version uint64

	vertexEntry   string
	fragmentEntry string
	bindings      []Binding
}

// Shader defines the interface for a parsed WGSL module with a vertex and a fragment entry
// point. Its source can be replaced at runtime; every accepted replacement bumps Version so
// pipeline caches keyed on it rebuild.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Path returns the file the source was read from, or "" for in-memory shaders.
	Path() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// VertexEntryPoint returns the name of the @vertex function.
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function.
	FragmentEntryPoint() string

	// Bindings returns the resource declarations in the source ordered by group and binding.
	//
	// Returns:
	//   - []Binding: a copy of the parsed declarations
	Bindings() []Binding

	// Version returns a counter incremented on every accepted source change. Starts at 1.
	Version() uint64

	// SetSource parses and installs new WGSL source. On error the previous source is kept.
	//
	// Parameters:
	//   - source: the WGSL source
	//
	// Returns:
	//   - error: ErrNoEntryPoint wrapped with the shader key when an entry point is missing
	SetSource(source string) error

	// Reload re-reads the source from Path. Shaders without a path are left unchanged.
	//
	// Returns:
	//   - error: an error if the file cannot be read or parsed
	Reload() error
}

var _ Shader = &shader{}

// Parse creates a Shader from in-memory WGSL source.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - source: the WGSL source containing @vertex and @fragment functions
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if an entry point is missing
func Parse(key, source string) (Shader, error) {
	s := &shader{mu: &sync.RWMutex{}, key: key}
	if err := s.SetSource(source); err != nil {
		return nil, err
	}
	return s, nil
}

// Load creates a Shader from a WGSL file. The path is remembered for Reload.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - path: the WGSL file to read
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if the file cannot be read or parsed
func Load(key, path string) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to read source file %q: %w", path, err)
	}
	s := &shader{mu: &sync.RWMutex{}, key: key, path: path}
	if err := s.SetSource(string(data)); err != nil {
		return nil, err
	}
	return s, nil
}

// NewShader creates a Shader from in-memory WGSL source and panics if it is invalid.
// Intended for sources compiled into the binary.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - source: the WGSL source
//
// Returns:
//   - Shader: the parsed shader
func NewShader(key, source string) Shader {
	s, err := Parse(key, source)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Path() string {
	return s.path
}

func (s *shader) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vertexEntry
}

func (s *shader) FragmentEntryPoint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fragmentEntry
}

func (s *shader) Bindings() []Binding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Binding(nil), s.bindings...)
}

func (s *shader) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *shader) SetSource(source string) error {
	cleaned := stripComments(source)
	vs := parseEntryPoint(cleaned, vertexEntryRegex)
	if vs == "" {
		return fmt.Errorf("%w: %s has no @vertex function", ErrNoEntryPoint, s.key)
	}
	fs := parseEntryPoint(cleaned, fragmentEntryRegex)
	if fs == "" {
		return fmt.Errorf("%w: %s has no @fragment function", ErrNoEntryPoint, s.key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = source
	s.vertexEntry = vs
	s.fragmentEntry = fs
	s.bindings = parseBindings(cleaned)
	s.version++
	return nil
}

func (s *shader) Reload() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("shader: failed to read source file %q: %w", s.path, err)
	}
	return s.SetSource(string(data))
}
