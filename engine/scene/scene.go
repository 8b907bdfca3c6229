package scene

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-sketch/common"
	"github.com/Carmen-Shannon/oxy-sketch/engine/mesh"
)

// Scene is an ordered collection of meshes with a clear colour. Meshes are drawn in insertion
// order, so a background added first is painted beneath everything added later.
// Scenes can be toggled via the Active flag to skip them without removing their passes.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// ClearColor returns the colour a pass clears to before drawing this scene.
	ClearColor() common.Color

	// SetClearColor sets the clear colour.
	//
	// Parameters:
	//   - c: the RGBA clear colour
	SetClearColor(c common.Color)

	// Add appends meshes to the draw order. A mesh already in the scene is not added twice.
	//
	// Parameters:
	//   - meshes: the meshes to add
	Add(meshes ...mesh.Mesh)

	// Get retrieves a mesh by its ID.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the mesh's unique ID
	//
	// Returns:
	//   - mesh.Mesh: the mesh or nil
	Get(id uint64) mesh.Mesh

	// Remove removes a mesh by ID, preserving the order of the rest.
	//
	// Parameters:
	//   - id: the mesh's unique ID
	//
	// Returns:
	//   - bool: true if the mesh was present
	Remove(id uint64) bool

	// Meshes returns a snapshot of the meshes in draw order.
	//
	// Returns:
	//   - []mesh.Mesh: the meshes, safe to iterate while the scene changes
	Meshes() []mesh.Mesh

	// Count returns the number of meshes in the scene.
	Count() int

	// Clear removes all meshes from the scene.
	// Does not release GPU resources.
	Clear()
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu         *sync.RWMutex
	name       string
	active     bool
	clearColor common.Color
	meshes     []mesh.Mesh
	index      map[uint64]int
}

var _ Scene = &scene{}

// NewScene creates an active, empty scene that clears to opaque black.
//
// Parameters:
//   - name: the scene's identifier
//   - options: functional options
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:         &sync.RWMutex{},
		name:       name,
		active:     true,
		clearColor: common.Color{A: 1},
		index:      make(map[uint64]int),
	}

	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) ClearColor() common.Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clearColor
}

func (s *scene) SetClearColor(c common.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearColor = c
}

func (s *scene) Add(meshes ...mesh.Mesh) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(meshes...)
}

// add appends meshes. Caller must hold the write lock.
func (s *scene) add(meshes ...mesh.Mesh) {
	for _, m := range meshes {
		if m == nil {
			continue
		}
		if _, ok := s.index[m.ID()]; ok {
			continue
		}
		s.index[m.ID()] = len(s.meshes)
		s.meshes = append(s.meshes, m)
	}
}

func (s *scene) Get(id uint64) mesh.Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i, ok := s.index[id]; ok {
		return s.meshes[i]
	}
	return nil
}

func (s *scene) Remove(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.meshes = append(s.meshes[:i], s.meshes[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.meshes); j++ {
		s.index[s.meshes[j].ID()] = j
	}
	return true
}

func (s *scene) Meshes() []mesh.Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]mesh.Mesh, len(s.meshes))
	copy(out, s.meshes)
	return out
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meshes)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meshes = nil
	s.index = make(map[uint64]int)
}
