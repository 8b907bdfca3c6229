// Package texture describes GPU textures and offscreen render targets independently of the
// backend that owns them.
package texture

import (
	"fmt"
	"sync/atomic"
)

var nextID atomic.Uint64

// FilterMode selects how a texture is sampled between texels.
type FilterMode int

const (
	// FilterLinear blends neighbouring texels.
	FilterLinear FilterMode = iota

	// FilterNearest picks the closest texel.
	FilterNearest
)

// String returns the filter name.
func (f FilterMode) String() string {
	switch f {
	case FilterNearest:
		return "nearest"
	default:
		return "linear"
	}
}

// Texture is a sampled 2D texture held by a renderer backend.
type Texture interface {
	// ID returns a process-unique identifier used to key bind group caches.
	ID() uint64

	// Label returns the debug label.
	Label() string

	// Width returns the width in pixels.
	Width() uint32

	// Height returns the height in pixels.
	Height() uint32
}

// RenderTarget is a texture that can also be rendered into by a pass.
type RenderTarget interface {
	Texture

	// Filter returns the filter used when the target is sampled.
	Filter() FilterMode
}

// Info is the backend-independent part of a texture. Backends embed it in their own texture
// types; tests use it directly as a stand-in.
type Info struct {
	id     uint64
	label  string
	width  uint32
	height uint32
	filter FilterMode
}

var _ RenderTarget = &Info{}

// NewInfo allocates texture metadata with a fresh ID.
//
// Parameters:
//   - label: debug label
//   - width, height: size in pixels
//   - filter: sampling filter
//
// Returns:
//   - *Info: the metadata
func NewInfo(label string, width, height uint32, filter FilterMode) *Info {
	return &Info{
		id:     nextID.Add(1),
		label:  label,
		width:  width,
		height: height,
		filter: filter,
	}
}

func (i *Info) ID() uint64 {
	return i.id
}

func (i *Info) Label() string {
	return i.label
}

func (i *Info) Width() uint32 {
	return i.width
}

func (i *Info) Height() uint32 {
	return i.height
}

func (i *Info) Filter() FilterMode {
	return i.filter
}

func (i *Info) String() string {
	return fmt.Sprintf("%s#%d(%dx%d)", i.label, i.id, i.width, i.height)
}
