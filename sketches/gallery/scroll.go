package gallery

import "github.com/Carmen-Shannon/oxy-sketch/common"

const (
	// scrollEase is the fraction of the remaining distance to the target covered each step.
	scrollEase float32 = 0.1
	// scrollDecay multiplies both the velocity and the target every step.
	scrollDecay float32 = 0.9
	// scrollTravel converts velocity into strip position per step.
	scrollTravel float32 = 0.01
)

// ScrollState integrates wheel input into the strip position with exponential smoothing.
// The zero value is at rest.
type ScrollState struct {
	// Target accumulates scaled wheel deltas and decays toward zero.
	Target float32
	// Velocity eases toward Target and also decays.
	Velocity float32
	// Position is the accumulated strip offset. It is never reset.
	Position float32
}

// Wheel adds a wheel movement to the target. The target is not clamped.
//
// Parameters:
//   - deltaY: the wheel delta in pixels, positive when scrolling down
//   - scale: the target change per pixel
func (s *ScrollState) Wheel(deltaY, scale float32) {
	s.Target += deltaY * scale
}

// Step advances the integration by one frame.
func (s *ScrollState) Step() {
	s.Velocity += (s.Target - s.Velocity) * scrollEase
	s.Velocity *= scrollDecay
	s.Target *= scrollDecay
	s.Position += s.Velocity * scrollTravel
}

// TileX returns the x position of tile index in a strip of count tiles spaced margin apart,
// shifted by position and wrapped so the strip repeats forever.
// The result always lies in [-2*margin, count*margin - 2*margin).
//
// Parameters:
//   - index: the tile index
//   - count: the number of tiles in the strip
//   - margin: the spacing between tile centres
//   - position: the accumulated scroll position
//
// Returns:
//   - float32: the tile's x coordinate in world units
func TileX(index, count int, margin, position float32) float32 {
	wholeWidth := float32(count) * margin
	return common.FloorMod(margin*float32(index)+position, wholeWidth) - 2*margin
}
