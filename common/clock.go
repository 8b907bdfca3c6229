package common

// DefaultClockStep is the amount of shader time added per frame.
const DefaultClockStep float32 = 0.05

// Clock is a frame-driven time source. It advances by a fixed step each frame regardless of
// wall time, so shader animation speed follows the frame rate.
type Clock struct {
	time float32
	step float32
}

// NewClock creates a clock starting at zero.
//
// Parameters:
//   - step: the time added per Advance call (DefaultClockStep when <= 0)
//
// Returns:
//   - *Clock: the clock
func NewClock(step float32) *Clock {
	if step <= 0 {
		step = DefaultClockStep
	}
	return &Clock{step: step}
}

// Advance moves the clock forward one step and returns the new time.
func (c *Clock) Advance() float32 {
	c.time += c.step
	return c.time
}

// Time returns the current time without advancing.
func (c *Clock) Time() float32 {
	return c.time
}

// Step returns the per-frame increment.
func (c *Clock) Step() float32 {
	return c.step
}
