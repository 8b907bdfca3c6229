package texture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInfoAssignsUniqueIDs(t *testing.T) {
	a := NewInfo("a", 4, 2, FilterNearest)
	b := NewInfo("b", 4, 2, FilterLinear)

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, uint32(4), a.Width())
	assert.Equal(t, uint32(2), a.Height())
	assert.Equal(t, FilterNearest, a.Filter())
	assert.Equal(t, "nearest", a.Filter().String())
	assert.Equal(t, "linear", b.Filter().String())
	assert.Contains(t, a.String(), "a#")
}
