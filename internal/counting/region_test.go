package counting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Hoozt/deepcraft-public-unit-library/internal/geometry"
)

func TestIsEntryInDirectionTable(t *testing.T) {
	cases := []struct {
		dir  InDirection
		side geometry.Edge
		want bool
	}{
		{InTopLeft, geometry.EdgeTop, true},
		{InTopLeft, geometry.EdgeLeft, true},
		{InTopLeft, geometry.EdgeRight, false},
		{InTopLeft, geometry.EdgeBottom, false},
		{InTopRight, geometry.EdgeRight, true},
		{InBottomLeft, geometry.EdgeBottom, true},
		{InBottomRight, geometry.EdgeBottom, true},
		{InBottomRight, geometry.EdgeRight, true},
		{InBottomRight, geometry.EdgeLeft, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, isEntryIn(c.dir, c.side))
	}
}

func TestEnteredStateRoundTripsWithEdge(t *testing.T) {
	for _, e := range []geometry.Edge{geometry.EdgeLeft, geometry.EdgeRight, geometry.EdgeTop, geometry.EdgeBottom} {
		state := enteredStateForEdge(e)
		back, ok := edgeForEnteredState(state)
		assert.True(t, ok)
		assert.Equal(t, e, back)
	}
}

func TestRegionStateNeverSkipsOutsideBetweenEntries(t *testing.T) {
	// Pinning the transition table directly: a true/true reading (still
	// inside) must leave an already-ENTERED state untouched rather than
	// resetting or reclassifying it.
	tr := &CounterTracker{RegionState: StateEnteredLeft}
	region := NewCountingRegion(0, 0, 1, 1, InTopLeft)
	tr.pushPosition(geometry.Point{X: 0.3, Y: 0.5})
	tr.pushPosition(geometry.Point{X: 0.5, Y: 0.5})
	inDelta, outDelta := detectCrossing(tr, region)
	assert.Equal(t, int32(0), inDelta)
	assert.Equal(t, int32(0), outDelta)
	assert.Equal(t, StateEnteredLeft, tr.RegionState)
}
