package render

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hoozt/deepcraft-public-unit-library/internal/geometry"
)

func TestColorForIDWrapsAroundPaletteSize(t *testing.T) {
	assert.Equal(t, Palette[1], ColorForID(1))
	assert.Equal(t, Palette[0], ColorForID(len(Palette)))
	assert.Equal(t, Palette[5], ColorForID(-5))
}

func TestDrawBoxSkipsNonPositiveDimensions(t *testing.T) {
	f := NewFrame(100, 100)
	before := append([]uint8(nil), f.Pix...)

	DrawBox(f, 0.5, 0.5, 0, 0.2, 2, color.RGBA{R: 255, A: 255})
	assert.Equal(t, before, f.Pix)

	DrawBox(f, 0.5, 0.5, 0.2, 0.2, 0, color.RGBA{R: 255, A: 255})
	assert.Equal(t, before, f.Pix)
}

func TestDrawBoxPaintsWithinBounds(t *testing.T) {
	f := NewFrame(100, 100)
	DrawBox(f, 0.5, 0.5, 0.4, 0.4, 2, color.RGBA{R: 255, A: 255})

	var painted bool
	for _, v := range f.Pix {
		if v != 0 {
			painted = true
			break
		}
	}
	assert.True(t, painted)
}

func TestDrawLineZeroLengthIsNoOp(t *testing.T) {
	f := NewFrame(50, 50)
	before := append([]uint8(nil), f.Pix...)
	DrawLine(f, 0.5, 0.5, 0.5, 0.5, 1, color.RGBA{G: 255, A: 255})
	assert.Equal(t, before, f.Pix)
}

func TestMeasureTextIsPositiveForNonEmptyString(t *testing.T) {
	assert.Greater(t, MeasureText("42"), 0)
	assert.Equal(t, 0, MeasureText(""))
}

func TestTrailSetUpdatePruneAndCapacity(t *testing.T) {
	ts := NewTrailSet()
	for i := 0; i < TrailCapacity+5; i++ {
		ts.Update(1, geometry.Point{X: float32(i) / 100, Y: 0})
	}
	tr := ts.trails[1]
	require.Equal(t, TrailCapacity, tr.Len)
	// Oldest positions should have been evicted; tail holds the most
	// recent push.
	assert.InDelta(t, float32(14)/100, tr.Positions[TrailCapacity-1].X, 1e-6)

	ts.Prune(map[int]bool{})
	_, ok := ts.trails[1]
	assert.False(t, ok)
}

func TestWriteSnapshotProducesNonEmptyOutput(t *testing.T) {
	f := NewFrame(16, 16)
	DrawBox(f, 0.5, 0.5, 0.5, 0.5, 1, color.RGBA{B: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, f))
	assert.Greater(t, buf.Len(), 0)
}
