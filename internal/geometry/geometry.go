// Package geometry implements the axis-aligned rectangle primitives
// shared by the tracker's association engine and the counter's crossing
// detector: IoU of two center-form boxes, inclusive point-in-rectangle
// membership, and nearest-edge classification with a fixed tie-break
// order.
package geometry

import "math"

// Box is an axis-aligned rectangle in center form: (x, y) is the
// center, (w, h) the full width/height, all normalized to [0,1].
type Box struct {
	X, Y, W, H float32
}

// corners returns the box's (left, top, right, bottom) edges.
func (b Box) corners() (left, top, right, bottom float32) {
	return b.X - b.W/2, b.Y - b.H/2, b.X + b.W/2, b.Y + b.H/2
}

// IoU returns the intersection-over-union of two center-form boxes.
// Degenerates to 0 for non-overlapping or non-positive-area boxes.
func IoU(a, b Box) float32 {
	al, at, ar, ab := a.corners()
	bl, bt, br, bb := b.corners()

	interLeft := maxf(al, bl)
	interTop := maxf(at, bt)
	interRight := minf(ar, br)
	interBottom := minf(ab, bb)

	interW := interRight - interLeft
	interH := interBottom - interTop
	if interW <= 0 || interH <= 0 {
		return 0
	}
	inter := interW * interH

	areaA := a.W * a.H
	areaB := b.W * b.H
	union := areaA + areaB - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// Point is a normalized (x, y) image coordinate.
type Point struct {
	X, Y float32
}

// Rect is an axis-aligned rectangle given by precomputed bounds, used
// for the counting region (not a detection box — no center form here).
type Rect struct {
	MinX, MaxX, MinY, MaxY float32
}

// NewRect derives axis-aligned bounds from two arbitrary corners.
func NewRect(x1, y1, x2, y2 float32) Rect {
	return Rect{
		MinX: minf(x1, x2),
		MaxX: maxf(x1, x2),
		MinY: minf(y1, y2),
		MaxY: maxf(y1, y2),
	}
}

// Contains reports whether p lies within r, inclusive of all edges.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Edge names the four sides of a rectangle.
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "LEFT"
	case EdgeRight:
		return "RIGHT"
	case EdgeTop:
		return "TOP"
	case EdgeBottom:
		return "BOTTOM"
	default:
		return "UNKNOWN"
	}
}

// Opposite returns the edge directly across the rectangle from e.
func (e Edge) Opposite() Edge {
	switch e {
	case EdgeLeft:
		return EdgeRight
	case EdgeRight:
		return EdgeLeft
	case EdgeTop:
		return EdgeBottom
	case EdgeBottom:
		return EdgeTop
	default:
		return e
	}
}

// edgeTieEpsilon is how close two edge distances must be to count as a
// tie, so float32 rounding of the normalized coordinates does not break
// an exact geometric tie.
const edgeTieEpsilon = 1e-6

// NearestEdge returns the edge of r closest to p. Ties (distances within
// edgeTieEpsilon of each other) resolve in the fixed order LEFT, RIGHT,
// TOP, BOTTOM — a later edge wins only when it is closer by more than
// edgeTieEpsilon. This determinism matters for the crossing state
// machine and must not be reordered.
func NearestEdge(r Rect, p Point) Edge {
	distances := [4]float32{
		EdgeLeft:   absf(p.X - r.MinX),
		EdgeRight:  absf(p.X - r.MaxX),
		EdgeTop:    absf(p.Y - r.MinY),
		EdgeBottom: absf(p.Y - r.MaxY),
	}

	best := EdgeLeft
	for _, e := range [4]Edge{EdgeLeft, EdgeRight, EdgeTop, EdgeBottom} {
		if distances[e] < distances[best]-edgeTieEpsilon {
			best = e
		}
	}
	return best
}

func maxf(a, b float32) float32 {
	return float32(math.Max(float64(a), float64(b)))
}

func minf(a, b float32) float32 {
	return float32(math.Min(float64(a), float64(b)))
}

func absf(a float32) float32 {
	return float32(math.Abs(float64(a)))
}
