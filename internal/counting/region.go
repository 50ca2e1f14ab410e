package counting

import "github.com/Hoozt/deepcraft-public-unit-library/internal/geometry"

// InDirection names which two adjacent edges of a CountingRegion count
// as an "IN" entry, per spec.md §4.4.1's direction table.
type InDirection int

const (
	InTopLeft InDirection = iota
	InTopRight
	InBottomLeft
	InBottomRight
)

// CountingRegion is the rectangle crossing detection runs against, with
// its entry-direction convention.
type CountingRegion struct {
	Rect        geometry.Rect
	InDirection InDirection
}

// NewCountingRegion builds a region from its normalized corners.
func NewCountingRegion(x1, y1, x2, y2 float32, dir InDirection) CountingRegion {
	return CountingRegion{Rect: geometry.NewRect(x1, y1, x2, y2), InDirection: dir}
}

// isEntryIn reports whether a traversal entering through side counts as
// IN under this region's direction convention.
func isEntryIn(dir InDirection, side geometry.Edge) bool {
	switch dir {
	case InTopLeft:
		return side == geometry.EdgeTop || side == geometry.EdgeLeft
	case InTopRight:
		return side == geometry.EdgeTop || side == geometry.EdgeRight
	case InBottomLeft:
		return side == geometry.EdgeBottom || side == geometry.EdgeLeft
	case InBottomRight:
		return side == geometry.EdgeBottom || side == geometry.EdgeRight
	default:
		return false
	}
}
