package render

import (
	"image"
	"image/color"
	"math"
)

// Frame is the caller-owned pixel buffer the drawing helpers paint
// onto. A plain *image.RGBA, not a package-level global, per spec.md
// §9's requirement that the display component's process-wide state
// move into caller-owned buffers.
type Frame = *image.RGBA

// NewFrame allocates a blank frame of the given pixel dimensions.
func NewFrame(width, height int) Frame {
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

// DrawBox draws an axis-aligned rectangle outline in normalized
// [0,1] coordinates (center-form: cx, cy, w, h) scaled to the frame's
// pixel dimensions, at the given stroke thickness in pixels.
//
// Guards against zero-area boxes and non-positive thickness, mirroring
// the divide-by-zero guards spec.md §7 requires of the drawing
// collaborators.
func DrawBox(f Frame, cx, cy, w, h float32, thickness int, c color.RGBA) {
	if w <= 0 || h <= 0 || thickness <= 0 {
		return
	}
	bounds := f.Bounds()
	fw, fh := float32(bounds.Dx()), float32(bounds.Dy())

	x1 := int(math.Round(float64((cx - w/2) * fw)))
	y1 := int(math.Round(float64((cy - h/2) * fh)))
	x2 := int(math.Round(float64((cx + w/2) * fw)))
	y2 := int(math.Round(float64((cy + h/2) * fh)))

	drawHLine(f, x1, x2, y1, thickness, c)
	drawHLine(f, x1, x2, y2-thickness, thickness, c)
	drawVLine(f, y1, y2, x1, thickness, c)
	drawVLine(f, y1, y2, x2-thickness, thickness, c)
}

// DrawLine draws a straight line segment between two normalized
// points at the given stroke thickness, using a simple DDA walk
// scaled by pixel length — adequate for the short trail/edge segments
// this package renders, not a general rasterizer.
func DrawLine(f Frame, x1, y1, x2, y2 float32, thickness int, c color.RGBA) {
	if thickness <= 0 {
		return
	}
	bounds := f.Bounds()
	fw, fh := float32(bounds.Dx()), float32(bounds.Dy())

	px1, py1 := x1*fw, y1*fh
	px2, py2 := x2*fw, y2*fh

	dx, dy := px2-px1, py2-py1
	length := math.Hypot(float64(dx), float64(dy))
	if length == 0 {
		return
	}

	steps := int(length)
	if steps < 1 {
		steps = 1
	}
	stepX, stepY := dx/float32(steps), dy/float32(steps)

	for i := 0; i <= steps; i++ {
		px := px1 + stepX*float32(i)
		py := py1 + stepY*float32(i)
		fillSquare(f, int(px), int(py), thickness, c)
	}
}

func drawHLine(f Frame, x1, x2, y, thickness int, c color.RGBA) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for t := 0; t < thickness; t++ {
		for x := x1; x <= x2; x++ {
			setPixel(f, x, y+t, c)
		}
	}
}

func drawVLine(f Frame, y1, y2, x, thickness int, c color.RGBA) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for t := 0; t < thickness; t++ {
		for y := y1; y <= y2; y++ {
			setPixel(f, x+t, y, c)
		}
	}
}

func fillSquare(f Frame, cx, cy, size int, c color.RGBA) {
	half := size / 2
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			setPixel(f, x, y, c)
		}
	}
}

func setPixel(f Frame, x, y int, c color.RGBA) {
	if !(image.Point{X: x, Y: y}.In(f.Bounds())) {
		return
	}
	f.SetRGBA(x, y, c)
}
