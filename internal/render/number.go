package render

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// numberFace is the bitmap font used for count/id overlays. basicfont
// ships a fixed-metric 7x13 face, matching the "bitmap font with
// metric-query and glyph-blit operations" ancillary input spec.md §6
// describes.
var numberFace = basicfont.Face7x13

// MeasureText returns the pixel width the given text would occupy in
// numberFace, mirroring a metric-query call against the bitmap font.
func MeasureText(s string) int {
	var width fixed.Int26_6
	for _, r := range s {
		adv, ok := numberFace.GlyphAdvance(r)
		if !ok {
			continue
		}
		width += adv
	}
	return width.Round()
}

// DrawNumber blits an integer at the given top-left pixel position
// using the fixed bitmap font, in the given color.
func DrawNumber(f Frame, x, y int, n int, c color.RGBA) {
	DrawText(f, x, y, fmt.Sprintf("%d", n), c)
}

// DrawText blits a string at the given top-left pixel position.
func DrawText(f Frame, x, y int, s string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  f,
		Src:  image.NewUniform(c),
		Face: numberFace,
		Dot:  fixed.P(x, y+numberFace.Ascent),
	}
	d.DrawString(s)
}
