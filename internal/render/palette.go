// Package render implements the rendering collaborators spec.md §6
// documents but excludes from the core: palette-driven box/line
// drawing, bitmap-font number display, and tracker-trail
// visualization. Nothing here reads or mutates a detection tensor:
// callers pass normalized box coordinates and track ids directly.
package render

import "image/color"

// Palette is a fixed 27-entry table of stable index to RGB color.
// Track ids and class indices are mapped into it with modulo wraparound
// so any id in [1,127] still yields a deterministic color.
var Palette = [27]color.RGBA{
	{R: 230, G: 25, B: 75, A: 255},
	{R: 60, G: 180, B: 75, A: 255},
	{R: 255, G: 225, B: 25, A: 255},
	{R: 0, G: 130, B: 200, A: 255},
	{R: 245, G: 130, B: 48, A: 255},
	{R: 145, G: 30, B: 180, A: 255},
	{R: 70, G: 240, B: 240, A: 255},
	{R: 240, G: 50, B: 230, A: 255},
	{R: 210, G: 245, B: 60, A: 255},
	{R: 250, G: 190, B: 212, A: 255},
	{R: 0, G: 128, B: 128, A: 255},
	{R: 220, G: 190, B: 255, A: 255},
	{R: 170, G: 110, B: 40, A: 255},
	{R: 255, G: 250, B: 200, A: 255},
	{R: 128, G: 0, B: 0, A: 255},
	{R: 170, G: 255, B: 195, A: 255},
	{R: 128, G: 128, B: 0, A: 255},
	{R: 255, G: 215, B: 180, A: 255},
	{R: 0, G: 0, B: 128, A: 255},
	{R: 128, G: 128, B: 128, A: 255},
	{R: 255, G: 255, B: 255, A: 255},
	{R: 0, G: 0, B: 0, A: 255},
	{R: 188, G: 143, B: 143, A: 255},
	{R: 46, G: 139, B: 87, A: 255},
	{R: 72, G: 61, B: 139, A: 255},
	{R: 255, G: 140, B: 0, A: 255},
	{R: 199, G: 21, B: 133, A: 255},
}

// ColorForID maps a track id or class index to a stable palette entry.
func ColorForID(id int) color.RGBA {
	if id < 0 {
		id = -id
	}
	return Palette[id%len(Palette)]
}
