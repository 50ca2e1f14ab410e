package render

import (
	"io"

	"github.com/HugoSmits86/nativewebp"
)

// WriteSnapshot encodes a rendered frame as WebP for debug capture —
// a way to eyeball a stream's tracker/counter overlay without pulling
// the whole pipeline into a GUI. Entirely optional: callers that never
// invoke it never pay for the encoder.
func WriteSnapshot(w io.Writer, f Frame) error {
	return nativewebp.Encode(w, f, nil)
}
