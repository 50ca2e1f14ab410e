// Package clock re-exports benbjohnson/clock behind a one-method
// interface so internal/pipeline, which supplies the current time to
// internal/counting's daily reset supervisor, depends only on the
// capability it needs — an injectable wall-clock read — rather than the
// library's full fake-clock surface.
package clock

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Clock is an injectable source of wall-clock time.
type Clock interface {
	Now() time.Time
}

// New returns the real, system wall clock.
func New() Clock { return clock.New() }

// NewMock returns a controllable clock for deterministic tests, per
// spec.md §5's requirement that the non-deterministic clock read be
// isolated behind an injectable time source.
func NewMock() *clock.Mock { return clock.NewMock() }
