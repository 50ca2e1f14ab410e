package render

import (
	"image/color"

	"github.com/Hoozt/deepcraft-public-unit-library/internal/geometry"
)

// TrailCapacity bounds how many past positions are kept per track,
// matching the counter's own HistoryCapacity so a trail never holds
// more positions than the state machine that feeds it could ever see.
const TrailCapacity = 10

// Trail is a caller-owned, per-track ring of recent positions. In the
// original display component this lived in a process-wide table
// keyed by track id; spec.md §9 requires that state move into a
// buffer the caller owns, so TrailSet below is what a caller holds
// instead of a package-level global.
type Trail struct {
	Positions [TrailCapacity]geometry.Point
	Len       int
}

func (t *Trail) push(p geometry.Point) {
	if t.Len < TrailCapacity {
		t.Positions[t.Len] = p
		t.Len++
		return
	}
	copy(t.Positions[:], t.Positions[1:])
	t.Positions[TrailCapacity-1] = p
}

// TrailSet is a caller-owned collection of trails keyed by track id.
// Callers create one TrailSet per stream, alongside their
// tracking.Tracker and counting.Counter, and pass it into Update/Draw
// explicitly rather than relying on hidden global state.
type TrailSet struct {
	trails map[int]*Trail
}

// NewTrailSet returns an empty trail set.
func NewTrailSet() *TrailSet {
	return &TrailSet{trails: make(map[int]*Trail)}
}

// Update appends the given track's current position to its trail,
// creating the trail on first sight.
func (ts *TrailSet) Update(trackID int, p geometry.Point) {
	tr, ok := ts.trails[trackID]
	if !ok {
		tr = &Trail{}
		ts.trails[trackID] = tr
	}
	tr.push(p)
}

// Prune drops trails for track ids not present in the active set,
// so a TrailSet does not grow without bound across a long-running
// stream.
func (ts *TrailSet) Prune(activeTrackIDs map[int]bool) {
	for id := range ts.trails {
		if !activeTrackIDs[id] {
			delete(ts.trails, id)
		}
	}
}

// DrawTrails paints every tracked trail as a connected polyline, each
// in the track's palette color.
func DrawTrails(f Frame, ts *TrailSet, thickness int) {
	for id, tr := range ts.trails {
		c := ColorForID(id)
		drawTrail(f, tr, thickness, c)
	}
}

func drawTrail(f Frame, tr *Trail, thickness int, c color.RGBA) {
	for i := 1; i < tr.Len; i++ {
		prev := tr.Positions[i-1]
		curr := tr.Positions[i]
		DrawLine(f, prev.X, prev.Y, curr.X, curr.Y, thickness, c)
	}
}
