// Package counting implements the region-crossing counter of spec.md
// §4.4: a bounded table of per-track-id position histories, a crossing
// state machine classifying complete traversals as IN or OUT, and a
// wall-clock-driven daily reset. It consumes the tracker's augmented
// output tensor (see internal/tracking) through the same tensor.Accessor
// contract, so it is equally numeric-mode-agnostic.
package counting

import "github.com/Hoozt/deepcraft-public-unit-library/internal/geometry"

// Bounded-resource constants fixed by the design, not caller-tunable.
const (
	// MaxCounterTrackers is the largest number of live counter-trackers.
	MaxCounterTrackers = 200
	// HistoryCapacity is the FIFO depth of a counter-tracker's position
	// history.
	HistoryCapacity = 10
	// StaleFrames is how far behind the global frame counter a
	// tracker's last-seen frame may fall before it is reclaimable.
	StaleFrames = 30
	// SweepInterval is how often (in frames) the stale sweep runs.
	SweepInterval = 10
)

// RegionState is a counter-tracker's position relative to the counting
// region. The zero value is Outside.
type RegionState int

const (
	StateOutside RegionState = iota
	StateInside
	StateEnteredLeft
	StateEnteredRight
	StateEnteredTop
	StateEnteredBottom
)

func (s RegionState) String() string {
	switch s {
	case StateOutside:
		return "OUTSIDE"
	case StateInside:
		return "INSIDE"
	case StateEnteredLeft:
		return "ENTERED_FROM_LEFT"
	case StateEnteredRight:
		return "ENTERED_FROM_RIGHT"
	case StateEnteredTop:
		return "ENTERED_FROM_TOP"
	case StateEnteredBottom:
		return "ENTERED_FROM_BOTTOM"
	default:
		return "UNKNOWN"
	}
}

// enteredStateForEdge maps the edge an object entered through to the
// RegionState recording it.
func enteredStateForEdge(e geometry.Edge) RegionState {
	switch e {
	case geometry.EdgeLeft:
		return StateEnteredLeft
	case geometry.EdgeRight:
		return StateEnteredRight
	case geometry.EdgeTop:
		return StateEnteredTop
	case geometry.EdgeBottom:
		return StateEnteredBottom
	default:
		return StateOutside
	}
}

// edgeForEnteredState is the inverse of enteredStateForEdge; ok is false
// for states that do not record an entry edge (Outside, Inside).
func edgeForEnteredState(s RegionState) (edge geometry.Edge, ok bool) {
	switch s {
	case StateEnteredLeft:
		return geometry.EdgeLeft, true
	case StateEnteredRight:
		return geometry.EdgeRight, true
	case StateEnteredTop:
		return geometry.EdgeTop, true
	case StateEnteredBottom:
		return geometry.EdgeBottom, true
	default:
		return 0, false
	}
}

// CounterTracker is the counter's per-track-id live state: a bounded
// position history plus the region-crossing state machine's current
// state. The zero value is a valid, inactive slot.
//
// Trackers are keyed by track id alone. When the tracker's id allocator
// wraps and hands a recycled id to a new track while a counter-tracker
// for that id is still live (not yet swept as stale), the new track
// continues the old history and region state.
type CounterTracker struct {
	History       [HistoryCapacity]geometry.Point
	HistoryLen    int
	TrackID       int
	LastSeenFrame int
	Active        bool
	RegionState   RegionState
}

// pushPosition appends p to the history FIFO, dropping the oldest entry
// once the history is at capacity.
func (tr *CounterTracker) pushPosition(p geometry.Point) {
	if tr.HistoryLen < HistoryCapacity {
		tr.History[tr.HistoryLen] = p
		tr.HistoryLen++
		return
	}
	copy(tr.History[:], tr.History[1:])
	tr.History[HistoryCapacity-1] = p
}

// lastTwo returns the two most recent positions; ok is false when the
// history holds fewer than two points (spec.md §7: malformed history
// yields no crossing decision).
func (tr *CounterTracker) lastTwo() (prev, curr geometry.Point, ok bool) {
	if tr.HistoryLen < 2 {
		return geometry.Point{}, geometry.Point{}, false
	}
	return tr.History[tr.HistoryLen-2], tr.History[tr.HistoryLen-1], true
}
