package tracking

import "github.com/Hoozt/deepcraft-public-unit-library/internal/geometry"

// Row offsets within a detection tensor column, fixed by spec.md §3.
const (
	RowCenterX = 0
	RowCenterY = 1
	RowWidth   = 2
	RowHeight  = 3
	// RowClassConfidenceBase is the first row carrying a per-class
	// confidence; there are confidenceCount-RowClassConfidenceBase of
	// them.
	RowClassConfidenceBase = 4
)

// TrackState is the lifecycle state of a track slot, purely a view over
// Track.Active/Hits — it is never stored directly.
type TrackState int

const (
	StateEmpty TrackState = iota
	StateTentative
	StateConfirmed
)

// Detection is a single per-frame observation extracted from a
// detection tensor column (spec.md §4.3 phase 1, "Extract").
type Detection struct {
	Box        geometry.Box
	Confidence float32
	ClassID    int
}

// Track is one slot in the tracker's bounded table. A slot is either
// fully zeroed with Active false, or has TrackID >= 1, ClassID >= 0,
// Hits >= 1, Age >= 0 (spec.md §3 invariants).
type Track struct {
	Box                geometry.Box
	Confidence         float32
	ClassID            int
	TrackID            int
	Age                int
	Hits               int
	Active             bool
	TrackingConfidence float32
}

// State classifies the track's lifecycle per spec.md §4.3: confirmation
// is purely an emission gate, computed from Hits vs. minHits.
func (tr Track) State(minHits int) TrackState {
	switch {
	case !tr.Active:
		return StateEmpty
	case tr.Hits >= minHits:
		return StateConfirmed
	default:
		return StateTentative
	}
}
