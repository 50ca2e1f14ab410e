// Package tracking implements the greedy, class-constrained
// multi-object tracker of spec.md §4.3: a bounded table of tracks with
// birth/match/age/death lifecycle and a monotonically wrapping id
// allocator. It operates generically over tensor.Accessor so the same
// logic serves both the float32 and 8-bit quantized numeric modes.
package tracking

import (
	"github.com/Hoozt/deepcraft-public-unit-library/internal/geometry"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/metrics"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/tensor"
)

// Config holds the tunable parameters of a Tracker, all caller-supplied
// per spec.md §6's tracker_step contract.
type Config struct {
	TrackingThreshold float32 // IoU cutoff for association, e.g. 0.3-0.5
	MaxTracks         int     // table size, <= 50
	MaxAge            int     // frames an unmatched track survives
	MinHits           int     // hits required before a track is emitted
}

// Tracker is the caller-owned tracker state: a bounded table of tracks
// plus the track-id allocator. The zero value is not ready for use —
// construct it with New, which fixes the table size from Config.MaxTracks.
type Tracker struct {
	cfg         Config
	tracks      []Track
	nextTrackID int
}

// New constructs a Tracker sized to cfg.MaxTracks and already
// initialized (equivalent to calling Init immediately).
func New(cfg Config) *Tracker {
	t := &Tracker{cfg: cfg}
	t.Init()
	return t
}

// Init zeroes the tracker state and resets the id allocator to 1, per
// spec.md §6 tracker_init. Calling it twice is equivalent to calling it
// once (idempotent).
func (t *Tracker) Init() {
	t.tracks = make([]Track, t.cfg.MaxTracks)
	t.nextTrackID = 1
}

// Tracks returns the live track table, slot order preserved. Callers
// must not retain the returned slice across a Step call.
func (t *Tracker) Tracks() []Track {
	return t.tracks
}

// allocateID returns the allocator's current value then advances it,
// wrapping from 127 back to 1. Collisions with still-active ids under
// extreme churn are possible and are not prevented — see spec.md §9.
func (t *Tracker) allocateID() int {
	id := t.nextTrackID
	t.nextTrackID++
	if t.nextTrackID > 127 {
		t.nextTrackID = 1
	}
	return id
}

// Step runs one tracker invocation: extract detections from in, run
// greedy association against the current track table, spawn tracks for
// unmatched detections, age and expire unmatched tracks, then emit the
// confirmed tracks into the caller-supplied output tensor out, which has
// confidenceCount+2 rows. confidenceCount is the row count of in (the
// detection tensor being tracked, not the tracker's own output).
//
// Track-id normalization: to keep the extraction logic identical across
// numeric modes, both the float and quantized outputs store the track
// id as its [0,1] normalization (tensor.NormalizeTrackID) through the
// same Accessor.SetAt path the quantized codec already requires — for
// the float tensor this just means a plain float32 division, still
// exactly recoverable via tensor.DenormalizeTrackID.
func Step(t *Tracker, in tensor.Accessor, confidenceCount, maxDetections int, out tensor.Accessor) {
	detections := extract(in, confidenceCount, maxDetections)

	matchedTrack := make([]bool, len(t.tracks))
	matchedDetection := make([]bool, len(detections))

	associate(t.tracks, detections, t.cfg.TrackingThreshold, matchedTrack, matchedDetection)

	for di, det := range detections {
		if matchedDetection[di] {
			continue
		}
		if slot := spawn(t, det); slot >= 0 {
			matchedTrack[slot] = true // a track born this frame is not aged this frame
		}
	}

	for i := range t.tracks {
		tr := &t.tracks[i]
		if !tr.Active || matchedTrack[i] {
			continue
		}
		tr.Age++
		tr.TrackingConfidence *= 0.9
		if tr.Age > t.cfg.MaxAge {
			t.tracks[i] = Track{}
		}
	}

	emit(t.tracks, t.cfg.MinHits, confidenceCount, maxDetections, out)
}

// extract implements spec.md §4.3 phase 1: for each column, the class
// with the highest confidence becomes the detection's class, and the
// detection is emitted only when that confidence is positive. No
// upstream threshold is re-applied beyond that positivity check — the
// spec's literal "max > 0 or class_id >= 0" is a tautology (class_id is
// always >= 0 by construction), which if taken literally would spawn a
// track from every zero-padded column and contradicts every worked
// example in spec.md §8; max > 0 is the gate those examples require.
func extract(in tensor.Accessor, confidenceCount, maxDetections int) []Detection {
	detections := make([]Detection, 0, maxDetections)
	for col := 0; col < maxDetections; col++ {
		bestRow := RowClassConfidenceBase
		bestVal := in.At(RowClassConfidenceBase, col)
		for row := RowClassConfidenceBase + 1; row < confidenceCount; row++ {
			v := in.At(row, col)
			if v > bestVal {
				bestVal = v
				bestRow = row
			}
		}
		if bestVal <= 0 {
			continue
		}
		detections = append(detections, Detection{
			Box: geometry.Box{
				X: in.At(RowCenterX, col),
				Y: in.At(RowCenterY, col),
				W: in.At(RowWidth, col),
				H: in.At(RowHeight, col),
			},
			Confidence: bestVal,
			ClassID:    bestRow - RowClassConfidenceBase,
		})
	}
	return detections
}

// associate implements spec.md §4.3 phase 2: greedy, class-constrained
// IoU matching. Detections are scanned in index order; for each, the
// best still-unmatched same-class track with IoU strictly above
// threshold is claimed.
func associate(tracks []Track, detections []Detection, threshold float32, matchedTrack, matchedDetection []bool) {
	for di, det := range detections {
		best := -1
		bestIoU := threshold
		for ti, tr := range tracks {
			if !tr.Active || matchedTrack[ti] || tr.ClassID != det.ClassID {
				continue
			}
			iou := geometry.IoU(tr.Box, det.Box)
			if iou > bestIoU {
				bestIoU = iou
				best = ti
			}
		}
		if best < 0 {
			continue
		}
		tr := &tracks[best]
		tr.Box = det.Box
		tr.Confidence = det.Confidence
		tr.Age = 0
		tr.Hits++
		tr.TrackingConfidence = bestIoU
		matchedTrack[best] = true
		matchedDetection[di] = true
	}
}

// spawn implements spec.md §4.3 phase 3: install det into the first
// empty slot as a new tentative track and return that slot's index.
// Silently dropped (returning -1) if the table is full.
func spawn(t *Tracker, det Detection) int {
	for i := range t.tracks {
		if t.tracks[i].Active {
			continue
		}
		t.tracks[i] = Track{
			Box:                det.Box,
			Confidence:         det.Confidence,
			ClassID:            det.ClassID,
			TrackID:            t.allocateID(),
			Age:                0,
			Hits:               1,
			Active:             true,
			TrackingConfidence: 1.0,
		}
		metrics.TracksCreated.Inc()
		return i
	}
	return -1
}

// emit implements spec.md §4.3 phase 5: confirmed tracks (active, with
// Hits >= minHits) are written left-to-right into out,
// oldest slot first; unused columns are left at out's zero/sentinel
// default.
func emit(tracks []Track, minHits, confidenceCount, maxDetections int, out tensor.Accessor) {
	col := 0
	for _, tr := range tracks {
		if col >= maxDetections {
			return
		}
		if !tr.Active || tr.Hits < minHits {
			continue
		}
		out.SetAt(RowCenterX, col, tr.Box.X)
		out.SetAt(RowCenterY, col, tr.Box.Y)
		out.SetAt(RowWidth, col, tr.Box.W)
		out.SetAt(RowHeight, col, tr.Box.H)
		out.SetAt(RowClassConfidenceBase+tr.ClassID, col, tr.Confidence)
		out.SetAt(confidenceCount, col, tensor.NormalizeTrackID(tr.TrackID))
		out.SetAt(confidenceCount+1, col, tr.TrackingConfidence)
		col++
	}
}
