package counting

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/Hoozt/deepcraft-public-unit-library/internal/geometry"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/tensor"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/tracking"
)

// Counter is the caller-owned counting state: the counter-tracker
// table, the monotonic frame counter, cumulative totals, and the daily
// reset supervisor's rate limiter. The zero value is not ready for use
// — call Init first, or construct with New.
type Counter struct {
	trackers      [MaxCounterTrackers]CounterTracker
	frameCounter  int
	inCount       int32
	outCount      int32
	lastResetHour int
	limiter       *rate.Limiter
}

// New constructs an initialized Counter, equivalent to Init on a zero
// value.
func New() *Counter {
	c := &Counter{}
	c.Init()
	return c
}

// Init zeroes the counter state and sets last_reset_hour = -1, per
// spec.md §6 counter_init. A freshly-built rate.Limiter starts with a
// full burst, so the very first reset check after Init always runs.
func (c *Counter) Init() {
	c.trackers = [MaxCounterTrackers]CounterTracker{}
	c.frameCounter = 0
	c.inCount = 0
	c.outCount = 0
	c.lastResetHour = -1
	c.limiter = rate.NewLimiter(rate.Every(60*time.Second), 1)
}

// Counts returns the current cumulative in/out/total counts.
func (c *Counter) Counts() (in, out, total int32) {
	return c.inCount, c.outCount, c.inCount + c.outCount
}

// Trackers returns the live counter-tracker table, slot order preserved.
// Callers must not retain the returned slice across a Step call.
func (c *Counter) Trackers() []CounterTracker {
	return c.trackers[:]
}

// Step runs one counter invocation against the tracker's augmented
// output tensor, per spec.md §4.4's seven phases. confidenceCount is
// the row count of in itself (the tracker's output: original
// confidence_count + 2), so the track-id row is confidenceCount-2 and
// the tracking-confidence row confidenceCount-1, exactly the two rows
// the tracker appended.
func Step(
	c *Counter,
	in tensor.Accessor,
	confidenceCount, maxDetections int,
	region CountingRegion,
	resetHour int,
	now time.Time,
) (inCount, outCount, total int32) {
	maybeReset(c, resetHour, now)

	c.frameCounter++
	trackIDRow := confidenceCount - 2

	for col := 0; col < maxDetections; col++ {
		w := in.At(tracking.RowWidth, col)
		h := in.At(tracking.RowHeight, col)
		if w <= 0 || h <= 0 {
			continue
		}
		trackID := tensor.DenormalizeTrackID(in.At(trackIDRow, col))
		if trackID <= 0 {
			continue
		}

		tr := findOrCreateTracker(c, trackID)
		if tr == nil {
			continue // table full, silently dropped per spec.md §7
		}

		pos := geometry.Point{X: in.At(tracking.RowCenterX, col), Y: in.At(tracking.RowCenterY, col)}
		tr.pushPosition(pos)
		tr.LastSeenFrame = c.frameCounter

		in_, out_ := detectCrossing(tr, region)
		c.inCount += in_
		c.outCount += out_
	}

	if c.frameCounter%SweepInterval == 0 {
		sweepStale(c)
	}

	return c.inCount, c.outCount, c.inCount + c.outCount
}

// Tick runs only the daily-reset supervisor, with no detections to
// fold in. A stream that stops receiving frames would otherwise never
// call Step again and so never observe the reset hour; callers that
// schedule a periodic tick (e.g. a cron-driven sweep in cmd/worker)
// use this to keep reset_hour quiescence honest even for idle streams.
func Tick(c *Counter, resetHour int, now time.Time) (inCount, outCount, total int32) {
	maybeReset(c, resetHour, now)
	return c.inCount, c.outCount, c.inCount + c.outCount
}

// findOrCreateTracker locates the live tracker for trackID, or installs
// one in the first empty slot. Returns nil if the table is full and no
// existing tracker matches.
func findOrCreateTracker(c *Counter, trackID int) *CounterTracker {
	firstEmpty := -1
	for i := range c.trackers {
		if c.trackers[i].Active && c.trackers[i].TrackID == trackID {
			return &c.trackers[i]
		}
		if !c.trackers[i].Active && firstEmpty < 0 {
			firstEmpty = i
		}
	}
	if firstEmpty < 0 {
		return nil
	}
	c.trackers[firstEmpty] = CounterTracker{TrackID: trackID, Active: true}
	return &c.trackers[firstEmpty]
}

// detectCrossing implements spec.md §4.4.1's state machine for a single
// counter-tracker that was just updated this frame.
func detectCrossing(tr *CounterTracker, region CountingRegion) (inDelta, outDelta int32) {
	prev, curr, ok := tr.lastTwo()
	if !ok {
		return 0, 0
	}

	prevIn := region.Rect.Contains(prev)
	currIn := region.Rect.Contains(curr)

	switch {
	case !prevIn && currIn:
		tr.RegionState = enteredStateForEdge(geometry.NearestEdge(region.Rect, prev))
	case prevIn && !currIn:
		entrySide, entered := edgeForEnteredState(tr.RegionState)
		tr.RegionState = StateOutside
		if !entered {
			return 0, 0
		}
		exitSide := geometry.NearestEdge(region.Rect, curr)
		if exitSide != entrySide.Opposite() {
			return 0, 0
		}
		if isEntryIn(region.InDirection, entrySide) {
			return 1, 0
		}
		return 0, 1
	}
	return 0, 0
}

// sweepStale deactivates every tracker whose last-seen frame has fallen
// more than StaleFrames behind the current frame counter.
func sweepStale(c *Counter) {
	for i := range c.trackers {
		tr := &c.trackers[i]
		if tr.Active && c.frameCounter-tr.LastSeenFrame > StaleFrames {
			*tr = CounterTracker{}
		}
	}
}
