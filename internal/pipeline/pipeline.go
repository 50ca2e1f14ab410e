// Package pipeline wires a decoded frame job through the tracker and
// counter, then fans the result out to metrics, the optional webhook
// notifier, and the optional audit log.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Hoozt/deepcraft-public-unit-library/internal/clock"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/config"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/counting"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/geometry"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/metrics"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/models"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/notify"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/render"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/storage"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/tensor"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/tracking"
)

// snapshotWidth and snapshotHeight size the debug frame the pipeline
// renders into when cfg.DebugSnapshotDir is set. Normalized detection
// coordinates scale into this fixed canvas regardless of the source
// video's actual resolution.
const (
	snapshotWidth  = 640
	snapshotHeight = 360
)

// streamState is the per-stream tracker/counter pair. Each stream owns
// its own Tracker and Counter — the core packages forbid concurrent
// invocations on the same state, so Pipeline serializes access per
// stream with a mutex rather than sharing one tracker across streams.
type streamState struct {
	mu      sync.Mutex
	tracker *tracking.Tracker
	counter *counting.Counter
	trails  *render.TrailSet
}

// Pipeline processes FrameJobs for any number of streams, each with its
// own isolated tracker/counter state.
type Pipeline struct {
	cfg      config.Config
	notifier *notify.Client
	store    *storage.StorageManager // optional; nil disables audit logging
	clk      clock.Clock

	mu      sync.Mutex
	streams map[string]*streamState
}

// New builds a Pipeline. store may be nil to disable audit
// persistence. clk supplies every wall-clock read Process and Tick
// need (the daily reset hour, crossing event timestamps); pass
// clock.New() in production and clock.NewMock() in tests that need to
// drive the reset hour deterministically.
func New(cfg config.Config, notifier *notify.Client, store *storage.StorageManager, clk clock.Clock) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		notifier: notifier,
		store:    store,
		clk:      clk,
		streams:  make(map[string]*streamState),
	}
}

func (p *Pipeline) stateFor(streamID string) *streamState {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, ok := p.streams[streamID]
	if !ok {
		st = &streamState{
			tracker: tracking.New(tracking.Config{
				TrackingThreshold: p.cfg.TrackingThreshold,
				MaxTracks:         p.cfg.MaxTracks,
				MaxAge:            p.cfg.MaxAge,
				MinHits:           p.cfg.MinHits,
			}),
			counter: counting.New(),
			trails:  render.NewTrailSet(),
		}
		p.streams[streamID] = st
	}
	return st
}

// Process runs one frame job through tracker.Step then counting.Step,
// publishes metrics, and fires a webhook + audit row for every
// newly-completed crossing (one per unit the in or out count rose by).
func (p *Pipeline) Process(ctx context.Context, job models.FrameJob) (models.PipelineResult, error) {
	totalTimer := prometheus.NewTimer(metrics.PipelineDuration.WithLabelValues("total"))
	defer totalTimer.ObserveDuration()

	st := p.stateFor(job.StreamID)
	st.mu.Lock()
	defer st.mu.Unlock()

	in := tensor.Float{Data: job.Data, Rows: job.ConfidenceCount, MaxDetections: job.MaxDetections}
	out := tensor.NewFloat(job.ConfidenceCount+2, job.MaxDetections)

	trackerTimer := prometheus.NewTimer(metrics.PipelineDuration.WithLabelValues("tracker"))
	tracking.Step(st.tracker, in, job.ConfidenceCount, job.MaxDetections, out)
	trackerTimer.ObserveDuration()

	region := counting.NewCountingRegion(p.cfg.RegionX1, p.cfg.RegionY1, p.cfg.RegionX2, p.cfg.RegionY2, p.cfg.InDirection)
	prevIn, prevOut, _ := st.counter.Counts()

	counterTimer := prometheus.NewTimer(metrics.PipelineDuration.WithLabelValues("counter"))
	inCount, outCount, total := counting.Step(st.counter, out, job.ConfidenceCount+2, job.MaxDetections, region, p.cfg.ResetHour, p.clk.Now())
	counterTimer.ObserveDuration()

	metrics.FramesProcessed.Inc()
	summary := tracking.Summarize(st.tracker)
	metrics.TracksActive.Set(float64(summary.Active))

	for n := prevIn; n < inCount; n++ {
		p.onCrossing(ctx, job.StreamID, "in", inCount, outCount)
	}
	for n := prevOut; n < outCount; n++ {
		p.onCrossing(ctx, job.StreamID, "out", inCount, outCount)
	}

	if p.cfg.DebugSnapshotDir != "" {
		if err := p.writeDebugSnapshot(job, st); err != nil {
			log.Printf("debug snapshot for stream %s failed: %v", job.StreamID, err)
		}
	}

	result := models.PipelineResult{
		JobID:        job.JobID,
		StreamID:     job.StreamID,
		FrameNumber:  job.FrameNumber,
		TracksActive: summary.Active,
		InCount:      inCount,
		OutCount:     outCount,
		TotalCount:   total,
	}

	if p.store != nil {
		if err := p.store.RecordJob(ctx, job.JobID, job.StreamID, job.FrameNumber, summary.Active, inCount, outCount); err != nil {
			return result, fmt.Errorf("record job audit row: %w", err)
		}
	}

	return result, nil
}

// Tick runs the daily-reset supervisor for every stream currently
// known to the pipeline, independent of whether a frame arrives this
// minute. Intended to be called from a cron-driven scheduler so a
// stream that goes quiet still observes its reset hour. Reads the
// current time from the pipeline's injected clock rather than taking
// it as a parameter, so a mock clock's Set/Add calls in tests drive
// both Process and Tick consistently.
func (p *Pipeline) Tick() {
	now := p.clk.Now()

	p.mu.Lock()
	streams := make([]*streamState, 0, len(p.streams))
	for _, st := range p.streams {
		streams = append(streams, st)
	}
	p.mu.Unlock()

	for _, st := range streams {
		st.mu.Lock()
		counting.Tick(st.counter, p.cfg.ResetHour, now)
		st.mu.Unlock()
	}
}

// writeDebugSnapshot renders the stream's currently active tracks —
// boxes, ids, and trails — onto a fixed-size canvas and writes it as a
// WebP file under cfg.DebugSnapshotDir. st.mu is already held by the
// caller (Process).
func (p *Pipeline) writeDebugSnapshot(job models.FrameJob, st *streamState) error {
	frame := render.NewFrame(snapshotWidth, snapshotHeight)
	active := make(map[int]bool)

	for _, tr := range st.tracker.Tracks() {
		if !tr.Active {
			continue
		}
		active[tr.TrackID] = true
		c := render.ColorForID(tr.TrackID)

		render.DrawBox(frame, tr.Box.X, tr.Box.Y, tr.Box.W, tr.Box.H, 2, c)
		st.trails.Update(tr.TrackID, geometry.Point{X: tr.Box.X, Y: tr.Box.Y})

		x := int(tr.Box.X*float32(snapshotWidth)) - int(tr.Box.W*float32(snapshotWidth)/2)
		y := int(tr.Box.Y*float32(snapshotHeight)) - int(tr.Box.H*float32(snapshotHeight)/2) - 14
		render.DrawNumber(frame, x, y, tr.TrackID, c)
	}
	st.trails.Prune(active)
	render.DrawTrails(frame, st.trails, 1)

	path := filepath.Join(p.cfg.DebugSnapshotDir, fmt.Sprintf("%s_%06d.webp", job.StreamID, job.FrameNumber))
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer out.Close()

	if err := render.WriteSnapshot(out, frame); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

func (p *Pipeline) onCrossing(ctx context.Context, streamID, direction string, inCount, outCount int32) {
	if direction == "in" {
		metrics.CrossingsIn.Inc()
	} else {
		metrics.CrossingsOut.Inc()
	}

	if p.notifier != nil {
		event := notify.CrossingEvent{
			Direction: direction,
			InCount:   inCount,
			OutCount:  outCount,
			Timestamp: p.clk.Now(),
		}
		if err := p.notifier.Post(ctx, event); err != nil {
			log.Printf("crossing webhook for stream %s failed: %v", streamID, err)
		}
	}

	if p.store != nil {
		// counting.Step's external contract returns only the three
		// scalar totals (spec.md §6), not which track crossed; the
		// audit row records the aggregate, not a per-track event.
		if err := p.store.RecordCrossing(ctx, streamID, 0, direction, inCount, outCount); err != nil {
			log.Printf("crossing audit row for stream %s failed: %v", streamID, err)
		}
	}
}
