package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hoozt/deepcraft-public-unit-library/internal/clock"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/config"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/models"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/notify"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.TrackingThreshold = 0.3
	cfg.MaxTracks = 5
	cfg.MaxAge = 5
	cfg.MinHits = 1
	cfg.ResetHour = -1
	return cfg
}

func frameData(x, y float32) []float32 {
	// confidence_count=6 (4 box rows + 2 class rows), max_detections=1
	data := make([]float32, 6)
	data[0], data[1], data[2], data[3] = x, y, 0.1, 0.1
	data[4] = 0.9
	return data
}

func TestProcessTracksAndCountsAcrossFrames(t *testing.T) {
	p := New(testConfig(), notify.NewClient(""), nil, clock.New())

	job1 := models.FrameJob{JobID: "j1", StreamID: "s1", FrameNumber: 1, Data: frameData(0.5, 0.5), ConfidenceCount: 6, MaxDetections: 1}
	result1, err := p.Process(context.Background(), job1)
	require.NoError(t, err)
	assert.Equal(t, 1, result1.TracksActive)

	job2 := models.FrameJob{JobID: "j2", StreamID: "s1", FrameNumber: 2, Data: frameData(0.52, 0.5), ConfidenceCount: 6, MaxDetections: 1}
	result2, err := p.Process(context.Background(), job2)
	require.NoError(t, err)
	assert.Equal(t, 1, result2.TracksActive)
}

func TestProcessIsolatesStreamsIndependently(t *testing.T) {
	p := New(testConfig(), notify.NewClient(""), nil, clock.New())

	jobA := models.FrameJob{JobID: "a1", StreamID: "streamA", FrameNumber: 1, Data: frameData(0.5, 0.5), ConfidenceCount: 6, MaxDetections: 1}
	jobB := models.FrameJob{JobID: "b1", StreamID: "streamB", FrameNumber: 1, Data: frameData(0.5, 0.5), ConfidenceCount: 6, MaxDetections: 1}

	_, err := p.Process(context.Background(), jobA)
	require.NoError(t, err)
	_, err = p.Process(context.Background(), jobB)
	require.NoError(t, err)

	assert.Len(t, p.streams, 2)
	assert.NotSame(t, p.streams["streamA"], p.streams["streamB"])
}

func TestProcessWritesDebugSnapshotWhenConfigured(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.DebugSnapshotDir = dir
	p := New(cfg, notify.NewClient(""), nil, clock.New())

	job := models.FrameJob{JobID: "j1", StreamID: "s1", FrameNumber: 7, Data: frameData(0.5, 0.5), ConfidenceCount: 6, MaxDetections: 1}
	_, err := p.Process(context.Background(), job)
	require.NoError(t, err)

	path := filepath.Join(dir, "s1_000007.webp")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestTickFiresDailyResetAtConfiguredHourUnderMockClock(t *testing.T) {
	cfg := testConfig()
	cfg.ResetHour = 3
	mock := clock.NewMock()
	mock.Set(time.Date(2026, 1, 1, 2, 59, 0, 0, time.UTC))

	p := New(cfg, notify.NewClient(""), nil, mock)

	job := models.FrameJob{JobID: "j1", StreamID: "s1", FrameNumber: 1, Data: frameData(0.5, 0.5), ConfidenceCount: 6, MaxDetections: 1}
	result, err := p.Process(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, int32(0), result.TotalCount)

	st := p.streams["s1"]
	require.True(t, st.counter.Trackers()[0].Active, "the 02:59 frame opens a counter-tracker")

	mock.Set(time.Date(2026, 1, 1, 3, 0, 0, 0, time.UTC))
	p.Tick()

	assert.False(t, st.counter.Trackers()[0].Active, "the reset must clear every counter-tracker")
	inCount, outCount, total := st.counter.Counts()
	assert.Equal(t, int32(0), inCount)
	assert.Equal(t, int32(0), outCount)
	assert.Equal(t, int32(0), total)
}
