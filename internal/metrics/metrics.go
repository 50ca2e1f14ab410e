// Package metrics exposes the process's prometheus counters and
// gauges as package-level promauto vars.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FramesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "counting",
		Name:      "frames_processed_total",
		Help:      "Total number of frames run through the tracker/counter pipeline",
	})

	TracksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "counting",
		Name:      "tracks_created_total",
		Help:      "Total number of tracks spawned by the tracker",
	})

	TracksActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "counting",
		Name:      "tracks_active",
		Help:      "Number of currently active tracks",
	})

	CrossingsIn = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "counting",
		Name:      "crossings_in_total",
		Help:      "Total number of completed IN traversals of the counting region",
	})

	CrossingsOut = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "counting",
		Name:      "crossings_out_total",
		Help:      "Total number of completed OUT traversals of the counting region",
	})

	DailyResetsFired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "counting",
		Name:      "daily_resets_fired_total",
		Help:      "Total number of times the daily reset supervisor zeroed the counters",
	})

	PipelineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "counting",
		Name:      "pipeline_duration_seconds",
		Help:      "Duration of each pipeline stage",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 10),
	}, []string{"stage"})
)
