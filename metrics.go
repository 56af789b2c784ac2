package voxeloctree

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const stageLabel = "stage"

const (
	stageBuild   = "build"
	stageFlatten = "flatten"
	stageUpload  = "upload"
)

var (
	pointsInserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voxeloctree_points_inserted_total",
		Help: "The number of samples stored in an octree.",
	})

	pointsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voxeloctree_points_skipped_total",
		Help: "The number of samples rejected during construction.",
	})

	internalNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voxeloctree_internal_nodes",
		Help: "Internal node count of the last flattened tree.",
	})

	bakeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxeloctree_bake_failures_total",
		Help: "Bakes aborted, by the stage that failed.",
	}, []string{
		stageLabel,
	})

	flattenLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voxeloctree_flatten_seconds",
		Help:    "The time to flatten a tree into words.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	})
)

func instrumentFailure(stage string) {
	bakeFailures.With(prometheus.Labels{
		stageLabel: stage,
	}).Inc()
}

func instrumentFlatten(start time.Time, internal int) {
	flattenLatency.Observe(time.Since(start).Seconds())
	internalNodes.Set(float64(internal))
}
