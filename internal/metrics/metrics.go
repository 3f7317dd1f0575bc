// Package metrics holds the process-local prometheus collectors of the
// export pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry collects all pipeline metrics. Embedding applications can expose
// it through their own scrape endpoint.
var Registry = prometheus.NewRegistry()

// Outcome labels of ExportsTotal.
const (
	OutcomeSuccess       = "success"
	OutcomeComposeFailed = "compose_failed"
	OutcomeRenderFailed  = "render_failed"
)

var (
	ExportsTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "sealdoc",
		Name:      "exports_total",
		Help:      "Completed export attempts by outcome.",
	}, []string{"outcome"})

	RenderPasses = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: "sealdoc",
		Name:      "render_passes_total",
		Help:      "Compiler passes started.",
	})

	RenderDuration = promauto.With(Registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: "sealdoc",
		Name:      "render_duration_seconds",
		Help:      "Wall-clock duration of a full render, both passes included.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	ArtifactsSkipped = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: "sealdoc",
		Name:      "artifacts_skipped_total",
		Help:      "Artifacts dropped from a composed document after a staging failure.",
	})
)
