package convert

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// nodesConverted counts target nodes created, by target type.
	nodesConverted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bim2city_converted_nodes_total",
			Help: "Total number of target nodes created",
		},
		[]string{"type"},
	)

	// elementsSkipped counts source elements that produced no node.
	elementsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bim2city_skipped_elements_total",
			Help: "Total number of source elements dropped during conversion",
		},
		[]string{"kind", "reason"},
	)

	// trianglesEmitted counts polygons appended to multi-surfaces.
	trianglesEmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bim2city_emitted_triangles_total",
			Help: "Total number of triangle polygons emitted",
		},
	)

	// geometryFailures counts elements whose geometry could not be built.
	geometryFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bim2city_geometry_failures_total",
			Help: "Total number of geometry extraction failures",
		},
	)

	// conversionSeconds observes the duration of whole conversion runs.
	conversionSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bim2city_conversion_duration_seconds",
			Help:    "Duration of conversion runs",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
	)
)

func init() {
	// Register metrics with the default registry
	prometheus.MustRegister(nodesConverted)
	prometheus.MustRegister(elementsSkipped)
	prometheus.MustRegister(trianglesEmitted)
	prometheus.MustRegister(geometryFailures)
	prometheus.MustRegister(conversionSeconds)
}
