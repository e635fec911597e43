package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	treeLabel  = "tree"
	queryLabel = "query"
)

var (
	bvhInsertedLeaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bvh_inserted_leaves_total",
		Help: "The number of leaves inserted into a tree.",
	}, []string{treeLabel})

	bvhDeletedLeaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bvh_deleted_leaves_total",
		Help: "The number of leaves deleted from a tree.",
	}, []string{treeLabel})

	bvhBoundsChanged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bvh_bounds_changed_total",
		Help: "The number of leaf hulls refreshed after bounds changes.",
	}, []string{treeLabel})

	bvhRebuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bvh_rebuilds_total",
		Help: "The number of full rebuilds triggered by an exceeded depth ceiling.",
	}, []string{treeLabel})

	bvhLeaves = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bvh_leaves",
		Help: "The number of leaves of a tree.",
	}, []string{treeLabel})

	bvhEstimatedDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bvh_estimated_depth",
		Help: "The estimated maximum leaf depth of a tree.",
	}, []string{treeLabel})

	bvhDepthCeiling = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bvh_depth_ceiling",
		Help: "The adaptive depth ceiling of a tree.",
	}, []string{treeLabel})

	bvhQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bvh_queries_total",
		Help: "The number of queries run against a tree.",
	}, []string{treeLabel, queryLabel})

	bvhBoundaryEntries = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bvh_visible_boundary_entries",
		Help:    "The length of the boundary list produced by a visibility query.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	}, []string{treeLabel})
)

// CountInserted counts leaves inserted into a tree.
func CountInserted(tree string, n int) {
	bvhInsertedLeaves.
		With(prometheus.Labels{treeLabel: tree}).
		Add(float64(n))
}

// CountDeleted counts leaves removed from a tree.
func CountDeleted(tree string, n int) {
	bvhDeletedLeaves.
		With(prometheus.Labels{treeLabel: tree}).
		Add(float64(n))
}

// CountBoundsChanged counts leaves whose hulls have been refreshed.
func CountBoundsChanged(tree string, n int) {
	bvhBoundsChanged.
		With(prometheus.Labels{treeLabel: tree}).
		Add(float64(n))
}

// CountRebuild counts a full rebuild of a tree.
func CountRebuild(tree string) {
	tracer().Debugf("rebuild of tree %q", tree)
	bvhRebuilds.
		With(prometheus.Labels{treeLabel: tree}).
		Inc()
}

// SetShape records the current shape of a tree.
func SetShape(tree string, leaves, estimatedDepth, ceiling int) {
	labels := prometheus.Labels{treeLabel: tree}
	bvhLeaves.With(labels).Set(float64(leaves))
	bvhEstimatedDepth.With(labels).Set(float64(estimatedDepth))
	bvhDepthCeiling.With(labels).Set(float64(ceiling))
}

// CountQueries counts n queries of a kind ("visible", "first", …).
func CountQueries(tree, query string, n int) {
	bvhQueries.
		With(prometheus.Labels{treeLabel: tree, queryLabel: query}).
		Add(float64(n))
}

// ObserveBoundary records the boundary list length of a visibility query.
func ObserveBoundary(tree string, entries int) {
	bvhBoundaryEntries.
		With(prometheus.Labels{treeLabel: tree}).
		Observe(float64(entries))
}
