package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	labels := prometheus.Labels{treeLabel: "metrics-test"}
	CountInserted("metrics-test", 3)
	CountInserted("metrics-test", 2)
	CountDeleted("metrics-test", 1)
	CountBoundsChanged("metrics-test", 4)
	CountRebuild("metrics-test")
	require.Equal(t, 5.0, testutil.ToFloat64(bvhInsertedLeaves.With(labels)))
	require.Equal(t, 1.0, testutil.ToFloat64(bvhDeletedLeaves.With(labels)))
	require.Equal(t, 4.0, testutil.ToFloat64(bvhBoundsChanged.With(labels)))
	require.Equal(t, 1.0, testutil.ToFloat64(bvhRebuilds.With(labels)))
}

func TestShapeGauges(t *testing.T) {
	labels := prometheus.Labels{treeLabel: "shape-test"}
	SetShape("shape-test", 10, 4, 50)
	require.Equal(t, 10.0, testutil.ToFloat64(bvhLeaves.With(labels)))
	require.Equal(t, 4.0, testutil.ToFloat64(bvhEstimatedDepth.With(labels)))
	require.Equal(t, 50.0, testutil.ToFloat64(bvhDepthCeiling.With(labels)))
	SetShape("shape-test", 12, 5, 55)
	require.Equal(t, 55.0, testutil.ToFloat64(bvhDepthCeiling.With(labels)))
}

func TestQueryCounters(t *testing.T) {
	CountQueries("query-test", "visible", 1)
	CountQueries("query-test", "collide", 7)
	CountQueries("query-test", "visible", 1)
	visible := prometheus.Labels{treeLabel: "query-test", queryLabel: "visible"}
	collide := prometheus.Labels{treeLabel: "query-test", queryLabel: "collide"}
	require.Equal(t, 2.0, testutil.ToFloat64(bvhQueries.With(visible)))
	require.Equal(t, 7.0, testutil.ToFloat64(bvhQueries.With(collide)))
	ObserveBoundary("query-test", 3)
	ObserveBoundary("query-test", 40)
	require.Equal(t, 1, testutil.CollectAndCount(bvhBoundaryEntries))
}
