package bvh

import (
	"math/rand"
	"slices"
	"sync"
	"testing"

	"github.com/npillmayer/bvh/hull"
	"github.com/stretchr/testify/require"
)

func TestAnyIntersectBoundsOnly(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	boxes := grid(2, 2)
	tree := buildTree(t, Config{}, boxes)
	hits := tree.AnyIntersect([]CollisionQuery{
		{Bounds: hull.Box(0.5, 0.5, 0.5, 0.7, 0.7, 0.7)},
		{Bounds: hull.Box(1.2, 1.2, 1.2, 1.8, 1.8, 1.8)}, // in the gap between cubes
	}, AccuracyBounds, nil)
	require.Equal(t, []bool{true, false}, hits)
	for _, b := range boxes {
		require.Zero(t, b.exactCalls, "exact test must not run for bounds-only queries")
	}
}

func TestAnyIntersectExact(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	miss := cube("miss", 0, 0, 0)
	hit := cube("hit", 3, 0, 0)
	hit.exact = true
	agg := cube("aggregate", 6, 0, 0)
	agg.aggregate = true
	tree := buildTree(t, Config{}, []*box{miss, hit, agg})
	hits := tree.AnyIntersect([]CollisionQuery{
		{Bounds: miss.Bounds(), Geometry: "sphere"},
		{Bounds: hit.Bounds(), Geometry: "sphere"},
		{Bounds: agg.Bounds(), Geometry: "sphere"},
	}, AccuracyExact, nil)
	require.Equal(t, []bool{false, true, true}, hits)
	require.Equal(t, 1, miss.exactCalls)
	require.Equal(t, 1, hit.exactCalls)
	require.Zero(t, agg.exactCalls, "aggregates are tested at bounds level only")
}

func TestAnyIntersectStopsAtFirstHit(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	a, b := cube("a", 0, 0, 0), cube("b", 0.5, 0, 0)
	a.exact, b.exact = true, true
	tree := buildTree(t, Config{}, []*box{a, b})
	hits := tree.AnyIntersect([]CollisionQuery{{Bounds: hull.Box(0.6, 0.2, 0.2, 0.8, 0.4, 0.4)}}, AccuracyExact, nil)
	require.Equal(t, []bool{true}, hits)
	require.Equal(t, 1, a.exactCalls+b.exactCalls)
}

func TestAnyIntersectOwnerExclusion(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	world := &group{name: "world"}
	car := &group{name: "car", parent: world}
	wheel := &group{name: "wheel", parent: car}
	house := &group{name: "house", parent: world}
	body := cube("body", 0, 0, 0)
	body.owner = car
	tree := buildTree(t, Config{}, []*box{body, cube("far", 10, 10, 10)})
	q := func(origin Owner) CollisionQuery {
		return CollisionQuery{Bounds: hull.Box(0.2, 0.2, 0.2, 0.4, 0.4, 0.4), Origin: origin}
	}
	hits := tree.AnyIntersect([]CollisionQuery{q(car), q(wheel), q(world), q(house), q(nil)}, AccuracyBounds, nil)
	require.Equal(t, []bool{false, false, false, true, true}, hits)
}

func TestAnyIntersectHierarchyKeys(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	world := &group{name: "world"}
	car := &group{name: "car", parent: world} // instanced twice in the scene
	body := cube("body", 0, 0, 0)
	body.owner, body.key = car, PathKey("/world/car1")
	unkeyed := cube("unkeyed", 5, 0, 0)
	unkeyed.owner = car
	tree := buildTree(t, Config{}, []*box{body, unkeyed})
	onBody := hull.Box(0.2, 0.2, 0.2, 0.4, 0.4, 0.4)
	onUnkeyed := hull.Box(5.2, 0.2, 0.2, 5.4, 0.4, 0.4)
	hits := tree.AnyIntersect([]CollisionQuery{
		{Bounds: onBody, Origin: car, Key: PathKey("/world/car2")},
		{Bounds: onBody, Origin: car, Key: PathKey("/world/car1/wheel")},
		{Bounds: onBody, Origin: car, Key: PathKey("/world/car1")},
		{Bounds: onBody, Origin: car},
		{Bounds: onUnkeyed, Origin: car, Key: PathKey("/world/car2")},
	}, AccuracyBounds, nil)
	require.Equal(t, []bool{true, false, false, false, false}, hits)
}

func TestAnyIntersectBatch(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	boxes := grid(2, 2)
	boxes[0].disabled = 1 << PolicyCollide
	tree := buildTree(t, Config{}, boxes)
	queries := []CollisionQuery{
		{Bounds: hull.Empty()},
		{Bounds: hull.Box(0.2, 0.2, 0.2, 0.4, 0.4, 0.4)}, // disabled cube only
		{Bounds: hull.Box(2.2, 2.2, 2.2, 2.4, 2.4, 2.4)},
		{Bounds: hull.Box(-5, -5, -5, -4, -4, -4)},
		{Bounds: hull.Box(-1, -1, -1, 10, 10, 10)},
	}
	hits := tree.AnyIntersect(queries, AccuracyBounds, nil)
	require.Equal(t, []bool{false, false, true, false, true}, hits)
	// results are appended to the caller's slice
	hits = tree.AnyIntersect(queries[3:], AccuracyBounds, hits[:1])
	require.Equal(t, []bool{false, false, true}, hits)
	require.Empty(t, tree.AnyIntersect(nil, AccuracyBounds, nil))
	//
	empty := buildTree(t, Config{}, nil)
	require.Equal(t, []bool{false, false}, empty.AnyIntersect(queries[1:3], AccuracyExact, nil))
}

func TestPathKeyContains(t *testing.T) {
	cases := []struct {
		k, other PathKey
		want     bool
	}{
		{"/world/car", "/world/car", true},
		{"/world/car", "/world/car/wheel", true},
		{"/world/car/", "/world/car/wheel", true},
		{"/world/car", "/world/carport", false},
		{"/world/car/wheel", "/world/car", false},
		{"/", "/world", true},
		{"", "/world", true},
	}
	for _, c := range cases {
		require.Equal(t, c.want, c.k.Contains(c.other), "%q contains %q", c.k, c.other)
	}
	require.False(t, PathKey("/world").Contains(nil))
}

func TestQueriesRunConcurrently(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	rnd := rand.New(rand.NewSource(5))
	boxes := randomBoxes(rnd, 300)
	tree := buildTree(t, Config{}, boxes)
	queries := make([]CollisionQuery, 50)
	for i := range queries {
		x, y, z := rnd.Float64()*100, rnd.Float64()*100, rnd.Float64()*100
		queries[i] = CollisionQuery{Bounds: hull.Box(x, y, z, x+2, y+2, z+2)}
	}
	want := tree.AnyIntersect(queries, AccuracyBounds, nil)
	wantAll := tree.SelectAll(BoxShape(hull.Box(20, 20, 20, 60, 60, 60)), nil)
	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var hits []bool
			var found []*box
			var vs VisibleSet
			for range 50 {
				hits = tree.AnyIntersect(queries[g:], AccuracyBounds, hits[:0])
				if !slices.Equal(want[g:], hits) {
					errs <- "collision results differ"
					return
				}
				found = tree.SelectAll(BoxShape(hull.Box(20, 20, 20, 60, 60, 60)), found[:0])
				if len(found) != len(wantAll) {
					errs <- "pick results differ"
					return
				}
				tree.SelectVisible(everything, false, PolicyRender, nil, &vs)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}
}
