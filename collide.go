package bvh

import (
	"fmt"
	"slices"

	"github.com/npillmayer/bvh/hull"
	"github.com/npillmayer/bvh/metrics"
)

// Accuracy selects how precisely AnyIntersect tests candidate items.
type Accuracy uint8

const (
	// AccuracyBounds accepts every item whose hull overlaps the query hull.
	AccuracyBounds Accuracy = iota
	// AccuracyExact additionally asks items implementing ExactIntersector
	// to test their precise geometry.
	AccuracyExact
)

// CollisionQuery is one entry of a batched collision test.
type CollisionQuery struct {
	Bounds hull.Hull
	// Geometry is handed to ExactIntersector items under AccuracyExact.
	Geometry any
	// Origin is the scene-graph owner the query stems from. Items owned by
	// Origin, by one of its ancestors or by one of its descendants are
	// never reported. May be nil.
	Origin Owner
	// Key disambiguates Origin if it is referenced from more than one place
	// in the scene graph. May be nil.
	Key HierarchyKey
}

// AnyIntersect tests a batch of queries against the tree and reports for
// every query whether at least one enabled item collides with it. The search
// for a query stops at its first hit.
//
// One result per query is appended to dst, and the extended slice is
// returned. AnyIntersect may run concurrently with other queries, but not
// with mutations of the tree.
func (t *Tree[I]) AnyIntersect(queries []CollisionQuery, mode Accuracy, dst []bool) []bool {
	base := len(dst)
	dst = slices.Grow(dst, len(queries))[:base+len(queries)]
	hits := dst[base:]
	clear(hits)
	if len(queries) == 0 || t.IsEmpty() {
		return dst
	}
	if t.instrumented() {
		metrics.CountQueries(t.cfg.Name, "collide", len(queries))
	}
	live := make([]int, 0, len(queries))
	for i := range queries {
		if !queries[i].Bounds.IsEmpty() {
			live = append(live, i)
		}
	}
	c := collision[I]{
		tree:    t,
		queries: queries,
		mode:    mode,
		hits:    hits,
		stack:   make([]int, 0, 2*len(live)),
	}
	c.descend(t.root, live)
	return dst
}

// collision holds the state of one AnyIntersect call. stack keeps the live
// query indices of every node on the current path.
type collision[I Item] struct {
	tree    *Tree[I]
	queries []CollisionQuery
	mode    Accuracy
	hits    []bool
	stack   []int
}

func (c *collision[I]) descend(id NodeID, live []int) {
	n := c.tree.nodes.at(id)
	mark := len(c.stack)
	for _, qi := range live {
		if !c.hits[qi] && c.queries[qi].Bounds.Intersects(n.hull) {
			c.stack = append(c.stack, qi)
		}
	}
	sub := c.stack[mark:]
	if len(sub) == 0 {
		return
	}
	switch n.kind {
	case kindLeaf:
		if n.item.Enabled(PolicyCollide) {
			for _, qi := range sub {
				if collides(n.item, &c.queries[qi], c.mode) {
					c.hits[qi] = true
				}
			}
		}
	case kindInternal:
		c.descend(n.left, sub)
		c.descend(n.right, sub)
	default:
		panic(fmt.Sprintf("any intersect: unexpected node kind %s", n.kind))
	}
	c.stack = c.stack[:mark]
}

// collides tests an item whose hull is known to overlap the query hull.
func collides[I Item](item I, q *CollisionQuery, mode Accuracy) bool {
	if excluded(item, q) {
		return false
	}
	if mode != AccuracyExact || isAggregate(item) {
		return true
	}
	if x, ok := any(item).(ExactIntersector); ok {
		return x.IntersectsGeometry(q.Geometry)
	}
	return true
}

// excluded reports whether item belongs to the origin of q, to one of its
// ancestors or to one of its descendants.
func excluded(item any, q *CollisionQuery) bool {
	if q.Origin == nil {
		return false
	}
	owned, ok := item.(Owned)
	if !ok {
		return false
	}
	owner := owned.Owner()
	if owner == nil {
		return false
	}
	if !isAncestorOrSelf(owner, q.Origin) && !isAncestorOrSelf(q.Origin, owner) {
		return false
	}
	if q.Key == nil {
		return true
	}
	keyed, ok := item.(Keyed)
	if !ok || keyed.HierarchyKey() == nil {
		return true
	}
	key := keyed.HierarchyKey()
	return q.Key.Contains(key) || key.Contains(q.Key)
}

func isAncestorOrSelf(ancestor, o Owner) bool {
	for o != nil {
		if o == ancestor {
			return true
		}
		o = o.ParentOwner()
	}
	return false
}
