package bvh

import (
	"fmt"

	"github.com/npillmayer/bvh/hull"
	"github.com/npillmayer/bvh/metrics"
)

// BoundaryEntry is a node recorded by a visibility query. Wholesale entries
// are internal nodes lying completely inside the query box, all other
// entries are single visible leaves.
type BoundaryEntry struct {
	Node      NodeID
	Hull      hull.Hull
	Wholesale bool
}

// VisibleSet receives the boundary list of a visibility query. It is owned
// by the client and meant to be reused from frame to frame; SelectVisible
// clears it at the start of each call. Node IDs are valid until the next
// mutation of the tree.
type VisibleSet struct {
	Boundary []BoundaryEntry
	// FastPath is set if the query was answered without traversal.
	FastPath bool
}

// Reset clears the set, keeping its storage.
func (vs *VisibleSet) Reset() {
	vs.Boundary = vs.Boundary[:0]
	vs.FastPath = false
}

// SelectVisible selects the items overlapping box which are enabled for
// policy. visit is called synchronously for every visible item and must not
// mutate the tree; it may be nil. The boundary list of vs collects the
// visible leaves which are not fully inside box and the internal nodes
// which are, for cheap re-testing in the next frame.
//
// If stateChanged is false, box encloses the whole tree and the previous
// call found the tree stable, the query is answered by recording the root
// without traversal and without calling visit.
//
// SelectVisible may run concurrently with other queries, but not with
// mutations of the tree.
func (t *Tree[I]) SelectVisible(box hull.Hull, stateChanged bool, policy Policy, visit func(I), vs *VisibleSet) {
	assert(vs != nil, "SelectVisible requires a visible set")
	vs.Reset()
	if t.IsEmpty() {
		t.stable.Store(false)
		return
	}
	root := t.nodes.at(t.root)
	rootInside := box.Encompasses(root.hull)
	if !stateChanged && rootInside && t.stable.Load() && !t.cfg.DisableStableShortcut {
		switch root.kind {
		case kindLeaf: // recorded like a traversal would, but without callback
			if root.item.Enabled(policy) {
				vs.Boundary = append(vs.Boundary, BoundaryEntry{Node: t.root, Hull: root.hull})
			}
		case kindInternal:
			vs.Boundary = append(vs.Boundary, BoundaryEntry{Node: t.root, Hull: root.hull, Wholesale: true})
		default:
			panic(fmt.Sprintf("select visible: unexpected node kind %s", root.kind))
		}
		vs.FastPath = true
		t.observeVisible(vs)
		return
	}
	if visit == nil {
		visit = func(I) {}
	}
	t.selectVisible(t.root, box, false, policy, visit, vs)
	t.stable.Store(!stateChanged && rootInside)
	t.observeVisible(vs)
}

func (t *Tree[I]) observeVisible(vs *VisibleSet) {
	if !t.instrumented() {
		return
	}
	if vs.FastPath {
		metrics.CountQueries(t.cfg.Name, "visible_fast", 1)
	} else {
		metrics.CountQueries(t.cfg.Name, "visible", 1)
	}
	metrics.ObserveBoundary(t.cfg.Name, len(vs.Boundary))
}

func (t *Tree[I]) selectVisible(id NodeID, box hull.Hull, inside bool, policy Policy, visit func(I), vs *VisibleSet) {
	n := t.nodes.at(id)
	switch n.kind {
	case kindLeaf:
		if !n.item.Enabled(policy) {
			return
		}
		if inside {
			visit(n.item)
			return
		}
		if !box.Intersects(n.hull) {
			return
		}
		visit(n.item)
		vs.Boundary = append(vs.Boundary, BoundaryEntry{Node: id, Hull: n.hull})
	case kindInternal:
		if !inside {
			if !box.Intersects(n.hull) {
				return
			}
			if box.Encompasses(n.hull) {
				vs.Boundary = append(vs.Boundary, BoundaryEntry{Node: id, Hull: n.hull, Wholesale: true})
				inside = true
			}
		}
		t.selectVisible(n.left, box, inside, policy, visit, vs)
		t.selectVisible(n.right, box, inside, policy, visit, vs)
	default:
		panic(fmt.Sprintf("select visible: unexpected node kind %s", n.kind))
	}
}

// ExpandVisible calls fn for every item covered by the boundary list of vs
// which is enabled for policy. vs has to stem from a call of SelectVisible
// on t without intermediate mutations.
func (t *Tree[I]) ExpandVisible(vs *VisibleSet, policy Policy, fn func(I)) {
	for _, e := range vs.Boundary {
		if !e.Wholesale {
			if item := t.nodes.at(e.Node).item; item.Enabled(policy) {
				fn(item)
			}
			continue
		}
		t.forEachLeaf(e.Node, func(n *node[I]) bool {
			if n.item.Enabled(policy) {
				fn(n.item)
			}
			return true
		})
	}
}

// SelectFirst returns the first enabled, pickable item whose hull passes the
// intersection test of shape. Right children are visited before left ones;
// the result is the first in traversal order, not necessarily the nearest.
func (t *Tree[I]) SelectFirst(shape Shape) (item I, found bool) {
	if t.IsEmpty() || shape == nil {
		return item, false
	}
	if t.instrumented() {
		metrics.CountQueries(t.cfg.Name, "first", 1)
	}
	return t.selectFirst(t.root, shape)
}

func (t *Tree[I]) selectFirst(id NodeID, shape Shape) (I, bool) {
	n := t.nodes.at(id)
	var zero I
	if !shape.IntersectsHull(n.hull) {
		return zero, false
	}
	switch n.kind {
	case kindLeaf:
		if n.item.Enabled(PolicyPick) && isPickable(n.item) {
			return n.item, true
		}
		return zero, false
	case kindInternal:
		if item, ok := t.selectFirst(n.right, shape); ok {
			return item, true
		}
		return t.selectFirst(n.left, shape)
	default:
		panic(fmt.Sprintf("select first: unexpected node kind %s", n.kind))
	}
}

// SelectAll appends to out every enabled, pickable item whose hull passes
// the intersection test of shape, and returns the extended slice. Clients
// determine the nearest item with their own distance metric.
func (t *Tree[I]) SelectAll(shape Shape, out []I) []I {
	if t.IsEmpty() || shape == nil {
		return out
	}
	if t.instrumented() {
		metrics.CountQueries(t.cfg.Name, "all", 1)
	}
	return t.selectAll(t.root, shape, out)
}

func (t *Tree[I]) selectAll(id NodeID, shape Shape, out []I) []I {
	n := t.nodes.at(id)
	if !shape.IntersectsHull(n.hull) {
		return out
	}
	switch n.kind {
	case kindLeaf:
		if n.item.Enabled(PolicyPick) && isPickable(n.item) {
			out = append(out, n.item)
		}
		return out
	case kindInternal:
		out = t.selectAll(n.right, shape, out)
		return t.selectAll(n.left, shape, out)
	default:
		panic(fmt.Sprintf("select all: unexpected node kind %s", n.kind))
	}
}

// BoxShape is a Shape selecting by hull overlap with a box.
type BoxShape hull.Hull

// IntersectsHull reports whether h overlaps the box.
func (b BoxShape) IntersectsHull(h hull.Hull) bool {
	return hull.Hull(b).Intersects(h)
}
