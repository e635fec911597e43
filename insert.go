package bvh

import (
	"fmt"
	"math/bits"

	"github.com/npillmayer/bvh/metrics"
)

// Insert adds a batch of items to the tree.
//
// Items whose hull lies inside the root hull are sunk down to the cheapest
// leaf. Items outside of the root hull are collected per boundary node and
// attached to it in one local re-clustering step after the whole batch has
// been processed. Items already present in the tree are skipped.
//
// Insert keeps an estimate of the tree depth. Whenever the estimate exceeds
// the depth ceiling, the real depth is measured, and the tree is rebuilt
// from scratch if it is too deep.
func (t *Tree[I]) Insert(items ...I) {
	if len(items) == 0 {
		T().Debugf("bvh: insert called with empty batch")
		return
	}
	clear(t.pending)
	t.boundaryOrder = t.boundaryOrder[:0]
	t.fresh = t.fresh[:0]
	for _, item := range items {
		if _, dup := t.leaves[item]; dup {
			T().Infof("bvh: warning: %v", ErrDuplicateItem)
			continue
		}
		id := t.nodes.newLeaf(item)
		t.leaves[item] = id
		t.fresh = append(t.fresh, id)
	}
	if len(t.fresh) == 0 {
		return
	}
	t.stable.Store(false)
	if t.instrumented() {
		metrics.CountInserted(t.cfg.Name, len(t.fresh))
	}
	if t.root == nilNode || t.nodes.at(t.root).isLeaf() {
		// a single leaf cannot be extended incrementally
		t.elems = append(t.elems[:0], t.fresh...)
		if t.root != nilNode {
			t.elems = append(t.elems, t.root)
		}
		t.root = t.cluster(t.elems)
		t.estimatedMaxDepth, _ = t.measure()
		t.observeShape()
		return
	}
	for _, leaf := range t.fresh {
		t.insertLeaf(leaf)
	}
	t.flushPending()
	t.adaptDepth(len(t.fresh))
}

// insertLeaf sinks a new leaf into the tree or registers it as pending at
// the root, if it lies outside the root hull.
func (t *Tree[I]) insertLeaf(leaf NodeID) {
	lh := t.nodes.at(leaf).hull
	root := t.nodes.at(t.root)
	if !root.hull.Encompasses(lh) {
		root.hull.Combine(lh)
		t.registerPending(t.root, leaf)
		return
	}
	id := t.root
	for {
		n := t.nodes.at(id)
		switch n.kind {
		case kindLeaf:
			parent := n.parent
			inner := t.nodes.newInternal(id, leaf)
			t.nodes.replaceChild(parent, id, inner)
			if parent == nilNode {
				t.root = inner
			}
			return
		case kindInternal:
			n.hull.Combine(lh)
			id = t.cheaperChild(n, leaf)
		default:
			panic(fmt.Sprintf("insert: unexpected node kind %s", n.kind))
		}
	}
}

// cheaperChild selects the child of n whose hull grows least when enclosing
// the new leaf. Ties are broken by the distance of the hull centers.
func (t *Tree[I]) cheaperChild(n *node[I], leaf NodeID) NodeID {
	lh := t.nodes.at(leaf).hull
	left, right := t.nodes.at(n.left).hull, t.nodes.at(n.right).hull
	gl, gr := left.Growth(lh), right.Growth(lh)
	if gl == gr {
		c := lh.Center()
		gl = left.Center().Sub(c).Norm2()
		gr = right.Center().Sub(c).Norm2()
	}
	if gr < gl {
		return n.right
	}
	return n.left
}

func (t *Tree[I]) registerPending(boundary, leaf NodeID) {
	list, ok := t.pending[boundary]
	if !ok {
		t.boundaryOrder = append(t.boundaryOrder, boundary)
	}
	t.pending[boundary] = append(list, leaf)
}

// flushPending attaches the pending leaves to their boundary nodes. The
// subtree below a boundary node is kept intact and clustered as a single
// element together with its pending leaves.
func (t *Tree[I]) flushPending() {
	for _, b := range t.boundaryOrder {
		leaves := t.pending[b]
		n := t.nodes.at(b)
		parent := n.parent
		if n.kind == kindInternal {
			t.nodes.recombine(b) // drop the growth done while collecting
		}
		t.elems = append(t.elems[:0], b)
		t.elems = append(t.elems, leaves...)
		sub := t.cluster(t.elems)
		t.nodes.replaceChild(parent, b, sub)
		if parent == nilNode {
			t.root = sub
		} else {
			t.refitUpwards(parent)
		}
	}
	clear(t.pending)
	t.boundaryOrder = t.boundaryOrder[:0]
}

// refitUpwards recomputes hulls from id up to the root.
func (t *Tree[I]) refitUpwards(id NodeID) {
	for id != nilNode {
		t.nodes.recombine(id)
		id = t.nodes.at(id).parent
	}
}

// adaptDepth does the depth bookkeeping after an insertion of batchSize
// items and triggers a full rebuild if the tree became too deep. Whenever
// the depth is measured, the ceiling is raised if the tree is still too deep
// and lowered if it is shallow.
func (t *Tree[I]) adaptDepth(batchSize int) {
	t.estimatedMaxDepth += ceilLog2(batchSize) + 1
	if t.estimatedMaxDepth <= t.depthCeiling {
		return
	}
	depth, leaves := t.measure()
	T().Debugf("bvh: estimated depth %d exceeds ceiling %d, measured %d (%d leaves)",
		t.estimatedMaxDepth, t.depthCeiling, depth, leaves)
	before := depth
	rebuilt := depth > t.depthCeiling
	if rebuilt {
		t.rebuild()
		depth, leaves = t.measure()
	}
	if depth > t.depthCeiling {
		t.depthCeiling += t.cfg.DepthIncrement
	} else if float64(depth)*1.5 < float64(t.depthCeiling) {
		t.depthCeiling = max(t.cfg.DepthFloor, t.depthCeiling-t.cfg.DepthIncrement)
	}
	if rebuilt {
		T().Infof("bvh: %s rebuilt, depth %d → %d, ceiling now %d", t.cfg.Name, before, depth, t.depthCeiling)
		if t.instrumented() {
			metrics.CountRebuild(t.cfg.Name)
		}
		t.publish(RebuildEvent{
			Tree:        t.cfg.Name,
			Leaves:      leaves,
			DepthBefore: before,
			DepthAfter:  depth,
			Ceiling:     t.depthCeiling,
		})
	}
	t.estimatedMaxDepth = depth
	t.observeShape()
}

func (t *Tree[I]) observeShape() {
	if t.instrumented() {
		metrics.SetShape(t.cfg.Name, len(t.leaves), t.estimatedMaxDepth, t.depthCeiling)
	}
}

// ceilLog2 returns ⌈log₂ n⌉ for n ≥ 1.
func ceilLog2(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}
