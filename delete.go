package bvh

import (
	"fmt"

	"github.com/npillmayer/bvh/metrics"
)

// Delete removes a batch of items from the tree and returns the number of
// items actually removed.
//
// Deletion is done in two phases. First, every affected leaf and its
// ancestors are marked. Then a single compacting pass removes the marked
// leaves, collapses internal nodes left with one child and recomputes the
// hulls of the remaining marked nodes. Items not present in the tree are
// reported and skipped.
func (t *Tree[I]) Delete(items ...I) int {
	if len(items) == 0 {
		T().Debugf("bvh: delete called with empty batch")
		return 0
	}
	count := 0
	for _, item := range items {
		id, ok := t.checkedLeaf(item)
		if !ok {
			continue
		}
		delete(t.leaves, item)
		t.markPath(id)
		count++
	}
	if count == 0 {
		return 0
	}
	t.root = t.compact(t.root)
	if t.root != nilNode {
		t.nodes.at(t.root).parent = nilNode
	}
	t.stable.Store(false)
	if t.instrumented() {
		metrics.CountDeleted(t.cfg.Name, count)
		t.observeShape()
	}
	return count
}

// BoundsChanged refreshes the hulls of a batch of items after the client
// moved or resized them. The tree structure is left untouched; only hulls
// along the paths from the changed leaves to the root are recomputed.
func (t *Tree[I]) BoundsChanged(items ...I) int {
	if len(items) == 0 {
		T().Debugf("bvh: bounds-changed called with empty batch")
		return 0
	}
	count := 0
	for _, item := range items {
		id, ok := t.checkedLeaf(item)
		if !ok {
			continue
		}
		t.markPath(id)
		count++
	}
	if count == 0 {
		return 0
	}
	t.refit(t.root)
	t.stable.Store(false)
	if t.instrumented() {
		metrics.CountBoundsChanged(t.cfg.Name, count)
	}
	return count
}

// checkedLeaf looks up the leaf of an item, reporting absent items and
// nodes of the wrong kind.
func (t *Tree[I]) checkedLeaf(item I) (NodeID, bool) {
	id, ok := t.leaves[item]
	if !ok {
		T().Infof("bvh: warning: %v: %v", ErrItemNotFound, item)
		return nilNode, false
	}
	if k := t.nodes.at(id).kind; k != kindLeaf {
		T().Errorf("bvh: warning: %v: node %d is %s", ErrNotALeaf, id, k)
		return nilNode, false
	}
	return id, true
}

// markPath marks a node and its ancestors. It stops at the first ancestor
// already marked, as everything above it has been marked before.
func (t *Tree[I]) markPath(id NodeID) {
	for id != nilNode {
		n := t.nodes.at(id)
		if n.mark {
			return
		}
		n.mark = true
		id = n.parent
	}
}

// compact removes marked leaves below id and returns the node taking the
// place of id, which may be nilNode. Parent links of returned nodes are set
// by the caller.
func (t *Tree[I]) compact(id NodeID) NodeID {
	n := t.nodes.at(id)
	if !n.mark {
		return id
	}
	n.mark = false
	switch n.kind {
	case kindLeaf:
		t.nodes.free(id)
		return nilNode
	case kindInternal:
		left := t.compact(n.left)
		right := t.compact(n.right)
		switch {
		case left == nilNode && right == nilNode:
			t.nodes.free(id)
			return nilNode
		case left == nilNode:
			t.nodes.free(id)
			return right
		case right == nilNode:
			t.nodes.free(id)
			return left
		}
		t.nodes.setChildren(id, left, right)
		t.nodes.recombine(id)
		return id
	default:
		panic(fmt.Sprintf("compact: unexpected node kind %s", n.kind))
	}
}

// refit recomputes hulls of marked nodes bottom-up and clears the marks.
// Marked leaves take the current bounds of their items.
func (t *Tree[I]) refit(id NodeID) {
	n := t.nodes.at(id)
	if !n.mark {
		return
	}
	n.mark = false
	switch n.kind {
	case kindLeaf:
		n.hull = n.item.Bounds()
	case kindInternal:
		t.refit(n.left)
		t.refit(n.right)
		t.nodes.recombine(id)
	default:
		panic(fmt.Sprintf("refit: unexpected node kind %s", n.kind))
	}
}
