package bvh

import (
	"fmt"

	"github.com/npillmayer/bvh/hull"
)

// varianceEpsilon is the variance below which centers count as coincident.
const varianceEpsilon = 1e-12

// cluster builds a subtree over a set of elements and returns its root.
// Elements are node IDs of leaves or of intact subtrees; they are linked
// below freshly allocated internal nodes. The slice is reordered in place.
//
// The split axis is the axis of maximum variance of the element centers,
// and elements are partitioned at the mean. Centers equal to the mean go to
// the currently smaller side.
func (t *Tree[I]) cluster(elems []NodeID) NodeID {
	switch len(elems) {
	case 0:
		return nilNode
	case 1:
		t.nodes.at(elems[0]).parent = nilNode
		return elems[0]
	}
	k := t.partition(elems)
	assert(k > 0 && k < len(elems), "cluster: one-sided partition")
	left := t.cluster(elems[:k])
	right := t.cluster(elems[k:])
	return t.nodes.newInternal(left, right)
}

// partition reorders elems so that elems[:k] form the left side and
// elems[k:] the right side of a split, and returns k. Both sides are
// guaranteed to be non-empty.
func (t *Tree[I]) partition(elems []NodeID) int {
	axis, mean, ok := t.splitAxis(elems)
	if ok {
		k := 0
		for i, id := range elems {
			c := hull.Axis(t.nodes.at(id).hull.Center(), axis)
			var toLeft bool
			switch {
			case c < mean:
				toLeft = true
			case c > mean:
				toLeft = false
			default:
				toLeft = k <= i-k // smaller side, left on ties
			}
			if toLeft {
				elems[i], elems[k] = elems[k], elems[i]
				k++
			}
		}
		if k > 0 && k < len(elems) {
			return k
		}
		T().Debugf("bvh: split at mean put all %d elements on one side", len(elems))
	}
	return alternate(elems)
}

// alternate is the fallback split: every element goes to the side which
// currently has fewer members.
func alternate(elems []NodeID) int {
	k := 0
	for i := range elems {
		if k <= i-k {
			elems[i], elems[k] = elems[k], elems[i]
			k++
		}
	}
	return k
}

// splitAxis computes mean and variance of the element centers per axis and
// selects the axis of maximum variance. ok is false if all variances are
// (close to) zero.
func (t *Tree[I]) splitAxis(elems []NodeID) (axis int, mean float64, ok bool) {
	n := float64(len(elems))
	var means, vars [3]float64
	for _, id := range elems {
		c := t.nodes.at(id).hull.Center()
		for a := range 3 {
			means[a] += hull.Axis(c, a)
		}
	}
	for a := range 3 {
		means[a] /= n
	}
	for _, id := range elems {
		c := t.nodes.at(id).hull.Center()
		for a := range 3 {
			d := hull.Axis(c, a) - means[a]
			vars[a] += d * d
		}
	}
	for a := 1; a < 3; a++ {
		if vars[a] > vars[axis] {
			axis = a
		}
	}
	if !(vars[axis]/n > varianceEpsilon) {
		return 0, 0, false
	}
	return axis, means[axis], true
}

// rebuild flattens the tree to its leaves and clusters them anew. Leaves are
// kept, internal nodes are freed.
func (t *Tree[I]) rebuild() {
	if t.root == nilNode {
		return
	}
	t.elems = t.elems[:0]
	var flatten func(id NodeID)
	flatten = func(id NodeID) {
		n := t.nodes.at(id)
		switch n.kind {
		case kindLeaf:
			t.elems = append(t.elems, id)
		case kindInternal:
			left, right := n.left, n.right
			t.nodes.free(id)
			flatten(left)
			flatten(right)
		default:
			panic(fmt.Sprintf("rebuild: unexpected node kind %s", n.kind))
		}
	}
	flatten(t.root)
	t.root = t.cluster(t.elems)
	t.rebuilds++
}
