/*
Package bvh implements a bounding hierarchy tree for scene items.

Bounding Hierarchies

A bounding hierarchy indexes the spatial extent of items (solids, lights,
sounds, anything with an axis-aligned hull) so that a renderer, a picker and
a collision pass can find the items overlapping a region without testing all
of them. Every leaf wraps one client item, every internal node has exactly
two children and a hull enclosing both of them.

Clients batch structural changes once per update cycle

	tree.Insert(newItems...)
	tree.Delete(removedItems...)
	tree.BoundsChanged(movedItems...)

and then issue read-only queries once per frame:

	tree.SelectVisible(frustumBox, changed, bvh.PolicyRender, draw, &visible)
	item, ok := tree.SelectFirst(pickShape)
	hits = tree.AnyIntersect(queries, bvh.AccuracyBounds, hits[:0])

Trees are built top-down by splitting at the mean of the item centers along
the axis of largest variance. Insertions extend the tree locally; the tree
keeps an estimate of its depth and rebuilds itself completely if the real
depth exceeds an adaptive ceiling.

Mutations have to be serialized by the client. Read-only queries may run
concurrently with each other, as long as no mutation is in progress; result
storage is always supplied by the caller.

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

All rights reserved.

Please refer to the License file in the repository root.

*/
package bvh

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// BVHError is an error type for the bvh module
type BVHError string

func (e BVHError) Error() string {
	return string(e)
}

// ErrItemNotFound is flagged whenever an item is not a member of a tree.
const ErrItemNotFound = BVHError("item not indexed by tree")

// ErrDuplicateItem is flagged whenever an item is inserted twice.
const ErrDuplicateItem = BVHError("item already indexed by tree")

// ErrNotALeaf is flagged whenever a node of the wrong kind is handed to an
// operation expecting a leaf.
const ErrNotALeaf = BVHError("node is not a leaf")

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
