package bvh

import (
	"fmt"
	"sync/atomic"

	"github.com/guiguan/caster"
	"github.com/npillmayer/bvh/hull"
)

// Tree is a bounding hierarchy over items of type I.
//
// The root is nil for an empty tree, a bare leaf for a single item and an
// internal node otherwise. Nodes live in a pool owned by the tree and refer
// to each other by NodeID.
type Tree[I Item] struct {
	cfg    Config
	nodes  pool[I]
	root   NodeID
	leaves map[I]NodeID // item → leaf

	estimatedMaxDepth int
	depthCeiling      int
	rebuilds          int
	stable            atomic.Bool // last visibility query saw the whole tree inside

	// insert-batch map: boundary node → pending leaves; cleared per Insert call
	pending       map[NodeID][]NodeID
	boundaryOrder []NodeID

	// scratch buffers of mutations, reused across calls
	fresh []NodeID
	elems []NodeID

	cast *caster.Caster // rebuild notifications, created on first Subscribe
}

// New creates an empty tree with validated configuration.
func New[I Item](cfg Config) (*Tree[I], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()
	t := &Tree[I]{
		cfg:          cfg,
		nodes:        newPool[I](),
		root:         nilNode,
		leaves:       make(map[I]NodeID),
		depthCeiling: cfg.DepthFloor,
		pending:      make(map[NodeID][]NodeID),
	}
	return t, nil
}

// Build creates a tree from a batch of items with a top-down construction.
func Build[I Item](cfg Config, items []I) (*Tree[I], error) {
	t, err := New[I](cfg)
	if err != nil {
		return nil, err
	}
	t.Insert(items...)
	return t, nil
}

// Config returns a copy of the effective tree configuration.
func (t *Tree[I]) Config() Config {
	return t.cfg
}

// IsEmpty reports whether the tree has no items.
func (t *Tree[I]) IsEmpty() bool {
	return t == nil || t.root == nilNode
}

// Len returns the number of items in the tree.
func (t *Tree[I]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.leaves)
}

// Contains reports whether an item is indexed by the tree.
func (t *Tree[I]) Contains(item I) bool {
	if t == nil {
		return false
	}
	_, ok := t.leaves[item]
	return ok
}

// Hull returns the hull of the root, or an empty hull for an empty tree.
func (t *Tree[I]) Hull() hull.Hull {
	if t.IsEmpty() {
		return hull.Empty()
	}
	return t.nodes.at(t.root).hull
}

// Depth measures the maximum leaf depth of the tree. A single leaf has
// depth 0, an empty tree has depth -1.
func (t *Tree[I]) Depth() int {
	if t.IsEmpty() {
		return -1
	}
	depth, _ := t.measure()
	return depth
}

// EstimatedDepth returns the cheap upper-bound estimate of the tree depth
// which drives the rebuild heuristic.
func (t *Tree[I]) EstimatedDepth() int {
	return t.estimatedMaxDepth
}

// DepthCeiling returns the current adaptive depth ceiling.
func (t *Tree[I]) DepthCeiling() int {
	return t.depthCeiling
}

// Stats summarizes the shape of a tree.
type Stats struct {
	Leaves         int
	Internals      int
	Depth          int // -1 for an empty tree
	EstimatedDepth int
	DepthCeiling   int
	Rebuilds       int // number of full rebuilds triggered by insertions
}

func (s Stats) String() string {
	return fmt.Sprintf("leaves=%d internals=%d depth=%d (est. %d, ceiling %d) rebuilds=%d",
		s.Leaves, s.Internals, s.Depth, s.EstimatedDepth, s.DepthCeiling, s.Rebuilds)
}

// Stats walks the tree and collects statistics.
func (t *Tree[I]) Stats() Stats {
	s := Stats{Depth: -1, EstimatedDepth: t.estimatedMaxDepth, DepthCeiling: t.depthCeiling, Rebuilds: t.rebuilds}
	if t.IsEmpty() {
		return s
	}
	s.Depth, s.Leaves = t.measure()
	s.Internals = t.nodes.live - s.Leaves
	return s
}

// measure returns the maximum leaf depth and the number of leaves.
func (t *Tree[I]) measure() (depth, leaves int) {
	if t.root == nilNode {
		return -1, 0
	}
	var walk func(id NodeID, d int)
	walk = func(id NodeID, d int) {
		n := t.nodes.at(id)
		switch n.kind {
		case kindLeaf:
			leaves++
			depth = max(depth, d)
		case kindInternal:
			walk(n.left, d+1)
			walk(n.right, d+1)
		default:
			panic(fmt.Sprintf("measure: unexpected node kind %s", n.kind))
		}
	}
	walk(t.root, 0)
	return depth, leaves
}

// Clear removes all items from the tree. The adaptive depth ceiling is kept.
func (t *Tree[I]) Clear() {
	t.nodes.reset()
	clear(t.leaves)
	t.root = nilNode
	t.estimatedMaxDepth = 0
	t.stable.Store(false)
}

func (t *Tree[I]) instrumented() bool {
	return t.cfg.Instrument
}
