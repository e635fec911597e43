package bvh

import "github.com/npillmayer/bvh/hull"

// NodeID addresses a node in the node pool of a tree.
type NodeID int32

const nilNode NodeID = -1

type nodeKind uint8

const (
	kindFree nodeKind = iota
	kindLeaf
	kindInternal
)

func (k nodeKind) String() string {
	switch k {
	case kindFree:
		return "free"
	case kindLeaf:
		return "leaf"
	case kindInternal:
		return "internal"
	}
	return "kind?"
}

// node is either a leaf (wrapping an item) or an internal node with exactly
// two children. Free nodes are chained through parent.
type node[I Item] struct {
	kind   nodeKind
	mark   bool
	hull   hull.Hull
	parent NodeID
	left   NodeID
	right  NodeID
	item   I
}

func (n *node[I]) isLeaf() bool { return n.kind == kindLeaf }

// pool is an arena of nodes. Nodes refer to each other by index, never by
// pointer, so the backing slice may grow freely.
type pool[I Item] struct {
	nodes    []node[I]
	freeList NodeID
	live     int
}

func newPool[I Item]() pool[I] {
	return pool[I]{freeList: nilNode}
}

func (p *pool[I]) at(id NodeID) *node[I] {
	assert(id >= 0 && int(id) < len(p.nodes), "node id out of range")
	return &p.nodes[id]
}

func (p *pool[I]) alloc() NodeID {
	var id NodeID
	if p.freeList != nilNode {
		id = p.freeList
		p.freeList = p.nodes[id].parent
	} else {
		p.nodes = append(p.nodes, node[I]{})
		id = NodeID(len(p.nodes) - 1)
	}
	var zero I
	p.nodes[id] = node[I]{
		hull:   hull.Empty(),
		parent: nilNode,
		left:   nilNode,
		right:  nilNode,
		item:   zero,
	}
	p.live++
	return id
}

func (p *pool[I]) newLeaf(item I) NodeID {
	id := p.alloc()
	n := &p.nodes[id]
	n.kind = kindLeaf
	n.item = item
	n.hull = item.Bounds()
	return id
}

// newInternal links two subtrees below a fresh internal node.
func (p *pool[I]) newInternal(left, right NodeID) NodeID {
	id := p.alloc()
	p.setChildren(id, left, right)
	p.nodes[id].kind = kindInternal
	p.recombine(id)
	return id
}

func (p *pool[I]) setChildren(id, left, right NodeID) {
	n := &p.nodes[id]
	n.left, n.right = left, right
	p.nodes[left].parent = id
	p.nodes[right].parent = id
}

// recombine sets the hull of an internal node to the union of its children.
func (p *pool[I]) recombine(id NodeID) {
	n := &p.nodes[id]
	h := p.nodes[n.left].hull
	h.Combine(p.nodes[n.right].hull)
	n.hull = h
}

// replaceChild makes child take the place of old below parent. If parent is
// nilNode, nothing is linked and child becomes parentless.
func (p *pool[I]) replaceChild(parent, old, child NodeID) {
	if child != nilNode {
		p.nodes[child].parent = parent
	}
	if parent == nilNode {
		return
	}
	n := &p.nodes[parent]
	switch old {
	case n.left:
		n.left = child
	case n.right:
		n.right = child
	default:
		panic("replaceChild: node is not a child of parent")
	}
}

func (p *pool[I]) free(id NodeID) {
	n := &p.nodes[id]
	assert(n.kind != kindFree, "double free of node")
	var zero I
	*n = node[I]{kind: kindFree, parent: p.freeList, left: nilNode, right: nilNode, item: zero}
	p.freeList = id
	p.live--
}

// reset drops all nodes.
func (p *pool[I]) reset() {
	clear(p.nodes)
	p.nodes = p.nodes[:0]
	p.freeList = nilNode
	p.live = 0
}
