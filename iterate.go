package bvh

import "fmt"

// ForEachItem walks the items of the tree in left-to-right leaf order.
//
// Iteration stops early if callback returns false.
func (t *Tree[I]) ForEachItem(fn func(item I) bool) {
	if t.IsEmpty() || fn == nil {
		return
	}
	t.forEachLeaf(t.root, func(n *node[I]) bool {
		return fn(n.item)
	})
}

// Items flattens the tree to a slice of its items.
func (t *Tree[I]) Items() []I {
	items := make([]I, 0, t.Len())
	t.ForEachItem(func(item I) bool {
		items = append(items, item)
		return true
	})
	return items
}

func (t *Tree[I]) forEachLeaf(id NodeID, fn func(*node[I]) bool) bool {
	assert(id != nilNode, "forEachLeaf called with nil node")
	n := t.nodes.at(id)
	switch n.kind {
	case kindLeaf:
		return fn(n)
	case kindInternal:
		if !t.forEachLeaf(n.left, fn) {
			return false
		}
		return t.forEachLeaf(n.right, fn)
	default:
		panic(fmt.Sprintf("forEachLeaf: unexpected node kind %s", n.kind))
	}
}

// each visits all nodes depth-first, pre-order, together with their depth.
func (t *Tree[I]) each(fn func(id NodeID, n *node[I], depth int) error) error {
	if t.IsEmpty() {
		return nil
	}
	var walk func(id NodeID, depth int) error
	walk = func(id NodeID, depth int) error {
		n := t.nodes.at(id)
		if err := fn(id, n, depth); err != nil {
			return err
		}
		if n.kind == kindInternal {
			if err := walk(n.left, depth+1); err != nil {
				return err
			}
			return walk(n.right, depth+1)
		}
		return nil
	}
	return walk(t.root, 0)
}
