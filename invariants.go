package bvh

import "fmt"

// Check validates the structural invariants of the tree:
//
//   - every internal node has exactly two children linking back to it,
//   - the hull of every internal node is the union of its children's hulls,
//   - no node is marked outside of a mutation,
//   - the item index and the leaves of the tree agree,
//   - the node pool holds no unreachable live nodes.
//
// Check is meant for tests and debugging.
func (t *Tree[I]) Check() error {
	if t == nil {
		return fmt.Errorf("%w: nil tree", ErrInvalidConfig)
	}
	if t.root == nilNode {
		if len(t.leaves) != 0 {
			return fmt.Errorf("%w: empty tree indexes %d items", ErrInvariant, len(t.leaves))
		}
		if t.nodes.live != 0 {
			return fmt.Errorf("%w: empty tree holds %d live nodes", ErrInvariant, t.nodes.live)
		}
		return nil
	}
	if p := t.nodes.at(t.root).parent; p != nilNode {
		return fmt.Errorf("%w: root has parent %d", ErrInvariant, p)
	}
	if t.depthCeiling < t.cfg.DepthFloor {
		return fmt.Errorf("%w: depth ceiling %d below floor %d", ErrInvariant, t.depthCeiling, t.cfg.DepthFloor)
	}
	nodes, leaves, err := t.checkNode(t.root)
	if err != nil {
		return err
	}
	if leaves != len(t.leaves) {
		return fmt.Errorf("%w: %d leaves reachable, %d items indexed", ErrInvariant, leaves, len(t.leaves))
	}
	if nodes != t.nodes.live {
		return fmt.Errorf("%w: %d nodes reachable, %d live in pool", ErrInvariant, nodes, t.nodes.live)
	}
	return nil
}

func (t *Tree[I]) checkNode(id NodeID) (nodes, leaves int, err error) {
	n := t.nodes.at(id)
	if n.mark {
		return 0, 0, fmt.Errorf("%w: node %d left marked", ErrInvariant, id)
	}
	switch n.kind {
	case kindLeaf:
		if lid, ok := t.leaves[n.item]; !ok || lid != id {
			return 0, 0, fmt.Errorf("%w: leaf %d not indexed by its item", ErrInvariant, id)
		}
		return 1, 1, nil
	case kindInternal:
		for _, c := range [2]NodeID{n.left, n.right} {
			if c == nilNode {
				return 0, 0, fmt.Errorf("%w: internal node %d has a nil child", ErrInvariant, id)
			}
			if p := t.nodes.at(c).parent; p != id {
				return 0, 0, fmt.Errorf("%w: child %d of %d links to parent %d", ErrInvariant, c, id, p)
			}
		}
		if n.left == n.right {
			return 0, 0, fmt.Errorf("%w: internal node %d shares its child", ErrInvariant, id)
		}
		want := t.nodes.at(n.left).hull.Union(t.nodes.at(n.right).hull)
		if !n.hull.Equal(want) {
			return 0, 0, fmt.Errorf("%w: hull of node %d is %v, children span %v", ErrInvariant, id, n.hull, want)
		}
		ln, ll, err := t.checkNode(n.left)
		if err != nil {
			return 0, 0, err
		}
		rn, rl, err := t.checkNode(n.right)
		if err != nil {
			return 0, 0, err
		}
		return ln + rn + 1, ll + rl, nil
	default:
		return 0, 0, fmt.Errorf("%w: node %d reachable with kind %s", ErrInvariant, id, n.kind)
	}
}
