package bvh

import (
	"math/rand"
	"testing"

	"github.com/npillmayer/bvh/hull"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// box is a test item.
type box struct {
	name       string
	h          hull.Hull
	disabled   uint8 // bit set of disabled policies
	unpickable bool
	aggregate  bool
	owner      Owner
	key        HierarchyKey
	exact      bool // result of the precise test
	exactCalls int
}

func (b *box) Bounds() hull.Hull          { return b.h }
func (b *box) Enabled(p Policy) bool      { return b.disabled&(1<<p) == 0 }
func (b *box) IsPickable() bool           { return !b.unpickable }
func (b *box) IsAggregate() bool          { return b.aggregate }
func (b *box) Owner() Owner               { return b.owner }
func (b *box) HierarchyKey() HierarchyKey { return b.key }
func (b *box) String() string             { return b.name }

func (b *box) IntersectsGeometry(any) bool {
	b.exactCalls++
	return b.exact
}

// group is a test scene-graph owner.
type group struct {
	name   string
	parent *group
}

func (g *group) ParentOwner() Owner {
	if g.parent == nil {
		return nil
	}
	return g.parent
}

func cube(name string, x, y, z float64) *box {
	return &box{name: name, h: hull.Box(x, y, z, x+1, y+1, z+1)}
}

// grid creates n×n×n unit cubes with their lower corners spaced by step.
func grid(n int, step float64) []*box {
	var boxes []*box
	for x := range n {
		for y := range n {
			for z := range n {
				boxes = append(boxes, cube("", float64(x)*step, float64(y)*step, float64(z)*step))
			}
		}
	}
	for i, b := range boxes {
		b.name = "cube-" + string(rune('A'+i%26))
	}
	return boxes
}

func randomBoxes(rnd *rand.Rand, n int) []*box {
	boxes := make([]*box, n)
	for i := range boxes {
		x, y, z := rnd.Float64()*100, rnd.Float64()*100, rnd.Float64()*100
		w, h, d := rnd.Float64()*5, rnd.Float64()*5, rnd.Float64()*5
		boxes[i] = &box{name: "rnd", h: hull.Box(x, y, z, x+w, y+h, z+d)}
	}
	return boxes
}

func buildTree(t *testing.T, cfg Config, items []*box) *Tree[*box] {
	t.Helper()
	tree, err := Build(cfg, items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tree.Check(); err != nil {
		t.Fatalf("invariant check failed: %v", err)
	}
	return tree
}

func setupTracing(t *testing.T) func() {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	return teardown
}
