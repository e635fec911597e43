package bvh

import (
	"context"

	"github.com/guiguan/caster"
)

// RebuildEvent is broadcast to subscribers whenever a tree rebuilt itself
// because it grew too deep.
type RebuildEvent struct {
	Tree        string
	Leaves      int
	DepthBefore int
	DepthAfter  int
	Ceiling     int // depth ceiling after the rebuild
}

// Subscribe returns a channel receiving a RebuildEvent for every full rebuild
// of the tree. Events are published synchronously from within Insert, so
// subscribers must drain their channel; capacity sets its buffer size.
// The subscription ends when ctx is done or the tree is closed.
func (t *Tree[I]) Subscribe(ctx context.Context, capacity uint) (<-chan interface{}, bool) {
	if ctx == nil {
		ctx = context.Background()
	}
	if t.cast == nil {
		t.cast = caster.New(nil) // we will broadcast messages on rebuilds
	}
	return t.cast.Sub(ctx, capacity)
}

// Close ends all subscriptions to the tree. The tree itself stays usable.
func (t *Tree[I]) Close() {
	if t.cast != nil {
		t.cast.Close()
		t.cast = nil
	}
}

func (t *Tree[I]) publish(ev RebuildEvent) {
	if t.cast == nil {
		return
	}
	if !t.cast.Pub(ev) {
		T().Debugf("bvh: rebuild event for %s not delivered", ev.Tree)
	}
}
