package bvh

import (
	"strings"

	"github.com/npillmayer/bvh/hull"
)

// Policy selects which kind of query an item is asked to take part in.
type Policy uint8

// Query policies.
const (
	PolicyRender  Policy = iota // visibility culling
	PolicyPick                  // single-shape picking
	PolicyCollide               // collision detection
)

func (p Policy) String() string {
	switch p {
	case PolicyRender:
		return "render"
	case PolicyPick:
		return "pick"
	case PolicyCollide:
		return "collide"
	}
	return "policy?"
}

// Item is the payload wrapped by a leaf. Items are owned by the client; a
// tree never changes them and never extends their lifetime beyond Delete.
//
// Items are used as map keys and must therefore be comparable. Pointer types
// are the usual choice.
type Item interface {
	comparable
	// Bounds returns the current hull of the item. The tree copies it at
	// insertion time and again for every call of BoundsChanged.
	Bounds() hull.Hull
	// Enabled reports whether the item takes part in queries of a policy.
	Enabled(Policy) bool
}

// Pickable may be implemented by items which are not always pickable.
// Items not implementing it are pickable whenever they are enabled for
// PolicyPick.
type Pickable interface {
	IsPickable() bool
}

// Owner is a node of the client's scene graph owning items.
// Owners are compared by identity.
type Owner interface {
	ParentOwner() Owner
}

// Owned is implemented by items which belong to a scene-graph owner. Owned
// items never collide with their own owner, its ancestors or descendants.
type Owned interface {
	Owner() Owner
}

// HierarchyKey is an opaque key addressing an instance of a scene-graph
// path. It disambiguates owners which are referenced from more than one
// place of the scene graph.
type HierarchyKey interface {
	// Contains reports whether other addresses the same path as k or a path
	// below it.
	Contains(other HierarchyKey) bool
}

// Keyed is implemented by items carrying a hierarchy key.
type Keyed interface {
	HierarchyKey() HierarchyKey
}

// ExactIntersector is implemented by items able to test their precise
// geometry against the geometry of a collision query.
type ExactIntersector interface {
	IntersectsGeometry(geometry any) bool
}

// Aggregate is implemented by items standing for a group of geometries.
// Aggregates are collision-tested at bounds level only.
type Aggregate interface {
	IsAggregate() bool
}

// Shape is a query shape for picking. Concrete shapes (rays, cones,
// polytopes) are implemented by clients.
type Shape interface {
	IntersectsHull(hull.Hull) bool
}

// PathKey is a HierarchyKey of slash-separated path segments, e.g. "/world/car/wheel".
type PathKey string

// Contains reports whether other is k or lies below k.
func (k PathKey) Contains(other HierarchyKey) bool {
	o, ok := other.(PathKey)
	if !ok {
		return false
	}
	if k == o || k == "" || k == "/" {
		return true
	}
	prefix := strings.TrimSuffix(string(k), "/") + "/"
	return strings.HasPrefix(string(o), prefix)
}

func isPickable(item any) bool {
	if p, ok := item.(Pickable); ok {
		return p.IsPickable()
	}
	return true
}

func isAggregate(item any) bool {
	if a, ok := item.(Aggregate); ok {
		return a.IsAggregate()
	}
	return false
}
