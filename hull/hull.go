package hull

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Hull is an axis-aligned box given by its lower and upper corner.
//
// For non-empty hulls Lower <= Upper holds componentwise. An empty hull has
// its lower corner at +Inf and its upper corner at -Inf.
type Hull struct {
	Lower r3.Vector
	Upper r3.Vector
}

// New creates a hull from two corners. The corners are normalized, i.e.
// clients may pass them in any order.
func New(a, b r3.Vector) Hull {
	return Hull{
		Lower: r3.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)},
		Upper: r3.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)},
	}
}

// Box is a shortcut for New with explicit coordinates.
func Box(x0, y0, z0, x1, y1, z1 float64) Hull {
	return New(r3.Vector{X: x0, Y: y0, Z: z0}, r3.Vector{X: x1, Y: y1, Z: z1})
}

// Empty returns a hull which encloses nothing.
func Empty() Hull {
	inf := math.Inf(1)
	return Hull{
		Lower: r3.Vector{X: inf, Y: inf, Z: inf},
		Upper: r3.Vector{X: -inf, Y: -inf, Z: -inf},
	}
}

// IsEmpty reports whether h encloses nothing (upper < lower on any axis).
func (h Hull) IsEmpty() bool {
	return h.Upper.X < h.Lower.X || h.Upper.Y < h.Lower.Y || h.Upper.Z < h.Lower.Z
}

// Combine grows h in place to enclose other as well.
func (h *Hull) Combine(other Hull) {
	if other.IsEmpty() {
		return
	}
	if h.IsEmpty() {
		*h = other
		return
	}
	h.Lower.X = math.Min(h.Lower.X, other.Lower.X)
	h.Lower.Y = math.Min(h.Lower.Y, other.Lower.Y)
	h.Lower.Z = math.Min(h.Lower.Z, other.Lower.Z)
	h.Upper.X = math.Max(h.Upper.X, other.Upper.X)
	h.Upper.Y = math.Max(h.Upper.Y, other.Upper.Y)
	h.Upper.Z = math.Max(h.Upper.Z, other.Upper.Z)
}

// Union returns the smallest hull enclosing both h and other.
func (h Hull) Union(other Hull) Hull {
	h.Combine(other)
	return h
}

// Intersects reports whether h and other overlap. Touching faces count as
// overlap. Empty hulls never intersect.
func (h Hull) Intersects(other Hull) bool {
	if h.IsEmpty() || other.IsEmpty() {
		return false
	}
	if other.Upper.X < h.Lower.X || other.Lower.X > h.Upper.X ||
		other.Upper.Y < h.Lower.Y || other.Lower.Y > h.Upper.Y ||
		other.Upper.Z < h.Lower.Z || other.Lower.Z > h.Upper.Z {
		return false
	}
	return true
}

// Encompasses reports whether other lies completely inside of h.
//
// Every hull encompasses the empty hull, and an empty hull encompasses
// nothing but other empty hulls.
func (h Hull) Encompasses(other Hull) bool {
	if other.IsEmpty() {
		return true
	}
	if h.IsEmpty() {
		return false
	}
	return other.Upper.X <= h.Upper.X && other.Upper.Y <= h.Upper.Y && other.Upper.Z <= h.Upper.Z &&
		other.Lower.X >= h.Lower.X && other.Lower.Y >= h.Lower.Y && other.Lower.Z >= h.Lower.Z
}

// Center returns the center point of h. The center of an empty hull is
// undefined (NaN components).
func (h Hull) Center() r3.Vector {
	if h.IsEmpty() {
		nan := math.NaN()
		return r3.Vector{X: nan, Y: nan, Z: nan}
	}
	return h.Lower.Add(h.Upper).Mul(0.5)
}

// Size returns the extent of h along each axis, or the zero vector for an
// empty hull.
func (h Hull) Size() r3.Vector {
	if h.IsEmpty() {
		return r3.Vector{}
	}
	return h.Upper.Sub(h.Lower)
}

// SurfaceArea returns the surface area of h. It is used as the cost measure
// when choosing an insertion path.
func (h Hull) SurfaceArea() float64 {
	s := h.Size()
	return 2 * (s.X*s.Y + s.Y*s.Z + s.Z*s.X)
}

// Growth returns the increase of surface area if h had to enclose other.
func (h Hull) Growth(other Hull) float64 {
	return h.Union(other).SurfaceArea() - h.SurfaceArea()
}

// Equal reports whether two hulls are identical. All empty hulls are equal.
func (h Hull) Equal(other Hull) bool {
	if h.IsEmpty() || other.IsEmpty() {
		return h.IsEmpty() == other.IsEmpty()
	}
	return h.Lower == other.Lower && h.Upper == other.Upper
}

func (h Hull) String() string {
	if h.IsEmpty() {
		return "[empty]"
	}
	return fmt.Sprintf("[(%g,%g,%g)-(%g,%g,%g)]",
		h.Lower.X, h.Lower.Y, h.Lower.Z, h.Upper.X, h.Upper.Y, h.Upper.Z)
}

// Axis returns component i (0=X, 1=Y, 2=Z) of v.
func Axis(v r3.Vector, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
