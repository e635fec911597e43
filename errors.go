package bvh

import "errors"

var (
	// ErrInvalidConfig signals an invalid tree configuration.
	ErrInvalidConfig = errors.New("bvh: invalid configuration")
	// ErrInvariant signals a violated structural invariant, as reported by Check.
	ErrInvariant = errors.New("bvh: invariant violated")
)
