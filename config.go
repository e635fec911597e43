package bvh

import "fmt"

const (
	// DefaultDepthFloor is the lowest value the adaptive depth ceiling may take.
	DefaultDepthFloor = 50
	// DefaultDepthIncrement is the step by which the depth ceiling is raised
	// or lowered after a full rebuild.
	DefaultDepthIncrement = 5
	// DefaultName labels trees without an explicit name in traces and metrics.
	DefaultName = "bvh"
)

// Config configures a bounding hierarchy tree. The zero value is a valid
// configuration using the default thresholds.
type Config struct {
	// Name labels the tree in traces and metrics.
	Name string
	// DepthFloor is the initial and minimal depth ceiling.
	DepthFloor int
	// DepthIncrement is the hysteresis step of the depth ceiling.
	DepthIncrement int
	// DisableStableShortcut turns off the fast path of SelectVisible.
	DisableStableShortcut bool
	// Instrument enables Prometheus metrics for the tree.
	Instrument bool
}

func (cfg Config) normalized() Config {
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.DepthFloor == 0 {
		cfg.DepthFloor = DefaultDepthFloor
	}
	if cfg.DepthIncrement == 0 {
		cfg.DepthIncrement = DefaultDepthIncrement
	}
	return cfg
}

func (cfg Config) validate() error {
	cfg = cfg.normalized()
	if cfg.DepthFloor < 1 {
		return fmt.Errorf("%w: depth floor must be positive, is %d", ErrInvalidConfig, cfg.DepthFloor)
	}
	if cfg.DepthIncrement < 1 {
		return fmt.Errorf("%w: depth increment must be positive, is %d", ErrInvalidConfig, cfg.DepthIncrement)
	}
	return nil
}
