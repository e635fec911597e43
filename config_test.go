package bvh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	tree, err := New[*box](Config{})
	require.NoError(t, err)
	cfg := tree.Config()
	require.Equal(t, DefaultName, cfg.Name)
	require.Equal(t, DefaultDepthFloor, cfg.DepthFloor)
	require.Equal(t, DefaultDepthIncrement, cfg.DepthIncrement)
	require.Equal(t, DefaultDepthFloor, tree.DepthCeiling())
	require.True(t, tree.IsEmpty())
}

func TestConfigInvalid(t *testing.T) {
	for _, cfg := range []Config{
		{DepthFloor: -1},
		{DepthIncrement: -3},
	} {
		_, err := New[*box](cfg)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected invalid configuration error for %+v, got %v", cfg, err)
		}
		_, err = Build(cfg, []*box{cube("a", 0, 0, 0)})
		require.ErrorIs(t, err, ErrInvalidConfig)
	}
}

func TestClearKeepsCeiling(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	tree := buildTree(t, Config{DepthFloor: 2}, grid(2, 1))
	tree.Insert(cube("far", 10, 0, 0)) // forces a rebuild and a higher ceiling
	ceiling := tree.DepthCeiling()
	require.Greater(t, ceiling, 2)
	tree.Clear()
	require.NoError(t, tree.Check())
	require.True(t, tree.IsEmpty())
	require.Equal(t, 0, tree.Len())
	require.Equal(t, ceiling, tree.DepthCeiling())
	tree.Insert(grid(2, 1)...)
	require.NoError(t, tree.Check())
	require.Equal(t, 8, tree.Len())
}

func TestNilTree(t *testing.T) {
	var tree *Tree[*box]
	require.True(t, tree.IsEmpty())
	require.Equal(t, 0, tree.Len())
	require.False(t, tree.Contains(cube("a", 0, 0, 0)))
	require.Error(t, tree.Check())
}
