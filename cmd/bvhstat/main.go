/*
Command bvhstat loads a scene file into a bounding hierarchy and reports on
the shape of the tree.

Usage:

	bvhstat [flags] scene.yaml

Flags:

	-batch n     insert items in batches of n instead of building at once
	-query box   run a visibility query for "x0,y0,z0,x1,y1,z1"
	-collide     test every item against the rest of the scene
	-dot file    write the tree in Graphviz DOT format
	-v           trace tree operations

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

All rights reserved.

Please refer to the License file in the repository root.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/npillmayer/bvh"
	"github.com/npillmayer/bvh/hull"
	"github.com/npillmayer/bvh/scenefile"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"golang.org/x/term"
)

var (
	headColor = color.New(color.FgBlue, color.Bold)
	keyColor  = color.New(color.FgCyan)
	okColor   = color.New(color.FgGreen)
	errColor  = color.New(color.FgRed)
)

func main() {
	batch := flag.Int("batch", 0, "insert items in batches of `n` instead of building at once")
	query := flag.String("query", "", "run a visibility query for `box` x0,y0,z0,x1,y1,z1")
	collide := flag.Bool("collide", false, "test every item against the rest of the scene")
	dotFile := flag.String("dot", "", "write the tree in Graphviz DOT format to `file`")
	verbose := flag.Bool("v", false, "trace tree operations")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: bvhstat [flags] scene-file")
		flag.PrintDefaults()
		os.Exit(2)
	}
	gtrace.CoreTracer = gologadapter.New()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)
	if *verbose {
		gtrace.CoreTracer.SetTraceLevel(tracing.LevelInfo)
	}
	color.NoColor = !term.IsTerminal(int(os.Stdout.Fd()))
	if err := run(flag.Arg(0), *batch, *query, *collide, *dotFile); err != nil {
		errColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(filename string, batch int, query string, collide bool, dotFile string) error {
	scene, err := scenefile.Load(filename)
	if err != nil {
		return err
	}
	tree, err := makeTree(scene, batch)
	if err != nil {
		return err
	}
	defer tree.Close()
	if err := tree.Check(); err != nil {
		return err
	}
	report(scene, tree)
	if query != "" {
		box, err := parseBox(query)
		if err != nil {
			return err
		}
		visible(tree, box)
	}
	if collide {
		collisions(scene, tree)
	}
	if dotFile != "" {
		f, err := os.Create(dotFile)
		if err != nil {
			return err
		}
		defer f.Close()
		bvh.Tree2Dot(tree, f, func(it *scenefile.Item) string { return it.Name })
		fmt.Printf("DOT graph written to %s\n", dotFile)
	}
	return nil
}

// makeTree builds the tree in one step, or incrementally if batch > 0.
func makeTree(scene *scenefile.Scene, batch int) (*bvh.Tree[*scenefile.Item], error) {
	cfg := bvh.Config{Name: scene.Name, Instrument: true}
	if batch <= 0 {
		return scene.Tree(cfg)
	}
	tree, err := bvh.New[*scenefile.Item](cfg)
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(scene.Items); i += batch {
		tree.Insert(scene.Items[i:min(i+batch, len(scene.Items))]...)
	}
	return tree, nil
}

func report(scene *scenefile.Scene, tree *bvh.Tree[*scenefile.Item]) {
	stats := tree.Stats()
	headColor.Printf("Scene %q\n", scene.Name)
	line("items", strconv.Itoa(len(scene.Items)))
	line("leaves", strconv.Itoa(stats.Leaves))
	line("internal nodes", strconv.Itoa(stats.Internals))
	line("depth", fmt.Sprintf("%d (estimated %d, ceiling %d)", stats.Depth, stats.EstimatedDepth, stats.DepthCeiling))
	line("rebuilds", strconv.Itoa(stats.Rebuilds))
	line("hull", tree.Hull().String())
}

func visible(tree *bvh.Tree[*scenefile.Item], box hull.Hull) {
	var vs bvh.VisibleSet
	var names []string
	tree.SelectVisible(box, true, bvh.PolicyRender, func(it *scenefile.Item) {
		names = append(names, it.Name)
	}, &vs)
	headColor.Printf("Visible in %v\n", box)
	line("items", fmt.Sprintf("%d %v", len(names), names))
	wholesale := 0
	for _, e := range vs.Boundary {
		if e.Wholesale {
			wholesale++
		}
	}
	line("boundary", fmt.Sprintf("%d entries, %d wholesale", len(vs.Boundary), wholesale))
}

// collisions tests the hull of every item against the tree, excluding the
// item's own owner hierarchy.
func collisions(scene *scenefile.Scene, tree *bvh.Tree[*scenefile.Item]) {
	queries := make([]bvh.CollisionQuery, len(scene.Items))
	for i, it := range scene.Items {
		queries[i] = bvh.CollisionQuery{
			Bounds: it.Bounds(),
			Origin: it.Owner(),
			Key:    it.HierarchyKey(),
		}
	}
	hits := tree.AnyIntersect(queries, bvh.AccuracyBounds, nil)
	headColor.Println("Collisions")
	for i, it := range scene.Items {
		keyColor.Printf("  %-16s", it.Name)
		if it.Owner() == nil {
			// an unowned item always collides with itself
			fmt.Println("unowned, skipped")
			continue
		}
		if hits[i] {
			errColor.Println("colliding")
		} else {
			okColor.Println("free")
		}
	}
}

func line(label, value string) {
	keyColor.Printf("  %-16s", label)
	fmt.Println(value)
}

func parseBox(s string) (hull.Hull, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 6 {
		return hull.Hull{}, fmt.Errorf("query box needs 6 coordinates, has %d", len(parts))
	}
	var c [6]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return hull.Hull{}, fmt.Errorf("query box: %w", err)
		}
		c[i] = v
	}
	return hull.Box(c[0], c[1], c[2], c[3], c[4], c[5]), nil
}
