package scenefile

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/npillmayer/bvh"
	"github.com/npillmayer/bvh/hull"
	"github.com/segmentio/encoding/json"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for files which are neither JSON nor YAML.
var ErrUnknownFormat = errors.New("scenefile: unknown file format")

// Format is the encoding of a scene file.
type Format int

// Supported formats.
const (
	JSON Format = iota
	YAML
)

// FormatOf derives the format of a file from its extension.
func FormatOf(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filename)
}

// Scene is a named batch of items.
type Scene struct {
	Name   string
	Items  []*Item
	groups map[string]*Group
}

// Item is a box of a scene. It implements bvh.Item together with the
// optional bvh.Pickable, bvh.Owned and bvh.Keyed interfaces.
type Item struct {
	Name     string
	hull     hull.Hull
	disabled [3]bool // indexed by bvh.Policy
	pickable bool
	owner    *Group
	key      bvh.PathKey
}

// Bounds returns the hull of the item.
func (it *Item) Bounds() hull.Hull { return it.hull }

// Enabled reports whether the item takes part in queries of policy p.
func (it *Item) Enabled(p bvh.Policy) bool {
	return int(p) >= len(it.disabled) || !it.disabled[p]
}

// IsPickable is false for items declared with "pickable: false".
func (it *Item) IsPickable() bool { return it.pickable }

// Owner returns the group of the item's owner path, if any.
func (it *Item) Owner() bvh.Owner {
	if it.owner == nil {
		return nil
	}
	return it.owner
}

// HierarchyKey returns the item's key, if any.
func (it *Item) HierarchyKey() bvh.HierarchyKey {
	if it.key == "" {
		return nil
	}
	return it.key
}

// Move sets a new hull for the item. Clients have to report the move to a
// tree holding the item with BoundsChanged.
func (it *Item) Move(h hull.Hull) {
	it.hull = h
}

func (it *Item) String() string {
	return it.Name
}

// Group is a node of the owner hierarchy of a scene, addressed by a path.
type Group struct {
	Path   string
	parent *Group
}

// ParentOwner returns the enclosing group, or nil for top-level groups.
func (g *Group) ParentOwner() bvh.Owner {
	if g.parent == nil {
		return nil
	}
	return g.parent
}

// Group returns the group for an owner path, or nil if no item is owned by
// the path or one of its sub-paths.
func (s *Scene) Group(owner string) *Group {
	return s.groups[cleanPath(owner)]
}

// Tree builds a bounding hierarchy over all items of the scene.
func (s *Scene) Tree(cfg bvh.Config) (*bvh.Tree[*Item], error) {
	if cfg.Name == "" {
		cfg.Name = s.Name
	}
	return bvh.Build(cfg, s.Items)
}

// --- Decoding --------------------------------------------------------------

type sceneDoc struct {
	Name  string    `json:"name" yaml:"name"`
	Items []itemDoc `json:"items" yaml:"items"`
}

type itemDoc struct {
	Name     string    `json:"name" yaml:"name"`
	Lower    []float64 `json:"lower" yaml:"lower"`
	Upper    []float64 `json:"upper" yaml:"upper"`
	Disabled []string  `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Pickable *bool     `json:"pickable,omitempty" yaml:"pickable,omitempty"`
	Owner    string    `json:"owner,omitempty" yaml:"owner,omitempty"`
	Key      string    `json:"key,omitempty" yaml:"key,omitempty"`
}

// Load reads a scene file. The format is selected by the file extension
// (.json, .yaml or .yml).
func Load(filename string) (*Scene, error) {
	format, err := FormatOf(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("scenefile: %w", err)
	}
	scene, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("scenefile %s: %w", filename, err)
	}
	if scene.Name == "" {
		scene.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	tracer().Infof("loaded scene %q with %d items from %s", scene.Name, len(scene.Items), filename)
	return scene, nil
}

// Decode decodes a scene from raw file content.
func Decode(data []byte, format Format) (*Scene, error) {
	var doc sceneDoc
	switch format {
	case JSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case YAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: format %d", ErrUnknownFormat, format)
	}
	scene := &Scene{Name: doc.Name, groups: make(map[string]*Group)}
	for i, d := range doc.Items {
		item, err := scene.makeItem(d)
		if err != nil {
			return nil, fmt.Errorf("item #%d (%s): %w", i, d.Name, err)
		}
		scene.Items = append(scene.Items, item)
	}
	return scene, nil
}

func (s *Scene) makeItem(d itemDoc) (*Item, error) {
	if len(d.Lower) != 3 || len(d.Upper) != 3 {
		return nil, fmt.Errorf("corners need 3 coordinates, have %d and %d", len(d.Lower), len(d.Upper))
	}
	item := &Item{
		Name:     d.Name,
		hull:     hull.Box(d.Lower[0], d.Lower[1], d.Lower[2], d.Upper[0], d.Upper[1], d.Upper[2]),
		pickable: d.Pickable == nil || *d.Pickable,
		key:      bvh.PathKey(d.Key),
	}
	for _, name := range d.Disabled {
		p, err := parsePolicy(name)
		if err != nil {
			return nil, err
		}
		item.disabled[p] = true
	}
	if d.Owner != "" {
		item.owner = s.group(d.Owner)
	}
	return item, nil
}

func parsePolicy(name string) (bvh.Policy, error) {
	for _, p := range []bvh.Policy{bvh.PolicyRender, bvh.PolicyPick, bvh.PolicyCollide} {
		if strings.EqualFold(name, p.String()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown policy %q", name)
}

// group returns the group for an owner path, creating it and its ancestors
// on demand.
func (s *Scene) group(owner string) *Group {
	owner = cleanPath(owner)
	if owner == "/" {
		return nil
	}
	if g, ok := s.groups[owner]; ok {
		return g
	}
	g := &Group{Path: owner}
	g.parent = s.group(path.Dir(owner))
	s.groups[owner] = g
	return g
}

func cleanPath(owner string) string {
	return path.Clean("/" + strings.TrimSpace(owner))
}
