// Package scene is the retained drawing model shared by all charts.
//
// A [Scene] is an ordered list of named [Layer]s. Each layer holds keyed
// [Node]s and is updated with [Layer.Join], which replaces the layer content
// and reports which keys entered, stayed or exited. Charts own their scene
// exclusively; sinks such as the SVG writer only read it through
// [Scene.Snapshot].
package scene

import (
	"slices"
	"sync"

	"github.com/matzehuels/electoral/pkg/errors"
)

// Element tags understood by sinks.
const (
	Rect   = "rect"
	Text   = "text"
	Line   = "line"
	Circle = "circle"
	Item   = "li"
)

// Text anchors.
const (
	AnchorStart  = "start"
	AnchorMiddle = "middle"
	AnchorEnd    = "end"
)

// Node is a single drawable element. Geometry fields are interpreted per tag:
// rects use X, Y, W, H; lines run from (X, Y) to (X2, Y2); circles are
// centred on (X, Y) with radius R; text is placed at (X, Y).
type Node struct {
	Key    string            `json:"key"`
	Tag    string            `json:"tag"`
	Class  string            `json:"class,omitempty"`
	X      float64           `json:"x"`
	Y      float64           `json:"y"`
	W      float64           `json:"width,omitempty"`
	H      float64           `json:"height,omitempty"`
	X2     float64           `json:"x2,omitempty"`
	Y2     float64           `json:"y2,omitempty"`
	R      float64           `json:"r,omitempty"`
	Fill   string            `json:"fill,omitempty"`
	Anchor string            `json:"anchor,omitempty"`
	Text   string            `json:"text,omitempty"`
	Hidden bool              `json:"hidden,omitempty"`
	Data   map[string]string `json:"data,omitempty"`
	Popup  []string          `json:"popup,omitempty"`
}

func (n Node) clone() Node {
	if n.Data != nil {
		data := make(map[string]string, len(n.Data))
		for k, v := range n.Data {
			data[k] = v
		}
		n.Data = data
	}
	n.Popup = slices.Clone(n.Popup)
	return n
}

// Diff reports the outcome of a join by key.
type Diff struct {
	Layer   string   `json:"layer"`
	Entered []string `json:"entered,omitempty"`
	Updated []string `json:"updated,omitempty"`
	Exited  []string `json:"exited,omitempty"`
}

// Empty reports whether the join changed the set of keys.
func (d Diff) Empty() bool { return len(d.Entered) == 0 && len(d.Exited) == 0 }

// Brush describes a horizontal selection overlay. Sinks that support
// interaction draw it on top of all layers.
type Brush struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Scene is an ordered set of layers with a fixed drawing size.
type Scene struct {
	mu     sync.RWMutex
	name   string
	width  float64
	height float64
	brush  *Brush
	layers []*Layer
}

// New creates an empty scene. Name becomes the root class and element id in
// sinks.
func New(name string, width, height float64) *Scene {
	return &Scene{name: name, width: width, height: height}
}

// Name returns the scene name.
func (s *Scene) Name() string { return s.name }

// Size returns the drawing size.
func (s *Scene) Size() (width, height float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// Resize changes the drawing size. Existing nodes are kept; charts re-run
// their layout to fit.
func (s *Scene) Resize(width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

// SetBrush installs or removes (nil) the selection overlay.
func (s *Scene) SetBrush(b *Brush) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brush = b
}

// Layer returns the named layer, appending it after existing layers if it
// does not exist yet.
func (s *Scene) Layer(name string) *Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.layers {
		if l.name == name {
			return l
		}
	}
	l := &Layer{name: name, scene: s}
	s.layers = append(s.layers, l)
	return l
}

// Clear empties every layer and returns one diff per layer.
func (s *Scene) Clear() []Diff {
	s.mu.RLock()
	layers := slices.Clone(s.layers)
	s.mu.RUnlock()

	diffs := make([]Diff, 0, len(layers))
	for _, l := range layers {
		diffs = append(diffs, l.Clear())
	}
	return diffs
}

// Snapshot is an immutable copy of a scene, safe to serialize while the
// owning chart keeps rendering.
type Snapshot struct {
	Name   string          `json:"name"`
	Width  float64         `json:"width"`
	Height float64         `json:"height"`
	Brush  *Brush          `json:"brush,omitempty"`
	Layers []LayerSnapshot `json:"layers"`
}

// LayerSnapshot is the copied content of one layer.
type LayerSnapshot struct {
	Name  string `json:"name"`
	Nodes []Node `json:"nodes"`
}

// Snapshot copies the current scene content.
func (s *Scene) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Name:   s.name,
		Width:  s.width,
		Height: s.height,
		Layers: make([]LayerSnapshot, 0, len(s.layers)),
	}
	if s.brush != nil {
		b := *s.brush
		snap.Brush = &b
	}
	for _, l := range s.layers {
		snap.Layers = append(snap.Layers, LayerSnapshot{Name: l.name, Nodes: l.copyNodes()})
	}
	return snap
}

// Layer is a keyed group of nodes drawn in insertion order.
type Layer struct {
	name  string
	scene *Scene
	nodes []Node
}

// Name returns the layer name.
func (l *Layer) Name() string { return l.name }

// Join replaces the layer content with nodes, matching old and new nodes by
// key. Keys must be unique and non-empty; on a duplicate the layer is left
// unchanged. Entered and Updated follow the order of nodes, Exited follows
// the previous order.
func (l *Layer) Join(nodes []Node) (Diff, error) {
	seen := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if n.Key == "" {
			return Diff{}, errors.New(errors.ErrCodeInternal, "layer %s: node without key", l.name)
		}
		if _, dup := seen[n.Key]; dup {
			return Diff{}, errors.New(errors.ErrCodeDuplicateState, "layer %s: duplicate key %q", l.name, n.Key)
		}
		seen[n.Key] = struct{}{}
	}

	l.scene.mu.Lock()
	defer l.scene.mu.Unlock()

	diff := Diff{Layer: l.name}
	old := make(map[string]struct{}, len(l.nodes))
	for _, n := range l.nodes {
		old[n.Key] = struct{}{}
	}
	next := make([]Node, len(nodes))
	for i, n := range nodes {
		if _, ok := old[n.Key]; ok {
			diff.Updated = append(diff.Updated, n.Key)
		} else {
			diff.Entered = append(diff.Entered, n.Key)
		}
		next[i] = n.clone()
	}
	for _, n := range l.nodes {
		if _, ok := seen[n.Key]; !ok {
			diff.Exited = append(diff.Exited, n.Key)
		}
	}
	l.nodes = next
	return diff, nil
}

// Clear removes every node.
func (l *Layer) Clear() Diff {
	diff, _ := l.Join(nil)
	return diff
}

// Nodes returns a copy of the layer content.
func (l *Layer) Nodes() []Node {
	l.scene.mu.RLock()
	defer l.scene.mu.RUnlock()
	return l.copyNodes()
}

// Node returns the node with the given key.
func (l *Layer) Node(key string) (Node, bool) {
	l.scene.mu.RLock()
	defer l.scene.mu.RUnlock()
	for _, n := range l.nodes {
		if n.Key == key {
			return n.clone(), true
		}
	}
	return Node{}, false
}

// Len returns the number of nodes.
func (l *Layer) Len() int {
	l.scene.mu.RLock()
	defer l.scene.mu.RUnlock()
	return len(l.nodes)
}

func (l *Layer) copyNodes() []Node {
	out := make([]Node, len(l.nodes))
	for i, n := range l.nodes {
		out[i] = n.clone()
	}
	return out
}
