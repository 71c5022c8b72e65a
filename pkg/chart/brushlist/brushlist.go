// Package brushlist shows the names of the states currently inside the
// electoral-vote brush.
package brushlist

import (
	"slices"
	"sync"

	"github.com/matzehuels/electoral/pkg/chart"
	"github.com/matzehuels/electoral/pkg/render/scene"
)

// Layer is the only layer of the list scene.
const Layer = "states"

const (
	lineHeight = 20.0
	padding    = 10.0
)

// Chart is the brushed-states list.
type Chart struct {
	mu     sync.Mutex
	frame  chart.Frame
	scene  *scene.Scene
	states []string
}

// New creates an empty list. A zero height defaults to one line.
func New(frame chart.Frame) *Chart {
	frame = frame.WithDefaults(chart.Fixed(lineHeight + padding))
	c := &Chart{frame: frame, scene: scene.New(chart.BrushSelection, frame.Width, frame.Height)}
	c.scene.Layer(Layer)
	return c
}

// Name returns the chart name.
func (c *Chart) Name() string { return chart.BrushSelection }

// Scene returns the scene the list draws into.
func (c *Chart) Scene() *scene.Scene { return c.scene }

// Render replaces the displayed list. Order is preserved; repeated names are
// shown once.
func (c *Chart) Render(states []string) scene.Diff {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]struct{}, len(states))
	kept := make([]string, 0, len(states))
	nodes := make([]scene.Node, 0, len(states))
	for _, s := range states {
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		kept = append(kept, s)
		nodes = append(nodes, scene.Node{
			Key:   s,
			Tag:   scene.Item,
			Class: "brushed",
			X:     padding,
			Y:     float64(len(kept)) * lineHeight,
			Text:  s,
		})
	}

	c.scene.Resize(c.frame.Width, max(c.frame.Height, float64(len(kept))*lineHeight+padding))
	// Keys are unique and non-empty, so the join cannot fail.
	diff, _ := c.scene.Layer(Layer).Join(nodes)
	c.states = kept
	return diff
}

// Clear empties the list.
func (c *Chart) Clear() scene.Diff { return c.Render(nil) }

// States returns a copy of the displayed names.
func (c *Chart) States() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.states)
}
