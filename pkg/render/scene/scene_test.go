package scene

import (
	"slices"
	"testing"

	"github.com/matzehuels/electoral/pkg/errors"
)

func rects(keys ...string) []Node {
	nodes := make([]Node, len(keys))
	for i, k := range keys {
		nodes[i] = Node{Key: k, Tag: Rect, X: float64(i), W: 10, H: 10}
	}
	return nodes
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name        string
		before      []string
		after       []string
		wantEntered []string
		wantUpdated []string
		wantExited  []string
	}{
		{
			name:        "first join enters everything",
			after:       []string{"CA", "TX", "NY"},
			wantEntered: []string{"CA", "TX", "NY"},
		},
		{
			name:        "same data is all updates",
			before:      []string{"CA", "TX", "NY"},
			after:       []string{"CA", "TX", "NY"},
			wantUpdated: []string{"CA", "TX", "NY"},
		},
		{
			name:        "removed state exits once",
			before:      []string{"CA", "TX", "NY"},
			after:       []string{"CA", "NY"},
			wantUpdated: []string{"CA", "NY"},
			wantExited:  []string{"TX"},
		},
		{
			name:        "mixed",
			before:      []string{"CA", "TX"},
			after:       []string{"TX", "UT"},
			wantEntered: []string{"UT"},
			wantUpdated: []string{"TX"},
			wantExited:  []string{"CA"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New("test", 100, 100).Layer("tiles")
			if tt.before != nil {
				if _, err := l.Join(rects(tt.before...)); err != nil {
					t.Fatalf("Join(before) error: %v", err)
				}
			}
			d, err := l.Join(rects(tt.after...))
			if err != nil {
				t.Fatalf("Join() error: %v", err)
			}
			if !slices.Equal(d.Entered, tt.wantEntered) {
				t.Errorf("Entered = %v, want %v", d.Entered, tt.wantEntered)
			}
			if !slices.Equal(d.Updated, tt.wantUpdated) {
				t.Errorf("Updated = %v, want %v", d.Updated, tt.wantUpdated)
			}
			if !slices.Equal(d.Exited, tt.wantExited) {
				t.Errorf("Exited = %v, want %v", d.Exited, tt.wantExited)
			}
			if l.Len() != len(tt.after) {
				t.Errorf("Len() = %d, want %d", l.Len(), len(tt.after))
			}
		})
	}
}

func TestJoinRejectsDuplicates(t *testing.T) {
	l := New("test", 100, 100).Layer("tiles")
	if _, err := l.Join(rects("CA")); err != nil {
		t.Fatal(err)
	}
	_, err := l.Join(rects("TX", "TX"))
	if !errors.Is(err, errors.ErrCodeDuplicateState) {
		t.Fatalf("Join() error = %v, want DUPLICATE_STATE", err)
	}
	if _, ok := l.Node("CA"); !ok {
		t.Error("failed join modified the layer")
	}
}

func TestJoinRejectsEmptyKey(t *testing.T) {
	l := New("test", 100, 100).Layer("tiles")
	if _, err := l.Join([]Node{{Tag: Rect}}); err == nil {
		t.Error("Join() with empty key should fail")
	}
}

func TestLayerOrder(t *testing.T) {
	s := New("test", 100, 100)
	s.Layer("a")
	s.Layer("b")
	s.Layer("a")
	snap := s.Snapshot()
	if len(snap.Layers) != 2 || snap.Layers[0].Name != "a" || snap.Layers[1].Name != "b" {
		t.Errorf("layers = %+v", snap.Layers)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := New("test", 100, 100)
	l := s.Layer("tiles")
	_, _ = l.Join([]Node{{Key: "CA", Tag: Rect, Data: map[string]string{"party": "D"}, Popup: []string{"x"}}})
	s.SetBrush(&Brush{X1: 100, Y1: 10})

	snap := s.Snapshot()
	snap.Layers[0].Nodes[0].Data["party"] = "R"
	snap.Layers[0].Nodes[0].Popup[0] = "y"
	snap.Brush.X1 = 5

	n, _ := l.Node("CA")
	if n.Data["party"] != "D" || n.Popup[0] != "x" {
		t.Errorf("snapshot mutation leaked into scene: %+v", n)
	}
	if s.Snapshot().Brush.X1 != 100 {
		t.Error("snapshot brush mutation leaked into scene")
	}
}

func TestClear(t *testing.T) {
	s := New("test", 100, 100)
	_, _ = s.Layer("a").Join(rects("1", "2"))
	_, _ = s.Layer("b").Join(rects("3"))
	diffs := s.Clear()
	if len(diffs) != 2 {
		t.Fatalf("len(Clear()) = %d, want 2", len(diffs))
	}
	if len(diffs[0].Exited) != 2 || len(diffs[1].Exited) != 1 {
		t.Errorf("Clear() diffs = %+v", diffs)
	}
	if diffs[0].Empty() {
		t.Error("Clear() diff should not be empty")
	}
}
