package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerQuietWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Rendering...")
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	if buf.Len() != 0 {
		t.Errorf("spinner wrote %q to a non-terminal", buf.String())
	}
}

func TestSpinnerAnimates(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Rendering 2016...")
	s.animate = true
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.SetMessage("Writing files...")
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	out := buf.String()
	for _, want := range []string{"Rendering 2016...", "Writing files..."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if !strings.HasSuffix(out, "\r") {
		t.Error("Stop should clear the line")
	}
}

func TestSpinnerCancelled(t *testing.T) {
	tests := []struct {
		name   string
		cancel bool
		want   bool
	}{
		{"stopped", false, false},
		{"parent cancelled", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			s := newSpinner(ctx, &bytes.Buffer{}, "Testing...")
			s.animate = true
			s.Start()
			if tt.cancel {
				cancel()
			}
			s.Stop()

			if got := s.Cancelled(); got != tt.want {
				t.Errorf("Cancelled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &bytes.Buffer{}, "Testing...")
	s.animate = true
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}
