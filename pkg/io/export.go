package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/electoral/pkg/election"
)

// WriteJSON encodes ds as indented JSON.
func WriteJSON(ds *election.Dataset, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes ds to a file at path.
func ExportJSON(ds *election.Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(ds, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
