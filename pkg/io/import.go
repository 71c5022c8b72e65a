package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/electoral/pkg/election"
	"github.com/matzehuels/electoral/pkg/errors"
)

// ReadJSON decodes a dataset from r and validates it.
//
// ReadJSON returns an INVALID_FORMAT error for malformed JSON and the
// validation error of [election.Dataset.Validate] otherwise. It does not
// close r.
func ReadJSON(r io.Reader) (*election.Dataset, error) {
	var ds election.Dataset
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ds); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode dataset")
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// ImportJSON reads the dataset stored at path.
func ImportJSON(path string) (*election.Dataset, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
