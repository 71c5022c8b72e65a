// Package local reads election tables from a directory on disk.
//
// The directory holds one results table per year plus the year summary table:
//
//	data/
//	  yearwise-winner.csv
//	  election-results-1940.csv
//	  ...
//	  election-results-2016.csv
//
// A year whose CSV is missing may instead be stored as
// election-results-<year>.json in the format of package io.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/electoral/pkg/election"
	"github.com/matzehuels/electoral/pkg/errors"
	eio "github.com/matzehuels/electoral/pkg/io"
)

// Source reads tables from Dir.
type Source struct {
	Dir string
}

// New returns a Source for dir. The directory must exist.
func New(dir string) (*Source, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "data directory %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s is not a directory", dir)
	}
	return &Source{Dir: dir}, nil
}

// Summaries reads the year summary table.
func (s *Source) Summaries(ctx context.Context) ([]election.YearSummary, error) {
	f, err := s.open(election.WinnersFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return election.ReadSummaries(f)
}

// Load reads the results table of year.
func (s *Source) Load(ctx context.Context, year int) (*election.Dataset, error) {
	if err := errors.ValidateYear(year); err != nil {
		return nil, err
	}
	name := election.ResultsFile(year)
	f, err := s.open(name)
	if errors.Is(err, errors.ErrCodeNotFound) {
		return eio.ImportJSON(filepath.Join(s.Dir, strings.TrimSuffix(name, ".csv")+".json"))
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ds, err := election.ReadRecords(f, year)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return ds, nil
}

// Close does nothing.
func (s *Source) Close() error { return nil }

// String returns the source URI.
func (s *Source) String() string { return "dir:" + s.Dir }

func (s *Source) open(name string) (*os.File, error) {
	path := filepath.Join(s.Dir, name)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "%s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
