// Package remote reads election tables published under a base URL, laid out
// like a local data directory.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/electoral/pkg/election"
	"github.com/matzehuels/electoral/pkg/errors"
	"github.com/matzehuels/electoral/pkg/httputil"
)

// Source fetches tables relative to BaseURL.
type Source struct {
	BaseURL string
	client  *httputil.Client
	refresh bool
}

// Option configures a Source.
type Option func(*Source)

// WithClient sets the HTTP client. The default fetches without caching.
func WithClient(c *httputil.Client) Option {
	return func(s *Source) { s.client = c }
}

// WithRefresh bypasses cached response bodies.
func WithRefresh(refresh bool) Option {
	return func(s *Source) { s.refresh = refresh }
}

// New returns a Source for baseURL.
func New(baseURL string, opts ...Option) (*Source, error) {
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	s := &Source{BaseURL: strings.TrimRight(baseURL, "/")}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = httputil.NewClient(httputil.WithNamespace(s.BaseURL))
	}
	return s, nil
}

// Summaries fetches the year summary table. A table that does not parse is
// not cached.
func (s *Source) Summaries(ctx context.Context) ([]election.YearSummary, error) {
	var summaries []election.YearSummary
	_, err := s.client.FetchValid(ctx, s.url(election.WinnersFile), s.refresh, func(body []byte) error {
		var err error
		summaries, err = election.ReadSummaries(bytes.NewReader(body))
		return err
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// Load fetches the results table of year. A table that does not parse is
// not cached, so the next Load asks upstream again.
func (s *Source) Load(ctx context.Context, year int) (*election.Dataset, error) {
	if err := errors.ValidateYear(year); err != nil {
		return nil, err
	}
	name := election.ResultsFile(year)
	var ds *election.Dataset
	_, err := s.client.FetchValid(ctx, s.url(name), s.refresh, func(body []byte) error {
		var err error
		ds, err = election.ReadRecords(bytes.NewReader(body), year)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return ds, nil
}

// Close does nothing.
func (s *Source) Close() error { return nil }

// String returns the base URL.
func (s *Source) String() string { return s.BaseURL }

func (s *Source) url(name string) string { return s.BaseURL + "/" + name }
