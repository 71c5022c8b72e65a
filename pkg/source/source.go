// Package source opens election data sources by URI.
//
// # Sources
//
//	dir:./data              local directory of CSV tables (package local)
//	./data                  same, without the scheme
//	https://host/data       the same layout over HTTP (package remote)
//	mongodb://host/db       MongoDB collections (package mongo)
//	sqlite:./electoral.db   SQLite tables (package sqlite)
//
// Every source returns validated datasets: abbreviations are unique two-letter
// codes and no count is negative.
//
// # Caching
//
// [Cached] wraps any source with a [cache.Cache]: summaries and datasets are
// stored as JSON under keys from [cache.Keyer], so repeated renders of the same
// year do not touch the underlying store.
package source

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/electoral/pkg/buildinfo"
	"github.com/matzehuels/electoral/pkg/cache"
	"github.com/matzehuels/electoral/pkg/election"
	"github.com/matzehuels/electoral/pkg/errors"
	"github.com/matzehuels/electoral/pkg/httputil"
	"github.com/matzehuels/electoral/pkg/source/local"
	"github.com/matzehuels/electoral/pkg/source/mongo"
	"github.com/matzehuels/electoral/pkg/source/remote"
	"github.com/matzehuels/electoral/pkg/source/sqlite"
)

// Source provides year summaries and per-year datasets.
type Source interface {
	Summaries(ctx context.Context) ([]election.YearSummary, error)
	Load(ctx context.Context, year int) (*election.Dataset, error)
	Close() error
}

// Importer is a Source that can store datasets.
type Importer interface {
	Source
	Import(ctx context.Context, summaries []election.YearSummary, datasets []*election.Dataset) error
}

// Options configures Open.
type Options struct {
	// Cache stores remote response bodies. Nil disables HTTP caching.
	Cache cache.Cache
	// Keyer builds HTTP cache keys. Defaults to cache.NewDefaultKeyer.
	Keyer cache.Keyer
	// Refresh bypasses cached HTTP responses.
	Refresh bool
	// Logger receives a debug line per opened source.
	Logger *log.Logger
}

// Scheme names a source kind.
type Scheme string

const (
	SchemeDir    Scheme = "dir"
	SchemeHTTP   Scheme = "http"
	SchemeMongo  Scheme = "mongodb"
	SchemeSQLite Scheme = "sqlite"
)

// Parse splits uri into its scheme and location. URIs without a known
// scheme are directory paths.
func Parse(uri string) (Scheme, string, error) {
	uri = strings.TrimSpace(uri)
	switch {
	case uri == "":
		return "", "", errors.New(errors.ErrCodeInvalidInput, "source cannot be empty")
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return SchemeHTTP, uri, nil
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		return SchemeMongo, uri, nil
	case strings.HasPrefix(uri, "sqlite:"):
		return withLocation(SchemeSQLite, strings.TrimPrefix(uri, "sqlite:"))
	case strings.HasPrefix(uri, "dir:"):
		return withLocation(SchemeDir, strings.TrimPrefix(uri, "dir:"))
	}
	return SchemeDir, uri, nil
}

func withLocation(scheme Scheme, loc string) (Scheme, string, error) {
	if loc == "" {
		return "", "", errors.New(errors.ErrCodeInvalidInput, "%s source needs a location", scheme)
	}
	return scheme, loc, nil
}

// Open opens the source named by uri.
func Open(ctx context.Context, uri string, opts Options) (Source, error) {
	scheme, loc, err := Parse(uri)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger.Debug("opening source", "scheme", scheme, "location", redact(scheme, loc))

	var src Source
	switch scheme {
	case SchemeHTTP:
		keyer := opts.Keyer
		if keyer == nil {
			keyer = cache.NewDefaultKeyer()
		}
		clientOpts := []httputil.Option{
			httputil.WithNamespace(loc),
			httputil.WithHeaders(map[string]string{"User-Agent": buildinfo.UserAgent()}),
		}
		if opts.Cache != nil {
			clientOpts = append(clientOpts, httputil.WithCache(opts.Cache, keyer))
		}
		src, err = remote.New(loc,
			remote.WithClient(httputil.NewClient(clientOpts...)),
			remote.WithRefresh(opts.Refresh))
	case SchemeMongo:
		src, err = mongo.Open(ctx, loc)
	case SchemeSQLite:
		src, err = sqlite.Open(ctx, loc)
	default:
		src, err = local.New(loc)
	}
	if err != nil {
		return nil, err
	}
	return src, nil
}

// OpenImporter opens uri and checks that it accepts imports.
func OpenImporter(ctx context.Context, uri string, opts Options) (Importer, error) {
	src, err := Open(ctx, uri, opts)
	if err != nil {
		return nil, err
	}
	imp, ok := src.(Importer)
	if !ok {
		src.Close()
		return nil, errors.New(errors.ErrCodeUnsupported, "%s does not accept imports", uri)
	}
	return imp, nil
}

func redact(scheme Scheme, loc string) string {
	if scheme != SchemeMongo {
		return loc
	}
	if at := strings.LastIndex(loc, "@"); at >= 0 {
		if i := strings.Index(loc, "://"); i >= 0 && i < at {
			return loc[:i+3] + "***" + loc[at:]
		}
	}
	return loc
}
