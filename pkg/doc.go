// Package pkg provides the libraries behind the electoral dashboard.
//
// # Overview
//
// Electoral draws US presidential election results as five linked charts: a
// timeline of election years, a stacked electoral-vote bar with a brush, a
// popular-vote bar, a tile cartogram of the states and the list of brushed
// states. Selecting a year on the timeline updates the other charts; brushing
// the electoral-vote bar fills the list.
//
// The typical data flow:
//
//	CSV directory / HTTP / MongoDB / SQLite
//	         ↓
//	    [source] package (summaries + per-year datasets)
//	         ↓
//	    [dashboard] package (select a year, fan out to every chart)
//	         ↓
//	    [chart] packages (layouts drawn into retained scenes)
//	         ↓
//	    [render/svg] + [render] (SVG, PNG, PDF) or JSON layouts
//
// # Quick Start
//
//	src, _ := source.Open(ctx, "./data", source.Options{})
//	runner := pipeline.NewRunner(src, cache.NewNullCache(), nil, logger)
//	defer runner.Close()
//
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Year:    2016,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	tiles := result.Artifacts["tiles"]["svg"]
//
// For interactive use keep a [dashboard.Dashboard] and call Select and Brush
// directly; [session] keeps one per browser tab.
//
// # Main Packages
//
// ## Domain
//
// [election] - Records, datasets, parties and the CSV tables they come from.
// Winner and margin classification live here.
//
// [grid] - The fixed tile position of each state.
//
// [colorscale] - The quantile scale mapping signed margins to fill colors.
//
// ## Charts
//
// [chart] - Shared frame, scale and naming. One subpackage per chart:
// [chart/year], [chart/electoral], [chart/percentage], [chart/tile] and
// [chart/brushlist], with popups from [chart/tooltip].
//
// [dashboard] - Owns the charts, loads the timeline and selects years. A newer
// selection supersedes an older one still loading.
//
// ## Rendering
//
// [render/scene] - Retained nodes joined by key (enter, update, exit).
//
// [render/svg] - Standalone SVG documents with embedded popups and the brush.
//
// [render] - SVG to PDF/PNG conversion through rsvg-convert.
//
// ## Infrastructure
//
// [source] - Opens data sources by URI and imports datasets into writable ones.
//
// [pipeline] - Load, layout and render one year, caching each stage. Used by
// the CLI and the HTTP server alike.
//
// [cache] - File, Redis and null caches behind one interface, with key
// builders and TTLs.
//
// [httputil] - HTTP client with retries and response caching for remote
// sources.
//
// [session] - Per-client dashboards with expiry, in memory or on disk.
//
// [observability] - Hooks for pipeline stages, cache lookups and HTTP
// requests.
//
// [errors] - Coded errors and input validation.
//
// [io] - JSON import and export of datasets.
//
// [election]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/election
// [grid]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/grid
// [colorscale]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/colorscale
// [chart]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/chart
// [chart/year]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/chart/year
// [chart/electoral]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/chart/electoral
// [chart/percentage]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/chart/percentage
// [chart/tile]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/chart/tile
// [chart/brushlist]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/chart/brushlist
// [chart/tooltip]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/chart/tooltip
// [dashboard]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/dashboard
// [dashboard.Dashboard]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/dashboard#Dashboard
// [render]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/render
// [render/scene]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/render/scene
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/render/svg
// [source]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/source
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/httputil
// [session]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/session
// [observability]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/errors
// [io]: https://pkg.go.dev/github.com/matzehuels/electoral/pkg/io
package pkg
