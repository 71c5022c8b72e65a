package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/electoral/pkg/errors"
	"github.com/matzehuels/electoral/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	year    int
	output  string  // output directory
	formats string  // comma-separated output formats
	charts  string  // comma-separated chart names
	width   float64 // drawing width in pixels
	brush   string  // brush extent "start:end"
	popups  bool    // embed hover popups in SVG output
	noCache bool    // bypass the cache entirely
	refresh bool    // reload the dataset and re-render, updating the cache
	scale   float64 // PNG resolution multiplier
}

// renderCommand creates the render command for writing chart files.
func (c *CLI) renderCommand() *cobra.Command {
	opts := &renderOpts{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the charts of one election year to files",
		Long: `Render writes one file per chart and format, named <chart>-<year>.<format>.

Formats are svg, json (the computed chart layout), png and pdf. PNG and PDF
need rsvg-convert on the PATH.`,
		Example: `  electoral render --year 2016
  electoral render --year 2008 --format svg,png --charts tiles,electoral-vote --out ./out
  electoral render --year 2016 --charts brush-selection --brush 100:400 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.year, "year", "y", 0, "election year (required)")
	cmd.Flags().StringVarP(&opts.output, "out", "o", ".", "output directory")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "output formats: svg, json, png, pdf (comma-separated)")
	cmd.Flags().StringVarP(&opts.charts, "charts", "c", "", "charts to render (comma-separated, default all)")
	cmd.Flags().Float64VarP(&opts.width, "width", "w", 0, "drawing width in pixels (default from config)")
	cmd.Flags().StringVar(&opts.brush, "brush", "", "brush the electoral-vote bar over start:end pixels")
	cmd.Flags().BoolVar(&opts.popups, "popups", true, "embed hover popups in SVG output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached data and artifacts")
	cmd.Flags().Float64Var(&opts.scale, "png-scale", pipeline.DefaultPNGScale, "PNG resolution multiplier")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.RegisterFlagCompletionFunc("year", c.completeYears)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	popts := pipeline.Options{
		Year:     opts.year,
		Width:    opts.width,
		Charts:   splitList(opts.charts),
		Formats:  parseFormats(opts.formats),
		Popups:   opts.popups,
		Refresh:  opts.refresh,
		PNGScale: opts.scale,
		Logger:   logger,
	}
	if popts.Width == 0 {
		popts.Width = c.Config.Render.Width
	}
	if opts.brush != "" {
		rng, err := pipeline.ParseRange(opts.brush)
		if err != nil {
			return err
		}
		popts.Brush = &rng
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache, opts.refresh)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newStderrSpinner(ctx, fmt.Sprintf("Rendering %d...", opts.year))
	spinner.Start()
	prog := newProgress(logger)
	result, err := runner.Execute(ctx, popts)
	spinner.Stop()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", opts.output)
	}
	paths, err := writeArtifacts(opts.output, opts.year, result.Artifacts)
	if err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Rendered %d files", len(paths)))
	printSuccess("Rendered %d", opts.year)
	printStats(result.Stats.Records, result.Stats.TotalEV, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes every artifact as <chart>-<year>.<format> under dir
// and returns the paths in a stable order.
func writeArtifacts(dir string, year int, artifacts map[string]map[string][]byte) ([]string, error) {
	var paths []string
	for name, byFormat := range artifacts {
		for format, data := range byFormat {
			path := filepath.Join(dir, fmt.Sprintf("%s-%d.%s", name, year, format))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
			}
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}
