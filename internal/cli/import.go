package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/electoral/pkg/election"
	"github.com/matzehuels/electoral/pkg/errors"
	eio "github.com/matzehuels/electoral/pkg/io"
	"github.com/matzehuels/electoral/pkg/source"
)

const (
	targetMongo = "mongo"
	targetJSON  = "json:"
)

// importCommand copies every year of the configured source into another store.
func (c *CLI) importCommand() *cobra.Command {
	var (
		to      string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy all election years into another store",
		Long: `Import reads the year summaries and every year's results from the
configured source and writes them to the target.

Targets:
  mongo              the MongoDB database from mongo_uri in the config
  mongodb://host/db  a MongoDB database
  sqlite:./file.db   a SQLite database (created if missing)
  json:./dir         a directory of JSON datasets, readable as a dir source`,
		Example: `  electoral import --to sqlite:./electoral.db
  electoral import --source https://example.com/data --to json:./snapshot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), to, noCache)
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "", "target store (required)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func (c *CLI) runImport(ctx context.Context, to string, noCache bool) error {
	logger := loggerFromContext(ctx)
	if to == targetMongo {
		if c.Config.Data.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidInput, "no mongo_uri configured (set %s)", "ELECTORAL_MONGO_URI")
		}
		to = c.Config.Data.MongoURI
	}

	runner, err := c.newRunner(ctx, noCache, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newStderrSpinner(ctx, "Reading "+c.Config.Data.Source+"...")
	spinner.Start()
	prog := newProgress(logger)
	summaries, datasets, err := readAll(ctx, runner.Summaries, runner.Load)
	spinner.Stop()
	if err != nil {
		return err
	}

	if dir, ok := strings.CutPrefix(to, targetJSON); ok {
		err = exportDir(dir, summaries, datasets)
	} else {
		err = importInto(ctx, to, summaries, datasets)
	}
	if err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Imported %d years", len(datasets)))
	printSuccess("Imported %d years into %s", len(datasets), to)
	if dir, ok := strings.CutPrefix(to, targetJSON); ok {
		to = dir
	}
	printNextStep("Use it", fmt.Sprintf("electoral --source %s years", to))
	return nil
}

// readAll loads the summaries and the dataset of every summarized year.
func readAll(
	ctx context.Context,
	summaries func(context.Context) ([]election.YearSummary, error),
	load func(context.Context, int) (*election.Dataset, error),
) ([]election.YearSummary, []*election.Dataset, error) {
	sums, err := summaries(ctx)
	if err != nil {
		return nil, nil, err
	}
	datasets := make([]*election.Dataset, 0, len(sums))
	for _, s := range sums {
		ds, err := load(ctx, s.Year)
		if err != nil {
			return nil, nil, err
		}
		datasets = append(datasets, ds)
	}
	return sums, datasets, nil
}

func importInto(ctx context.Context, uri string, summaries []election.YearSummary, datasets []*election.Dataset) error {
	imp, err := source.OpenImporter(ctx, uri, source.Options{})
	if err != nil {
		return err
	}
	defer imp.Close()
	return imp.Import(ctx, summaries, datasets)
}

// exportDir writes the summary table as CSV and one JSON file per year, the
// layout the dir source reads.
func exportDir(dir string, summaries []election.YearSummary, datasets []*election.Dataset) error {
	if dir == "" {
		return errors.New(errors.ErrCodeInvalidInput, "json target needs a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
	}

	path := filepath.Join(dir, election.WinnersFile)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	if err := election.WriteSummaries(f, summaries); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}

	for _, ds := range datasets {
		name := strings.TrimSuffix(election.ResultsFile(ds.Year), ".csv") + ".json"
		if err := eio.ExportJSON(ds, filepath.Join(dir, name)); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "export %d", ds.Year)
		}
	}
	return nil
}
