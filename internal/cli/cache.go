package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/electoral/internal/config"
	"github.com/matzehuels/electoral/pkg/cache"
	"github.com/matzehuels/electoral/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the dataset and chart cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached datasets, responses and charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, dir, err := c.openFileCache("clear")
			if err != nil || fc == nil {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "clear %s", dir)
			}

			printSuccess("Cleared %d cached entries", n)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePruneCommand creates the "cache prune" subcommand.
func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, _, err := c.openFileCache("prune")
			if err != nil || fc == nil {
				return err
			}
			n, err := fc.Prune()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "prune %s", fc.Dir())
			}
			entries, size, _ := fc.Usage()
			printSuccess("Removed %d expired entries", n)
			printDetail("%d entries left, %s", entries, humanize.Bytes(uint64(size)))
			return nil
		},
	}
}

// openFileCache opens the configured file cache for maintenance. It returns
// a nil cache when the directory does not exist yet.
func (c *CLI) openFileCache(op string) (*cache.FileCache, string, error) {
	if backend := c.Config.Cache.Backend; backend != config.CacheFile {
		return nil, "", errors.New(errors.ErrCodeUnsupported, "cache %s works on the file cache, not %q", op, backend)
	}
	dir, err := c.cacheDir()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil, dir, nil
	}
	fc, err := cache.NewFileCache(dir)
	return fc, dir, err
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, dir)
			return nil
		},
	}
}
