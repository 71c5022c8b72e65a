package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/electoral/pkg/dashboard"
)

// browseCommand opens the interactive year browser.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		year    int
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse election years interactively in the terminal",
		Long: `Browse lists the election years of the data source. Selecting a year
draws the tile map of the states, colored by the winner's margin, next to the
electoral-vote totals and the popular-vote shares.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			// Library logging would tear through the alternate screen.
			d := dashboard.New(runner, dashboard.WithWidth(c.Config.Render.Width))
			model := NewBrowseModel(ctx, d, year)

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			final, err := p.Run()
			if err != nil {
				return err
			}
			if m, ok := final.(BrowseModel); ok && m.Err != nil && len(m.Summaries) == 0 {
				return m.Err
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "year to select first (default latest)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	_ = cmd.RegisterFlagCompletionFunc("year", c.completeYears)
	return cmd
}
