package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/electoral/pkg/election"
)

// yearsCommand lists the election years of the configured source.
func (c *CLI) yearsCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "years",
		Short: "List election years and their winning party",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			summaries, err := runner.Summaries(ctx)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				printWarning("No election years in %s", c.Config.Data.Source)
				return nil
			}
			fmt.Fprintln(stdout, yearsTable(summaries))
			printDetail("%d years from %s", len(summaries), c.Config.Data.Source)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// yearsTable renders summaries as a bordered table, one row per year.
func yearsTable(summaries []election.YearSummary) string {
	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{strconv.Itoa(s.Year), s.Party.String(), s.Party.Name()}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Year", "Party", "Winner").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			style := listNormalStyle.Padding(0, 1)
			if col > 0 {
				style = partyStyle(summaries[row].Party).Padding(0, 1)
			}
			return style
		})
	return t.Render()
}

// completeYears offers the years of the configured source for --year.
// Completion skips the persistent pre-run, so the config is loaded here.
func (c *CLI) completeYears(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	if cmd.Context() == nil {
		cmd.SetContext(context.Background())
	}
	if err := c.setup(cmd); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, false, false)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer runner.Close()

	summaries, err := runner.Summaries(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	years := make([]string, len(summaries))
	for i, s := range summaries {
		years[i] = fmt.Sprintf("%d\t%s", s.Year, s.Party.Name())
	}
	return years, cobra.ShellCompDirectiveNoFileComp
}
