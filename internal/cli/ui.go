package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/electoral/pkg/colorscale"
	"github.com/matzehuels/electoral/pkg/election"
)

// stdout receives command results. Logs and the spinner go to stderr.
var stdout io.Writer = os.Stdout

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleLink   = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim    = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue  = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const iconError = "✗"

// statusLine prints one message prefixed by a colored icon.
type statusLine struct {
	icon  string
	style lipgloss.Style
	body  lipgloss.Style
}

var (
	lineSuccess = statusLine{"✓", lipgloss.NewStyle().Foreground(colorGreen), lipgloss.NewStyle()}
	lineWarning = statusLine{"!", lipgloss.NewStyle().Foreground(colorYellow), lipgloss.NewStyle().Foreground(colorYellow)}
	lineInfo    = statusLine{"›", lipgloss.NewStyle().Foreground(colorGray), lipgloss.NewStyle()}
)

func (l statusLine) print(format string, args ...any) {
	fmt.Fprintln(stdout, l.style.Render(l.icon)+" "+l.body.Render(fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) { lineSuccess.print(format, args...) }
func printWarning(format string, args ...any) { lineWarning.print(format, args...) }
func printInfo(format string, args ...any)    { lineInfo.print(format, args...) }

// printDetail prints an indented, muted line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written file with its size.
func printFile(path string) {
	line := "  " + StyleDim.Render("→") + " " + StyleValue.Render(path)
	if info, err := os.Stat(path); err == nil {
		line += " " + StyleDim.Render("("+humanize.Bytes(uint64(info.Size()))+")")
	}
	fmt.Fprintln(stdout, line)
}

// printStats summarizes a rendered year on one line.
func printStats(records, totalEV int, cached bool) {
	var parts []string
	if records > 0 {
		parts = append(parts, fmt.Sprintf("%d states", records))
	}
	if totalEV > 0 {
		parts = append(parts, fmt.Sprintf("%d electoral votes", totalEV))
	}
	if cached {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGreen).Render("cached"))
	} else {
		parts = append(parts, "fresh")
	}
	fmt.Fprintln(stdout, "  "+StyleDim.Render(strings.Join(parts, " · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// partyColors are the solid party colors of the charts' legends.
var partyColors = map[election.Party]lipgloss.Color{
	election.Democrat:    lipgloss.Color("#0066CC"),
	election.Republican:  lipgloss.Color("#CC0000"),
	election.Independent: lipgloss.Color(colorscale.Independent),
}

// partyStyle colors text in the party's color.
func partyStyle(p election.Party) lipgloss.Style {
	if c, ok := partyColors[p]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle().Foreground(colorGray)
}
