package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/electoral/pkg/chart/tile"
	"github.com/matzehuels/electoral/pkg/dashboard"
	"github.com/matzehuels/electoral/pkg/election"
	"github.com/matzehuels/electoral/pkg/errors"
	"github.com/matzehuels/electoral/pkg/grid"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	// tileWidth is the number of terminal columns per cartogram cell.
	tileWidth  = 5
	labelWidth = 12
)

// =============================================================================
// BrowseModel - interactive year browser
// =============================================================================

type timelineMsg struct {
	summaries []election.YearSummary
	err       error
}

type selectedMsg struct {
	year int
	snap *dashboard.Snapshot
	err  error
}

// BrowseModel is the bubbletea model of "electoral browse". Selecting a year
// starts an asynchronous dashboard selection; results for a year other than
// the latest request are dropped.
type BrowseModel struct {
	ctx       context.Context
	dash      *dashboard.Dashboard
	Summaries []election.YearSummary
	Cursor    int
	Offset    int
	Height    int

	// Pending is the year of the latest selection request, 0 when idle.
	Pending int
	Snap    *dashboard.Snapshot
	Err     error
}

// NewBrowseModel creates a browser over d. initial, when non-zero, is
// selected as soon as the timeline is loaded.
func NewBrowseModel(ctx context.Context, d *dashboard.Dashboard, initial int) BrowseModel {
	return BrowseModel{ctx: ctx, dash: d, Height: 15, Pending: initial}
}

func (m BrowseModel) Init() tea.Cmd {
	d, ctx := m.dash, m.ctx
	return func() tea.Msg {
		summaries, err := d.LoadTimeline(ctx)
		return timelineMsg{summaries: summaries, err: err}
	}
}

func (m BrowseModel) selectYear(year int) (BrowseModel, tea.Cmd) {
	m.Pending = year
	d, ctx := m.dash, m.ctx
	return m, func() tea.Msg {
		snap, err := d.Select(ctx, year)
		return selectedMsg{year: year, snap: snap, err: err}
	}
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timelineMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, nil
		}
		m.Summaries = msg.summaries
		if len(m.Summaries) == 0 {
			return m, nil
		}
		m.Cursor = len(m.Summaries) - 1
		for i, s := range m.Summaries {
			if s.Year == m.Pending {
				m.Cursor = i
			}
		}
		m.scrollTo(m.Cursor)
		return m.selectYear(m.Summaries[m.Cursor].Year)

	case selectedMsg:
		if msg.year != m.Pending || errors.Is(msg.err, errors.ErrCodeStale) {
			return m, nil
		}
		m.Pending = 0
		if msg.err != nil {
			m.Err = msg.err
			return m, nil
		}
		m.Snap, m.Err = msg.snap, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				m.scrollTo(m.Cursor)
			}
		case "down", "j":
			if m.Cursor < len(m.Summaries)-1 {
				m.Cursor++
				m.scrollTo(m.Cursor)
			}
		case "enter", " ":
			if len(m.Summaries) > 0 {
				return m.selectYear(m.Summaries[m.Cursor].Year)
			}
		}

	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
		m.scrollTo(m.Cursor)
	}
	return m, nil
}

func (m *BrowseModel) scrollTo(i int) {
	if i < m.Offset {
		m.Offset = i
	}
	if i >= m.Offset+m.Height {
		m.Offset = i - m.Height + 1
	}
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Presidential Elections"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	right := m.resultView()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.yearList(), "   ", right))
	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(styleIconError.Render(iconError) + " " + errors.UserMessage(m.Err))
		b.WriteString("\n")
	}
	return b.String()
}

func (m BrowseModel) yearList() string {
	var b strings.Builder
	end := min(m.Offset+m.Height, len(m.Summaries))
	current := 0
	if m.Snap != nil {
		current = m.Snap.Year
	}
	for i := m.Offset; i < end; i++ {
		s := m.Summaries[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := " "
		switch s.Year {
		case m.Pending:
			mark = "…"
		case current:
			mark = "●"
		}
		line := fmt.Sprintf("%s%d %s", cursor, s.Year, partyStyle(s.Party).Render(mark))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	if len(m.Summaries) > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("[%d/%d]", m.Cursor+1, len(m.Summaries))))
	}
	return b.String()
}

func (m BrowseModel) resultView() string {
	if m.Snap == nil {
		if m.Pending != 0 {
			return listDimStyle.Render(fmt.Sprintf("Loading %d...", m.Pending))
		}
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render(fmt.Sprintf("%d", m.Snap.Year)))
	b.WriteString("\n\n")
	b.WriteString(tileMap(m.Snap))
	b.WriteString("\n")
	b.WriteString(totalsView(m.Snap))
	return b.String()
}

// tileMap draws the cartogram with one colored cell per state. Like the SVG
// tile chart it shows the grid transposed: grid rows run left to right.
func tileMap(snap *dashboard.Snapshot) string {
	if snap.Tiles == nil {
		return ""
	}
	tiles := make(map[grid.Cell]tile.Tile, len(snap.Tiles.Tiles))
	for _, t := range snap.Tiles.Tiles {
		tiles[t.Cell] = t
	}

	var b strings.Builder
	blank := strings.Repeat(" ", tileWidth)
	for y := 0; y <= snap.Tiles.MaxRows; y++ {
		for x := 0; x <= snap.Tiles.MaxColumns; x++ {
			t, ok := tiles[grid.Cell{Row: x, Col: y}]
			if !ok {
				b.WriteString(blank)
				continue
			}
			style := lipgloss.NewStyle().
				Width(tileWidth).
				Align(lipgloss.Center).
				Background(lipgloss.Color(t.Fill)).
				Foreground(lipgloss.Color("0"))
			b.WriteString(style.Render(t.Abbreviation))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// totalsView lists electoral votes and popular-vote shares per party.
func totalsView(snap *dashboard.Snapshot) string {
	var b strings.Builder
	if snap.Electoral != nil {
		for _, t := range snap.Electoral.Totals {
			printTo(&b, "%s %s EV", partyStyle(t.Party).Width(labelWidth).Render(t.Party.Name()), StyleNumber.Render(fmt.Sprint(t.EV)))
		}
		printTo(&b, "%s %s EV", StyleDim.Width(labelWidth).Render("to win"), StyleNumber.Render(fmt.Sprint(snap.Electoral.WinNumber)))
	}
	if snap.Percentage != nil && !snap.Percentage.Empty() {
		b.WriteString("\n")
		for _, s := range snap.Percentage.Segments {
			printTo(&b, "%s %s  %s", partyStyle(s.Party).Width(labelWidth).Render(s.Party.Name()), StyleNumber.Render(s.Label()), StyleDim.Render(s.Nominee))
		}
	}
	return b.String()
}

func printTo(b *strings.Builder, format string, args ...any) {
	fmt.Fprintf(b, format, args...)
	b.WriteString("\n")
}
