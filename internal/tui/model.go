package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/trustgraph/internal/analysis"
	"github.com/papapumpkin/trustgraph/internal/centrality"
)

// MsgResult replaces the displayed result, e.g. after the input file
// changed and the analysis was rerun.
type MsgResult struct {
	Result *analysis.Result
}

// MsgError reports a failed rerun; the previous result stays on screen.
type MsgError struct {
	Err error
}

// chromeLines is the number of lines used by the status bar, tab bar,
// column header and footer.
const chromeLines = 5

// Model is the bubbletea model of the ranking viewer.
type Model struct {
	Input  string
	Result *analysis.Result
	Keys   KeyMap
	Active Tab
	Err    error

	// cursor holds the selected row per tab; offset the first visible row.
	cursor [tabCount]int
	offset [tabCount]int

	Width  int
	Height int
}

// NewModel creates a viewer for res, read from input.
func NewModel(input string, res *analysis.Result) Model {
	return Model{
		Input:  input,
		Result: res,
		Keys:   DefaultKeyMap(),
		Width:  80,
		Height: 24,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		for t := Tab(0); t < tabCount; t++ {
			m.clamp(t)
		}

	case tea.KeyMsg:
		return m.handleKey(msg)

	case MsgResult:
		m.Result = msg.Result
		m.Err = nil
		for t := Tab(0); t < tabCount; t++ {
			m.clamp(t)
		}

	case MsgError:
		m.Err = msg.Err
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.Keys.NextTab):
		m.Active = m.Active.Next()
	case key.Matches(msg, m.Keys.PrevTab):
		m.Active = m.Active.Prev()
	case key.Matches(msg, m.Keys.JumpTab):
		if tab, ok := TabFromNumber(int(msg.String()[0] - '0')); ok {
			m.Active = tab
		}
	case key.Matches(msg, m.Keys.Up):
		m.move(-1)
	case key.Matches(msg, m.Keys.Down):
		m.move(1)
	case key.Matches(msg, m.Keys.PageUp):
		m.move(-m.pageSize())
	case key.Matches(msg, m.Keys.PageDown):
		m.move(m.pageSize())
	case key.Matches(msg, m.Keys.Home):
		m.move(-m.rowCount(m.Active))
	case key.Matches(msg, m.Keys.End):
		m.move(m.rowCount(m.Active))
	}
	return m, nil
}

// Cursor returns the selected row of the active tab.
func (m Model) Cursor() int {
	return m.cursor[m.Active]
}

func (m *Model) move(delta int) {
	m.cursor[m.Active] += delta
	m.clamp(m.Active)
}

// clamp keeps the cursor inside the rows of t and scrolls the offset so
// the cursor stays visible.
func (m *Model) clamp(t Tab) {
	n := m.rowCount(t)
	c := m.cursor[t]
	c = max(0, min(c, n-1))
	m.cursor[t] = c

	page := m.pageSize()
	off := m.offset[t]
	if c < off {
		off = c
	}
	if c >= off+page {
		off = c - page + 1
	}
	m.offset[t] = max(0, off)
}

func (m Model) pageSize() int {
	return max(1, m.Height-chromeLines)
}

func (m Model) rowCount(t Tab) int {
	if m.Result == nil {
		return 0
	}
	if t == TabTrust {
		return len(m.Result.Summary.Groups)
	}
	return len(m.Result.Scores(tabMetrics[t]))
}

// View renders the status bar, tab bar, the visible rows of the active
// tab and the key help.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.statusBar())
	b.WriteByte('\n')
	b.WriteString(TabBar{ActiveTab: m.Active, Width: m.Width}.View())
	b.WriteByte('\n')

	if m.Result == nil {
		b.WriteString("  no result\n")
	} else if m.Active == TabTrust {
		b.WriteString(m.trustView())
	} else {
		b.WriteString(m.rankingView())
	}

	if m.Err != nil {
		b.WriteString(styleNegative.Render("  rerun failed: " + m.Err.Error()))
		b.WriteByte('\n')
	}
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) statusBar() string {
	line := styleStatusLabel.Render("trustgraph") + " " + m.Input
	if m.Result != nil {
		s := m.Result.Summary
		line += fmt.Sprintf("  nodes %d  edges %d  components %d", s.Nodes, s.Edges, s.Components)
	}
	return styleStatusBar.Width(m.Width).Render(line)
}

func (m Model) rankingView() string {
	metric := tabMetrics[m.Active]
	var b strings.Builder

	degree := m.Active == TabInDegree || m.Active == TabOutDegree
	if degree {
		b.WriteString(styleHeaderRow.Render(fmt.Sprintf("  %5s  %10s  %6s  %6s  %8s  %8s", "#", "node", "in", "out", "mean in", "mean out")))
	} else {
		b.WriteString(styleHeaderRow.Render(fmt.Sprintf("  %5s  %10s  %12s", "#", "node", metric.Title())))
	}
	b.WriteByte('\n')

	var stats []centrality.DegreeStat
	switch m.Active {
	case TabInDegree:
		stats = m.Result.InDegree
	case TabOutDegree:
		stats = m.Result.OutDegree
	}
	scores := m.Result.Scores(metric)

	start := m.offset[m.Active]
	end := min(len(scores), start+m.pageSize())
	for i := start; i < end; i++ {
		var row string
		if degree {
			d := stats[i]
			row = fmt.Sprintf("%5d  %10d  %6d  %6d  %8s  %8s", i+1, d.Label, d.InDegree, d.OutDegree,
				signed(d.MeanInWeight), signed(d.MeanOutWeight))
		} else {
			row = fmt.Sprintf("%5d  %10d  %12.6f", i+1, scores[i].Label, scores[i].Value)
		}
		b.WriteString(m.renderRow(i, row))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) trustView() string {
	var b strings.Builder
	fmt.Fprintf(&b, "  network average trust: %s\n", signed(m.Result.Summary.NetworkTrust))
	b.WriteString(styleHeaderRow.Render(fmt.Sprintf("  %-20s  %6s  %6s  %8s", "group", "nodes", "rated", "average")))
	b.WriteByte('\n')
	groups := m.Result.Summary.Groups
	start := m.offset[TabTrust]
	end := min(len(groups), start+m.pageSize())
	for i := start; i < end; i++ {
		g := groups[i]
		row := fmt.Sprintf("%-20s  %6d  %6d  %8s", g.Name, g.Size, g.Rated, signed(g.Average))
		b.WriteString(m.renderRow(i, row))
		b.WriteByte('\n')
	}
	if len(groups) == 0 {
		b.WriteString("  no trust groups configured\n")
	}
	return b.String()
}

func (m Model) renderRow(i int, row string) string {
	if i == m.cursor[m.Active] {
		return styleRowSelected.Render(selectionIndicator + " " + row)
	}
	return styleRowNormal.Render("  " + row)
}

// signed renders a trust value colored by its sign.
func signed(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	switch {
	case v > 0:
		return stylePositive.Render(s)
	case v < 0:
		return styleNegative.Render(s)
	default:
		return s
	}
}

func (m Model) footer() string {
	var parts []string
	for _, b := range m.Keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	pos := ""
	if n := m.rowCount(m.Active); n > 0 {
		pos = fmt.Sprintf("%d/%d  ", m.cursor[m.Active]+1, n)
	}
	return styleFooter.Render(pos + strings.Join(parts, " · "))
}
