package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/trustgraph/internal/analysis"
)

// Tab identifies one ranking view.
type Tab int

const (
	TabInDegree Tab = iota
	TabOutDegree
	TabPageRank
	TabBetweenness
	TabCloseness
	TabTrust
)

// tabCount is the total number of tabs.
const tabCount = 6

var tabLabels = [tabCount]string{
	TabInDegree:    "in-degree",
	TabOutDegree:   "out-degree",
	TabPageRank:    "pagerank",
	TabBetweenness: "betweenness",
	TabCloseness:   "closeness",
	TabTrust:       "trust",
}

// tabMetrics maps ranking tabs to their metric. TabTrust has none.
var tabMetrics = map[Tab]analysis.Metric{
	TabInDegree:    analysis.MetricInDegree,
	TabOutDegree:   analysis.MetricOutDegree,
	TabPageRank:    analysis.MetricPageRank,
	TabBetweenness: analysis.MetricBetweenness,
	TabCloseness:   analysis.MetricCloseness,
}

// Label returns the display label for a tab.
func (t Tab) Label() string {
	if int(t) >= 0 && int(t) < tabCount {
		return tabLabels[t]
	}
	return "unknown"
}

// Next cycles forward to the next tab, wrapping around.
func (t Tab) Next() Tab {
	return Tab((int(t) + 1) % tabCount)
}

// Prev cycles backward to the previous tab, wrapping around.
func (t Tab) Prev() Tab {
	return Tab((int(t) + tabCount - 1) % tabCount)
}

// TabFromNumber converts a 1-based number key to a Tab.
// Returns the tab and true if valid, or TabInDegree and false otherwise.
func TabFromNumber(n int) (Tab, bool) {
	idx := n - 1
	if idx >= 0 && idx < tabCount {
		return Tab(idx), true
	}
	return TabInDegree, false
}

// TabBar renders a horizontal row of tab labels.
type TabBar struct {
	ActiveTab Tab
	Width     int
}

// View renders the tab bar as a single styled line.
func (tb TabBar) View() string {
	var parts []string
	for i := 0; i < tabCount; i++ {
		tab := Tab(i)
		label := fmt.Sprintf("[%d] %s", i+1, tab.Label())
		if tab == tb.ActiveTab {
			parts = append(parts, styleTabActive.Render(label))
		} else {
			parts = append(parts, styleTabInactive.Render(label))
		}
	}
	return lipgloss.NewStyle().
		Width(tb.Width).
		PaddingLeft(2).
		Render(strings.Join(parts, "  "))
}
