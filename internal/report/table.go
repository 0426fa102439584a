package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/papapumpkin/trustgraph/internal/analysis"
	"github.com/papapumpkin/trustgraph/internal/centrality"
)

var (
	colorPrimary = lipgloss.Color("#00BFFF")
	colorMuted   = lipgloss.Color("#636363")
	colorText    = lipgloss.Color("#EEEEEE")

	styleTitle  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	styleHeader = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Foreground(colorText).Padding(0, 1)
	styleBorder = lipgloss.NewStyle().Foreground(colorMuted)
)

// TableStrategy renders each ranking as a bordered terminal table.
type TableStrategy struct{}

// Render writes the summary table, one table per metric and the trust
// group table.
func (TableStrategy) Render(w io.Writer, res *analysis.Result, topK int) error {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Network"))
	b.WriteByte('\n')
	b.WriteString(summaryTable(res).Render())
	b.WriteString("\n\n")

	for _, m := range analysis.Metrics {
		var t *table.Table
		switch m {
		case analysis.MetricInDegree:
			t = degreeTable(Top(res.InDegree, topK))
		case analysis.MetricOutDegree:
			t = degreeTable(Top(res.OutDegree, topK))
		default:
			t = scoreTable(m, Top(res.Scores(m), topK))
		}
		fmt.Fprintf(&b, "%s\n%s\n\n", styleTitle.Render("Top nodes by "+m.Title()), t.Render())
	}

	if len(res.Summary.Groups) > 0 {
		b.WriteString(styleTitle.Render("Trust groups"))
		b.WriteByte('\n')
		b.WriteString(groupTable(res).Render())
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		}).
		Headers(headers...)
}

func summaryTable(res *analysis.Result) *table.Table {
	s := res.Summary
	converged := "yes"
	if !res.PageRankConverged {
		converged = "no (iteration cap)"
	}
	return newTable("Property", "Value").Rows(
		[]string{"Nodes", strconv.Itoa(s.Nodes)},
		[]string{"Edges", strconv.Itoa(s.Edges)},
		[]string{"Weak components", strconv.Itoa(s.Components)},
		[]string{"Largest component", strconv.Itoa(s.LargestComponent)},
		[]string{"Network average trust", fmt.Sprintf("%.4f", s.NetworkTrust)},
		[]string{"PageRank iterations", strconv.Itoa(res.PageRankIterations)},
		[]string{"PageRank converged", converged},
	)
}

func degreeTable(stats []centrality.DegreeStat) *table.Table {
	t := newTable("#", "Node", "In", "Out", "Mean in", "Mean out")
	for i, d := range stats {
		t.Row(
			strconv.Itoa(i+1),
			strconv.Itoa(d.Label),
			strconv.Itoa(d.InDegree),
			strconv.Itoa(d.OutDegree),
			fmt.Sprintf("%.2f", d.MeanInWeight),
			fmt.Sprintf("%.2f", d.MeanOutWeight),
		)
	}
	return t
}

func scoreTable(m analysis.Metric, scores []centrality.Score) *table.Table {
	t := newTable("#", "Node", m.Title())
	for i, s := range scores {
		t.Row(strconv.Itoa(i+1), strconv.Itoa(s.Label), fmt.Sprintf("%.6f", s.Value))
	}
	return t
}

func groupTable(res *analysis.Result) *table.Table {
	t := newTable("Group", "Nodes", "Rated", "Average trust")
	for _, g := range res.Summary.Groups {
		t.Row(g.Name, strconv.Itoa(g.Size), strconv.Itoa(g.Rated), fmt.Sprintf("%.4f", g.Average))
	}
	return t
}
