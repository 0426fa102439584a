package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/papapumpkin/trustgraph/internal/analysis"
	"github.com/papapumpkin/trustgraph/internal/centrality"
	"github.com/papapumpkin/trustgraph/internal/trust"
)

// PlainStrategy writes one line per ranked node, in the line format of the
// original console report.
type PlainStrategy struct{}

// Render writes every ranking followed by the trust averages.
func (PlainStrategy) Render(w io.Writer, res *analysis.Result, topK int) error {
	bw := bufio.NewWriter(w)

	for _, m := range analysis.Metrics {
		switch m {
		case analysis.MetricInDegree:
			writeDegreeLines(bw, m, Top(res.InDegree, topK))
		case analysis.MetricOutDegree:
			writeDegreeLines(bw, m, Top(res.OutDegree, topK))
		default:
			writeScoreLines(bw, m, Top(res.Scores(m), topK))
		}
		bw.WriteByte('\n')
	}

	writeTrustLines(bw, res.Summary.NetworkTrust, res.Summary.Groups)
	return bw.Flush()
}

// WriteTrust writes the network average followed by one line per group.
func WriteTrust(w io.Writer, network float64, groups []trust.GroupSummary) error {
	bw := bufio.NewWriter(w)
	writeTrustLines(bw, network, groups)
	return bw.Flush()
}

func writeTrustLines(w io.Writer, network float64, groups []trust.GroupSummary) {
	fmt.Fprintf(w, "Network Average Trust Score: %.4f\n", network)
	for _, g := range groups {
		fmt.Fprintf(w, "Average Trust Score for %s group: %.4f\n", g.Name, g.Average)
	}
}

func writeDegreeLines(w io.Writer, m analysis.Metric, stats []centrality.DegreeStat) {
	fmt.Fprintf(w, "Top %d Nodes by %s:\n", len(stats), m.Title())
	for _, d := range stats {
		fmt.Fprintf(w, "Node %d - Unweighted In-Degree: %d, Unweighted Out-Degree: %d, Mean Weighted In-Degree: %.2f, Mean Weighted Out-Degree: %.2f\n",
			d.Label, d.InDegree, d.OutDegree, d.MeanInWeight, d.MeanOutWeight)
	}
}

func writeScoreLines(w io.Writer, m analysis.Metric, scores []centrality.Score) {
	fmt.Fprintf(w, "Top %d Nodes by %s:\n", len(scores), m.Title())
	for _, s := range scores {
		fmt.Fprintf(w, "Node %d - %s: %.6f\n", s.Label, m.Title(), s.Value)
	}
}
