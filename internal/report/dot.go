package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/papapumpkin/trustgraph/internal/analysis"
)

// ErrNoGraph is returned by RenderDOT for a Result without its graph.
var ErrNoGraph = errors.New("report: result has no graph")

// DOTFormats lists the output formats RenderDOT accepts.
var DOTFormats = []string{"dot", "svg", "png"}

func graphvizFormat(name string) (graphviz.Format, error) {
	switch strings.ToLower(name) {
	case "dot":
		return graphviz.XDOT, nil
	case "svg":
		return graphviz.SVG, nil
	case "png":
		return graphviz.PNG, nil
	default:
		return "", fmt.Errorf("%w: graphviz %q (want one of %s)", ErrUnknownFormat, name, strings.Join(DOTFormats, ", "))
	}
}

// TopNodes returns the labels appearing in the first topK entries of any
// ranking, ordered by first appearance across metrics in presentation
// order. topK <= 0 selects every node.
func TopNodes(res *analysis.Result, topK int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, m := range analysis.Metrics {
		for _, s := range Top(res.Scores(m), topK) {
			if !seen[s.Label] {
				seen[s.Label] = true
				out = append(out, s.Label)
			}
		}
	}
	return out
}

// pairStat aggregates the parallel edges between two nodes.
type pairStat struct {
	from, to int
	count    int
	sum      int
}

// inducedPairs collapses the edges among nodes into one entry per ordered
// pair, in first-seen edge order.
func inducedPairs(res *analysis.Result, nodes []int) []pairStat {
	g := res.Graph
	keep := make(map[int]bool, len(nodes))
	for _, l := range nodes {
		if i, ok := g.Index(l); ok {
			keep[i] = true
		}
	}

	index := make(map[[2]int]int)
	var pairs []pairStat
	for id := 0; id < g.EdgeCount(); id++ {
		e := g.Edge(id)
		if !keep[e.From] || !keep[e.To] {
			continue
		}
		key := [2]int{e.From, e.To}
		k, ok := index[key]
		if !ok {
			k = len(pairs)
			index[key] = k
			pairs = append(pairs, pairStat{from: g.Label(e.From), to: g.Label(e.To)})
		}
		pairs[k].count++
		pairs[k].sum += e.Weight
	}
	return pairs
}

// RenderDOT draws the subgraph induced by TopNodes(res, topK) with
// Graphviz and writes it to path. Node size follows PageRank; each edge is
// labeled with its mean rating and colored by its sign.
func RenderDOT(res *analysis.Result, topK int, format, path string) error {
	if res.Graph == nil {
		return ErrNoGraph
	}
	gvFormat, err := graphvizFormat(format)
	if err != nil {
		return err
	}

	nodes := TopNodes(res, topK)
	sort.Ints(nodes)

	gv := graphviz.New()
	graph, err := gv.Graph()
	if err != nil {
		return fmt.Errorf("graphviz: new graph: %w", err)
	}
	defer func() {
		_ = graph.Close()
		_ = gv.Close()
	}()
	graph.SetRankDir(cgraph.LRRank)

	maxRank := 0.0
	for _, s := range res.PageRank {
		if s.Value > maxRank {
			maxRank = s.Value
		}
	}
	rank := make(map[int]float64, len(res.PageRank))
	for _, s := range res.PageRank {
		rank[s.Label] = s.Value
	}

	gvNodes := make(map[int]*cgraph.Node, len(nodes))
	for _, label := range nodes {
		n, err := graph.CreateNode(fmt.Sprintf("n%d", label))
		if err != nil {
			return fmt.Errorf("graphviz: node %d: %w", label, err)
		}
		n.SetLabel(fmt.Sprintf("%d", label))
		n.SetShape(cgraph.CircleShape)
		if maxRank > 0 {
			n.SetWidth(0.4 + rank[label]/maxRank)
		}
		gvNodes[label] = n
	}

	for i, p := range inducedPairs(res, nodes) {
		e, err := graph.CreateEdge(fmt.Sprintf("e%d", i), gvNodes[p.from], gvNodes[p.to])
		if err != nil {
			return fmt.Errorf("graphviz: edge %d->%d: %w", p.from, p.to, err)
		}
		mean := float64(p.sum) / float64(p.count)
		e.SetLabel(fmt.Sprintf("%.1f", mean))
		switch {
		case mean > 0:
			e.SetColor("darkgreen")
		case mean < 0:
			e.SetColor("red")
		default:
			e.SetColor("gray")
		}
		if p.count > 1 {
			e.SetPenWidth(float64(min(p.count, 5)))
		}
	}

	if err := gv.RenderFilename(graph, gvFormat, path); err != nil {
		return fmt.Errorf("graphviz: render %s: %w", path, err)
	}
	return nil
}
