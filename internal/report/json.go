package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/papapumpkin/trustgraph/internal/analysis"
	"github.com/papapumpkin/trustgraph/internal/centrality"
)

// JSONStrategy renders the run as a single JSON document for external
// tooling.
type JSONStrategy struct {
	Indent string
}

// jsonOutput is the top-level structure for JSON report output.
type jsonOutput struct {
	RunID              string                  `json:"run_id"`
	TopK               int                     `json:"top_k"`
	Summary            analysis.Summary        `json:"summary"`
	PageRankIterations int                     `json:"pagerank_iterations"`
	PageRankConverged  bool                    `json:"pagerank_converged"`
	InDegree           []centrality.DegreeStat `json:"in_degree"`
	OutDegree          []centrality.DegreeStat `json:"out_degree"`
	PageRank           []jsonScore             `json:"pagerank"`
	Betweenness        []jsonScore             `json:"betweenness"`
	Closeness          []jsonScore             `json:"closeness"`
}

type jsonScore struct {
	Rank  int     `json:"rank"`
	Node  int     `json:"node"`
	Score float64 `json:"score"`
}

// Render encodes res as JSON.
func (s JSONStrategy) Render(w io.Writer, res *analysis.Result, topK int) error {
	out := jsonOutput{
		RunID:              res.RunID,
		TopK:               topK,
		Summary:            res.Summary,
		PageRankIterations: res.PageRankIterations,
		PageRankConverged:  res.PageRankConverged,
		InDegree:           emptyIfNil(Top(res.InDegree, topK)),
		OutDegree:          emptyIfNil(Top(res.OutDegree, topK)),
		PageRank:           rankedScores(Top(res.PageRank, topK)),
		Betweenness:        rankedScores(Top(res.Betweenness, topK)),
		Closeness:          rankedScores(Top(res.Closeness, topK)),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", s.Indent)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

func rankedScores(scores []centrality.Score) []jsonScore {
	out := make([]jsonScore, len(scores))
	for i, sc := range scores {
		out[i] = jsonScore{Rank: i + 1, Node: sc.Label, Score: sc.Value}
	}
	return out
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
