package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMetric is returned by ParseMetric for unrecognized names.
var ErrUnknownMetric = errors.New("analysis: unknown metric")

// Metric names one ranking produced by a run.
type Metric string

const (
	MetricInDegree    Metric = "in_degree"
	MetricOutDegree   Metric = "out_degree"
	MetricPageRank    Metric = "pagerank"
	MetricBetweenness Metric = "betweenness"
	MetricCloseness   Metric = "closeness"
)

// Metrics lists every ranking in presentation order.
var Metrics = []Metric{
	MetricInDegree,
	MetricOutDegree,
	MetricPageRank,
	MetricBetweenness,
	MetricCloseness,
}

// Title returns the human-readable heading for m.
func (m Metric) Title() string {
	switch m {
	case MetricInDegree:
		return "Unweighted In-Degree"
	case MetricOutDegree:
		return "Unweighted Out-Degree"
	case MetricPageRank:
		return "PageRank"
	case MetricBetweenness:
		return "Betweenness Centrality"
	case MetricCloseness:
		return "Closeness Centrality"
	default:
		return string(m)
	}
}

// ParseMetric resolves a metric name. Hyphens and case are ignored, so
// "In-Degree" and "in_degree" are the same metric.
func ParseMetric(name string) (Metric, error) {
	norm := Metric(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_"))
	for _, m := range Metrics {
		if m == norm {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, name)
}
