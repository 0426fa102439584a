// Package report renders analysis results for people and for other tools.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/papapumpkin/trustgraph/internal/analysis"
)

// ErrUnknownFormat is returned by ForFormat for unsupported names.
var ErrUnknownFormat = errors.New("report: unknown format")

// Strategy renders a Result. topK caps every ranking; topK <= 0 renders
// the complete lists.
type Strategy interface {
	Render(w io.Writer, res *analysis.Result, topK int) error
}

// ForFormat returns the Strategy for name. Supported names: plain, table,
// json.
func ForFormat(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "plain":
		return PlainStrategy{}, nil
	case "table":
		return TableStrategy{}, nil
	case "json":
		return JSONStrategy{Indent: "  "}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, name, strings.Join(FormatNames(), ", "))
	}
}

// FormatNames returns the list of all supported format names.
func FormatNames() []string {
	return []string{"plain", "table", "json"}
}

// Top returns the first k items of s, or all of s when k <= 0 or k
// exceeds its length.
func Top[T any](s []T, k int) []T {
	if k <= 0 || k >= len(s) {
		return s
	}
	return s[:k]
}
