// Package ingest turns delimited trust-rating files into graph records.
//
// Each row holds source, target and rating as integers; further columns
// (such as the timestamp in the SNAP signed-network dumps) are ignored.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/papapumpkin/trustgraph/internal/graph"
)

// Sentinel errors for record ingestion.
var (
	// ErrMalformedRecord indicates a row that is not three integer fields.
	ErrMalformedRecord = errors.New("ingest: malformed record")
	// ErrFetch indicates a remote resource answered with a non-200 status.
	ErrFetch = errors.New("ingest: fetch failed")
)

// Options controls how rows are split and which rows are skipped.
type Options struct {
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
	// HasHeader skips the first non-comment row.
	HasHeader bool
	// Client fetches http(s) resources. Nil means http.DefaultClient.
	Client *http.Client
}

// ParseError reports the position of a row that could not be decoded.
// Err always wraps ErrMalformedRecord.
type ParseError struct {
	Line   int
	Column int // 1-based field index, 0 when the whole row is at fault
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("line %d, column %d: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var columnNames = [3]string{"source", "target", "rating"}

// ReadCSV decodes every row of r into a Record, preserving input order.
// Lines starting with '#' and blank lines are skipped.
func ReadCSV(r io.Reader, opts Options) ([]graph.Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = ','
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var records []graph.Record
	skipHeader := opts.HasHeader
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &ParseError{
					Line:   pe.Line,
					Column: pe.Column,
					Err:    fmt.Errorf("%w: %v", ErrMalformedRecord, pe.Err),
				}
			}
			return nil, fmt.Errorf("reading records: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if skipHeader {
			skipHeader = false
			continue
		}
		if len(fields) < len(columnNames) {
			return nil, &ParseError{
				Line: line,
				Err:  fmt.Errorf("%w: want %d fields, got %d", ErrMalformedRecord, len(columnNames), len(fields)),
			}
		}

		var vals [3]int
		for i := range vals {
			v, err := strconv.Atoi(strings.TrimSpace(fields[i]))
			if err != nil {
				return nil, &ParseError{
					Line:   line,
					Column: i + 1,
					Err:    fmt.Errorf("%w: invalid %s %q", ErrMalformedRecord, columnNames[i], fields[i]),
				}
			}
			vals[i] = v
		}
		records = append(records, graph.Record{Source: vals[0], Target: vals[1], Rating: vals[2]})
	}
	return records, nil
}
