// Package telemetry records analysis runs as a JSONL event stream. Each run
// start, graph build, engine completion and watch-triggered rerun is one
// JSON line, so long sessions can be audited and timed after the fact.
package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Event kinds identify the type of telemetry event.
const (
	KindRunStart    = "run_start"
	KindRunDone     = "run_done"
	KindRunFailed   = "run_failed"
	KindGraphBuilt  = "graph_built"
	KindMetricStart = "metric_start"
	KindMetricDone  = "metric_done"
	KindInputChange = "input_change"
)

// Event represents a single telemetry record. Each event carries a
// timestamp, a kind tag, and optional run and metric identifiers along with
// arbitrary structured data.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	RunID     string    `json:"run,omitempty"`
	Metric    string    `json:"metric,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Emitter writes telemetry events as JSON lines. It is safe for concurrent
// use by multiple goroutines. A nil *Emitter is a valid no-op emitter.
type Emitter struct {
	closer io.Closer
	enc    *json.Encoder
	mu     sync.Mutex
	now    func() time.Time
}

// NewEmitter creates a new Emitter that writes JSONL events to the file at
// path. The file is created if it does not exist, or appended to if it does.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	em := NewWriterEmitter(f)
	em.closer = f
	return em, nil
}

// NewWriterEmitter returns an Emitter that encodes events to w. Close does
// not close w.
func NewWriterEmitter(w io.Writer) *Emitter {
	return &Emitter{
		enc: json.NewEncoder(w),
		now: time.Now,
	}
}

// Emit writes a single event. A zero Timestamp is filled with the current
// time. Calling Emit on a nil Emitter is a no-op.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if evt.Timestamp.IsZero() {
		evt.Timestamp = e.now().UTC()
	}
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Close closes the underlying file, if the Emitter owns one. Calling Close
// on a nil Emitter is a no-op.
func (e *Emitter) Close() error {
	if e == nil || e.closer == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.closer.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}
