// Package store persists analysis results in a local SQLite database so
// earlier runs can be queried without recomputing them. Only derived
// rankings and summaries are stored, never the graph itself.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/trustgraph/internal/analysis"
	"github.com/papapumpkin/trustgraph/internal/centrality"
	"github.com/papapumpkin/trustgraph/internal/trust"
)

// Sentinel errors for run lookups.
var (
	// ErrNoRuns indicates the database holds no runs yet.
	ErrNoRuns = errors.New("store: no runs recorded")
	// ErrRunNotFound indicates a lookup by an unknown run ID.
	ErrRunNotFound = errors.New("store: run not found")
)

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id                  TEXT PRIMARY KEY,
    input               TEXT NOT NULL,
    started_at          TEXT NOT NULL,
    nodes               INTEGER NOT NULL,
    edges               INTEGER NOT NULL,
    components          INTEGER NOT NULL,
    largest_component   INTEGER NOT NULL,
    network_trust       REAL NOT NULL,
    pagerank_iterations INTEGER NOT NULL,
    pagerank_converged  INTEGER NOT NULL,
    seq                 INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS scores (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    metric TEXT NOT NULL,
    rank   INTEGER NOT NULL,
    node   INTEGER NOT NULL,
    value  REAL NOT NULL,
    PRIMARY KEY (run_id, metric, rank)
);

CREATE TABLE IF NOT EXISTS degrees (
    run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    node       INTEGER NOT NULL,
    in_degree  INTEGER NOT NULL,
    out_degree INTEGER NOT NULL,
    in_weight  INTEGER NOT NULL,
    out_weight INTEGER NOT NULL,
    PRIMARY KEY (run_id, node)
);

CREATE TABLE IF NOT EXISTS trust_groups (
    run_id  TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    pos     INTEGER NOT NULL,
    name    TEXT NOT NULL,
    size    INTEGER NOT NULL,
    rated   INTEGER NOT NULL,
    average REAL NOT NULL,
    PRIMARY KEY (run_id, pos)
);
`

// Run is the stored header of one analysis run.
type Run struct {
	ID                 string
	Input              string
	Started            time.Time
	Summary            analysis.Summary
	PageRankIterations int
	PageRankConverged  bool
}

// Store is a SQLite-backed archive of analysis runs.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at path, enables WAL mode and
// busy timeout, and creates the schema tables if they do not exist.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// SQLite has a single writer; one pooled connection keeps the PRAGMAs
	// below in effect for every statement.
	db.SetMaxOpenConns(1)

	pragmas := []struct{ stmt, what string }{
		{"PRAGMA journal_mode=WAL", "enable WAL mode"},
		{"PRAGMA busy_timeout=5000", "set busy timeout"},
		{"PRAGMA foreign_keys=ON", "enable foreign keys"},
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p.stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p.what, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun records res under res.RunID in a single transaction: the run
// header, every ranked score of every metric, each node's degree row and
// the trust group summaries.
func (s *Store) SaveRun(ctx context.Context, input string, res *analysis.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	sum := res.Summary
	const insertRun = `
		INSERT INTO runs (id, input, started_at, nodes, edges, components, largest_component,
			network_trust, pagerank_iterations, pagerank_converged, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs))`
	if _, err := tx.ExecContext(ctx, insertRun,
		res.RunID, input, res.Started.UTC().Format(time.RFC3339Nano),
		sum.Nodes, sum.Edges, sum.Components, sum.LargestComponent, sum.NetworkTrust,
		res.PageRankIterations, res.PageRankConverged,
	); err != nil {
		return fmt.Errorf("store: insert run %q: %w", res.RunID, err)
	}

	scoreStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO scores (run_id, metric, rank, node, value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare score insert: %w", err)
	}
	defer scoreStmt.Close()
	for _, m := range analysis.Metrics {
		for i, sc := range res.Scores(m) {
			if _, err := scoreStmt.ExecContext(ctx, res.RunID, string(m), i+1, sc.Label, sc.Value); err != nil {
				return fmt.Errorf("store: insert %s score: %w", m, err)
			}
		}
	}

	degStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO degrees (run_id, node, in_degree, out_degree, in_weight, out_weight) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare degree insert: %w", err)
	}
	defer degStmt.Close()
	for _, d := range res.InDegree {
		if _, err := degStmt.ExecContext(ctx, res.RunID, d.Label, d.InDegree, d.OutDegree, d.InWeight, d.OutWeight); err != nil {
			return fmt.Errorf("store: insert degree of node %d: %w", d.Label, err)
		}
	}

	for i, g := range sum.Groups {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO trust_groups (run_id, pos, name, size, rated, average) VALUES (?, ?, ?, ?, ?, ?)`,
			res.RunID, i, g.Name, g.Size, g.Rated, g.Average,
		); err != nil {
			return fmt.Errorf("store: insert group %q: %w", g.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit run %q: %w", res.RunID, err)
	}
	return nil
}

const runColumns = `id, input, started_at, nodes, edges, components, largest_component,
	network_trust, pagerank_iterations, pagerank_converged`

// LatestRun returns the most recently saved run, or ErrNoRuns.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY seq DESC LIMIT 1`)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoRuns
	}
	if err != nil {
		return Run{}, fmt.Errorf("store: latest run: %w", err)
	}
	return r, nil
}

// GetRun returns the run with the given ID, or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %q", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("store: get run %q: %w", id, err)
	}
	return r, nil
}

func scanRun(row *sql.Row) (Run, error) {
	var (
		r       Run
		started string
	)
	err := row.Scan(&r.ID, &r.Input, &started,
		&r.Summary.Nodes, &r.Summary.Edges, &r.Summary.Components, &r.Summary.LargestComponent,
		&r.Summary.NetworkTrust, &r.PageRankIterations, &r.PageRankConverged)
	if err != nil {
		return Run{}, err
	}
	if r.Started, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return Run{}, fmt.Errorf("parse started_at %q: %w", started, err)
	}
	return r, nil
}

// TopScores returns the first k entries of the stored ranking for metric in
// rank order. k <= 0 returns the whole ranking.
func (s *Store) TopScores(ctx context.Context, runID string, metric analysis.Metric, k int) ([]centrality.Score, error) {
	if k <= 0 {
		k = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT node, value FROM scores WHERE run_id = ? AND metric = ? ORDER BY rank LIMIT ?`,
		runID, string(metric), k)
	if err != nil {
		return nil, fmt.Errorf("store: query %s scores: %w", metric, err)
	}
	defer rows.Close()

	var out []centrality.Score
	for rows.Next() {
		var sc centrality.Score
		if err := rows.Scan(&sc.Label, &sc.Value); err != nil {
			return nil, fmt.Errorf("store: scan score: %w", err)
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate scores: %w", err)
	}
	return out, nil
}

// Groups returns the trust group summaries of a run in their saved order.
func (s *Store) Groups(ctx context.Context, runID string) ([]trust.GroupSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, size, rated, average FROM trust_groups WHERE run_id = ? ORDER BY pos`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: query groups: %w", err)
	}
	defer rows.Close()

	var out []trust.GroupSummary
	for rows.Next() {
		var g trust.GroupSummary
		if err := rows.Scan(&g.Name, &g.Size, &g.Rated, &g.Average); err != nil {
			return nil, fmt.Errorf("store: scan group: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate groups: %w", err)
	}
	return out, nil
}

// DeleteRun removes a run and everything recorded for it.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete run %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrRunNotFound, id)
	}
	return nil
}
