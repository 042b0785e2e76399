package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vcf2rdf/internal/stats"
)

// Count categories in run_counts.
const (
	CategoryContig     = "contig"
	CategoryFilter     = "filter"
	CategoryInfo       = "info"
	CategoryKind       = "kind"
	CategorySkipReason = "skip_reason"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is one row of the runs table.
type RunSummary struct {
	ID        int64
	Input     FileFingerprint
	CreatedAt time.Time
	Records   int64
	Skipped   int64
	Triples   int64
}

// WriteReport stores a report for the given input and returns its run id.
// Counters are batch-inserted using the Appender API.
func (s *Store) WriteReport(input FileFingerprint, r *stats.Report) (int64, error) {
	ctx := context.Background()

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var id int64
	if err := conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(run_id), 0) + 1 FROM runs").Scan(&id); err != nil {
		return 0, fmt.Errorf("next run id: %w", err)
	}

	var mtime any
	if !input.ModTime.IsZero() {
		mtime = input.ModTime.UTC()
	}
	if _, err := conn.ExecContext(ctx, `INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, input.Path, input.Size, mtime, time.Now().UTC(),
		r.Records, r.Skipped, r.SkippedAlleles, r.Malformed, r.Emitted, r.Triples,
	); err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "run_counts")
		return err
	}); err != nil {
		return 0, fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	groups := []struct {
		category string
		counts   []stats.Count
	}{
		{CategoryContig, r.Contigs},
		{CategoryFilter, r.Filters},
		{CategoryInfo, r.Info},
		{CategoryKind, r.Kinds},
		{CategorySkipReason, r.SkipReasons},
	}
	for _, g := range groups {
		for i, c := range g.counts {
			if err := appender.AppendRow(id, g.category, int32(i), c.Name, c.Count); err != nil {
				return 0, fmt.Errorf("append %s count: %w", g.category, err)
			}
		}
	}

	if err := appender.Flush(); err != nil {
		return 0, fmt.Errorf("flush counts: %w", err)
	}
	return id, nil
}

// Runs lists stored runs, oldest first.
func (s *Store) Runs() ([]RunSummary, error) {
	rows, err := s.db.Query(`SELECT run_id, input, input_size, input_mtime, created_at, records, skipped, triples
		FROM runs ORDER BY run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			rs    RunSummary
			mtime sql.NullTime
		)
		if err := rows.Scan(&rs.ID, &rs.Input.Path, &rs.Input.Size, &mtime, &rs.CreatedAt,
			&rs.Records, &rs.Skipped, &rs.Triples); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if mtime.Valid {
			rs.Input.ModTime = mtime.Time
		}
		out = append(out, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// LookupReport loads the report stored under run id.
func (s *Store) LookupReport(id int64) (*stats.Report, error) {
	r := &stats.Report{}
	err := s.db.QueryRow(`SELECT records, skipped, skipped_alleles, malformed, emitted, triples
		FROM runs WHERE run_id = ?`, id).
		Scan(&r.Records, &r.Skipped, &r.SkippedAlleles, &r.Malformed, &r.Emitted, &r.Triples)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}

	rows, err := s.db.Query(`SELECT category, name, count FROM run_counts
		WHERE run_id = ? ORDER BY category, ordinal`, id)
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			category string
			c        stats.Count
		)
		if err := rows.Scan(&category, &c.Name, &c.Count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		switch category {
		case CategoryContig:
			r.Contigs = append(r.Contigs, c)
		case CategoryFilter:
			r.Filters = append(r.Filters, c)
		case CategoryInfo:
			r.Info = append(r.Info, c)
		case CategoryKind:
			r.Kinds = append(r.Kinds, c)
		case CategorySkipReason:
			r.SkipReasons = append(r.SkipReasons, c)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return r, nil
}

// ClearRuns removes all stored reports.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM run_counts"); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM runs")
	return err
}
