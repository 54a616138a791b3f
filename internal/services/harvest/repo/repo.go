// Package repo provides the harvest run repository implementation.
package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"rowboat/internal/modkit/repokit"
	"rowboat/internal/platform/store"
	"rowboat/internal/services/harvest/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the harvest run repository
type Storage interface {
	Insert(ctx context.Context, run domain.Run) error
	Finish(ctx context.Context, run domain.Run) error
	WriteFetches(ctx context.Context, xs []domain.Fetch) error
	Get(ctx context.Context, id uuid.UUID) (domain.Run, error)
	List(ctx context.Context, in domain.ListInput) ([]domain.Run, error)
	Fetches(ctx context.Context, runID uuid.UUID) ([]domain.Fetch, error)
}

// Insert implements Storage
func (s *pg) Insert(ctx context.Context, run domain.Run) error {
	const q = `INSERT INTO harvest_runs
		(id, endpoint, sites, policy, status, row_count, fetch_count, error_count, started_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := s.q.Exec(ctx, q,
		run.ID, run.Endpoint, run.Sites, run.Policy, string(run.Status),
		run.RowCount, run.FetchCount, run.ErrorCount, run.StartedAt,
	)
	return err
}

// Finish implements Storage
func (s *pg) Finish(ctx context.Context, run domain.Run) error {
	const q = `UPDATE harvest_runs SET
		status = $2, row_count = $3, fetch_count = $4, error_count = $5,
		finished_at = $6, error = NULLIF($7, '')
		WHERE id = $1`
	return store.ExecOne(ctx, s.q, q,
		run.ID, string(run.Status), run.RowCount, run.FetchCount, run.ErrorCount,
		run.FinishedAt, run.Error,
	)
}

// WriteFetches implements Storage
func (s *pg) WriteFetches(ctx context.Context, xs []domain.Fetch) error {
	if len(xs) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO harvest_fetches
		(run_id, site, id_count, rows_out, took_ms, error) VALUES `)

	args := make([]any, 0, len(xs)*6)
	for i, f := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*6 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,NULLIF($%d, ''))",
			base, base+1, base+2, base+3, base+4, base+5)
		args = append(args, f.RunID, f.Site, f.IDCount, f.Rows, f.TookMs, f.Error)
	}
	_, err := s.q.Exec(ctx, sb.String(), args...)
	return err
}

// Get implements Storage
func (s *pg) Get(ctx context.Context, id uuid.UUID) (domain.Run, error) {
	const q = `SELECT id, endpoint, sites, policy, status, row_count, fetch_count, error_count,
			started_at, finished_at, COALESCE(error, '')
		FROM harvest_runs WHERE id = $1`
	return store.One(ctx, s.q, scanRun, q, id)
}

// List implements Storage
func (s *pg) List(ctx context.Context, in domain.ListInput) ([]domain.Run, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`SELECT id, endpoint, sites, policy, status, row_count, fetch_count, error_count,
			started_at, finished_at, COALESCE(error, '')
		FROM harvest_runs
		WHERE 1=1
	`)
	if in.Endpoint != "" {
		sb.WriteString("  AND endpoint = " + arg(in.Endpoint) + "\n")
	}
	sb.WriteString("ORDER BY started_at DESC, id DESC\n")

	limit := in.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	sb.WriteString("LIMIT " + arg(limit))
	if in.Offset > 0 {
		sb.WriteString(" OFFSET " + arg(in.Offset))
	}

	return store.Many(ctx, s.q, scanRun, sb.String(), args...)
}

// Fetches implements Storage
func (s *pg) Fetches(ctx context.Context, runID uuid.UUID) ([]domain.Fetch, error) {
	const q = `SELECT run_id, site, id_count, rows_out, took_ms, COALESCE(error, '')
		FROM harvest_fetches WHERE run_id = $1 ORDER BY site`
	return store.Many(ctx, s.q, scanFetch, q, runID)
}

func scanFetch(r store.Row) (domain.Fetch, error) {
	var f domain.Fetch
	if err := r.Scan(&f.RunID, &f.Site, &f.IDCount, &f.Rows, &f.TookMs, &f.Error); err != nil {
		return domain.Fetch{}, err
	}
	return f, nil
}

func scanRun(r store.Row) (domain.Run, error) {
	var run domain.Run
	var status string
	if err := r.Scan(
		&run.ID, &run.Endpoint, &run.Sites, &run.Policy, &status,
		&run.RowCount, &run.FetchCount, &run.ErrorCount,
		&run.StartedAt, &run.FinishedAt, &run.Error,
	); err != nil {
		return domain.Run{}, err
	}
	run.Status = domain.RunStatus(status)
	return run, nil
}
