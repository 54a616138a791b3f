// Package service provides the harvest service implementation
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rowboat/internal/adapters/scholarone"
	"rowboat/internal/core/batch"
	"rowboat/internal/core/flatten"
	"rowboat/internal/core/idnorm"
	"rowboat/internal/core/rowset"
	"rowboat/internal/modkit/repokit"
	perr "rowboat/internal/platform/errors"
	"rowboat/internal/platform/logger"
	dom "rowboat/internal/services/harvest/domain"
	"rowboat/internal/services/harvest/repo"
)

// Config for the harvest service
type Config struct {
	Sites  []string
	Policy flatten.Policy
}

// Service implements domain.HarvesterPort and domain.HistoryPort.
// DB is optional; without it runs still execute but leave no history.
type Service struct {
	DB      repokit.TxRunner
	Binder  repokit.Binder[repo.Storage]
	Fetcher dom.FetcherPort
	Cfg     Config
}

// New constructs a new harvest service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], fetcher dom.FetcherPort, cfg Config) *Service {
	if len(cfg.Sites) == 0 {
		cfg.Sites = scholarone.DefaultSites
	}
	return &Service{DB: db, Binder: binder, Fetcher: fetcher, Cfg: cfg}
}

// Execute implements domain.HarvesterPort
func (s *Service) Execute(ctx context.Context, spec dom.RunSpec) (dom.RunReport, error) {
	ep, ok := scholarone.Lookup(spec.Endpoint)
	if !ok {
		return dom.RunReport{}, perr.InvalidArgf("unknown endpoint %q", spec.Endpoint)
	}

	sites := spec.Sites
	if len(sites) == 0 {
		sites = s.Cfg.Sites
	}

	policy := s.Cfg.Policy
	if spec.Policy != "" {
		policy = flatten.ParsePolicy(spec.Policy)
	}

	run := dom.Run{
		ID:        uuid.New(),
		Endpoint:  ep.Name,
		Sites:     sites,
		Policy:    string(policy),
		Status:    dom.RunRunning,
		StartedAt: time.Now().UTC(),
	}

	var batches [][]string
	if ep.IDParam == "" {
		batches = [][]string{nil}
	} else {
		ids := idnorm.Normalize(spec.RawIDs)
		if len(ids) == 0 {
			return dom.RunReport{}, perr.InvalidArgf("endpoint %q requires ids", ep.Name)
		}
		batches = batch.Plan(ids, ep.BatchSize)
	}

	ctx = logger.WithRun(ctx, run.ID.String())
	log := logger.C(ctx).With().Str("endpoint", ep.Name).Logger()

	for _, site := range sites {
		if !scholarone.KnownSite(site) {
			log.Warn().Str("site", site).Msg("site not in default catalog")
		}
	}

	// History writes are best effort. A run must not lose its rows because
	// the history store is down, so record failures are logged and the
	// harvest carries on.
	if err := s.record(ctx, func(st repo.Storage) error { return st.Insert(ctx, run) }); err != nil {
		log.Error().Err(err).Msg("record run start failed")
	}

	asm := rowset.Assembler{Flatten: flatten.Options{Policy: policy}}

	var rows []rowset.Row
	var fetches []dom.Fetch
	var lastErr error
	for _, site := range sites {
		for _, ids := range batches {
			start := time.Now()
			payload, err := s.Fetcher.Fetch(ctx, ep, site, scholarone.Query{
				IDs:  ids,
				From: spec.From,
				To:   spec.To,
			})
			run.FetchCount++
			f := dom.Fetch{
				RunID:   run.ID,
				Site:    site,
				IDCount: len(ids),
				TookMs:  time.Since(start).Milliseconds(),
			}
			if err != nil {
				run.ErrorCount++
				lastErr = err
				f.Error = err.Error()
				fetches = append(fetches, f)
				log.Warn().Err(err).Str("site", site).Msg("fetch failed")
				continue
			}
			got := asm.ToRows(payload, site)
			f.Rows = len(got)
			fetches = append(fetches, f)
			rows = append(rows, got...)
		}
	}

	run.RowCount = len(rows)
	run.Status = runOutcome(run.FetchCount, run.ErrorCount)
	if lastErr != nil {
		run.Error = lastErr.Error()
	}
	now := time.Now().UTC()
	run.FinishedAt = &now

	err := s.record(ctx, func(st repo.Storage) error {
		if err := st.Finish(ctx, run); err != nil {
			return err
		}
		return st.WriteFetches(ctx, fetches)
	})
	if err != nil {
		log.Error().Err(err).Msg("record run finish failed")
	}

	log.Info().
		Str("status", string(run.Status)).
		Int("rows", run.RowCount).
		Int("fetches", run.FetchCount).
		Int("errors", run.ErrorCount).
		Msg("harvest finished")

	if run.Status == dom.RunFailed {
		return dom.RunReport{Run: run}, perr.Wrap(lastErr, perr.ErrorCodeUpstream, "all fetches failed")
	}
	return dom.RunReport{Run: run, Table: rowset.BuildTable(rows)}, nil
}

// Get implements domain.HistoryPort
func (s *Service) Get(ctx context.Context, id uuid.UUID) (dom.Run, error) {
	if s.DB == nil {
		return dom.Run{}, perr.Unavailablef("run history is not configured")
	}
	var run dom.Run
	err := repokit.WithTx(ctx, s.DB, func(q repokit.Queryer) error {
		var err error
		run, err = s.Binder.Bind(q).Get(ctx, id)
		return err
	})
	return run, err
}

// List implements domain.HistoryPort
func (s *Service) List(ctx context.Context, in dom.ListInput) ([]dom.Run, error) {
	if s.DB == nil {
		return nil, perr.Unavailablef("run history is not configured")
	}
	var runs []dom.Run
	err := repokit.WithTx(ctx, s.DB, func(q repokit.Queryer) error {
		var err error
		runs, err = s.Binder.Bind(q).List(ctx, in)
		return err
	})
	return runs, err
}

// Fetches implements domain.HistoryPort
func (s *Service) Fetches(ctx context.Context, runID uuid.UUID) ([]dom.Fetch, error) {
	if s.DB == nil {
		return nil, perr.Unavailablef("run history is not configured")
	}
	var out []dom.Fetch
	err := repokit.WithTx(ctx, s.DB, func(q repokit.Queryer) error {
		var err error
		out, err = s.Binder.Bind(q).Fetches(ctx, runID)
		return err
	})
	return out, err
}

func (s *Service) record(ctx context.Context, fn func(repo.Storage) error) error {
	if s.DB == nil {
		return nil
	}
	return repokit.WithTx(ctx, s.DB, func(q repokit.Queryer) error {
		return fn(repokit.MustBind(s.Binder, q))
	})
}

func runOutcome(fetches, errs int) dom.RunStatus {
	switch {
	case errs == 0:
		return dom.RunSucceeded
	case errs >= fetches:
		return dom.RunFailed
	default:
		return dom.RunPartial
	}
}
