package service

import (
	"context"
	"errors"
	"testing"

	"rowboat/internal/adapters/scholarone"
	"rowboat/internal/core/rowset"
	perr "rowboat/internal/platform/errors"
	"rowboat/internal/platform/store"
	dom "rowboat/internal/services/harvest/domain"
	"rowboat/internal/services/harvest/repo"
)

// downDB refuses every transaction, as a dead Postgres would
type downDB struct{}

func (downDB) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	return nil, errors.New("db down")
}
func (downDB) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, errors.New("db down")
}
func (downDB) QueryRow(context.Context, string, ...any) store.Row { return nil }
func (downDB) Tx(context.Context, func(q store.RowQuerier) error) error {
	return errors.New("db down")
}

type fetchFunc func(ctx context.Context, ep scholarone.Endpoint, site string, q scholarone.Query) (any, error)

func (f fetchFunc) Fetch(ctx context.Context, ep scholarone.Endpoint, site string, q scholarone.Query) (any, error) {
	return f(ctx, ep, site, q)
}

func envelope(ids ...int) any {
	subs := make([]any, 0, len(ids))
	for _, id := range ids {
		subs = append(subs, map[string]any{"submissionId": float64(id)})
	}
	return map[string]any{
		"Response": map[string]any{
			"result": map[string]any{"submission": subs},
		},
	}
}

func TestExecuteUnknownEndpoint(t *testing.T) {
	svc := New(nil, nil, fetchFunc(nil), Config{})
	_, err := svc.Execute(context.Background(), dom.RunSpec{Endpoint: "nope"})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("want invalid argument, got %v", err)
	}
}

func TestExecuteRequiresIDs(t *testing.T) {
	svc := New(nil, nil, fetchFunc(nil), Config{})
	_, err := svc.Execute(context.Background(), dom.RunSpec{
		Endpoint: "getSubmissionInfoFull",
		Sites:    []string{"site_a"},
		RawIDs:   "  ,  ; ",
	})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("want invalid argument for empty ids, got %v", err)
	}
}

func TestExecuteHappyPath(t *testing.T) {
	var gotBatches [][]string
	fetch := fetchFunc(func(_ context.Context, ep scholarone.Endpoint, site string, q scholarone.Query) (any, error) {
		gotBatches = append(gotBatches, q.IDs)
		return envelope(1, 2), nil
	})
	svc := New(nil, nil, fetch, Config{Sites: []string{"site_a", "site_b"}})

	// 3 ids at batch size 25 is one batch per site
	rep, err := svc.Execute(context.Background(), dom.RunSpec{
		Endpoint: "getSubmissionInfoFull",
		RawIDs:   "100 200 300",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if rep.Run.Status != dom.RunSucceeded {
		t.Fatalf("status = %q, want succeeded", rep.Run.Status)
	}
	if rep.Run.Endpoint != "getSubmissionInfoFull" {
		t.Fatalf("endpoint = %q", rep.Run.Endpoint)
	}
	if rep.Run.FetchCount != 2 || rep.Run.ErrorCount != 0 {
		t.Fatalf("fetch/error counts = %d/%d", rep.Run.FetchCount, rep.Run.ErrorCount)
	}
	if rep.Run.RowCount != 4 || len(rep.Table.Rows) != 4 {
		t.Fatalf("row count = %d, table rows = %d, want 4", rep.Run.RowCount, len(rep.Table.Rows))
	}
	if rep.Run.FinishedAt == nil {
		t.Fatalf("finished_at not set")
	}
	for _, ids := range gotBatches {
		if len(ids) != 3 || ids[0] != "100" {
			t.Fatalf("unexpected batch %v", ids)
		}
	}

	sites := map[any]int{}
	for _, r := range rep.Table.Rows {
		sites[r[rowset.SiteKey]]++
	}
	if sites["site_a"] != 2 || sites["site_b"] != 2 {
		t.Fatalf("site tagging off: %v", sites)
	}
	if len(rep.Table.Columns) == 0 || rep.Table.Columns[0] != rowset.SiteKey {
		t.Fatalf("columns = %v", rep.Table.Columns)
	}
}

func TestExecuteDateEndpointSkipsBatching(t *testing.T) {
	var calls int
	fetch := fetchFunc(func(_ context.Context, _ scholarone.Endpoint, _ string, q scholarone.Query) (any, error) {
		calls++
		if q.IDs != nil {
			t.Fatalf("date endpoint got ids %v", q.IDs)
		}
		return envelope(9), nil
	})
	svc := New(nil, nil, fetch, Config{Sites: []string{"site_a"}})

	rep, err := svc.Execute(context.Background(), dom.RunSpec{Endpoint: "getIDsByDate"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if calls != 1 || rep.Run.FetchCount != 1 {
		t.Fatalf("calls = %d, fetch count = %d", calls, rep.Run.FetchCount)
	}
}

func TestExecutePartialFailure(t *testing.T) {
	fetch := fetchFunc(func(_ context.Context, _ scholarone.Endpoint, site string, _ scholarone.Query) (any, error) {
		if site == "site_b" {
			return nil, perr.Upstreamf("boom")
		}
		return envelope(1), nil
	})
	svc := New(nil, nil, fetch, Config{Sites: []string{"site_a", "site_b"}})

	rep, err := svc.Execute(context.Background(), dom.RunSpec{
		Endpoint: "getSubmissionInfoFull",
		RawIDs:   "1",
	})
	if err != nil {
		t.Fatalf("partial run should not error: %v", err)
	}
	if rep.Run.Status != dom.RunPartial {
		t.Fatalf("status = %q, want partial", rep.Run.Status)
	}
	if rep.Run.ErrorCount != 1 || rep.Run.RowCount != 1 {
		t.Fatalf("errors = %d, rows = %d", rep.Run.ErrorCount, rep.Run.RowCount)
	}
	if rep.Run.Error == "" {
		t.Fatalf("run error not recorded")
	}
}

func TestExecuteAllFail(t *testing.T) {
	fetch := fetchFunc(func(_ context.Context, _ scholarone.Endpoint, _ string, _ scholarone.Query) (any, error) {
		return nil, perr.Upstreamf("down")
	})
	svc := New(nil, nil, fetch, Config{Sites: []string{"site_a"}})

	rep, err := svc.Execute(context.Background(), dom.RunSpec{
		Endpoint: "getSubmissionInfoFull",
		RawIDs:   "1 2",
	})
	if !perr.IsCode(err, perr.ErrorCodeUpstream) {
		t.Fatalf("want upstream error, got %v", err)
	}
	if rep.Run.Status != dom.RunFailed {
		t.Fatalf("status = %q, want failed", rep.Run.Status)
	}
}

func TestExecuteKeepsRowsWhenHistoryDown(t *testing.T) {
	fetch := fetchFunc(func(_ context.Context, _ scholarone.Endpoint, _ string, _ scholarone.Query) (any, error) {
		return envelope(1, 2), nil
	})
	svc := New(downDB{}, repo.NewPG(), fetch, Config{Sites: []string{"site_a"}})

	rep, err := svc.Execute(context.Background(), dom.RunSpec{
		Endpoint: "getSubmissionInfoFull",
		RawIDs:   "1",
	})
	if err != nil {
		t.Fatalf("history outage should not fail the run: %v", err)
	}
	if rep.Run.Status != dom.RunSucceeded {
		t.Fatalf("status = %q, want succeeded", rep.Run.Status)
	}
	if rep.Run.RowCount != 2 || len(rep.Table.Rows) != 2 {
		t.Fatalf("row count = %d, table rows = %d, want 2", rep.Run.RowCount, len(rep.Table.Rows))
	}
}

func TestHistoryWithoutDB(t *testing.T) {
	svc := New(nil, nil, fetchFunc(nil), Config{})
	if _, err := svc.List(context.Background(), dom.ListInput{}); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
}

func TestExecuteBatchFanout(t *testing.T) {
	var batches [][]string
	fetch := fetchFunc(func(_ context.Context, _ scholarone.Endpoint, _ string, q scholarone.Query) (any, error) {
		batches = append(batches, q.IDs)
		return envelope(1), nil
	})
	svc := New(nil, nil, fetch, Config{Sites: []string{"site_a"}})

	// email endpoint batches one id at a time
	rep, err := svc.Execute(context.Background(), dom.RunSpec{
		Endpoint: "getPersonInfoFullEmail",
		RawIDs:   "a@x.org b@x.org c@x.org",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(batches) != 3 || rep.Run.FetchCount != 3 {
		t.Fatalf("batches = %d, fetches = %d, want 3", len(batches), rep.Run.FetchCount)
	}
	for _, b := range batches {
		if len(b) != 1 {
			t.Fatalf("batch size %d, want 1", len(b))
		}
	}
}
