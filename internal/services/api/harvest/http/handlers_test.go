package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rowboat/internal/core/rowset"
	perr "rowboat/internal/platform/errors"
	phttp "rowboat/internal/platform/net/http"
	dom "rowboat/internal/services/harvest/domain"
)

type fakeHarvester struct {
	spec dom.RunSpec
	rep  dom.RunReport
	err  error
}

func (f *fakeHarvester) Execute(_ context.Context, spec dom.RunSpec) (dom.RunReport, error) {
	f.spec = spec
	return f.rep, f.err
}

type fakeHistory struct {
	run  dom.Run
	runs []dom.Run
	err  error
}

func (f *fakeHistory) Get(_ context.Context, _ uuid.UUID) (dom.Run, error) { return f.run, f.err }

func (f *fakeHistory) List(_ context.Context, _ dom.ListInput) ([]dom.Run, error) {
	return f.runs, f.err
}

func (f *fakeHistory) Fetches(_ context.Context, _ uuid.UUID) ([]dom.Fetch, error) {
	return nil, f.err
}

func mount(t *testing.T, h *fakeHarvester, hist *fakeHistory) *httptest.Server {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	Register(r, Deps{Harvester: h, History: hist})
	return httptest.NewServer(r.Mux())
}

func post(t *testing.T, url, body string) *stdhttp.Response {
	t.Helper()
	resp, err := stdhttp.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func TestRunHandler(t *testing.T) {
	id := uuid.New()
	h := &fakeHarvester{rep: dom.RunReport{
		Run: dom.Run{ID: id, Endpoint: "getSubmissionInfoFull", Status: dom.RunSucceeded, RowCount: 2},
		Table: rowset.BuildTable([]rowset.Row{
			{rowset.SiteKey: "jfm", "id": float64(1)},
			{rowset.SiteKey: "jfm", "id": float64(2)},
		}),
	}}
	srv := mount(t, h, &fakeHistory{})
	defer srv.Close()

	resp := post(t, srv.URL+"/runs", `{
		"endpoint": "getSubmissionInfoFull",
		"sites": ["jfm"],
		"ids": "1 2",
		"start_date": "2026-03-01",
		"end_date": "2026-03-15"
	}`)
	defer resp.Body.Close()

	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var env struct {
		Data struct {
			ID       string   `json:"id"`
			RowCount int      `json:"row_count"`
			Columns  []string `json:"columns"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.ID != id.String() || env.Data.RowCount != 2 {
		t.Fatalf("body = %+v", env.Data)
	}
	if len(env.Data.Columns) == 0 || env.Data.Columns[0] != rowset.SiteKey {
		t.Fatalf("columns = %v", env.Data.Columns)
	}

	if h.spec.From.IsZero() || h.spec.From.Format("2006-01-02T15:04:05") != "2026-03-01T00:00:00" {
		t.Fatalf("from = %v", h.spec.From)
	}
	if h.spec.To.Format("2006-01-02T15:04:05") != "2026-03-15T23:59:59" {
		t.Fatalf("to = %v", h.spec.To)
	}
}

func TestRunHandlerValidation(t *testing.T) {
	srv := mount(t, &fakeHarvester{}, &fakeHistory{})
	defer srv.Close()

	cases := []string{
		`{}`,
		`{"endpoint": "x", "sites": ["Bad Site!"]}`,
		`{"endpoint": "x", "start_date": "03/01/2026"}`,
		`{"endpoint": "x", "policy": "merge"}`,
	}
	for _, body := range cases {
		resp := post(t, srv.URL+"/runs", body)
		resp.Body.Close()
		if resp.StatusCode != stdhttp.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestRunHandlerUpstreamError(t *testing.T) {
	h := &fakeHarvester{err: perr.Upstreamf("all fetches failed")}
	srv := mount(t, h, &fakeHistory{})
	defer srv.Close()

	resp := post(t, srv.URL+"/runs", `{"endpoint": "getSubmissionInfoFull", "ids": "1"}`)
	defer resp.Body.Close()
	if resp.StatusCode != stdhttp.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
}

func TestGetRunBadID(t *testing.T) {
	srv := mount(t, &fakeHarvester{}, &fakeHistory{})
	defer srv.Close()

	resp, err := stdhttp.Get(srv.URL + "/runs/not-a-uuid")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPreviewHandler(t *testing.T) {
	srv := mount(t, &fakeHarvester{}, &fakeHistory{})
	defer srv.Close()

	resp := post(t, srv.URL+"/preview", `{
		"site": "jfm",
		"payload": {"Response": {"result": {"submission": [{"a": {"b": 1}}, {"a": {"b": 2}}]}}}
	}`)
	defer resp.Body.Close()
	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var env struct {
		Data struct {
			Columns []string         `json:"columns"`
			Rows    []map[string]any `json:"rows"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data.Rows) != 2 {
		t.Fatalf("rows = %d", len(env.Data.Rows))
	}
	if got := env.Data.Rows[0]["a.b"]; got != float64(1) {
		t.Fatalf("a.b = %v", got)
	}
	if env.Data.Rows[0][rowset.SiteKey] != "jfm" {
		t.Fatalf("site = %v", env.Data.Rows[0][rowset.SiteKey])
	}
}

func TestExportHandlerCSV(t *testing.T) {
	h := &fakeHarvester{rep: dom.RunReport{
		Run: dom.Run{ID: uuid.New(), Status: dom.RunSucceeded, RowCount: 1},
		Table: rowset.BuildTable([]rowset.Row{
			{rowset.SiteKey: "jfm", "id": float64(7)},
		}),
	}}
	srv := mount(t, h, &fakeHistory{})
	defer srv.Close()

	resp := post(t, srv.URL+"/export", `{"endpoint": "getSubmissionInfoFull", "ids": "7", "format": "csv"}`)
	defer resp.Body.Close()

	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("content type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, ".csv") {
		t.Fatalf("disposition = %q", cd)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "site_name,id\n") {
		t.Fatalf("body = %q", buf.String())
	}
}

func TestEndpointsHandler(t *testing.T) {
	srv := mount(t, &fakeHarvester{}, &fakeHistory{})
	defer srv.Close()

	resp, err := stdhttp.Get(srv.URL + "/endpoints")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var env struct {
		Data []string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data) != 13 {
		t.Fatalf("endpoint count = %d", len(env.Data))
	}
}
