package rowset

import (
	"encoding/json"
	"reflect"
	"testing"

	"rowboat/internal/core/flatten"
)

func mustJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return v
}

func TestToRowsEnvelope(t *testing.T) {
	t.Parallel()

	payload := mustJSON(t, `{"Response": {"result": {"submission": [{"id": 1}, {"id": 2}]}}}`)
	rows := ToRows(payload, "siteA")

	want := []Row{
		{"site_name": "siteA", "id": float64(1)},
		{"site_name": "siteA", "id": float64(2)},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %#v, want %#v", rows, want)
	}
}

func TestToRowsNoEnvelopeFallback(t *testing.T) {
	t.Parallel()

	rows := ToRows(mustJSON(t, `{"foo": "bar"}`), "siteB")
	want := []Row{{"site_name": "siteB", "foo": "bar"}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %#v, want %#v", rows, want)
	}
}

func TestToRowsCandidateFallthrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		wantLen int
		wantKey string
	}{
		{
			// Response.result is itself a list, no submission key
			"result already list shaped",
			`{"Response": {"result": [{"x": 1}, {"x": 2}, {"x": 3}]}}`,
			3, "x",
		},
		{
			// bare result at top level
			"top level result list",
			`{"result": [{"y": 1}]}`,
			1, "y",
		},
		{
			// submission is the wrong type so the whole payload flattens
			"wrong type at path",
			`{"Response": {"result": {"submission": "oops"}}}`,
			1, "Response.result.submission",
		},
		{
			// empty list falls through to whole-payload mode
			"empty submission list",
			`{"Response": {"result": {"submission": []}}}`,
			1, "site_name",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rows := ToRows(mustJSON(t, tc.payload), "s")
			if len(rows) != tc.wantLen {
				t.Fatalf("len = %d, want %d: %#v", len(rows), tc.wantLen, rows)
			}
			if _, ok := rows[0][tc.wantKey]; !ok {
				t.Fatalf("row missing key %q: %#v", tc.wantKey, rows[0])
			}
		})
	}
}

func TestToRowsAlwaysTagged(t *testing.T) {
	t.Parallel()

	payloads := []string{
		`{"Response": {"result": {"submission": [{"a": 1}]}}}`,
		`{"anything": true}`,
		`[1, 2, 3]`,
		`null`,
	}
	for _, p := range payloads {
		for _, r := range ToRows(mustJSON(t, p), "tagged") {
			if r[SiteKey] != "tagged" {
				t.Fatalf("payload %s: row missing site tag: %#v", p, r)
			}
		}
	}
}

func TestAssemblerCustomPaths(t *testing.T) {
	t.Parallel()

	a := Assembler{Paths: [][]string{{"data", "items"}}}
	rows := a.ToRows(mustJSON(t, `{"data": {"items": [{"n": 1}, {"n": 2}]}}`), "s")
	if len(rows) != 2 || rows[1]["n"] != float64(2) {
		t.Fatalf("rows = %#v", rows)
	}
}

func TestAssemblerFlattenOptionsPropagate(t *testing.T) {
	t.Parallel()

	a := Assembler{Flatten: flatten.Options{Sep: "/"}}
	rows := a.ToRows(mustJSON(t, `{"a": {"b": 1}}`), "s")
	if _, ok := rows[0]["a/b"]; !ok {
		t.Fatalf("separator not applied: %#v", rows[0])
	}
}

func TestBuildTableColumnUnion(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{"site_name": "a", "id": 1, "title": "t"},
		{"site_name": "b", "id": 2, "author.name": "x"},
	}
	table := BuildTable(rows)

	want := []string{"site_name", "author.name", "id", "title"}
	if !reflect.DeepEqual(table.Columns, want) {
		t.Fatalf("columns = %v, want %v", table.Columns, want)
	}

	if v, ok := table.Cell(0, "id"); !ok || v != 1 {
		t.Fatalf("cell (0,id) = %v %v", v, ok)
	}
	if _, ok := table.Cell(1, "title"); ok {
		t.Fatalf("missing cell should report absent")
	}
	if _, ok := table.Cell(9, "id"); ok {
		t.Fatalf("out of range row should report absent")
	}
}

func TestBuildTableEmpty(t *testing.T) {
	t.Parallel()

	table := BuildTable(nil)
	if !reflect.DeepEqual(table.Columns, []string{"site_name"}) {
		t.Fatalf("columns = %v", table.Columns)
	}
	if len(table.Rows) != 0 {
		t.Fatalf("rows = %v", table.Rows)
	}
}
