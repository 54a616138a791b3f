// Package rowset turns parsed API payloads into flat row records and
// assembles row collections into column-aligned tables
package rowset

import (
	"sort"

	"rowboat/internal/core/flatten"
)

// SiteKey is the reserved column carrying the source site label.
// It is the only fixed contract between row assembly and export
const SiteKey = "site_name"

// Row is one flattened logical record plus its source-site tag
type Row map[string]any

// DefaultEnvelopePaths are the candidate locations of the record list
// inside a manuscript API response, tried in order
var DefaultEnvelopePaths = [][]string{
	{"Response", "result", "submission"},
	{"Response", "result"},
	{"result"},
}

// Assembler converts payloads to rows. The zero value uses the default
// envelope paths and default flatten options
type Assembler struct {
	// Paths are candidate envelope paths tried in order; a candidate
	// succeeds when it resolves to a non-empty list
	Paths [][]string

	// Flatten controls separator and collision policy
	Flatten flatten.Options
}

// ToRows assembles rows from payload with default settings
func ToRows(payload any, site string) []Row {
	return Assembler{}.ToRows(payload, site)
}

// ToRows locates the record list inside payload and produces one row per
// record. When no candidate path yields a list the whole payload
// flattens into a single row. A non-nil payload always yields at least
// one row and assembly never fails
func (a Assembler) ToRows(payload any, site string) []Row {
	paths := a.Paths
	if paths == nil {
		paths = DefaultEnvelopePaths
	}

	if list, ok := locate(payload, paths); ok {
		rows := make([]Row, 0, len(list))
		for _, el := range list {
			rows = append(rows, a.row(el, site))
		}
		return rows
	}
	return []Row{a.row(payload, site)}
}

// locate tries each candidate path in order. A wrong type at any step
// falls through to the next candidate rather than failing
func locate(payload any, paths [][]string) ([]any, bool) {
	for _, path := range paths {
		v := payload
		ok := true
		for _, key := range path {
			m, isMap := v.(map[string]any)
			if !isMap {
				ok = false
				break
			}
			v = m[key]
		}
		if !ok {
			continue
		}
		if list, isList := v.([]any); isList && len(list) > 0 {
			return list, true
		}
	}
	return nil, false
}

func (a Assembler) row(v any, site string) Row {
	flat := flatten.FlattenWith(v, a.Flatten)
	r := make(Row, len(flat)+1)
	for k, val := range flat {
		r[k] = val
	}
	r[SiteKey] = site
	return r
}

// Table is a column-aligned view over a row collection
type Table struct {
	// Columns is the union of keys across all rows, SiteKey first and
	// the remainder sorted for stable output
	Columns []string
	Rows    []Row
}

// BuildTable computes the column union over rows. Cells absent from a
// row render as empty in export
func BuildTable(rows []Row) Table {
	seen := make(map[string]struct{})
	for _, r := range rows {
		for k := range r {
			if k != SiteKey {
				seen[k] = struct{}{}
			}
		}
	}
	cols := make([]string, 0, len(seen)+1)
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return Table{
		Columns: append([]string{SiteKey}, cols...),
		Rows:    rows,
	}
}

// Cell returns the value at (row, column) and whether it was present
func (t Table) Cell(row int, col string) (any, bool) {
	if row < 0 || row >= len(t.Rows) {
		return nil, false
	}
	v, ok := t.Rows[row][col]
	return v, ok
}
