// Package flatten converts arbitrarily nested JSON-like values into flat
// path -> scalar mappings suitable for tabular export
//
// Path building
//   - mapping keys join with the separator (default ".")
//   - sequence elements append "_<i>" with 1-based positions
//   - scalars (including null) land in the output as-is
//
// Two collision policies exist because identical flat paths can arise from
// sibling branches. Overwrite keeps the last write. Disambiguate appends a
// numeric suffix, scanning upward until an unused key is found. The default
// is Disambiguate so no leaf is ever silently dropped
package flatten

import (
	"sort"
	"strconv"
)

// Policy selects how key collisions are resolved during flattening
type Policy string

const (
	// PolicyOverwrite keeps the last value written to a colliding key
	PolicyOverwrite Policy = "overwrite"

	// PolicyDisambiguate appends _2, _3, ... to colliding keys
	PolicyDisambiguate Policy = "disambiguate"
)

// ParsePolicy maps a config string to a Policy, defaulting to Disambiguate
func ParsePolicy(s string) Policy {
	if s == string(PolicyOverwrite) {
		return PolicyOverwrite
	}
	return PolicyDisambiguate
}

// DefaultSep joins mapping keys in flat paths
const DefaultSep = "."

// Options configures a flattening pass. The zero value means
// separator "." and the Disambiguate collision policy
type Options struct {
	Sep    string
	Policy Policy
}

func (o Options) withDefaults() Options {
	if o.Sep == "" {
		o.Sep = DefaultSep
	}
	if o.Policy == "" {
		o.Policy = PolicyDisambiguate
	}
	return o
}

// Flatten walks v with default options and returns a flat path -> scalar map.
// It is total over JSON-shaped input and never mutates v
func Flatten(v any) map[string]any {
	return FlattenWith(v, Options{})
}

// FlattenWith walks v with explicit options.
// Empty mappings and sequences contribute no keys; a bare scalar at the
// root lands under the empty path
func FlattenWith(v any, o Options) map[string]any {
	o = o.withDefaults()
	out := make(map[string]any)
	walk(v, "", o, out)
	return out
}

func walk(v any, prefix string, o Options, out map[string]any) {
	switch t := v.(type) {
	case map[string]any:
		// decoded JSON objects have no stable iteration order, so sort
		// keys to keep collision resolution deterministic
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			p := k
			if prefix != "" {
				p = prefix + o.Sep + k
			}
			walk(t[k], p, o, out)
		}
	case []any:
		for i, el := range t {
			idx := strconv.Itoa(i + 1)
			p := idx
			if prefix != "" {
				p = prefix + "_" + idx
			}
			walk(el, p, o, out)
		}
	default:
		insert(out, prefix, v, o.Policy)
	}
}

func insert(out map[string]any, key string, v any, pol Policy) {
	if pol == PolicyOverwrite {
		out[key] = v
		return
	}
	if _, taken := out[key]; taken {
		for n := 2; ; n++ {
			cand := key + "_" + strconv.Itoa(n)
			if _, taken := out[cand]; !taken {
				key = cand
				break
			}
		}
	}
	out[key] = v
}
