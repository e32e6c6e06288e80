// Package flatten turns decoded JSON trees (map[string]any, []any and
// scalars, as produced by encoding/json) into single level rows keyed by
// dotted paths.
package flatten

import (
	"sort"
	"strings"
)

// Row maps a dotted path (ex. "rocket.first_stage.block") to a leaf value.
type Row = map[string]any

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Flatten descends through `value` and records every leaf under the dotted
// path leading to it.
//
// Elements of a sequence are flattened under the same prefix as the sequence
// itself, no index is injected. When several elements share a leaf name only
// the last one survives, callers that need every element must split the
// sequence themselves.
//
// nil is a leaf. Empty mappings and sequences produce no keys. The input must
// be a tree.
func Flatten(value any) Row {
	out := Row{}
	flattenInto(out, value, "")
	return out
}

func flattenInto(out Row, value any, prefix string) {
	switch v := value.(type) {
	case map[string]any:
		for _, k := range sortedKeys(v) {
			flattenInto(out, v[k], prefix+k+".")
		}
	case []any:
		for _, elem := range v {
			flattenInto(out, elem, prefix)
		}
	default:
		out[strings.TrimSuffix(prefix, ".")] = v
	}
}

// Normalize flattens nested mappings of a record but keeps sequences whole,
// each sequence becomes a single cell value. Empty mappings disappear.
func Normalize(record map[string]any) Row {
	out := Row{}
	normalizeInto(out, record, "")
	return out
}

func normalizeInto(out Row, record map[string]any, prefix string) {
	for k, v := range record {
		nested, ok := v.(map[string]any)
		if ok {
			normalizeInto(out, nested, prefix+k+".")
			continue
		}
		out[prefix+k] = v
	}
}

// Lookup follows a dotted path through nested mappings.
func Lookup(value any, path string) (any, bool) {
	if path == "" {
		return value, true
	}
	current := value
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Keys returns the keys of a row in sorted order.
func Keys(row Row) []string {
	return sortedKeys(row)
}
