package schema

import (
	"fmt"
	"strings"
)

// stripped caches the comparison form of every canonical key and alias,
// built once at init in CanonicalKeys order.
var aliasIndex = buildAliasIndex()

type aliasEntry struct {
	stripped  string
	canonical string
}

func buildAliasIndex() []aliasEntry {
	var idx []aliasEntry
	for _, key := range CanonicalKeys {
		// The canonical key itself resolves before any alias.
		idx = append(idx, aliasEntry{strip(key), key})
		for _, a := range Aliases[key] {
			idx = append(idx, aliasEntry{strip(a), key})
		}
	}
	return idx
}

// strip reduces a surface name to its comparison form: lowercase with
// spaces, hyphens and underscores removed.
func strip(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '\t', '-', '_':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeFieldName resolves an arbitrary surface name to a canonical key.
// Lookup is case- and separator-insensitive, first match in CanonicalKeys
// order wins. Unknown names are returned verbatim so unrecognized form
// fields survive normalization instead of crashing it.
func NormalizeFieldName(raw string) string {
	cmp := strip(raw)
	if cmp == "" {
		return raw
	}
	for _, e := range aliasIndex {
		if e.stripped == cmp {
			return e.canonical
		}
	}
	return raw
}

// Normalize converts a raw mapping of arbitrary keys and values into a
// canonical Fragment. Values are stringified and trimmed; empties are
// dropped. Normalize is total: it never fails, it only returns a possibly
// empty Fragment.
func Normalize(raw map[string]any) Fragment {
	frag := make(Fragment)
	for k, v := range raw {
		val := strings.TrimSpace(stringify(v))
		if val == "" {
			continue
		}
		frag[NormalizeFieldName(k)] = val
	}
	return frag
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case float64:
		// JSON numbers decode as float64; print integers without the ".0".
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
