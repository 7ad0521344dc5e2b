// Package jsonpathx evaluates the JSONPath subset needed by the evaluation
// core: `$`, `.name`, `['name']`, `[n]`, `[*]`, `..name` (recursive
// descent), and union `[a, b]`. It reports every match in document order as
// a (value, literal path) pair — the literal path has no wildcards and can
// be reused to address the same node again, e.g. for limit-disclosure
// projection (spec §4.1, §4.5).
//
// github.com/oliveagle/jsonpath (the teacher's JSONPath dependency) only
// resolves a single concrete value and does not report literal paths for
// wildcard matches, so the walker below is hand-rolled; oliveagle/jsonpath
// is still used by CheckSyntax, which submission validation
// (pex.ValidateSubmission) calls to syntax-check descriptor_map paths
// without walking a document; Extract does not call it.
package jsonpathx

import (
	"fmt"
	"strconv"
	"strings"
)

// Hit is one (value, literal path) match.
type Hit struct {
	Value interface{}
	Path  string
}

// token is one parsed path segment.
type token struct {
	// kind selects the segment behavior.
	kind tokenKind
	// name is the field name for kindName/kindRecursiveName.
	name string
	// index is the array index for kindIndex.
	index int
	// union holds multiple names and/or indices for kindUnion.
	union []string
}

type tokenKind int

const (
	kindName tokenKind = iota
	kindIndex
	kindWildcard
	kindRecursiveName
	kindUnion
)

// Extract evaluates path against root and returns every match in document
// order. A syntactically invalid path returns an error; a well-formed path
// with no matches returns an empty, nil-error result.
func Extract(root interface{}, path string) ([]Hit, error) {
	toks, err := parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath %q: %w", path, err)
	}

	cur := []Hit{{Value: root, Path: "$"}}

	for _, t := range toks {
		cur = applyToken(cur, t)
	}

	return cur, nil
}

func parse(path string) ([]token, error) {
	if !strings.HasPrefix(path, "$") {
		return nil, fmt.Errorf("path must start with $")
	}

	rest := path[1:]

	var toks []token

	for len(rest) > 0 {
		switch {
		case strings.HasPrefix(rest, ".."):
			rest = rest[2:]

			name, tail, err := readName(rest)
			if err != nil {
				return nil, err
			}

			toks = append(toks, token{kind: kindRecursiveName, name: name})
			rest = tail

		case strings.HasPrefix(rest, "."):
			rest = rest[1:]

			name, tail, err := readName(rest)
			if err != nil {
				return nil, err
			}

			toks = append(toks, token{kind: kindName, name: name})
			rest = tail

		case strings.HasPrefix(rest, "["):
			end := strings.Index(rest, "]")
			if end < 0 {
				return nil, fmt.Errorf("unterminated [ in path")
			}

			inner := rest[1:end]
			rest = rest[end+1:]

			tok, err := parseBracket(inner)
			if err != nil {
				return nil, err
			}

			toks = append(toks, tok)

		default:
			return nil, fmt.Errorf("unexpected character %q", rest[:1])
		}
	}

	return toks, nil
}

func readName(rest string) (name, tail string, err error) {
	i := 0
	for i < len(rest) && rest[i] != '.' && rest[i] != '[' {
		i++
	}

	if i == 0 {
		return "", "", fmt.Errorf("expected a property name")
	}

	return rest[:i], rest[i:], nil
}

func parseBracket(inner string) (token, error) {
	inner = strings.TrimSpace(inner)

	if inner == "*" {
		return token{kind: kindWildcard}, nil
	}

	if strings.Contains(inner, ",") {
		parts := strings.Split(inner, ",")
		union := make([]string, 0, len(parts))

		for _, p := range parts {
			union = append(union, unquote(strings.TrimSpace(p)))
		}

		return token{kind: kindUnion, union: union}, nil
	}

	if n, err := strconv.Atoi(inner); err == nil {
		return token{kind: kindIndex, index: n}, nil
	}

	return token{kind: kindName, name: unquote(inner)}, nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}

	return s
}

func applyToken(in []Hit, t token) []Hit {
	var out []Hit

	for _, h := range in {
		switch t.kind {
		case kindName:
			if v, ok := field(h.Value, t.name); ok {
				out = append(out, Hit{Value: v, Path: h.Path + "." + t.name})
			}
		case kindIndex:
			if v, ok := index(h.Value, t.index); ok {
				out = append(out, Hit{Value: v, Path: fmt.Sprintf("%s[%d]", h.Path, t.index)})
			}
		case kindWildcard:
			out = append(out, expandWildcard(h)...)
		case kindUnion:
			for _, name := range t.union {
				if n, err := strconv.Atoi(name); err == nil {
					if v, ok := index(h.Value, n); ok {
						out = append(out, Hit{Value: v, Path: fmt.Sprintf("%s[%d]", h.Path, n)})
					}

					continue
				}

				if v, ok := field(h.Value, name); ok {
					out = append(out, Hit{Value: v, Path: h.Path + "." + name})
				}
			}
		case kindRecursiveName:
			out = append(out, recursiveSearch(h, t.name)...)
		}
	}

	return out
}

func expandWildcard(h Hit) []Hit {
	switch v := h.Value.(type) {
	case []interface{}:
		out := make([]Hit, 0, len(v))
		for i, e := range v {
			out = append(out, Hit{Value: e, Path: fmt.Sprintf("%s[%d]", h.Path, i)})
		}

		return out
	case map[string]interface{}:
		keys := sortedKeys(v)
		out := make([]Hit, 0, len(keys))

		for _, k := range keys {
			out = append(out, Hit{Value: v[k], Path: h.Path + "." + k})
		}

		return out
	}

	return nil
}

// recursiveSearch implements `..name`: depth-first search of the subtree
// rooted at h.Value for every field called name, in document order.
func recursiveSearch(h Hit, name string) []Hit {
	var out []Hit

	var walk func(h Hit)

	walk = func(h Hit) {
		switch v := h.Value.(type) {
		case map[string]interface{}:
			if val, ok := v[name]; ok {
				out = append(out, Hit{Value: val, Path: h.Path + "." + name})
			}

			for _, k := range sortedKeys(v) {
				walk(Hit{Value: v[k], Path: h.Path + "." + k})
			}
		case []interface{}:
			for i, e := range v {
				walk(Hit{Value: e, Path: fmt.Sprintf("%s[%d]", h.Path, i)})
			}
		}
	}

	walk(h)

	return out
}

func field(v interface{}, name string) (interface{}, bool) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, false
	}

	val, ok := m[name]

	return val, ok
}

func index(v interface{}, i int) (interface{}, bool) {
	arr, ok := v.([]interface{})
	if !ok || i < 0 || i >= len(arr) {
		return nil, false
	}

	return arr[i], true
}

// sortedKeys returns m's keys in a stable, deterministic order so wildcard
// and recursive-descent traversal order is reproducible. Since JSON objects
// are unordered, this uses lexicographic order as the canonical "document
// order" for map traversal (array order is always preserved as-is).
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	insertionSort(keys)

	return keys
}

func insertionSort(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
