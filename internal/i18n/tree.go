package i18n

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Tree holds the localized content of every language. Leaves are strings,
// string sequences or arbitrary records and arrays decoded from catalogs.
// A Tree is read-only once loaded and may be shared between goroutines.
type Tree map[Code]map[string]any

// Lookup walks the tree of code one key segment at a time. It never falls
// back to another language and never returns a partially resolved node.
func (t Tree) Lookup(code Code, key string) (any, bool) {
	root, ok := t[code]
	if !ok || key == "" {
		return nil, false
	}

	var node any = root
	for _, segment := range strings.Split(key, ".") {
		next, ok := child(node, segment)
		if !ok {
			return nil, false
		}
		node = next
	}
	return node, true
}

// child resolves one segment against a record or, for decimal segments,
// against a sequence.
func child(node any, segment string) (any, bool) {
	switch n := node.(type) {
	case map[string]any:
		v, ok := n[segment]
		return v, ok
	case []any:
		i, err := strconv.Atoi(segment)
		if err != nil || i < 0 || i >= len(n) {
			return nil, false
		}
		return n[i], true
	case []string:
		i, err := strconv.Atoi(segment)
		if err != nil || i < 0 || i >= len(n) {
			return nil, false
		}
		return n[i], true
	}
	return nil, false
}

// Languages returns the codes present in the tree in display order.
func (t Tree) Languages() []Code {
	var out []Code
	for _, code := range Codes() {
		if _, ok := t[code]; ok {
			out = append(out, code)
		}
	}
	return out
}

// Validate checks that the tree carries exactly the supported codes and
// that every language exposes the same top-level keys. A language that
// ParseCode accepts but the tree lacks would resolve no key at all.
func (t Tree) Validate() error {
	for code := range t {
		if !code.Valid() {
			return fmt.Errorf("catalog %q: %w", code, ErrUnknownLanguage)
		}
	}
	for _, code := range Codes() {
		if _, ok := t[code]; !ok {
			return fmt.Errorf("language %q is not defined in catalogs", code)
		}
	}

	var missing []string
	for _, gap := range t.Parity() {
		if !strings.Contains(gap.Key, ".") {
			missing = append(missing, gap.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("top-level keys differ between languages: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Gap is a key path present in at least one language but absent in Code.
type Gap struct {
	Code Code
	Key  string
}

func (g Gap) String() string {
	return fmt.Sprintf("%s missing %q", g.Code, g.Key)
}

// Parity reports every record key path that exists in some language but
// not in another. Sequences are compared as leaves since their lengths
// legitimately differ between translations.
func (t Tree) Parity() []Gap {
	union := map[string]struct{}{}
	perCode := map[Code]map[string]struct{}{}
	for code, root := range t {
		paths := map[string]struct{}{}
		collectPaths(root, "", paths)
		perCode[code] = paths
		for p := range paths {
			union[p] = struct{}{}
		}
	}

	var gaps []Gap
	for _, code := range t.Languages() {
		for p := range union {
			if _, ok := perCode[code][p]; !ok {
				gaps = append(gaps, Gap{Code: code, Key: p})
			}
		}
	}
	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].Code != gaps[j].Code {
			return gaps[i].Code < gaps[j].Code
		}
		return gaps[i].Key < gaps[j].Key
	})
	return gaps
}

func collectPaths(node map[string]any, prefix string, out map[string]struct{}) {
	for key, value := range node {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		out[path] = struct{}{}
		if nested, ok := value.(map[string]any); ok {
			collectPaths(nested, path, out)
		}
	}
}
