// Package pathfilter narrows a status report to the paths named on the
// command line. Patterns are doublestar globs (*, ?, **, [...], {a,b})
// relative to the invocation directory. A pattern without glob syntax names a
// path and matches it and everything beneath it; a glob also matches
// everything beneath a directory it matches.
package pathfilter

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

type pattern struct {
	raw  string
	expr string
	glob bool
}

// Filter matches repository-relative paths against a set of patterns.
type Filter struct {
	patterns []pattern
}

// New compiles patterns. prefix is the invocation directory relative to the
// repository root ("" at the root). Patterns starting with "/" or ":/" are
// taken relative to the root instead.
func New(patterns []string, prefix string) (*Filter, error) {
	f := &Filter{}
	for _, raw := range patterns {
		p, err := compile(raw, prefix)
		if err != nil {
			return nil, err
		}
		f.patterns = append(f.patterns, p)
	}
	return f, nil
}

func compile(raw, prefix string) (pattern, error) {
	expr := raw
	switch {
	case strings.HasPrefix(expr, ":/"):
		expr = strings.TrimPrefix(expr, ":/")
	case strings.HasPrefix(expr, "/"):
		expr = strings.TrimPrefix(expr, "/")
	default:
		expr = path.Join(prefix, expr)
	}

	expr = path.Clean(strings.TrimSuffix(expr, "/"))
	if expr == "." {
		expr = ""
	}
	if expr == ".." || strings.HasPrefix(expr, "../") {
		return pattern{}, fmt.Errorf("pattern %q is outside the repository", raw)
	}

	glob := strings.ContainsAny(expr, "*?[{")
	if glob && !doublestar.ValidatePattern(expr) {
		return pattern{}, fmt.Errorf("invalid glob pattern %q", raw)
	}
	return pattern{raw: raw, expr: expr, glob: glob}, nil
}

// Empty reports whether the filter has no patterns and matches everything.
func (f *Filter) Empty() bool {
	return f == nil || len(f.patterns) == 0
}

// Patterns returns the patterns as given.
func (f *Filter) Patterns() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.patterns))
	for i, p := range f.patterns {
		out[i] = p.raw
	}
	return out
}

// Match reports whether p, a repository-relative path, is selected. A
// trailing slash on p (collapsed directories) is ignored.
func (f *Filter) Match(p string) bool {
	if f.Empty() {
		return true
	}
	p = strings.TrimSuffix(p, "/")
	for _, pat := range f.patterns {
		if pat.match(p) {
			return true
		}
	}
	return false
}

func (pat pattern) match(p string) bool {
	if pat.expr == "" {
		return true
	}
	if !pat.glob {
		return p == pat.expr || strings.HasPrefix(p, pat.expr+"/")
	}
	for candidate := p; candidate != "."; candidate = path.Dir(candidate) {
		if ok, _ := doublestar.Match(pat.expr, candidate); ok {
			return true
		}
	}
	return false
}
