package reactify

import (
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// matcher reports whether an attribute name is blocked by a deny pattern.
type matcher interface {
	Match(name string) bool
}

// exactMatcher handles patterns without wildcards.
type exactMatcher string

func (m exactMatcher) Match(name string) bool {
	return strings.EqualFold(string(m), name)
}

// prefixGlob wraps a compiled glob that was lowercased and given a trailing
// "*", so it matches any name that starts with the pattern.
type prefixGlob struct {
	g glob.Glob
}

func (m prefixGlob) Match(name string) bool {
	return m.g.Match(strings.ToLower(name))
}

var (
	globMu    sync.RWMutex
	globCache = map[string]matcher{}
)

// compileGlob returns the matcher for pattern, compiling it on first use.
// Concurrent compiles of the same pattern produce equivalent matchers, so
// the last write winning is fine.
func compileGlob(pattern string) matcher {
	globMu.RLock()
	m, ok := globCache[pattern]
	globMu.RUnlock()
	if ok {
		return m
	}

	m = buildMatcher(pattern)

	globMu.Lock()
	if _, exists := globCache[pattern]; !exists {
		globCache[pattern] = m
	}
	globMu.Unlock()
	return m
}

func buildMatcher(pattern string) matcher {
	if !strings.ContainsAny(pattern, "*?") {
		return exactMatcher(pattern)
	}

	var sb strings.Builder
	for _, r := range strings.ToLower(pattern) {
		switch r {
		case '*', '?':
			sb.WriteRune(r)
		default:
			sb.WriteString(glob.QuoteMeta(string(r)))
		}
	}
	if !strings.HasSuffix(pattern, "*") {
		sb.WriteByte('*')
	}

	g, err := glob.Compile(sb.String())
	if err != nil {
		// Every literal is quoted above; keep exact matching if gobwas still
		// rejects the expression.
		return exactMatcher(pattern)
	}
	return prefixGlob{g: g}
}

// MatchAttribute reports whether the attribute name is blocked by the deny
// pattern. Patterns without wildcards compare case-insensitively for
// equality. Patterns with `*` or `?` are anchored at the start of the name
// only, so "on*" blocks "onclick" and "data-?" blocks "data-xyz".
func MatchAttribute(pattern, name string) bool {
	return compileGlob(pattern).Match(name)
}
