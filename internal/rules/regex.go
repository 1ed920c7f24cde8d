package rules

import (
	"regexp"
	"sync"
)

// regexCache memoizes compiled patterns by their literal source, the Go
// stand-in for the original parser's #[cached] compilation helper. Entries
// are written at most once and never mutated afterward, so concurrent
// reads from multiple goroutines are always safe.
var regexCache sync.Map // map[string]*regexp.Regexp

// compile returns the compiled form of pattern, compiling and caching it
// on first use. Panics on an invalid pattern: the catalogue's patterns are
// fixed at compile time, so a bad pattern is a programmer error, not a
// runtime condition to recover from.
func compile(pattern string) *regexp.Regexp {
	if cached, ok := regexCache.Load(pattern); ok {
		return cached.(*regexp.Regexp)
	}
	re := regexp.MustCompile(pattern)
	actual, _ := regexCache.LoadOrStore(pattern, re)
	return actual.(*regexp.Regexp)
}

// namedGroups returns the named capture groups of m's match against re as
// a lookup keyed by group name, skipping unmatched groups.
func namedGroups(re *regexp.Regexp, m []string) map[string]string {
	out := make(map[string]string, len(m))
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" || i >= len(m) {
			continue
		}
		if m[i] != "" {
			out[name] = m[i]
		}
	}
	return out
}
