package classifier

import (
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// termIndex answers "which of these terms occur in the text" with one
// Aho-Corasick pass. A Matcher keeps per-search state, so each goroutine
// borrows its own from the pool.
type termIndex struct {
	terms []string
	pool  sync.Pool
}

func newTermIndex(terms []string) *termIndex {
	ix := &termIndex{terms: dedupe(terms)}
	if len(ix.terms) > 0 {
		ix.pool.New = func() any {
			return ahocorasick.NewStringMatcher(ix.terms)
		}
	}
	return ix
}

// present returns the set of terms that are substrings of text.
func (ix *termIndex) present(text string) map[string]struct{} {
	found := make(map[string]struct{})
	if ix.pool.New == nil || text == "" {
		return found
	}

	m, ok := ix.pool.Get().(*ahocorasick.Matcher)
	if !ok {
		return found
	}
	defer ix.pool.Put(m)

	for _, i := range m.Match([]byte(text)) {
		if i >= 0 && i < len(ix.terms) {
			found[ix.terms[i]] = struct{}{}
		}
	}
	return found
}

func dedupe(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
