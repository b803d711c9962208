// Package ahocorasick provides multi-pattern string matching using an Aho-Corasick automaton.
// It wraps the petar-dambovaliev/aho-corasick library for O(n + m + z) matching.
package ahocorasick

import (
	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/slc/internal/ports"
)

// Ensure Matcher implements the interface.
var _ ports.PatternMatcher = (*Matcher)(nil)

// Matcher implements fast multi-keyword matching for the intent analyzer.
// Build() compiles an automaton; Match() returns matching keywords.
type Matcher struct {
	automaton aho.AhoCorasick
	keywords  []string
	built     bool
}

// New builds a Matcher for keywords. It has the ports.MatcherFactory signature.
func New(keywords []string) ports.PatternMatcher {
	m := &Matcher{}
	m.Build(keywords)
	return m
}

// Build compiles the Aho-Corasick automaton from the given keywords.
// Empty keywords are dropped: they would match everywhere.
func (m *Matcher) Build(keywords []string) {
	m.keywords = make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw != "" {
			m.keywords = append(m.keywords, kw)
		}
	}

	m.built = false
	if len(m.keywords) == 0 {
		return
	}
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	m.automaton = builder.Build(m.keywords)
	m.built = true
}

// Match returns all keywords found in content, each once, in the order the
// automaton reports them. Overlapping occurrences are all reported, so "ml"
// inside "html" and a keyword sharing letters with another are not missed.
func (m *Matcher) Match(content string) []string {
	if !m.built || len(m.keywords) == 0 || content == "" {
		return nil
	}

	iter := m.automaton.IterOverlappingByte([]byte(content))
	seen := make(map[string]bool)
	var result []string
	for next := iter.Next(); next != nil; next = iter.Next() {
		kw := m.keywords[next.Pattern()]
		if !seen[kw] {
			seen[kw] = true
			result = append(result, kw)
		}
	}
	return result
}
