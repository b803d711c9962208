// Package intent classifies free-text queries. It detects what the user wants
// to do (create a project, find a template, learn, fix a problem), which
// technical domains the query touches, and which keywords it carries.
//
// Matching is case-insensitive sub-string matching over the lexicon's
// triggers and keywords, so "ml" also matches inside "html".
package intent

import (
	"sort"
	"strings"
	"unicode"

	"github.com/corey/slc/internal/ports"
)

// minKeywordLen is the exclusive rune-length floor for extracted keywords.
const minKeywordLen = 3

var keywordStopWords = map[string]bool{
	"что": true, "как": true, "для": true, "это": true,
	"with": true, "the": true, "for": true, "and": true, "or": true,
}

// Analysis is the result of analyzing one query.
type Analysis struct {
	// Intents maps each detected intent to its score (weight × matched triggers).
	Intents map[string]float64 `json:"intents"`
	// Domains maps each detected domain to its number of matched keywords.
	Domains map[string]int `json:"domains"`
	// Keywords are the query's significant words in first-seen order.
	Keywords []string `json:"keywords"`
}

// HasIntent reports whether the named intent was detected.
func (a Analysis) HasIntent(name string) bool {
	return a.Intents[name] > 0
}

// HasDomain reports whether the named domain was detected.
func (a Analysis) HasDomain(name string) bool {
	return a.Domains[name] > 0
}

// PrimaryIntent returns the highest-scoring intent, ties broken by name.
// Returns "" when no intent was detected.
func (a Analysis) PrimaryIntent() string {
	best, bestScore := "", 0.0
	for name, s := range a.Intents {
		if s > bestScore || (s == bestScore && best != "" && name < best) {
			best, bestScore = name, s
		}
	}
	return best
}

// DomainNames returns the detected domains sorted by descending keyword count,
// ties broken by name.
func (a Analysis) DomainNames() []string {
	names := make([]string, 0, len(a.Domains))
	for name := range a.Domains {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := a.Domains[names[i]], a.Domains[names[j]]
		if ci != cj {
			return ci > cj
		}
		return names[i] < names[j]
	})
	return names
}

// Analyzer detects intents, domains and keywords using one pattern matcher
// per lexicon category. Safe for concurrent use once built.
type Analyzer struct {
	lex            *Lexicon
	intentMatchers []ports.PatternMatcher
	domainMatchers []ports.PatternMatcher
}

// NewAnalyzer compiles a matcher for every intent and domain in lex.
func NewAnalyzer(lex *Lexicon, newMatcher ports.MatcherFactory) *Analyzer {
	a := &Analyzer{
		lex:            lex,
		intentMatchers: make([]ports.PatternMatcher, len(lex.Intents)),
		domainMatchers: make([]ports.PatternMatcher, len(lex.Domains)),
	}
	for i, d := range lex.Intents {
		a.intentMatchers[i] = newMatcher(d.Triggers)
	}
	for i, d := range lex.Domains {
		a.domainMatchers[i] = newMatcher(d.Keywords)
	}
	return a
}

// Lexicon returns the definitions the analyzer was built from.
func (a *Analyzer) Lexicon() *Lexicon {
	return a.lex
}

// Analyze classifies query. Never fails: an empty query yields an empty
// Analysis with non-nil maps.
func (a *Analyzer) Analyze(query string) Analysis {
	q := strings.ToLower(query)
	res := Analysis{
		Intents:  make(map[string]float64),
		Domains:  make(map[string]int),
		Keywords: ExtractKeywords(q),
	}
	if strings.TrimSpace(q) == "" {
		return res
	}

	for i, m := range a.intentMatchers {
		if n := len(m.Match(q)); n > 0 {
			res.Intents[a.lex.Intents[i].Name] = a.lex.Intents[i].Weight * float64(n)
		}
	}
	for i, m := range a.domainMatchers {
		if n := len(m.Match(q)); n > 0 {
			res.Domains[a.lex.Domains[i].Name] = n
		}
	}
	return res
}

// ExtractKeywords returns the alphabetic words of text longer than three
// letters, lower-cased, without stop words or repeats, in first-seen order.
func ExtractKeywords(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	out := []string{}
	seen := make(map[string]bool)
	for _, w := range words {
		if len([]rune(w)) <= minKeywordLen || keywordStopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
