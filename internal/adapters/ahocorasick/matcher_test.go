package ahocorasick

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Aho-Corasick Pattern Matcher — Fast multi-keyword matching
// Expectation: Given a set of keywords, match all occurrences in content
// in a single pass (linear time, not per-keyword)
// =============================================================================

func TestMatcher_SingleKeyword(t *testing.T) {
	m := New([]string{"gateway"})
	assert.Equal(t, []string{"gateway"}, m.Match("api gateway service"))
}

func TestMatcher_MultipleKeywords(t *testing.T) {
	m := New([]string{"create", "new", "project"})
	assert.ElementsMatch(t, []string{"create", "new", "project"}, m.Match("create a new project"))
}

func TestMatcher_OverlappingKeywords(t *testing.T) {
	// Keywords ["log", "login"]. Content "login page".
	// Both "log" and "login" match. No false negatives.
	m := New([]string{"log", "login"})
	assert.ElementsMatch(t, []string{"log", "login"}, m.Match("login page"))
}

func TestMatcher_SubstringSemantics(t *testing.T) {
	m := New([]string{"ml"})
	assert.Equal(t, []string{"ml"}, m.Match("static html site"))
}

func TestMatcher_MultiWordAndCyrillic(t *testing.T) {
	m := New([]string{"what is", "что такое", "создать"})
	assert.ElementsMatch(t, []string{"что такое", "создать"}, m.Match("что такое создать проект"))
	assert.Equal(t, []string{"what is"}, m.Match("what is grpc"))
}

func TestMatcher_ReportsEachKeywordOnce(t *testing.T) {
	m := New([]string{"api", "api"})
	assert.Equal(t, []string{"api"}, m.Match("api api api"))
}

func TestMatcher_NoMatch(t *testing.T) {
	m := New([]string{"auth"})
	assert.Empty(t, m.Match("hello world"))
}

func TestMatcher_EmptyInputs(t *testing.T) {
	assert.Nil(t, New(nil).Match("anything"))
	assert.Nil(t, New([]string{""}).Match("anything"))
	assert.Nil(t, New([]string{"api"}).Match(""))
}

func TestMatcher_CaseSensitive(t *testing.T) {
	// Default matching is case-sensitive. Caller normalizes case before matching.
	m := New([]string{"login"})
	assert.Empty(t, m.Match("Login"))
}

func BenchmarkMatch(b *testing.B) {
	keywords := []string{"create", "new", "project", "find", "search", "template", "error", "debug", "fix"}
	m := New(keywords)
	content := "how do i create a new project from the gateway template and fix the build error"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Match(content)
	}
}
