package ports

// PatternMatcher finds keywords in content using multi-pattern matching (Aho-Corasick).
// A single pass over the content finds all matching keywords simultaneously,
// regardless of how many keywords are in the set. This is O(n + m + z) where
// n=content length, m=total pattern length, z=number of matches.
//
// Keywords are matched as raw sub-strings, so multi-word triggers ("what is")
// and non-ASCII triggers work as-is. Content is matched as-is (caller
// normalizes case).
type PatternMatcher interface {
	// Match returns the distinct keywords found in content, in order of first
	// occurrence. Returns nil if no keywords match.
	Match(content string) []string
}

// MatcherFactory compiles a PatternMatcher for a fixed keyword set.
type MatcherFactory func(keywords []string) PatternMatcher
