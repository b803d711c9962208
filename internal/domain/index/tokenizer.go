package index

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTermLen is the shortest term kept by Tokenize, in runes.
const minTermLen = 3

// stopWords are bilingual function words dropped from both corpus and query
// text. Entries shorter than minTermLen are redundant but kept for reference.
var stopWords = map[string]bool{
	// English
	"a": true, "an": true, "and": true, "or": true, "the": true,
	"in": true, "on": true, "for": true, "with": true, "to": true, "from": true,
	// Russian
	"и": true, "или": true, "в": true, "на": true, "для": true,
	"с": true, "по": true, "от": true, "к": true,
}

// Tokenize splits text into normalized terms.
// Rules:
//  1. Split on every non-letter rune (digits, punctuation, whitespace)
//  2. Lowercase all
//  3. Discard terms shorter than 3 runes
//  4. Discard stop words
//
// Tokenize is pure: corpus text and queries must go through the same function
// so both sides of a TF-IDF comparison see identical terms.
func Tokenize(text string) []string {
	if len(text) == 0 {
		return nil
	}

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	var terms []string
	for _, f := range fields {
		term := strings.ToLower(f)
		if utf8.RuneCountInString(term) < minTermLen {
			continue
		}
		if stopWords[term] {
			continue
		}
		terms = append(terms, term)
	}

	if len(terms) == 0 {
		return nil
	}
	return terms
}

// distinct returns terms with duplicates removed, keeping first occurrence order.
func distinct(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
