package index

import "math"

// Vocabulary is the corpus-wide term set with per-term document frequency
// and inverse document frequency. Read-only once built.
type Vocabulary struct {
	DocCount int                // N, the corpus size
	DocFreq  map[string]int     // term -> number of Documents containing it
	IDF      map[string]float64 // term -> ln(N / df)
}

// BuildVocabulary counts, for each distinct term, how many Documents contain
// it at least once (presence, not frequency) and derives its IDF weight.
func BuildVocabulary(docs []*Document) *Vocabulary {
	v := &Vocabulary{
		DocCount: len(docs),
		DocFreq:  make(map[string]int),
		IDF:      make(map[string]float64),
	}

	for _, doc := range docs {
		for _, term := range distinct(doc.Terms) {
			v.DocFreq[term]++
		}
	}

	n := float64(v.DocCount)
	for term, df := range v.DocFreq {
		v.IDF[term] = math.Log(n / float64(df))
	}
	return v
}

// Contains reports whether term occurs in at least one Document.
func (v *Vocabulary) Contains(term string) bool {
	_, ok := v.DocFreq[term]
	return ok
}

// Size returns the number of distinct terms.
func (v *Vocabulary) Size() int {
	return len(v.DocFreq)
}
