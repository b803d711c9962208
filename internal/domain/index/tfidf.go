package index

// Scorer computes query/document TF-IDF relevance against a fixed Vocabulary.
//
// The score is the mean, over the distinct query terms, of tf(t)*idf(t) where
// tf is the term's share of the document's terms. Query terms missing from
// the Vocabulary contribute zero but still count in the divisor, so longer
// queries are not rewarded. The result is >= 0 and NOT bounded by 1.
type Scorer struct {
	vocab *Vocabulary
}

// NewScorer creates a Scorer over vocab.
func NewScorer(vocab *Vocabulary) *Scorer {
	return &Scorer{vocab: vocab}
}

// Score returns the TF-IDF relevance of doc for query. Returns exactly 0 when
// either side tokenizes to nothing.
func (s *Scorer) Score(query string, doc *Document) float64 {
	return s.ScoreTerms(distinct(Tokenize(query)), doc)
}

// ScoreTerms is Score for a query that has already been tokenized and
// deduplicated. The ranker tokenizes once per request and reuses the terms
// for every Document.
func (s *Scorer) ScoreTerms(queryTerms []string, doc *Document) float64 {
	if len(queryTerms) == 0 || doc == nil || len(doc.Terms) == 0 {
		return 0
	}

	counts := make(map[string]int, len(queryTerms))
	for _, t := range queryTerms {
		counts[t] = 0
	}
	for _, t := range doc.Terms {
		if _, ok := counts[t]; ok {
			counts[t]++
		}
	}

	docLen := float64(len(doc.Terms))
	var sum float64
	for _, t := range queryTerms {
		if !s.vocab.Contains(t) {
			continue
		}
		tf := float64(counts[t]) / docLen
		sum += tf * s.vocab.IDF[t]
	}

	return sum / float64(len(queryTerms))
}

// QueryTerms tokenizes a query the way Score does.
func QueryTerms(query string) []string {
	return distinct(Tokenize(query))
}
