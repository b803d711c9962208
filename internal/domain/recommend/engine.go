// Package recommend ranks catalog templates against a free-text query.
//
// Four signals are combined with fixed weights:
//
//	final = 0.40*tfidf + 0.30*usage + 0.20*contextual + 0.10*semantic
//
// tfidf comes from the index package and is not bounded by 1; the other three
// are in [0,1]. Results at or below NoiseFloor are dropped, the rest are
// sorted by descending score with ties broken by ascending template ID.
package recommend

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path"
	"sort"
	"strings"

	"github.com/corey/slc/internal/domain/index"
	"github.com/corey/slc/internal/domain/intent"
	"github.com/corey/slc/internal/domain/usage"
	"github.com/corey/slc/internal/ports"
)

// Signal weights of the final score.
const (
	WeightTFIDF      = 0.40
	WeightUsage      = 0.30
	WeightContextual = 0.20
	WeightSemantic   = 0.10
)

// NoiseFloor is the score at or below which a template is not recommended.
const NoiseFloor = 0.01

// MaxResultsLimit is the largest accepted maxResults.
const MaxResultsLimit = 20

var (
	// ErrInvalidInput wraps every rejected Recommend call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyQuery is returned for a blank query.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrInvalidMaxResults is returned when maxResults is outside 1..MaxResultsLimit.
	ErrInvalidMaxResults = fmt.Errorf("max results must be between 1 and %d", MaxResultsLimit)
)

// ScoreBreakdown holds the four component scores of a Recommendation.
type ScoreBreakdown struct {
	TFIDF      float64 `json:"tfidf_score"`
	Usage      float64 `json:"usage_score"`
	Contextual float64 `json:"contextual_score"`
	Semantic   float64 `json:"semantic_score"`
}

// Final combines the components with the signal weights.
func (b ScoreBreakdown) Final() float64 {
	return WeightTFIDF*b.TFIDF +
		WeightUsage*b.Usage +
		WeightContextual*b.Contextual +
		WeightSemantic*b.Semantic
}

// Recommendation is one ranked template.
type Recommendation struct {
	TemplateID  string          `json:"template_id"`
	Score       float64         `json:"final_score"`
	Name        string          `json:"name,omitempty"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	Breakdown   *ScoreBreakdown `json:"score_breakdown,omitempty"` // verbose only
}

// Result is a ranking together with what was learned about the query.
type Result struct {
	// QueryID identifies the query log entry, "" if the query was not logged.
	QueryID         string           `json:"query_id,omitempty"`
	Analysis        intent.Analysis  `json:"analysis"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Engine ranks the templates of one catalog.
// Thread safety: NOT safe for concurrent use. One CLI invocation builds one
// Engine and performs one ranking.
type Engine struct {
	catalog  ports.Catalog
	tracker  *usage.Tracker
	analyzer *intent.Analyzer
	logger   *slog.Logger

	corpus *index.Corpus // lazily loaded
	scorer *index.Scorer
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	logger      *slog.Logger
	trackerOpts []usage.Option
}

// WithLogger sets the logger for the engine and its usage tracker.
func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// WithTrackerOptions passes options to the usage tracker.
func WithTrackerOptions(opts ...usage.Option) Option {
	return func(o *engineOptions) { o.trackerOpts = append(o.trackerOpts, opts...) }
}

// New builds an Engine over catalog, reading usage state from store. The
// catalog is not read until the first ranking.
func New(catalog ports.Catalog, store ports.UsageStore, analyzer *intent.Analyzer, opts ...Option) *Engine {
	o := engineOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	trackerOpts := append([]usage.Option{usage.WithLogger(o.logger)}, o.trackerOpts...)

	return &Engine{
		catalog:  catalog,
		tracker:  usage.New(store, trackerOpts...),
		analyzer: analyzer,
		logger:   o.logger,
	}
}

// Tracker returns the engine's usage tracker.
func (e *Engine) Tracker() *usage.Tracker {
	return e.tracker
}

// Corpus loads the catalog on first use and returns the cached corpus.
func (e *Engine) Corpus() *index.Corpus {
	if e.corpus == nil {
		e.corpus = index.LoadCorpus(e.catalog, e.logger)
		e.scorer = index.NewScorer(e.corpus.Vocabulary)
	}
	return e.corpus
}

// Recommend returns up to maxResults templates for query, best first.
// Breakdowns are attached only when verbose is set.
func (e *Engine) Recommend(query string, maxResults int, verbose bool) ([]Recommendation, error) {
	res, err := e.Rank(query, maxResults, verbose)
	if err != nil {
		return nil, err
	}
	return res.Recommendations, nil
}

// Rank is Recommend returning the query analysis and the query log ID as well.
// The query is logged after ranking; a failure to persist the log is logged
// and does not fail the call.
func (e *Engine) Rank(query string, maxResults int, verbose bool) (*Result, error) {
	res, err := e.rank(query, maxResults, verbose)
	if err != nil {
		return nil, err
	}

	queryID, err := e.tracker.RecordQuery(query, "")
	if err != nil {
		e.logger.Warn("query not recorded", "err", err)
		queryID = ""
	}
	res.QueryID = queryID
	return res, nil
}

// Rerank ranks a query that was already logged under queryID, without adding
// a new log entry. Used to refresh results after the catalog changes.
func (e *Engine) Rerank(queryID, query string, maxResults int, verbose bool) (*Result, error) {
	res, err := e.rank(query, maxResults, verbose)
	if err != nil {
		return nil, err
	}
	res.QueryID = queryID
	return res, nil
}

func (e *Engine) rank(query string, maxResults int, verbose bool) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, ErrEmptyQuery)
	}
	if maxResults < 1 || maxResults > MaxResultsLimit {
		return nil, fmt.Errorf("%w: %w (got %d)", ErrInvalidInput, ErrInvalidMaxResults, maxResults)
	}

	corpus := e.Corpus()
	analysis := e.analyzer.Analyze(query)
	queryTerms := index.QueryTerms(query)
	semantic := e.semanticScore(analysis)

	recs := make([]Recommendation, 0, corpus.Len())
	for _, doc := range corpus.Documents {
		b, ok := e.scoreDocument(doc, queryTerms, analysis, semantic)
		if !ok {
			continue
		}
		final := b.Final()
		if final <= NoiseFloor {
			continue
		}
		rec := Recommendation{
			TemplateID:  doc.TemplateID,
			Score:       final,
			Name:        doc.Name,
			Category:    doc.Category,
			Description: doc.Description,
		}
		if verbose {
			rec.Breakdown = &b
		}
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].TemplateID < recs[j].TemplateID
	})
	if len(recs) > maxResults {
		recs = recs[:maxResults]
	}

	e.logger.Debug("ranked",
		"query", query,
		"candidates", corpus.Len(),
		"returned", len(recs))

	return &Result{Analysis: analysis, Recommendations: recs}, nil
}

// scoreDocument computes the four components for doc. Returns false when doc
// cannot be scored.
func (e *Engine) scoreDocument(doc *index.Document, queryTerms []string, a intent.Analysis, semantic float64) (ScoreBreakdown, bool) {
	if doc == nil || doc.TemplateID == "" {
		return ScoreBreakdown{}, false
	}
	b := ScoreBreakdown{
		TFIDF:      e.scorer.ScoreTerms(queryTerms, doc),
		Usage:      e.tracker.Score(doc.TemplateID),
		Contextual: e.contextualScore(doc, a),
		Semantic:   semantic,
	}
	if f := b.Final(); math.IsNaN(f) || math.IsInf(f, 0) {
		e.logger.Warn("skipping unscorable template", "template", doc.TemplateID)
		return ScoreBreakdown{}, false
	}
	return b, true
}

// contextualScore sums the context bonus of every detected domain that owns
// the document's category or one of its template path segments, capped at 1.
func (e *Engine) contextualScore(doc *index.Document, a intent.Analysis) float64 {
	if len(a.Domains) == 0 {
		return 0
	}
	segments := pathSegments(doc.TemplateID)

	var score float64
	for _, name := range a.DomainNames() {
		def, ok := e.analyzer.Lexicon().Domain(name)
		if !ok {
			continue
		}
		if def.HasCategory(doc.Category) || hasAnyCategory(def, segments) {
			score += def.ContextBonus
		}
	}
	return math.Min(score, 1)
}

// semanticScore sums the semantic bonus of every detected intent, capped at 1.
// It depends on the query only.
func (e *Engine) semanticScore(a intent.Analysis) float64 {
	var score float64
	for _, def := range e.analyzer.Lexicon().Intents {
		if a.HasIntent(def.Name) {
			score += def.SemanticBonus
		}
	}
	return math.Min(score, 1)
}

func pathSegments(templateID string) []string {
	trimmed := strings.TrimSuffix(templateID, path.Ext(templateID))
	return strings.Split(trimmed, "/")
}

func hasAnyCategory(def intent.DomainDef, segments []string) bool {
	for _, s := range segments {
		if def.HasCategory(s) {
			return true
		}
	}
	return false
}
