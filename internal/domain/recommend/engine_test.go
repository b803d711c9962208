package recommend

import (
	"errors"
	"fmt"
	"testing"

	"github.com/corey/slc/internal/adapters/ahocorasick"
	"github.com/corey/slc/internal/adapters/memory"
	"github.com/corey/slc/internal/domain/intent"
	"github.com/corey/slc/internal/ports"
	"github.com/corey/slc/lexicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceCatalog serves fixed entries.
type sliceCatalog struct {
	entries []ports.CatalogEntry
	err     error
	calls   int
}

func (c *sliceCatalog) Entries() ([]ports.CatalogEntry, error) {
	c.calls++
	return c.entries, c.err
}

func entry(id, category, description string) ports.CatalogEntry {
	return ports.CatalogEntry{
		ID:       id,
		Category: category,
		Record:   &ports.TemplateRecord{Description: description},
	}
}

func newTestAnalyzer(t *testing.T) *intent.Analyzer {
	t.Helper()
	lex, err := intent.LoadLexicon(lexicon.FS, "v1")
	require.NoError(t, err)
	return intent.NewAnalyzer(lex, ahocorasick.New)
}

func newTestEngine(t *testing.T, catalog ports.Catalog, store ports.UsageStore) *Engine {
	t.Helper()
	return New(catalog, store, newTestAnalyzer(t))
}

// scenarioCatalog is the two-template corpus shared by several tests.
func scenarioCatalog() *sliceCatalog {
	return &sliceCatalog{entries: []ports.CatalogEntry{
		entry("svc-gateway", "services", "gateway api service routing backend"),
		entry("docs-wiki", "docs", "markdown wiki documentation pages"),
	}}
}

// scenarioStore gives both templates some usage so they stay above the noise
// floor whatever the query.
func scenarioStore(t *testing.T) *memory.Store {
	t.Helper()
	store, err := memory.NewStoreWithState(&ports.UsageState{
		Templates: map[string]*ports.UsageRecord{
			"svc-gateway": {Creates: 5},
			"docs-wiki":   {Views: 1},
		},
	})
	require.NoError(t, err)
	return store
}

func byID(recs []Recommendation) map[string]Recommendation {
	m := make(map[string]Recommendation, len(recs))
	for _, r := range recs {
		m[r.TemplateID] = r
	}
	return m
}

// =============================================================================
// Scenarios
// =============================================================================

func TestRecommend_ScenarioA_TFIDF(t *testing.T) {
	e := newTestEngine(t, scenarioCatalog(), scenarioStore(t))

	recs, err := e.Recommend("gateway api", 5, true)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "svc-gateway", recs[0].TemplateID)
	require.NotNil(t, recs[0].Breakdown)
	assert.Greater(t, recs[0].Breakdown.TFIDF, 0.0)
	assert.Equal(t, 0.5, recs[0].Breakdown.Contextual, "services belongs to the web domain")

	assert.Equal(t, "docs-wiki", recs[1].TemplateID)
	assert.Equal(t, 0.0, recs[1].Breakdown.TFIDF)
	assert.Equal(t, 0.0, recs[1].Breakdown.Contextual)
}

func TestRecommend_ScenarioB_CreateIntentBonus(t *testing.T) {
	e := newTestEngine(t, scenarioCatalog(), scenarioStore(t))

	with, err := e.Recommend("создать новый сервис", 5, true)
	require.NoError(t, err)
	without, err := e.Recommend("сервис", 5, true)
	require.NoError(t, err)

	require.Len(t, with, 2)
	require.Len(t, without, 2)
	w, wo := byID(with), byID(without)
	for _, id := range []string{"svc-gateway", "docs-wiki"} {
		assert.InDelta(t, 0.4, w[id].Breakdown.Semantic-wo[id].Breakdown.Semantic, 1e-12, id)
	}
}

func TestRecommend_ScenarioD_MaxResultsOne(t *testing.T) {
	catalog := &sliceCatalog{entries: []ports.CatalogEntry{
		entry("a/one.json", "misc", "gateway"),
		entry("b/two.json", "misc", "gateway routing"),
		entry("c/three.json", "misc", "gateway routing proxy cache"),
		entry("d/four.json", "misc", "unrelated markdown"),
	}}
	e := newTestEngine(t, catalog, memory.NewStore())

	all, err := e.Recommend("gateway", 20, false)
	require.NoError(t, err)
	require.Len(t, all, 3)

	top, err := e.Recommend("gateway", 1, false)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, all[0].TemplateID, top[0].TemplateID)
	assert.Equal(t, "a/one.json", top[0].TemplateID, "shortest matching text has the highest tf")
}

// =============================================================================
// Ranking properties
// =============================================================================

func TestRecommend_Deterministic(t *testing.T) {
	e := newTestEngine(t, scenarioCatalog(), scenarioStore(t))

	first, err := e.Recommend("api gateway for a new project", 5, true)
	require.NoError(t, err)
	second, err := e.Recommend("api gateway for a new project", 5, true)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRecommend_SortedWithIDTieBreak(t *testing.T) {
	catalog := &sliceCatalog{entries: []ports.CatalogEntry{
		entry("b/twin.json", "misc", "gateway routing"),
		entry("a/twin.json", "misc", "gateway routing"),
		entry("c/other.json", "misc", "gateway routing proxy cache"),
		entry("d/none.json", "misc", "markdown pages"),
	}}
	e := newTestEngine(t, catalog, memory.NewStore())

	recs, err := e.Recommend("gateway", 20, false)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"a/twin.json", "b/twin.json", "c/other.json"},
		[]string{recs[0].TemplateID, recs[1].TemplateID, recs[2].TemplateID})
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Score, recs[i].Score)
	}
}

func TestRecommend_NoiseFloor(t *testing.T) {
	e := newTestEngine(t, scenarioCatalog(), memory.NewStore())

	recs, err := e.Recommend("gateway api", 20, false)
	require.NoError(t, err)
	require.Len(t, recs, 1, "docs-wiki scores zero on every signal")
	for _, r := range recs {
		assert.Greater(t, r.Score, NoiseFloor)
	}

	recs, err = e.Recommend("completely unrelated words", 20, false)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecommend_SizeBound(t *testing.T) {
	var entries []ports.CatalogEntry
	for i := 0; i < 30; i++ {
		entries = append(entries, entry(fmt.Sprintf("web/t%02d.json", i), "web", fmt.Sprintf("gateway variant%02d", i)))
	}
	entries = append(entries, entry("docs/none.json", "docs", "markdown"))
	e := newTestEngine(t, &sliceCatalog{entries: entries}, memory.NewStore())

	for _, n := range []int{1, 5, 20} {
		recs, err := e.Recommend("gateway api", n, false)
		require.NoError(t, err)
		assert.Len(t, recs, n)
	}
}

func TestRecommend_BreakdownOnlyWhenVerbose(t *testing.T) {
	e := newTestEngine(t, scenarioCatalog(), scenarioStore(t))

	recs, err := e.Recommend("gateway", 5, false)
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	for _, r := range recs {
		assert.Nil(t, r.Breakdown)
	}

	recs, err = e.Recommend("gateway", 5, true)
	require.NoError(t, err)
	for _, r := range recs {
		require.NotNil(t, r.Breakdown)
		assert.InDelta(t, r.Breakdown.Final(), r.Score, 1e-12)
	}
}

func TestRecommend_ContextualFromPathSegment(t *testing.T) {
	catalog := &sliceCatalog{entries: []ports.CatalogEntry{
		entry("misc/python/flask-starter.json", "misc", "starter kit"),
	}}
	e := newTestEngine(t, catalog, memory.NewStore())

	recs, err := e.Recommend("python", 5, true)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 0.3, recs[0].Breakdown.Contextual)
}

func TestRecommend_ContextualCapped(t *testing.T) {
	catalog := &sliceCatalog{entries: []ports.CatalogEntry{
		entry("web/python/docs/site.json", "web", "site generator"),
	}}
	e := newTestEngine(t, catalog, memory.NewStore())

	recs, err := e.Recommend("python web docs", 5, true)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 1.0, recs[0].Breakdown.Contextual, "0.5 + 0.3 + 0.5 capped")
}

func TestRecommend_SemanticAdditive(t *testing.T) {
	e := newTestEngine(t, scenarioCatalog(), scenarioStore(t))

	recs, err := e.Recommend("create a new project from a template", 5, true)
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	assert.InDelta(t, 0.7, recs[0].Breakdown.Semantic, 1e-12)
}

// =============================================================================
// Input validation and degraded collaborators
// =============================================================================

func TestRecommend_InvalidInput(t *testing.T) {
	store := memory.NewStore()
	e := newTestEngine(t, scenarioCatalog(), store)

	cases := []struct {
		name  string
		query string
		n     int
		want  error
	}{
		{"empty query", "", 5, ErrEmptyQuery},
		{"blank query", "  \t", 5, ErrEmptyQuery},
		{"zero results", "gateway", 0, ErrInvalidMaxResults},
		{"negative results", "gateway", -1, ErrInvalidMaxResults},
		{"too many results", "gateway", 21, ErrInvalidMaxResults},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recs, err := e.Recommend(tc.query, tc.n, false)
			assert.Nil(t, recs)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, e.Tracker().Queries(), "rejected calls are not logged")
}

func TestRecommend_EmptyCorpus(t *testing.T) {
	e := newTestEngine(t, &sliceCatalog{}, memory.NewStore())

	recs, err := e.Recommend("gateway", 5, false)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecommend_CatalogFailureYieldsEmpty(t *testing.T) {
	e := newTestEngine(t, &sliceCatalog{err: errors.New("permission denied")}, memory.NewStore())

	recs, err := e.Recommend("gateway", 5, false)
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.NotEmpty(t, e.Corpus().Warnings)
}

func TestRecommend_SkipsBadEntries(t *testing.T) {
	catalog := scenarioCatalog()
	catalog.entries = append(catalog.entries,
		ports.CatalogEntry{ID: "broken.json", Err: errors.New("unexpected end of JSON input")},
		ports.CatalogEntry{ID: "web/empty.json", Category: "web", Record: &ports.TemplateRecord{}},
	)
	e := newTestEngine(t, catalog, memory.NewStore())

	recs, err := e.Recommend("gateway api", 5, false)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "svc-gateway", recs[0].TemplateID)
	assert.Len(t, e.Corpus().Warnings, 2)
}

func TestRecommend_CorpusLoadedOnce(t *testing.T) {
	catalog := scenarioCatalog()
	e := newTestEngine(t, catalog, memory.NewStore())
	assert.Equal(t, 0, catalog.calls, "lazy")

	for i := 0; i < 3; i++ {
		_, err := e.Recommend("gateway", 5, false)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, catalog.calls)
}

func TestRank_RecordsQuery(t *testing.T) {
	store := memory.NewStore()
	e := newTestEngine(t, scenarioCatalog(), store)

	res, err := e.Rank("gateway api", 5, false)
	require.NoError(t, err)
	require.NotEmpty(t, res.QueryID)
	assert.True(t, res.Analysis.HasDomain("web"))

	q := e.Tracker().Queries()
	require.Len(t, q, 1)
	assert.Equal(t, res.QueryID, q[0].ID)
	assert.Equal(t, "gateway api", q[0].Query)
	assert.Empty(t, q[0].SelectedTemplate)
	assert.Equal(t, 1, store.Saves())
}

func TestRerank_DoesNotGrowQueryLog(t *testing.T) {
	store := memory.NewStore()
	e := newTestEngine(t, scenarioCatalog(), store)

	first, err := e.Rank("gateway api", 5, false)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := e.Rerank(first.QueryID, "gateway api", 5, false)
		require.NoError(t, err)
		assert.Equal(t, first.QueryID, again.QueryID)
		assert.Equal(t, first.Recommendations, again.Recommendations)
	}

	assert.Len(t, e.Tracker().Queries(), 1)
	assert.Equal(t, 1, store.Saves())

	_, err = e.Rerank(first.QueryID, "  ", 5, false)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestRank_SaveFailureIsNotFatal(t *testing.T) {
	store := scenarioStore(t)
	store.SaveErr = errors.New("disk full")
	e := newTestEngine(t, scenarioCatalog(), store)

	res, err := e.Rank("gateway api", 5, false)
	require.NoError(t, err)
	assert.Empty(t, res.QueryID)
	assert.Len(t, res.Recommendations, 2)
}

func TestRecommend_UnreadableStoreStillRanks(t *testing.T) {
	store := memory.NewStore()
	store.LoadErr = errors.New("invalid character")
	e := newTestEngine(t, scenarioCatalog(), store)

	recs, err := e.Recommend("gateway api", 5, true)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 0.0, recs[0].Breakdown.Usage)
}

func TestRecommend_UsagePersistsAcrossEngines(t *testing.T) {
	store := memory.NewStore()
	e := newTestEngine(t, scenarioCatalog(), store)
	require.NoError(t, e.Tracker().RecordInteraction("docs-wiki", "created"))

	fresh := newTestEngine(t, scenarioCatalog(), store)
	rec, ok := fresh.Tracker().Record("docs-wiki")
	require.True(t, ok)
	assert.Equal(t, 1, rec.Creates)

	recs, err := fresh.Recommend("gateway api", 5, true)
	require.NoError(t, err)
	m := byID(recs)
	require.Contains(t, m, "docs-wiki")
	assert.Equal(t, 1.0, m["docs-wiki"].Breakdown.Usage)
}
