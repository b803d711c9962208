package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/corey/slc/internal/domain/recommend"
	"github.com/corey/slc/internal/domain/usage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTemplate writes a template document under root/modules.
func writeTemplate(t *testing.T, root, id, body string) {
	t.Helper()
	path := filepath.Join(root, "modules", filepath.FromSlash(id))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func newTestApp(t *testing.T, root string) *App {
	t.Helper()
	a, err := New(DefaultConfig(root), nil)
	require.NoError(t, err)
	return a
}

// =============================================================================
// Wiring — catalog on disk, usage in bbolt
// =============================================================================

func TestNew_RecommendsFromDisk(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "web/gateway.json",
		`{"name": "API Gateway", "description": "gateway routing for backend services", "tags": ["api"]}`)
	writeTemplate(t, root, "docs/wiki.json",
		`{"name": "Wiki", "description": "markdown documentation pages"}`)

	a := newTestApp(t, root)
	assert.Equal(t, StoreBolt, a.StoreKind())

	recs, err := a.Engine.Recommend("gateway api", 5, false)
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	assert.Equal(t, "web/gateway.json", recs[0].TemplateID)
	assert.Equal(t, "API Gateway", recs[0].Name)

	_, err = os.Stat(a.Paths.UsageDB)
	assert.NoError(t, err, "query log persisted")
}

func TestNew_UsageSurvivesRestart(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "web/gateway.json", `{"description": "gateway"}`)

	first := newTestApp(t, root)
	require.NoError(t, first.Engine.Tracker().RecordInteraction("web/gateway.json", usage.Created))

	second := newTestApp(t, root)
	rec, ok := second.Engine.Tracker().Record("web/gateway.json")
	require.True(t, ok)
	assert.Equal(t, 1, rec.Creates)
	assert.Equal(t, 1.0, second.Engine.Tracker().Score("web/gateway.json"))
}

func TestNew_MemoryFallback(t *testing.T) {
	root := t.TempDir()
	// A file where the state directory should be.
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultStateDir), []byte("x"), 0644))

	a := newTestApp(t, root)
	assert.Equal(t, StoreMemory, a.StoreKind())
	require.NoError(t, a.Engine.Tracker().RecordInteraction("web/a.json", usage.Viewed))
}

func TestResetUsage(t *testing.T) {
	root := t.TempDir()
	a := newTestApp(t, root)
	require.NoError(t, a.Engine.Tracker().RecordInteraction("web/a.json", usage.Created))

	require.NoError(t, a.ResetUsage())

	fresh := a.NewEngine()
	_, ok := fresh.Tracker().Record("web/a.json")
	assert.False(t, ok)
}

func TestWatchCatalog_FreshEngineOnChange(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "web/gateway.json", `{"description": "gateway"}`)
	a := newTestApp(t, root)

	engines := make(chan *recommend.Engine, 10)
	w, err := a.WatchCatalog(func(path string, e *recommend.Engine) {
		engines <- e
	})
	require.NoError(t, err)
	defer w.Stop()
	time.Sleep(50 * time.Millisecond)

	first, err := a.Engine.Rank("reverse proxy gateway", 5, false)
	require.NoError(t, err)

	writeTemplate(t, root, "web/proxy.json", `{"description": "reverse proxy"}`)

	select {
	case e := <-engines:
		assert.NotSame(t, a.Engine, e)

		again, err := e.Rerank(first.QueryID, "reverse proxy gateway", 5, false)
		require.NoError(t, err)
		assert.Equal(t, first.QueryID, again.QueryID)
		assert.Len(t, again.Recommendations, 2, "new template is ranked")
		assert.Len(t, e.Tracker().Queries(), 1, "re-runs are not logged again")
	case <-time.After(2 * time.Second):
		t.Fatal("no engine after catalog change")
	}
}

func TestWatchCatalog_MissingModules(t *testing.T) {
	a := newTestApp(t, t.TempDir())
	_, err := a.WatchCatalog(func(string, *recommend.Engine) {})
	assert.Error(t, err)
}
