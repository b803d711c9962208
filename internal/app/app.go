// Package app wires together all adapters and domain logic.
// One App serves one CLI invocation: it resolves paths, opens the usage
// store and builds the recommendation engine over the template catalog.
package app

import (
	"fmt"
	"log/slog"

	"github.com/corey/slc/internal/adapters/ahocorasick"
	"github.com/corey/slc/internal/adapters/bbolt"
	"github.com/corey/slc/internal/adapters/catalogfs"
	fsw "github.com/corey/slc/internal/adapters/fsnotify"
	"github.com/corey/slc/internal/adapters/memory"
	"github.com/corey/slc/internal/domain/intent"
	"github.com/corey/slc/internal/domain/recommend"
	"github.com/corey/slc/internal/ports"
	"github.com/corey/slc/lexicon"
)

// Store kinds reported by App.StoreKind.
const (
	StoreBolt   = "bbolt"
	StoreMemory = "memory"
)

// App holds the wired components.
type App struct {
	Config   Config
	Paths    *Paths
	Catalog  *catalogfs.Catalog
	Store    ports.UsageStore
	Analyzer *intent.Analyzer
	Engine   *recommend.Engine

	logger    *slog.Logger
	storeKind string
}

// New creates an App with all dependencies wired. The catalog is not read
// until the first ranking. When the state directory cannot be created, usage
// is tracked in memory for this invocation only.
func New(cfg Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	lex, err := intent.LoadLexicon(lexicon.FS, "v1")
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}

	a := &App{
		Config:   cfg,
		Paths:    NewPaths(cfg.StatePath()),
		Catalog:  catalogfs.New(cfg.ModulesPath()),
		Analyzer: intent.NewAnalyzer(lex, ahocorasick.New),
		logger:   logger,
	}

	if err := a.Paths.EnsureDirs(); err != nil {
		logger.Warn("state directory unavailable, usage will not be saved",
			"dir", a.Paths.Root, "err", err)
		a.Store, a.storeKind = memory.NewStore(), StoreMemory
	} else {
		a.Store, a.storeKind = bbolt.NewStore(a.Paths.UsageDB), StoreBolt
	}

	a.Engine = a.NewEngine()
	return a, nil
}

// NewEngine builds a fresh engine: the catalog and the usage state are read
// again on first use.
func (a *App) NewEngine() *recommend.Engine {
	return recommend.New(a.Catalog, a.Store, a.Analyzer, recommend.WithLogger(a.logger))
}

// StoreKind reports which usage store is in use.
func (a *App) StoreKind() string {
	return a.storeKind
}

// ResetUsage deletes all persisted usage state. Engines built before the
// reset keep their in-memory copy.
func (a *App) ResetUsage() error {
	r, ok := a.Store.(interface{ Reset() error })
	if !ok {
		return fmt.Errorf("store %T cannot be reset", a.Store)
	}
	return r.Reset()
}

// WatchCatalog calls onChange with a fresh engine after every template
// change under the modules directory. The returned watcher must be stopped
// by the caller.
func (a *App) WatchCatalog(onChange func(path string, engine *recommend.Engine)) (ports.Watcher, error) {
	w, err := fsw.NewWatcher(a.logger)
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	err = w.Watch(a.Catalog.Root(), func(path string) {
		a.logger.Debug("catalog changed", "path", path)
		onChange(path, a.NewEngine())
	})
	if err != nil {
		w.Stop()
		return nil, fmt.Errorf("watch %s: %w", a.Catalog.Root(), err)
	}
	return w, nil
}
