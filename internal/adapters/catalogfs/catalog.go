// Package catalogfs implements ports.Catalog over a modules directory laid out
// as modules/<category>/**/<template>.json.
package catalogfs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/corey/slc/internal/ports"
)

// Ensure Catalog implements the interface.
var _ ports.Catalog = (*Catalog)(nil)

// TemplatePattern selects template files below a category directory.
// Files directly under the modules root have no category and are not listed.
const TemplatePattern = "*/**/*.json"

// Catalog reads template metadata from a directory tree.
type Catalog struct {
	root string
	fsys fs.FS
}

// New returns a catalog rooted at dir. The directory is not read until
// Entries is called.
func New(dir string) *Catalog {
	return &Catalog{root: dir, fsys: os.DirFS(dir)}
}

// NewFS returns a catalog over an arbitrary filesystem.
func NewFS(fsys fs.FS) *Catalog {
	return &Catalog{fsys: fsys}
}

// Root returns the catalog directory, "" for NewFS catalogs.
func (c *Catalog) Root() string {
	return c.root
}

// Entries lists every template file sorted by ID. A missing modules directory
// is an empty catalog. Files that cannot be read or decoded are returned with
// Err set.
func (c *Catalog) Entries() ([]ports.CatalogEntry, error) {
	if c.root != "" {
		if _, err := os.Stat(c.root); errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
	}

	paths, err := doublestar.Glob(c.fsys, TemplatePattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}
	sort.Strings(paths)

	entries := make([]ports.CatalogEntry, 0, len(paths))
	for _, p := range paths {
		if hidden(p) {
			continue
		}
		entries = append(entries, c.read(p))
	}
	return entries, nil
}

func (c *Catalog) read(p string) ports.CatalogEntry {
	e := ports.CatalogEntry{ID: p, Category: category(p)}

	data, err := fs.ReadFile(c.fsys, p)
	if err != nil {
		e.Err = fmt.Errorf("read: %w", err)
		return e
	}

	var rec ports.TemplateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		e.Err = fmt.Errorf("decode: %w", err)
		return e
	}
	e.Record = &rec
	return e
}

func category(p string) string {
	cat, _, _ := strings.Cut(p, "/")
	return cat
}

// hidden reports whether any path segment starts with a dot.
func hidden(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
