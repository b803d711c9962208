// Package index builds the searchable view of the template catalog: one
// Document per template, the corpus-wide Vocabulary, and the TF-IDF Scorer
// that relates a free-text query to a Document.
package index

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/corey/slc/internal/ports"
)

// ErrMissingField is returned by NewDocument when a catalog entry lacks a
// field every Document must carry.
var ErrMissingField = errors.New("missing required field")

// Document is the tokenizable text representation of one template.
// Built once at corpus-load time and never mutated.
type Document struct {
	TemplateID     string
	Category       string
	Name           string
	Description    string
	SearchableText string   // lower-cased name, description, tags and use-case keywords
	Terms          []string // Tokenize(SearchableText)
}

// Corpus is the full set of Documents plus the Vocabulary built from them.
type Corpus struct {
	Documents  []*Document // sorted by TemplateID
	Vocabulary *Vocabulary
	Warnings   []string // one per skipped catalog entry
}

// Len returns the number of Documents in the corpus.
func (c *Corpus) Len() int {
	return len(c.Documents)
}

// Get returns the Document with the given template ID, or nil.
func (c *Corpus) Get(templateID string) *Document {
	i := sort.Search(len(c.Documents), func(i int) bool {
		return c.Documents[i].TemplateID >= templateID
	})
	if i < len(c.Documents) && c.Documents[i].TemplateID == templateID {
		return c.Documents[i]
	}
	return nil
}

// NewDocument converts a catalog entry into a Document.
// Entries carrying a read/decode error, or missing the template ID, the
// category or any searchable text, are rejected.
func NewDocument(entry ports.CatalogEntry) (*Document, error) {
	if entry.Err != nil {
		return nil, entry.Err
	}
	if entry.ID == "" {
		return nil, fmt.Errorf("template_id: %w", ErrMissingField)
	}
	if entry.Category == "" {
		return nil, fmt.Errorf("category: %w", ErrMissingField)
	}
	if entry.Record == nil {
		return nil, fmt.Errorf("record: %w", ErrMissingField)
	}

	rec := entry.Record
	var parts []string
	for _, s := range []string{rec.Name, rec.Description} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	parts = appendNonEmpty(parts, rec.Tags)
	parts = appendNonEmpty(parts, rec.Info.TargetProjects)
	parts = appendNonEmpty(parts, rec.Info.Keywords)

	text := strings.ToLower(strings.Join(parts, " "))
	if text == "" {
		return nil, fmt.Errorf("searchable_text: %w", ErrMissingField)
	}

	return &Document{
		TemplateID:     entry.ID,
		Category:       entry.Category,
		Name:           rec.Name,
		Description:    rec.Description,
		SearchableText: text,
		Terms:          Tokenize(text),
	}, nil
}

func appendNonEmpty(dst, src []string) []string {
	for _, s := range src {
		if s = strings.TrimSpace(s); s != "" {
			dst = append(dst, s)
		}
	}
	return dst
}

// NewCorpus builds a Corpus from already-constructed Documents. Used by
// LoadCorpus and by tests that do not need a catalog.
func NewCorpus(docs []*Document) *Corpus {
	sorted := make([]*Document, len(docs))
	copy(sorted, docs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TemplateID < sorted[j].TemplateID
	})
	return &Corpus{
		Documents:  sorted,
		Vocabulary: BuildVocabulary(sorted),
	}
}

// LoadCorpus reads every catalog entry and materializes one Document per
// template. Entries that fail are skipped with a warning; a catalog that
// cannot be enumerated at all yields an empty corpus with a warning. LoadCorpus
// never fails.
func LoadCorpus(catalog ports.Catalog, logger *slog.Logger) *Corpus {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := catalog.Entries()
	if err != nil {
		logger.Warn("template catalog unavailable", "err", err)
		c := NewCorpus(nil)
		c.Warnings = append(c.Warnings, fmt.Sprintf("catalog: %v", err))
		return c
	}

	var (
		docs     []*Document
		warnings []string
		seen     = make(map[string]bool, len(entries))
	)
	for _, entry := range entries {
		doc, err := NewDocument(entry)
		if err == nil && seen[doc.TemplateID] {
			err = fmt.Errorf("duplicate template_id")
		}
		if err != nil {
			logger.Warn("skipping template", "template", entry.ID, "err", err)
			warnings = append(warnings, fmt.Sprintf("%s: %v", entry.ID, err))
			continue
		}
		seen[doc.TemplateID] = true
		docs = append(docs, doc)
	}

	c := NewCorpus(docs)
	c.Warnings = warnings
	logger.Debug("corpus loaded",
		"documents", c.Len(),
		"terms", c.Vocabulary.Size(),
		"skipped", len(warnings))
	return c
}
