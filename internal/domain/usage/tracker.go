// Package usage implements the usage-feedback signal of the recommendation
// engine. It counts how often each template was viewed or used to create a
// project, keeps a bounded log of ranking queries, and exposes a normalized
// usage score in [0,1].
//
// Usage tracking is a soft signal: an unreadable store is treated as empty and
// a failed persist is reported to the caller but never corrupts the in-memory
// state. Every mutation is persisted immediately with a full overwrite.
package usage

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/corey/slc/internal/ports"
	"github.com/google/uuid"
)

// Weights of the raw usage score. Creating a project from a template is a
// stronger relevance signal than a passive look.
const (
	ViewWeight   = 0.3
	CreateWeight = 0.7
)

// StateVersion is written into every persisted state.
const StateVersion = "1.0"

// Kind is the type of a template interaction.
type Kind string

const (
	Viewed  Kind = "viewed"
	Created Kind = "created"
)

// ParseKind converts a user-supplied action name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Viewed, Created:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownKind, s, Viewed, Created)
}

var (
	// ErrUnknownKind is returned for interaction kinds other than viewed/created.
	ErrUnknownKind = errors.New("unknown interaction kind")

	// ErrEmptyTemplateID is returned when an interaction names no template.
	ErrEmptyTemplateID = errors.New("empty template id")

	// ErrQueryNotFound is returned by SelectTemplate for an unknown query log ID.
	ErrQueryNotFound = errors.New("query not found")
)

// Tracker holds the usage state in memory and writes it through to a
// ports.UsageStore on every mutation.
// Thread safety: NOT safe for concurrent use. The caller must serialize access.
type Tracker struct {
	store  ports.UsageStore
	state  *ports.UsageState
	maxRaw float64 // cached max raw score over all records

	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source used for LastUsed and query timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithIDGenerator overrides the query log ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(t *Tracker) { t.newID = newID }
}

// WithLogger sets the logger used for store warnings.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// New creates a Tracker and loads the full state from store. A missing or
// unreadable state is logged and replaced by an empty one.
func New(store ports.UsageStore, opts ...Option) *Tracker {
	t := &Tracker{
		store:  store,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}

	state, err := store.Load()
	if err != nil {
		t.logger.Warn("usage store unreadable, starting empty", "err", err)
		state = nil
	}
	t.state = t.normalize(state)
	t.recomputeMax()
	return t
}

// normalize returns a usable state, initializing nil maps, clamping negative
// counters to zero and trimming an oversized query log.
func (t *Tracker) normalize(state *ports.UsageState) *ports.UsageState {
	if state == nil {
		state = &ports.UsageState{}
	}
	if state.Version == "" {
		state.Version = StateVersion
	}
	if state.Templates == nil {
		state.Templates = make(map[string]*ports.UsageRecord)
	}
	for id, rec := range state.Templates {
		if rec == nil {
			state.Templates[id] = &ports.UsageRecord{}
			continue
		}
		if rec.Views < 0 || rec.Creates < 0 {
			t.logger.Warn("negative usage counters reset", "template", id,
				"views", rec.Views, "creates", rec.Creates)
			rec.Views = max(rec.Views, 0)
			rec.Creates = max(rec.Creates, 0)
		}
	}
	if len(state.Queries) > ports.MaxQueryLog {
		state.Queries = state.Queries[len(state.Queries)-ports.MaxQueryLog:]
	}
	return state
}

// State returns the underlying state (for persistence or inspection).
func (t *Tracker) State() *ports.UsageState {
	return t.state
}

// RecordInteraction increments the counter matching kind for templateID,
// creating the record if needed, stamps LastUsed and persists.
func (t *Tracker) RecordInteraction(templateID string, kind Kind) error {
	if templateID == "" {
		return ErrEmptyTemplateID
	}
	if kind != Viewed && kind != Created {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	rec, ok := t.state.Templates[templateID]
	if !ok {
		rec = &ports.UsageRecord{}
		t.state.Templates[templateID] = rec
	}
	switch kind {
	case Viewed:
		rec.Views++
	case Created:
		rec.Creates++
	}
	ts := t.now()
	rec.LastUsed = &ts

	t.recomputeMax()
	return t.persist()
}

// RecordQuery appends a query log entry and persists. The oldest entries are
// evicted once the log exceeds ports.MaxQueryLog. Returns the new entry's ID.
func (t *Tracker) RecordQuery(query, selectedTemplate string) (string, error) {
	e := ports.QueryLogEntry{
		ID:               t.newID(),
		Timestamp:        t.now(),
		Query:            query,
		SelectedTemplate: selectedTemplate,
	}
	t.state.Queries = append(t.state.Queries, e)
	if over := len(t.state.Queries) - ports.MaxQueryLog; over > 0 {
		t.state.Queries = append(t.state.Queries[:0:0], t.state.Queries[over:]...)
	}
	return e.ID, t.persist()
}

// SelectTemplate records that the user picked templateID for the logged query
// queryID, and counts it as a view of that template.
func (t *Tracker) SelectTemplate(queryID, templateID string) error {
	if templateID == "" {
		return ErrEmptyTemplateID
	}
	for i := len(t.state.Queries) - 1; i >= 0; i-- {
		if t.state.Queries[i].ID == queryID {
			t.state.Queries[i].SelectedTemplate = templateID
			return t.RecordInteraction(templateID, Viewed)
		}
	}
	return fmt.Errorf("%w: %s", ErrQueryNotFound, queryID)
}

// Score returns the template's raw usage (views*0.3 + creates*0.7) divided by
// the largest raw usage over all tracked templates. Returns 0 when nothing has
// been tracked or every tracked template has zero usage.
func (t *Tracker) Score(templateID string) float64 {
	if t.maxRaw <= 0 {
		return 0
	}
	rec, ok := t.state.Templates[templateID]
	if !ok {
		return 0
	}
	return raw(rec) / t.maxRaw
}

// Record returns a copy of the usage record for templateID.
func (t *Tracker) Record(templateID string) (ports.UsageRecord, bool) {
	rec, ok := t.state.Templates[templateID]
	if !ok {
		return ports.UsageRecord{}, false
	}
	return *rec, true
}

// Queries returns the query log, oldest first.
func (t *Tracker) Queries() []ports.QueryLogEntry {
	return t.state.Queries
}

// TemplateUsage is one row of the usage summary.
type TemplateUsage struct {
	TemplateID string            `json:"template_id"`
	Record     ports.UsageRecord `json:"usage"`
	Score      float64           `json:"score"`
}

// Summary lists every tracked template by descending usage score, ties
// broken by template ID.
func (t *Tracker) Summary() []TemplateUsage {
	out := make([]TemplateUsage, 0, len(t.state.Templates))
	for id, rec := range t.state.Templates {
		out = append(out, TemplateUsage{TemplateID: id, Record: *rec, Score: t.Score(id)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].TemplateID < out[j].TemplateID
	})
	return out
}

func raw(rec *ports.UsageRecord) float64 {
	return float64(rec.Views)*ViewWeight + float64(rec.Creates)*CreateWeight
}

func (t *Tracker) recomputeMax() {
	t.maxRaw = 0
	for _, rec := range t.state.Templates {
		if r := raw(rec); r > t.maxRaw {
			t.maxRaw = r
		}
	}
}

// persist writes the full state. A failure leaves the in-memory state intact.
func (t *Tracker) persist() error {
	if err := t.store.Save(t.state); err != nil {
		return fmt.Errorf("save usage state: %w", err)
	}
	return nil
}
