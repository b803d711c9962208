// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import "time"

// UsageStore persists the usage-feedback state of the recommendation engine.
// The backing store is a single file under the tool's state directory.
//
// The contract is read-all / write-all: Load returns the complete state and
// Save overwrites it completely. There are no partial updates and no
// cross-process locking beyond what the adapter needs to write one file, so
// two concurrent writers race and the last Save wins.
type UsageStore interface {
	// Load retrieves the full usage state.
	// Returns nil, nil if nothing has been saved yet (fresh store).
	Load() (*UsageState, error)

	// Save persists the full usage state, overwriting any prior state.
	Save(state *UsageState) error
}

// MaxQueryLog is the number of query log entries retained. Older entries are
// evicted first.
const MaxQueryLog = 1000

// UsageState is the complete persisted usage state.
type UsageState struct {
	Version   string                  `json:"version"`
	Templates map[string]*UsageRecord `json:"templates"`
	Queries   []QueryLogEntry         `json:"queries"`
}

// UsageRecord holds per-template interaction counters. Records are created on
// the first interaction and never deleted.
type UsageRecord struct {
	Views    int        `json:"views"`
	Creates  int        `json:"creates"`
	LastUsed *time.Time `json:"last_used"`
}

// QueryLogEntry is one recorded ranking request.
// SelectedTemplate is empty until the user picks a result.
type QueryLogEntry struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	Query            string    `json:"query"`
	SelectedTemplate string    `json:"selected_template,omitempty"`
}
