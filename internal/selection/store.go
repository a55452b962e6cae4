// Package selection keeps the user's wishlist: up to two chosen items per
// category, persisted through a pluggable key-value backend.
package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/internal/models"
)

const (
	// DefaultKey is the storage key holding the selection.
	DefaultKey = "funeralWishlist"
	// MaxPerCategory caps the selected items in each category.
	MaxPerCategory = 2
)

// ErrPersistence marks a selection change that was applied in memory but
// could not be saved.
var ErrPersistence = errors.New("selection not persisted")

// PersistenceNotice is shown when a change could not be saved.
const PersistenceNotice = "Could not save your wishlist changes. They may not survive a reload."

// Entry is one selected item. The title is kept for display only.
type Entry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Outcome is what a mutation did.
type Outcome int

const (
	Added Outcome = iota
	AlreadyAdded
	LimitReached
	Removed
	NotSelected
	Cleared
)

// Result reports a mutation. Notice is a user-facing message, empty when
// there is nothing to tell. Err is set, wrapping ErrPersistence, when the
// change stands in memory but was not saved.
type Result struct {
	Outcome Outcome
	Notice  string
	Err     error
}

// ButtonState is the add action's state for one item.
type ButtonState int

const (
	Addable ButtonState = iota
	InSelection
	AtLimit
)

// Label is the add button text for the state.
func (s ButtonState) Label() string {
	switch s {
	case InSelection:
		return "Added"
	case AtLimit:
		return "Limit Reached"
	default:
		return "Add to Wishlist"
	}
}

// Store is the single owner of the selection. Every mutation goes through
// its methods; Load and the save inside each mutation are its only backend calls.
type Store struct {
	mu      sync.Mutex
	backend Backend
	key     string
	logger  infralogger.Logger
	items   map[string][]Entry
}

// Option customizes a Store.
type Option func(*Store)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// NewStore creates an empty store. Call Load to read saved state.
func NewStore(backend Backend, log infralogger.Logger, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		logger:  log,
		items:   emptySelection(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store and loads the saved selection.
func Open(ctx context.Context, backend Backend, log infralogger.Logger, opts ...Option) *Store {
	s := NewStore(backend, log, opts...)
	s.Load(ctx)
	return s
}

func emptySelection() map[string][]Entry {
	items := make(map[string][]Entry, len(models.CategoryKeys()))
	for _, key := range models.CategoryKeys() {
		items[key] = []Entry{}
	}
	return items
}

// Load replaces the in-memory selection with the saved one. Missing,
// unreadable or corrupt state loads as empty and is only logged.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = emptySelection()

	data, err := s.backend.Load(ctx, s.key)
	if err != nil {
		s.logger.Warn("Could not read saved selection, starting empty", infralogger.Error(err))
		return
	}
	if len(data) == 0 {
		return
	}

	var saved map[string][]Entry
	if unmarshalErr := json.Unmarshal(data, &saved); unmarshalErr != nil {
		s.logger.Warn("Saved selection is corrupt, starting empty", infralogger.Error(unmarshalErr))
		return
	}

	for key, entries := range saved {
		if _, ok := s.items[key]; !ok {
			continue
		}
		s.items[key] = sanitize(entries)
	}
}

// sanitize drops entries without an id, repeated ids and anything past the cap.
func sanitize(entries []Entry) []Entry {
	out := make([]Entry, 0, MaxPerCategory)
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		if len(out) == MaxPerCategory {
			break
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

// GetAll returns a copy of the selection with every category present.
func (s *Store) GetAll() map[string][]Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string][]Entry, len(s.items))
	for key, entries := range s.items {
		out[key] = append([]Entry{}, entries...)
	}
	return out
}

// Items returns a copy of the entries selected in cat.
func (s *Store) Items(cat models.Category) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry{}, s.items[cat.Key]...)
}

// Add selects an item unless it is already selected or cat is full.
func (s *Store) Add(ctx context.Context, cat models.Category, id, title string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.items[cat.Key]
	if indexOf(entries, id) >= 0 {
		return Result{
			Outcome: AlreadyAdded,
			Notice:  fmt.Sprintf("\"%s\" is already in your wishlist for %s.", title, cat.Key),
		}
	}
	if len(entries) >= MaxPerCategory {
		return Result{
			Outcome: LimitReached,
			Notice:  fmt.Sprintf("You can only add up to %d items for the %s category.", MaxPerCategory, cat.Key),
		}
	}

	s.items[cat.Key] = append(entries, Entry{ID: id, Title: title})
	return s.persist(ctx, Result{Outcome: Added})
}

// Remove deselects an item. Removing an item that is not selected does nothing.
func (s *Store) Remove(ctx context.Context, cat models.Category, id string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.items[cat.Key]
	i := indexOf(entries, id)
	if i < 0 {
		return Result{Outcome: NotSelected}
	}

	kept := make([]Entry, 0, len(entries)-1)
	kept = append(kept, entries[:i]...)
	s.items[cat.Key] = append(kept, entries[i+1:]...)
	return s.persist(ctx, Result{Outcome: Removed})
}

// Clear empties every category.
func (s *Store) Clear(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = emptySelection()
	return s.persist(ctx, Result{Outcome: Cleared})
}

// persist saves the selection. Must be called with mu held.
func (s *Store) persist(ctx context.Context, res Result) Result {
	data, err := json.Marshal(s.items)
	if err == nil {
		err = s.backend.Save(ctx, s.key, data)
	}
	if err != nil {
		s.logger.Error("Failed to save selection", infralogger.Error(err))
		res.Notice = PersistenceNotice
		res.Err = fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return res
}

// State is the add action's state for an item in cat.
func (s *Store) State(cat models.Category, id string) ButtonState {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.items[cat.Key]
	switch {
	case indexOf(entries, id) >= 0:
		return InSelection
	case len(entries) >= MaxPerCategory:
		return AtLimit
	default:
		return Addable
	}
}

// Payload returns the ids to send for document generation. Categories with
// nothing selected are omitted.
func (s *Store) Payload() models.Wishlist {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(models.Wishlist)
	for key, entries := range s.items {
		if len(entries) == 0 {
			continue
		}
		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
		}
		out[key] = ids
	}
	return out
}

// Total is the number of selected items across categories.
func (s *Store) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, entries := range s.items {
		n += len(entries)
	}
	return n
}

func indexOf(entries []Entry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
