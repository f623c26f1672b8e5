// Package session holds the short-lived per-user state between presenting
// format choices and the user's button press.
package session

import (
	"sync"

	"github.com/telegrab/telegrab/internal/extractor"
)

// Entry maps the opaque format identifiers presented to a user back to
// their full descriptors, plus the originating URL and display title.
type Entry struct {
	URL      string
	Title    string
	Platform string
	Formats  map[string]extractor.Format
}

// Store keeps one Entry per user. The policy is single-slot overwrite: a
// new URL from the same user replaces whatever selection was pending, so
// memory stays bounded at one entry per user with no expiry timer. The
// transport can deliver a callback while another handler blocks in a
// network call, hence the lock.
type Store struct {
	mu      sync.Mutex
	entries map[int64]*Entry
}

func NewStore() *Store {
	return &Store{entries: make(map[int64]*Entry)}
}

// Put installs (or overwrites) the entry for a user.
func (s *Store) Put(userID int64, e *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = e
}

// Get returns the user's entry, or nil when none is pending.
func (s *Store) Get(userID int64) *Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[userID]
}

// Delete removes the user's entry if it still refers to the given URL.
// A later submission may have overwritten the slot; that entry survives.
func (s *Store) Delete(userID int64, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[userID]; ok && e.URL == url {
		delete(s.entries, userID)
	}
}

// Len reports how many users have a pending selection.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
