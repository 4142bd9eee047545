// Package session remembers each browser's last selection.
//
// A browser is identified by a random UUID cookie. Selections are kept in
// memory only and expire after a day without a visit, so concurrent
// viewers never see each other's filters.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/pitcher-luck/internal/view"
)

// CookieName is the session cookie.
const CookieName = "pitcherluck_session"

// DefaultTTL is how long an idle selection is kept.
const DefaultTTL = 24 * time.Hour

type entry struct {
	sel    view.Selection
	seenAt time.Time
}

// Store maps session IDs to selections with a TTL. It is safe for
// concurrent use.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	TTL     time.Duration
	now     func() time.Time
}

// NewStore creates an empty store with DefaultTTL.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]entry),
		TTL:     DefaultTTL,
		now:     time.Now,
	}
}

// Get returns the selection of a session if it has not expired. Reading a
// session refreshes it.
func (s *Store) Get(id string) (view.Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return view.Selection{}, false
	}
	now := s.now()
	if now.Sub(e.seenAt) > s.TTL {
		delete(s.entries, id)
		return view.Selection{}, false
	}
	e.seenAt = now
	s.entries[id] = e
	return e.sel.Clone(), true
}

// Set stores the selection of a session.
func (s *Store) Set(id string, sel view.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = entry{sel: sel.Clone(), seenAt: s.now()}
}

// CleanExpired removes expired sessions and returns how many were removed.
func (s *Store) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	now := s.now()
	for id, e := range s.entries {
		if now.Sub(e.seenAt) > s.TTL {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Size returns the number of stored sessions, expired ones included.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Resolve works out the selection for a request. Query parameters win and
// are remembered; without them the session's last selection is reused, or
// the default view for the latest year. A session cookie is issued when the
// request has none.
func (s *Store) Resolve(w http.ResponseWriter, r *http.Request, years []int) view.Selection {
	id := ""
	if c, err := r.Cookie(CookieName); err == nil {
		if parsed, err := uuid.Parse(c.Value); err == nil {
			id = parsed.String()
		}
	}
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   int(s.TTL / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	q := r.URL.Query()
	var sel view.Selection
	if view.HasQuery(q) {
		sel = view.FromQuery(q, years)
	} else if prev, ok := s.Get(id); ok {
		// Re-validate against the seasons currently loaded.
		sel = view.FromQuery(prev.Query(), years)
	} else {
		sel = view.FromQuery(nil, years)
	}

	s.Set(id, sel)
	return sel
}
