package auth

import (
	"sync"

	"github.com/inkwell-blog/inkwell/domain"
)

// Observer holds the current-viewer value every UI surface reads instead of
// querying storage directly. It is built by a constructor and injected, so
// tests can run independent sessions side by side; there is no package-level
// instance.
type Observer struct {
	store domain.SessionStore

	mu   sync.RWMutex
	user *domain.User
	subs []func(*domain.User)
}

// NewObserver will create an observer seeded from the session store. The
// viewer is restored only when a complete session record exists; the store
// already treats half-written or corrupt records as no session.
func NewObserver(store domain.SessionStore) *Observer {
	o := &Observer{store: store}
	if s, ok := store.Load(); ok {
		u := s.User
		o.user = &u
	}
	return o
}

// Current returns the current viewer, or nil when signed out.
func (o *Observer) Current() *domain.User {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.user
}

// Subscribe registers fn to run whenever the viewer changes. Subscribers are
// invoked synchronously on the mutating goroutine.
func (o *Observer) Subscribe(fn func(*domain.User)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.subs = append(o.subs, fn)
}

// Set replaces the current viewer and notifies subscribers.
func (o *Observer) Set(u *domain.User) {
	o.mu.Lock()
	o.user = u
	subs := make([]func(*domain.User), len(o.subs))
	copy(subs, o.subs)
	o.mu.Unlock()

	for _, fn := range subs {
		fn(u)
	}
}

// Refresh re-reads the viewer from the store. Wired to the out-of-band
// change notifier so a session mutated by another process is picked up here.
func (o *Observer) Refresh() {
	if s, ok := o.store.Load(); ok {
		u := s.User
		o.Set(&u)
		return
	}
	o.Set(nil)
}
