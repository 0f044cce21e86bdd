package store

import "github.com/inkwell-blog/inkwell/domain"

// noopStore is the store used when no durable storage capability exists
// (e.g. no resolvable config directory). Every operation is a silent no-op
// returning a neutral value; sessions simply do not survive the process.
type noopStore struct{}

var _ domain.SessionStore = noopStore{}

// NewNoopStore will create a disabled session store.
func NewNoopStore() domain.SessionStore {
	return noopStore{}
}

func (noopStore) Load() (domain.Session, bool) { return domain.Session{}, false }

func (noopStore) Save(domain.Session) error { return nil }

func (noopStore) Clear() error { return nil }
