package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/inkwell-blog/inkwell/domain"
)

const sessionFileName = "session.json"

// fileStore persists the session as a single JSON record on disk. Token and
// user live in one file written via temp-file + rename, so they are committed
// or cleared as one unit and a reader can never observe one without the other.
type fileStore struct {
	path string
	mu   sync.Mutex
}

var _ domain.SessionStore = (*fileStore)(nil)

// NewFileStore will create a session store rooted at the given file path.
func NewFileStore(path string) *fileStore {
	return &fileStore{path: path}
}

// DefaultPath resolves the session file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "inkwell", sessionFileName), nil
}

// Open returns the file-backed store, or the disabled no-op store when the
// environment offers no durable storage location. Absence of storage is a
// normal condition, not an error.
func Open() domain.SessionStore {
	path, err := DefaultPath()
	if err != nil {
		logrus.Infof("no durable storage available, sessions will not persist: %v", err)
		return NewNoopStore()
	}
	return NewFileStore(path)
}

func (f *fileStore) Load() (domain.Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logrus.Warnf("failed to read session file: %v", err)
		}
		return domain.Session{}, false
	}

	var s domain.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		// Corrupt persisted state degrades to "no session".
		logrus.Warnf("corrupt session record, ignoring: %v", err)
		return domain.Session{}, false
	}
	if !s.Valid() {
		return domain.Session{}, false
	}
	return s, true
}

func (f *fileStore) Save(s domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *fileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
