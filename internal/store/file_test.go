package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-blog/inkwell/domain"
	"github.com/inkwell-blog/inkwell/internal/store"
)

func testSession() domain.Session {
	return domain.Session{
		Token: "tok-123",
		User:  domain.User{ID: 7, Username: "ada", Email: "ada@example.com"},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s := store.NewFileStore(path)

	_, ok := s.Load()
	assert.False(t, ok)

	require.NoError(t, s.Save(testSession()))

	got, ok := s.Load()
	require.True(t, ok)
	assert.Equal(t, testSession(), got)
}

func TestFileStoreCorruptRecordDegradesToNoSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := store.NewFileStore(path)
	_, ok := s.Load()
	assert.False(t, ok)
}

func TestFileStoreHalfRecordIsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := store.NewFileStore(path)

	// A token without a user must never count as a session.
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"tok-123","user":{}}`), 0o600))
	_, ok := s.Load()
	assert.False(t, ok)

	// Nor a user without a token.
	require.NoError(t, os.WriteFile(path, []byte(`{"user":{"id":1,"username":"ada"}}`), 0o600))
	_, ok = s.Load()
	assert.False(t, ok)
}

func TestFileStoreClearIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := store.NewFileStore(path)

	require.NoError(t, s.Save(testSession()))
	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())

	_, ok := s.Load()
	assert.False(t, ok)
}

func TestFileStoreLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	s := store.NewFileStore(filepath.Join(dir, "session.json"))
	require.NoError(t, s.Save(testSession()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "session.json", entries[0].Name())
}

func TestNoopStore(t *testing.T) {
	s := store.NewNoopStore()

	assert.NoError(t, s.Save(testSession()))
	_, ok := s.Load()
	assert.False(t, ok)
	assert.NoError(t, s.Clear())
}
