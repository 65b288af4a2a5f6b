// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/peerexam/internal/store"
)

// OpenStore opens a fresh SQLite store under t.TempDir and closes it when
// the test ends.
func OpenStore(t testing.TB, opts ...store.Option) *store.SQLStore {
	t.Helper()
	st, err := store.Open(context.Background(), store.Config{
		DSN: filepath.Join(t.TempDir(), "test.db"),
	}, opts...)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}
