package store

import (
	"path/filepath"

	"src.tsrepl.dev/pkg/testutil"
)

// MustTempStore returns a Store backed by a file in a temporary directory. The
// Store is closed when the test finishes.
func MustTempStore(t testutil.TempDirer) DBStore {
	st, err := NewStore(filepath.Join(t.TempDir(), "db.bolt"))
	if err != nil {
		panic(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}
