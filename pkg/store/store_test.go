package store_test

import (
	"path/filepath"
	"testing"

	"src.tsrepl.dev/pkg/store"
	"src.tsrepl.dev/pkg/store/storetest"
)

func TestCmd(t *testing.T) {
	storetest.TestCmd(t, store.MustTempStore(t))
}

func TestCompiled(t *testing.T) {
	storetest.TestCompiled(t, store.MustTempStore(t))
}

func TestNewStore_Reopen(t *testing.T) {
	name := filepath.Join(t.TempDir(), "db.bolt")
	st, err := store.NewStore(name)
	if err != nil {
		t.Fatal(err)
	}
	st.AddCmd("1 + 1", "s")
	st.PutCompiled("k", "v")
	st.Close()

	st, err = store.NewStore(name)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if cmd, err := st.Cmd(1); cmd.Text != "1 + 1" || err != nil {
		t.Errorf("Cmd(1) after reopening -> %v, %v", cmd, err)
	}
	if code, err := st.GetCompiled("k"); code != "v" || err != nil {
		t.Errorf("GetCompiled after reopening -> %q, %v", code, err)
	}
}

func TestNewStore_BadPath(t *testing.T) {
	_, err := store.NewStore(filepath.Join(t.TempDir(), "missing", "db.bolt"))
	if err == nil {
		t.Errorf("NewStore with a path in a missing directory succeeded")
	}
}
