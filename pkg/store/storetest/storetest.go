// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.tsrepl.dev/pkg/store/storedefs"
)

var (
	cmds     = []string{"const x = 1", "x + 1", "function f() {\n}"}
	sessions = []string{"a", "a", "b"}
)

// TestCmd tests the command history functionality of a Store.
func TestCmd(t *testing.T, store storedefs.Store) {
	startSeq, err := store.NextCmdSeq()
	if startSeq != 1 || err != nil {
		t.Errorf("store.NextCmdSeq() -> %v, %v, want %v, nil", startSeq, err, 1)
	}

	for i, cmd := range cmds {
		wantSeq := startSeq + i
		seq, err := store.AddCmd(cmd, sessions[i])
		if seq != wantSeq || err != nil {
			t.Errorf("store.AddCmd(%q) -> %v, %v, want %v, nil", cmd, seq, err, wantSeq)
		}
	}

	endSeq, err := store.NextCmdSeq()
	wantedEndSeq := startSeq + len(cmds)
	if endSeq != wantedEndSeq || err != nil {
		t.Errorf("store.NextCmdSeq() -> %v, %v, want %v, nil", endSeq, err, wantedEndSeq)
	}

	cmd, err := store.Cmd(startSeq + 2)
	wantCmd := storedefs.Cmd{Text: cmds[2], Seq: startSeq + 2, Session: "b"}
	if cmd != wantCmd || err != nil {
		t.Errorf("store.Cmd(%v) -> %v, %v, want %v, nil", startSeq+2, cmd, err, wantCmd)
	}
	if _, err := store.Cmd(endSeq); err != storedefs.ErrNoMatchingCmd {
		t.Errorf("store.Cmd(%v) -> error %v, want %v", endSeq, err, storedefs.ErrNoMatchingCmd)
	}

	got, err := store.CmdsWithSeq(0, startSeq+2)
	want := []storedefs.Cmd{
		{Text: cmds[0], Seq: startSeq, Session: "a"},
		{Text: cmds[1], Seq: startSeq + 1, Session: "a"},
	}
	if diff := cmp.Diff(want, got); diff != "" || err != nil {
		t.Errorf("store.CmdsWithSeq (-want +got):\n%s\nerror: %v", diff, err)
	}
}

// TestCompiled tests the compile cache functionality of a Store.
func TestCompiled(t *testing.T, store storedefs.Store) {
	if _, err := store.GetCompiled("k"); err != storedefs.ErrNoCompiled {
		t.Errorf("store.GetCompiled before put -> error %v, want %v", err, storedefs.ErrNoCompiled)
	}
	if err := store.PutCompiled("k", "1 + 1;\n"); err != nil {
		t.Errorf("store.PutCompiled -> error %v", err)
	}
	code, err := store.GetCompiled("k")
	if code != "1 + 1;\n" || err != nil {
		t.Errorf("store.GetCompiled -> %q, %v, want %q, nil", code, err, "1 + 1;\n")
	}
}
