package shell

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.tsrepl.dev/pkg/must"
	"src.tsrepl.dev/pkg/testutil"
)

func TestLoadRC(t *testing.T) {
	testutil.InTempDir(t)
	must.WriteFile("full.yaml", testutil.Dedent(`
		prompt: "ts> "
		continuation-prompt: "..| "
		target: es2020
		ignore-undefined: true
		history-size: 10
		db: /tmp/x.bolt
		`))
	must.WriteFile("partial.yaml", "target: esnext\n")
	must.WriteFile("empty.yaml", "")
	must.WriteFile("unknown.yaml", "promt: x\n")
	must.WriteFile("malformed.yaml", "prompt: [\n")

	tests := []struct {
		name    string
		path    string
		want    RC
		wantErr bool
	}{
		{"full", "full.yaml", RC{
			Prompt: "ts> ", ContinuationPrompt: "..| ", Target: "es2020",
			IgnoreUndefined: true, HistorySize: 10, DB: "/tmp/x.bolt"}, false},
		{"partial", "partial.yaml", RC{
			Prompt: "> ", ContinuationPrompt: "... ", Target: "esnext",
			HistorySize: 1000}, false},
		{"empty", "empty.yaml", defaultRC(), false},
		{"nonexistent", "nonexistent.yaml", defaultRC(), false},
		{"unknown field", "unknown.yaml", defaultRC(), true},
		{"malformed", "malformed.yaml", defaultRC(), true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rc, err := LoadRC(test.path)
			if (err != nil) != test.wantErr {
				t.Errorf("got error %v, want error %v", err, test.wantErr)
			}
			if diff := cmp.Diff(test.want, rc); diff != "" {
				t.Errorf("RC (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	home := testutil.IsolateHome(t)
	if p := must.OK1(RCPath()); p != filepath.Join(home, "config", "tsrepl", "rc.yaml") {
		t.Errorf("RCPath() = %q", p)
	}
	if p := must.OK1(DBPath()); p != filepath.Join(home, "state", "tsrepl", "db.bolt") {
		t.Errorf("DBPath() = %q", p)
	}

	testutil.Setenv(t, "XDG_CONFIG_HOME", "")
	testutil.Setenv(t, "XDG_STATE_HOME", "")
	if p := must.OK1(RCPath()); p != filepath.Join(home, ".config", "tsrepl", "rc.yaml") {
		t.Errorf("RCPath() without XDG_CONFIG_HOME = %q", p)
	}
	if p := must.OK1(DBPath()); p != filepath.Join(home, ".local", "state", "tsrepl", "db.bolt") {
		t.Errorf("DBPath() without XDG_STATE_HOME = %q", p)
	}
}
