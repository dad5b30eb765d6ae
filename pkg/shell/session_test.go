package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.tsrepl.dev/pkg/must"
	"src.tsrepl.dev/pkg/store"
	"src.tsrepl.dev/pkg/store/storedefs"
	"src.tsrepl.dev/pkg/testutil"
)

type fixture struct {
	s   *Session
	out *bytes.Buffer
}

func setup(input string, cfg Config) fixture {
	var out bytes.Buffer
	cfg.In = strings.NewReader(input)
	cfg.Out = &out
	cfg.Err = &out
	if cfg.Width == 0 {
		cfg.Width = 80
	}
	return fixture{New(cfg), &out}
}

func (f fixture) run(t *testing.T) string {
	t.Helper()
	if err := f.s.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	return f.out.String()
}

func testOutput(t *testing.T, input string, cfg Config, want string) {
	t.Helper()
	if got := setup(input, cfg).run(t); got != want {
		t.Errorf("output for %q:\ngot  %q\nwant %q", input, got, want)
	}
}

func testOutputContains(t *testing.T, input string, cfg Config, wants ...string) {
	t.Helper()
	got := setup(input, cfg).run(t)
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output for %q is %q, want it to contain %q", input, got, want)
		}
	}
}

var quiet = Config{IgnoreUndefined: true}

func TestSession_Value(t *testing.T) {
	testOutput(t, "1 + 1\n", Config{}, "> 2\n> ")
	testOutput(t, "'a' + 'b'\n", Config{}, "> 'ab'\n> ")
	testOutput(t, "let x = 1\n", Config{}, "> undefined\n> ")
	testOutput(t, "let x = 1\n", quiet, "> > ")
}

func TestSession_LastLineWithoutNewline(t *testing.T) {
	testOutput(t, "40 + 2", Config{}, "> 42\n> ")
}

func TestSession_Prompts(t *testing.T) {
	testOutput(t, "[1,\n2]\n",
		Config{Prompt: "ts> ", ContinuationPrompt: "..| "},
		"ts> ..| [ 1, 2 ]\nts> ")
}

func TestSession_MultiLine(t *testing.T) {
	testOutput(t, "function f(): number {\nreturn 1\n}\nf()\n", quiet,
		"> ... ... > 1\n> ")
}

func TestSession_StatePersists(t *testing.T) {
	testOutput(t, "const xs: number[] = [1, 2]\nxs.map(x => x * 2)\n", quiet,
		"> > [ 2, 4 ]\n> ")
}

func TestSession_TopLevelAwait(t *testing.T) {
	testOutput(t, "const v = await Promise.resolve(3)\nv + 1\n", quiet,
		"> > 4\n> ")
}

func TestSession_BlankLines(t *testing.T) {
	st := store.MustTempStore(t)
	f := setup("\n  \n// note\n1\n", Config{Store: st})
	if got, want := f.run(t), "> > > > 1\n> "; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	cmds, err := st.CmdsWithSeq(0, 100)
	if err != nil {
		t.Fatal(err)
	}
	want := []storedefs.Cmd{{Text: "1", Seq: 1, Session: f.s.ID}}
	if diff := cmp.Diff(want, cmds); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
	// Inside an open turn, blank lines are kept.
	testOutput(t, "[1,\n\n2]\n", Config{}, "> ... ... [ 1, 2 ]\n> ")
}

func TestSession_TopLevelAwaitContinues(t *testing.T) {
	testOutput(t, "let ok = false\nif (await Promise.resolve(true))\n{ ok = true }\nok\n", quiet,
		"> > ... > true\n> ")
	testOutput(t, "const v = await Promise.resolve(1) +\n1\nv\n", quiet,
		"> ... > 2\n> ")
}

func TestSession_IncompleteAtEOF(t *testing.T) {
	testOutput(t, "[1,\n", Config{}, "> ... ")
}

func TestSession_ErrorsDoNotEndSession(t *testing.T) {
	testOutputContains(t, "throw new Error('boom')\nlet 1 = 2\n1\n", Config{},
		"Uncaught Error: boom", "SyntaxError", "> 1\n> ")
}

func TestSession_ConsoleOutput(t *testing.T) {
	testOutput(t, "console.log('hi')\n", quiet, "> hi\n> ")
}

func TestSession_Break(t *testing.T) {
	testOutput(t, "[1,\n.break\n2\n", Config{}, "> ... > 2\n> ")
}

func TestSession_InvalidKeyword(t *testing.T) {
	testOutputContains(t, ".foo\n", Config{}, "Invalid REPL keyword")
	// Not a keyword.
	testOutput(t, ".5\n", Config{}, "> 0.5\n> ")
	// Inside an open turn, a line starting with a dot continues it.
	testOutput(t, "([1, 2]\n.length\n)\n", Config{}, "> ... ... 2\n> ")
}

func TestSession_Exit(t *testing.T) {
	testOutput(t, ".exit\n1\n", Config{}, "> ")
}

func TestSession_Help(t *testing.T) {
	f := setup(".help\n", Config{})
	f.s.DefineCommand("greet", "Say hello", func(*Session, string) error { return nil })
	got := f.run(t)
	for _, want := range []string{".break", ".exit", ".greet", "Say hello", "Ctrl+D"} {
		if !strings.Contains(got, want) {
			t.Errorf("help output %q doesn't contain %q", got, want)
		}
	}
}

func TestSession_DefineCommand(t *testing.T) {
	f := setup(".hello  world \n.hello\n", Config{})
	f.s.DefineCommand("hello", "", func(s *Session, arg string) error {
		fmt.Fprintf(s.Out(), "hello [%s]\n", arg)
		return nil
	})
	if got, want := f.run(t), "> hello [world]\n> hello []\n> "; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSession_WrappedExit(t *testing.T) {
	f := setup(".quit\n1\n", Config{})
	f.s.DefineCommand("quit", "", func(*Session, string) error {
		return fmt.Errorf("quitting: %w", ErrExit)
	})
	if got, want := f.run(t), "> "; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSession_CommandError(t *testing.T) {
	f := setup(".fail\n1\n", Config{})
	f.s.DefineCommand("fail", "", func(*Session, string) error {
		return errors.New("command failed")
	})
	got := f.run(t)
	if !strings.Contains(got, "command failed") || !strings.HasSuffix(got, "> 1\n> ") {
		t.Errorf("got %q", got)
	}
}

func TestSession_SaveAndLoad(t *testing.T) {
	testutil.InTempDir(t)
	testOutputContains(t, "const a = 1\na + 1\n.save saved.ts\n", quiet,
		"Session saved to: saved.ts")
	if got, want := must.ReadFileString("saved.ts"), "const a = 1\na + 1\n"; got != want {
		t.Errorf("saved %q, want %q", got, want)
	}

	must.WriteFile("lib.ts", "const b: number = 2\nb * 3\n")
	testOutput(t, ".load lib.ts\nb\n", Config{}, "> 6\n> 2\n> ")
	testOutputContains(t, ".load nonexistent.ts\n", Config{}, "failed to load")
}

func TestSession_History(t *testing.T) {
	st := store.MustTempStore(t)
	f := setup("1\n[2,\n3]\n.exit\n", Config{Store: st})
	f.run(t)

	cmds, err := st.CmdsWithSeq(0, 100)
	if err != nil {
		t.Fatal(err)
	}
	want := []storedefs.Cmd{
		{Text: "1", Seq: 1, Session: f.s.ID},
		{Text: "[2,\n3]", Seq: 2, Session: f.s.ID},
	}
	if diff := cmp.Diff(want, cmds); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}

	testOutputContains(t, ".history 1\n", Config{Store: st}, "    2  [2,\n       3]\n")
	testOutputContains(t, ".history x\n", Config{Store: st}, "not a positive number")
}

func TestSession_HistoryWithoutStore(t *testing.T) {
	testOutputContains(t, "1\n2\n.history\n", Config{}, "    1  1\n    2  2\n")
}

func TestSession_RunTwice(t *testing.T) {
	f := setup("", Config{})
	f.run(t)
	if err := f.s.Run(context.Background()); err != ErrAlreadyRunning {
		t.Errorf("second Run returned %v, want ErrAlreadyRunning", err)
	}
}

func TestSession_ContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := setup("1\n", Config{})
	if err := f.s.Run(ctx); err != context.Canceled {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}

func TestNewEditor(t *testing.T) {
	if _, ok := newEditor(strings.NewReader(""), os.Stdout).(*minEditor); !ok {
		t.Errorf("newEditor doesn't return a *minEditor for a non-terminal")
	}
}
