package shell

import (
	"os"
	"path/filepath"
	"testing"

	"src.tsrepl.dev/pkg/must"
	. "src.tsrepl.dev/pkg/prog/progtest"
	"src.tsrepl.dev/pkg/testutil"
)

func TestProgram_Interactive(t *testing.T) {
	home := testutil.IsolateHome(t)

	Test(t, Program{},
		ThatTsrepl().WithStdin("1 + 2\n").WritesStdout("> 3\n> "),
		ThatTsrepl("-target", "esnext").WithStdin("2 ** 3\n").WritesStdout("> 8\n> "),
		ThatTsrepl("-target", "es1").
			ExitsWith(2).
			WritesStderrContaining(`unknown target "es1"`),
	)

	// The history database is created in the default location.
	db := filepath.Join(home, "state", "tsrepl", "db.bolt")
	if _, err := os.Stat(db); err != nil {
		t.Errorf("database not created: %v", err)
	}
	Test(t, Program{},
		ThatTsrepl().WithStdin(".history\n").
			WritesStdout("> " + "    1  1 + 2\n    2  2 ** 3\n> "),
	)
}

func TestProgram_NoHist(t *testing.T) {
	home := testutil.IsolateHome(t)

	Test(t, Program{},
		ThatTsrepl("-nohist").WithStdin("1\n").WritesStdout("> 1\n> "),
	)
	if _, err := os.Stat(filepath.Join(home, "state")); err == nil {
		t.Errorf("-nohist created the state directory")
	}
}

func TestProgram_DBFlag(t *testing.T) {
	testutil.IsolateHome(t)
	dir := testutil.InTempDir(t)

	Test(t, Program{},
		ThatTsrepl("-db", "h/db.bolt").WithStdin("1\n").WritesStdout("> 1\n> "),
	)
	if _, err := os.Stat(filepath.Join(dir, "h", "db.bolt")); err != nil {
		t.Errorf("database not created at -db path: %v", err)
	}
}

func TestProgram_RC(t *testing.T) {
	home := testutil.IsolateHome(t)
	testutil.InTempDir(t)
	must.WriteFile(filepath.Join(home, "config", "tsrepl", "rc.yaml"),
		"prompt: 'ts> '\nignore-undefined: true\n")
	must.WriteFile("other.yaml", "continuation-prompt: '| '\n")
	must.WriteFile("bad.yaml", "bogus: 1\n")

	Test(t, Program{},
		ThatTsrepl("-nohist").WithStdin("let a = 1\na\n").
			WritesStdout("ts> ts> 1\nts> "),
		ThatTsrepl("-nohist", "-norc").WithStdin("let a = 1\n").
			WritesStdout("> undefined\n> "),
		ThatTsrepl("-nohist", "-rc", "other.yaml").WithStdin("[\n1]\n").
			WritesStdout("> | [ 1 ]\n> "),
		ThatTsrepl("-nohist", "-rc", "bad.yaml").WithStdin("1\n").
			WritesStdout("> 1\n> ").
			WritesStderrContaining("Warning: cannot load rc file:"),
	)
}

func TestProgram_Setup(t *testing.T) {
	testutil.IsolateHome(t)
	p := Program{Setup: func(s *Session) {
		s.AddMethod("twice", func(_ *Session, args ...any) (any, error) {
			return args[0].(int64) * 2, nil
		}, MethodOpts{})
	}}
	Test(t, p,
		ThatTsrepl("-nohist").WithStdin("twice(21)\n").WritesStdout("> 42\n> "),
	)
}

func TestScript(t *testing.T) {
	testutil.IsolateHome(t)
	testutil.InTempDir(t)
	must.WriteFile("hello.ts", "const who: string = 'hello'\nconsole.log(who)\n")
	must.WriteFile("args.ts", "console.log(args.join(','))\n")
	must.WriteFile("await.ts", "const v = await Promise.resolve('done')\nconsole.log(v)\n")
	must.WriteFile("throw.ts", "throw new Error('script failed')\n")
	must.WriteFile("incomplete.ts", "const a = [1,\n")
	must.WriteFile("invalid-utf8.ts", "\xff")

	Test(t, Program{},
		ThatTsrepl("hello.ts").WritesStdout("hello\n"),
		ThatTsrepl("args.ts", "a", "b").WritesStdout("a,b\n"),
		ThatTsrepl("await.ts").WritesStdout("done\n"),

		ThatTsrepl("throw.ts").
			ExitsWith(2).
			WritesStderrContaining("Uncaught Error: script failed"),
		ThatTsrepl("incomplete.ts").
			ExitsWith(2).
			WritesStderrContaining("SyntaxError"),
		ThatTsrepl("invalid-utf8.ts").
			ExitsWith(2).
			WritesStderrContaining("cannot read script"),
		ThatTsrepl("non-existent.ts").
			ExitsWith(2).
			WritesStderrContaining("cannot read script"),

		// -compileonly doesn't run the script
		ThatTsrepl("-compileonly", "hello.ts").DoesNothing(),
		ThatTsrepl("-compileonly", "-json", "hello.ts").WritesStdout("[]\n"),
		ThatTsrepl("-compileonly", "incomplete.ts").
			ExitsWith(2).
			WritesStderrContaining("SyntaxError"),
		ThatTsrepl("-compileonly", "-json", "incomplete.ts").
			ExitsWith(2).
			WritesStdoutContaining(`"fileName":"` + filepath.Join(must.OK1(os.Getwd()), "incomplete.ts") + `"`),
	)
}
