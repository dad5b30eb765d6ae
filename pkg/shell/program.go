package shell

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"src.tsrepl.dev/pkg/compile"
	"src.tsrepl.dev/pkg/errutil"
	"src.tsrepl.dev/pkg/prog"
	"src.tsrepl.dev/pkg/store"
	"src.tsrepl.dev/pkg/store/storedefs"
)

// Program is the REPL subprogram. It runs a script when given arguments and
// an interactive session otherwise.
type Program struct {
	// Setup, if not nil, is called with the session before it runs. It can
	// add custom methods and commands.
	Setup func(*Session)
}

func (p Program) Run(fds [3]*os.File, f *prog.Flags, args []string) (err error) {
	rc := loadRC(fds, f)

	targetName := f.Target
	if targetName == "" {
		targetName = rc.Target
	}
	esbuild := compile.ESBuild{}
	if targetName != "" {
		target, err := compile.ParseTarget(targetName)
		if err != nil {
			return prog.BadUsage(err.Error())
		}
		esbuild.Target = target
	}
	var compiler compile.Compiler = esbuild

	if len(args) > 0 {
		return prog.Exit(script(fds, args, &scriptCfg{
			Compiler: compiler, CompileOnly: f.CompileOnly, JSON: f.JSON}))
	}

	var st storedefs.Store
	if !f.NoHist {
		db, openErr := openStore(f, rc)
		if openErr != nil {
			fmt.Fprintln(fds[2], "Warning:", openErr)
			fmt.Fprintln(fds[2], "History will not be saved.")
		} else {
			defer func() { err = errutil.Multi(err, db.Close()) }()
			st = db
			compiler = compile.NewCached(esbuild, db, esbuild.Salt())
		}
	}

	s := New(Config{
		In: fds[0], Out: fds[1], Err: fds[2],
		Compiler: compiler, Store: st,
		Prompt: rc.Prompt, ContinuationPrompt: rc.ContinuationPrompt,
		IgnoreUndefined: rc.IgnoreUndefined, HistorySize: rc.HistorySize,
	})
	if p.Setup != nil {
		p.Setup(s)
	}
	return s.Run(context.Background())
}

func loadRC(fds [3]*os.File, f *prog.Flags) RC {
	if f.NoRc {
		return defaultRC()
	}
	path := f.RC
	if path == "" {
		var err error
		path, err = RCPath()
		if err != nil {
			fmt.Fprintln(fds[2], "Warning:", err)
			return defaultRC()
		}
	}
	rc, err := LoadRC(path)
	if err != nil {
		fmt.Fprintln(fds[2], "Warning: cannot load rc file:", err)
	}
	return rc
}

func openStore(f *prog.Flags, rc RC) (store.DBStore, error) {
	path := f.DB
	if path == "" {
		path = rc.DB
	}
	if path == "" {
		var err error
		path, err = DBPath()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	return store.NewStore(path)
}
