package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"src.tsrepl.dev/pkg/compile"
	"src.tsrepl.dev/pkg/diag"
	"src.tsrepl.dev/pkg/eval"
)

// Configuration for the script mode.
type scriptCfg struct {
	Compiler    compile.Compiler
	CompileOnly bool
	JSON        bool
}

// Runs a script file. The remaining arguments are available to the script as
// the global array args.
func script(fds [3]*os.File, args []string, cfg *scriptCfg) int {
	name, err := filepath.Abs(args[0])
	if err != nil {
		fmt.Fprintf(fds[2],
			"cannot get full path of script %q: %v\n", args[0], err)
		return 2
	}
	code, err := readFileUTF8(name)
	if err != nil {
		fmt.Fprintf(fds[2], "cannot read script %q: %v\n", name, err)
		return 2
	}

	ev := eval.NewEvaler(eval.Config{
		Compiler: cfg.Compiler, Stdout: fds[1], Stderr: fds[2], Name: name})
	if cfg.CompileOnly {
		err := ev.Check(code)
		if cfg.JSON {
			fmt.Fprintf(fds[1], "%s\n", errorsToJSON(err))
		} else if err != nil {
			diag.ShowError(fds[2], err)
		}
		if err != nil {
			return 2
		}
		return 0
	}

	if err := ev.Env().Set("args", args[1:]); err != nil {
		logger.Println("failed to set args:", err)
	}
	_, err = ev.Eval(code)
	var incomplete *eval.IncompleteError
	if errors.As(err, &incomplete) {
		err = incomplete.Err
	}
	if err != nil {
		diag.ShowError(fds[2], err)
		return 2
	}
	return 0
}

var errSourceNotUTF8 = errors.New("source is not UTF-8")

func readFileUTF8(fname string) (string, error) {
	bytes, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bytes) {
		return "", errSourceNotUTF8
	}
	return string(bytes), nil
}
