// Package eval evaluates the code typed into the REPL.
//
// Each call to (*Evaler).Eval is one turn: the code is rewritten if it uses
// top-level await, compiled to JavaScript, and run in an Env that persists
// across turns. Syntax errors that indicate the code is merely incomplete are
// reported as ErrIncomplete, so that the caller can read more lines and try
// again with the concatenated text.
package eval

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dop251/goja"

	"src.tsrepl.dev/pkg/compile"
	"src.tsrepl.dev/pkg/logutil"
	"src.tsrepl.dev/pkg/transform"
)

var logger = logutil.GetLogger("[eval] ")

// VirtualName is the base name of the virtual file code is compiled as.
const VirtualName = "<repl>.ts"

// Config keeps configurable parts of an Evaler. All fields are optional.
type Config struct {
	// Compiler compiles each turn. Defaults to compile.ESBuild{}.
	Compiler compile.Compiler
	// Sandbox runs compiled code. Defaults to GojaSandbox{}.
	Sandbox Sandbox
	// Transform rewrites each turn before compilation. Defaults to
	// transform.TopLevelAwait.
	Transform func(string) string
	// Where console output goes. Default to os.Stdout and os.Stderr.
	Stdout, Stderr io.Writer
	// The virtual filename. Defaults to VirtualName in the working directory.
	Name string
}

// Evaler evaluates turns against a persistent Env.
type Evaler struct {
	compiler  compile.Compiler
	sandbox   Sandbox
	transform func(string) string
	name      string
	env       *Env
}

// NewEvaler creates a new Evaler, along with its Env.
func NewEvaler(cfg Config) *Evaler {
	ev := &Evaler{cfg.Compiler, cfg.Sandbox, cfg.Transform, cfg.Name, nil}
	if ev.compiler == nil {
		ev.compiler = compile.ESBuild{}
	}
	if ev.sandbox == nil {
		ev.sandbox = GojaSandbox{}
	}
	if ev.transform == nil {
		ev.transform = transform.TopLevelAwait
	}
	if ev.name == "" {
		ev.name = defaultName()
	}
	stdout, stderr := cfg.Stdout, cfg.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	ev.env = NewEnv(stdout, stderr)
	return ev
}

func defaultName() string {
	wd, err := os.Getwd()
	if err != nil {
		logger.Println("getwd:", err)
		return VirtualName
	}
	return filepath.Join(wd, VirtualName)
}

// Env returns the persistent Env of the Evaler.
func (ev *Evaler) Env() *Env { return ev.env }

// Name returns the virtual filename turns are compiled as.
func (ev *Evaler) Name() string { return ev.name }

// Eval evaluates one turn and returns its value. If the code is incomplete,
// the error matches ErrIncomplete with errors.Is. Other errors are compile
// errors (*diag.Error) or runtime exceptions (*Exception).
func (ev *Evaler) Eval(code string) (goja.Value, error) {
	v, err := ev.eval(code)
	if err != nil {
		if IsRecoverable(err) {
			return nil, &IncompleteError{err}
		}
		return nil, err
	}
	return v, nil
}

// Check compiles code without running it. It returns the compile error, if
// any.
func (ev *Evaler) Check(code string) error {
	_, _, err := ev.compile(code)
	return err
}

// Transforms and compiles code. It also reports whether the code was
// rewritten.
func (ev *Evaler) compile(code string) (string, bool, error) {
	rewritten := ev.transform(code)
	js, err := ev.compiler.Compile(ev.name, rewritten)
	if err == nil || rewritten == code {
		return js, rewritten != code, err
	}
	// Errors in rewritten code point into the wrapper, and input that ends
	// too early fails at the closing brackets of the wrapper instead of at
	// the end. Report the error of the input itself when it has one.
	if _, origErr := ev.compiler.Compile(ev.name, code); origErr != nil && !isTopLevelAwaitError(origErr) {
		return "", true, origErr
	}
	return "", true, err
}

// Reports whether err only complains that the compiler can't handle top-level
// await, which the rewriting takes care of.
func isTopLevelAwaitError(err error) bool {
	_, msg, ok := errorShape(err)
	return ok && strings.HasPrefix(msg, "Top-level await")
}

func (ev *Evaler) eval(code string) (goja.Value, error) {
	js, rewritten, err := ev.compile(code)
	if err != nil {
		return nil, err
	}
	v, err := ev.sandbox.Run(ev.name, js, ev.env)
	if err != nil {
		return nil, err
	}
	if rewritten {
		// The code was wrapped in an async function, and the event loop has
		// run to completion in Run.
		return ev.env.settle(v)
	}
	return v, nil
}
