package eval

import (
	"errors"

	"github.com/dop251/goja"
	"github.com/dop251/goja/parser"

	"src.tsrepl.dev/pkg/diag"
)

// Sandbox runs compiled code in an Env.
type Sandbox interface {
	Run(name, code string, env *Env) (goja.Value, error)
}

// SandboxFunc adapts a function to a Sandbox.
type SandboxFunc func(name, code string, env *Env) (goja.Value, error)

// Run calls f.
func (f SandboxFunc) Run(name, code string, env *Env) (goja.Value, error) {
	return f(name, code, env)
}

// GojaSandbox runs code as a script in the runtime of the Env. Errors are
// returned as *Exception values.
type GojaSandbox struct{}

// Run implements Sandbox.
func (GojaSandbox) Run(name, code string, env *Env) (goja.Value, error) {
	prg, err := compileScript(name, code)
	if err != nil {
		return nil, err
	}
	var v goja.Value
	env.Do(func(vm *goja.Runtime) { v, err = vm.RunProgram(prg) })
	if err != nil {
		return nil, toException(err)
	}
	return v, nil
}

func compileScript(name, code string) (*goja.Program, error) {
	ast, err := parser.ParseFile(nil, name, code, 0)
	if err != nil {
		var list parser.ErrorList
		if errors.As(err, &list) && len(list) > 0 {
			e := list[0]
			return nil, &Exception{
				Kind: "SyntaxError", Message: e.Message,
				Context: diag.PositionContext(name, code, e.Position.Line, e.Position.Column-1, 0),
			}
		}
		return nil, &Exception{Kind: "SyntaxError", Message: err.Error()}
	}
	prg, err := goja.CompileAST(ast, false)
	if err != nil {
		return nil, toException(err)
	}
	return prg, nil
}
