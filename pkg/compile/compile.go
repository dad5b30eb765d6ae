// Package compile turns the TypeScript or JavaScript typed into the REPL into
// JavaScript the sandbox can run.
package compile

// Compiler compiles source code. The name is the virtual filename of the
// code, used in diagnostics. Syntax errors are reported as *diag.Error values
// with type "SyntaxError".
type Compiler interface {
	Compile(name, code string) (string, error)
}

// Func adapts a function to a Compiler.
type Func func(name, code string) (string, error)

// Compile calls f.
func (f Func) Compile(name, code string) (string, error) { return f(name, code) }

// Identity is a Compiler that returns the code unchanged.
var Identity Compiler = Func(func(_, code string) (string, error) { return code, nil })
