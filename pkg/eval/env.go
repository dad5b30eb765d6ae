package eval

import (
	"fmt"
	"io"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/eventloop"
	"github.com/dop251/goja_nodejs/require"
)

// Env is the persistent execution context shared by all turns: a JavaScript
// runtime driven by an event loop. It is not safe for concurrent use.
type Env struct {
	loop   *eventloop.EventLoop
	vm     *goja.Runtime
	inLoop bool
}

// NewEnv creates a new Env whose console writes to the given writers.
func NewEnv(stdout, stderr io.Writer) *Env {
	registry := require.NewRegistry()
	registry.RegisterNativeModule(console.ModuleName,
		console.RequireWithPrinter(printer{stdout, stderr}))
	env := &Env{loop: eventloop.NewEventLoop(
		eventloop.EnableConsole(false), eventloop.WithRegistry(registry))}
	env.Do(func(vm *goja.Runtime) {
		env.vm = vm
		vm.SetFieldNameMapper(goja.UncapFieldNameMapper())
		vm.Set("console", require.Require(vm, console.ModuleName))
	})
	return env
}

type printer struct {
	stdout, stderr io.Writer
}

func (p printer) Log(s string)   { fmt.Fprintln(p.stdout, s) }
func (p printer) Warn(s string)  { fmt.Fprintln(p.stderr, s) }
func (p printer) Error(s string) { fmt.Fprintln(p.stderr, s) }

// Do calls f with the runtime on the event loop, and returns after all the
// timers and promise jobs scheduled by f have run. When called from code that
// is already running on the loop, such as a Go function called from
// JavaScript, f is called directly.
func (e *Env) Do(f func(vm *goja.Runtime)) {
	if e.inLoop {
		f(e.vm)
		return
	}
	e.inLoop = true
	defer func() { e.inLoop = false }()
	e.loop.Run(f)
}

// Set sets a global binding.
func (e *Env) Set(name string, value any) error {
	var err error
	e.Do(func(vm *goja.Runtime) { err = vm.Set(name, value) })
	return err
}

// Get returns the value of a global binding, or nil if it doesn't exist.
func (e *Env) Get(name string) goja.Value {
	var v goja.Value
	e.Do(func(vm *goja.Runtime) { v = vm.Get(name) })
	return v
}

// SetFunc binds a global function implemented in Go. A nil result becomes
// undefined. Errors returned by fn are thrown into JavaScript as Error objects.
func (e *Env) SetFunc(name string, fn func(args []any) (any, error)) error {
	var err error
	e.Do(func(vm *goja.Runtime) {
		err = vm.Set(name, func(call goja.FunctionCall) goja.Value {
			args := make([]any, len(call.Arguments))
			for i, arg := range call.Arguments {
				args[i] = arg.Export()
			}
			ret, err := fn(args)
			if err != nil {
				panic(vm.NewGoError(err))
			}
			if ret == nil {
				return goja.Undefined()
			}
			return vm.ToValue(ret)
		})
	})
	return err
}

// Settles the value of a turn that was rewritten to produce a promise. The
// event loop has already run to completion, so a pending promise will never
// settle.
func (e *Env) settle(v goja.Value) (goja.Value, error) {
	p, ok := v.Export().(*goja.Promise)
	if !ok {
		return v, nil
	}
	switch p.State() {
	case goja.PromiseStateFulfilled:
		return p.Result(), nil
	case goja.PromiseStateRejected:
		return nil, exceptionFromValue(p.Result(), nil)
	default:
		return nil, &Exception{Kind: "Error", Message: "top-level await never settled"}
	}
}
