package eval

import (
	"bytes"
	"errors"
	"strings"

	"github.com/dop251/goja"

	"src.tsrepl.dev/pkg/diag"
)

// Exception is an error thrown by JavaScript code, or a syntax error reported
// by the runtime.
type Exception struct {
	// Kind is the name of the error, like "TypeError". It is empty when the
	// thrown value is not an error object.
	Kind    string
	Message string
	// Stack holds the call frames, innermost first.
	Stack []string
	// Context locates syntax errors in the source.
	Context *diag.Context
	// Value is the thrown value, if any.
	Value goja.Value
	// Go error carried by a thrown GoError.
	cause error
}

// Unwrap returns the Go error that was thrown into JavaScript, if any.
func (e *Exception) Unwrap() error { return e.cause }

// Error returns the kind and message of the exception.
func (e *Exception) Error() string {
	if e.Kind == "" {
		return e.Message
	}
	return e.Kind + ": " + e.Message
}

const maxStackFrames = 10

// Show shows the exception the way an uncaught exception is reported.
func (e *Exception) Show(indent string) string {
	var b strings.Builder
	b.WriteString("Uncaught " + e.Error())
	if e.Context != nil {
		b.WriteString("\n" + indent + "  " + e.Context.Show(indent+"  "))
	}
	for i, frame := range e.Stack {
		if i == maxStackFrames {
			b.WriteString("\n" + indent + "    ...")
			break
		}
		b.WriteString("\n" + indent + "    at " + frame)
	}
	return b.String()
}

// Converts an error returned by the runtime to an *Exception.
func toException(err error) error {
	var exc *goja.Exception
	var syntaxErr *goja.CompilerSyntaxError
	var interrupted *goja.InterruptedError
	switch {
	case errors.As(err, &exc):
		return exceptionFromValue(exc.Value(), exc.Stack())
	case errors.As(err, &syntaxErr):
		return &Exception{Kind: "SyntaxError", Message: syntaxErr.Message}
	case errors.As(err, &interrupted):
		return &Exception{Kind: "Interrupted", Message: interrupted.Error()}
	}
	return err
}

func exceptionFromValue(v goja.Value, frames []goja.StackFrame) *Exception {
	exc := &Exception{Value: v}
	for i := range frames {
		if frames[i].SrcName() == "" && frames[i].FuncName() == "" {
			continue
		}
		var b bytes.Buffer
		frames[i].Write(&b)
		exc.Stack = append(exc.Stack, b.String())
	}
	if obj, ok := v.(*goja.Object); ok && obj.ClassName() == "Error" {
		exc.Kind = stringProp(obj, "name")
		exc.Message = stringProp(obj, "message")
		if v := obj.Get("value"); v != nil {
			exc.cause, _ = v.Export().(error)
		}
		if exc.Kind == "" {
			exc.Kind = "Error"
		}
		return exc
	}
	exc.Message = Inspect(v)
	return exc
}

func stringProp(obj *goja.Object, name string) string {
	v := obj.Get(name)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}
