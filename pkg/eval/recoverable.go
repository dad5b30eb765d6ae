package eval

import (
	"errors"
	"strings"

	"src.tsrepl.dev/pkg/diag"
)

// ErrIncomplete is matched by errors returned by (*Evaler).Eval when the code
// is incomplete and more input may complete it. The error also wraps the
// underlying syntax error.
var ErrIncomplete = errors.New("incomplete input")

// IncompleteError wraps a syntax error caused by incomplete code. It matches
// ErrIncomplete.
type IncompleteError struct {
	Err error
}

func (e *IncompleteError) Error() string { return "incomplete input: " + e.Err.Error() }

// Is reports whether target is ErrIncomplete.
func (e *IncompleteError) Is(target error) bool { return target == ErrIncomplete }

func (e *IncompleteError) Unwrap() error { return e.Err }

var recoverablePrefixes = []string{"Unexpected end of input", "Unexpected token"}

// IsRecoverable reports whether err is a syntax error that indicates the input
// ended too early, rather than a genuine error. Compile errors (*diag.Error)
// and runtime exceptions (*Exception) are treated alike.
func IsRecoverable(err error) bool {
	kind, msg, ok := errorShape(err)
	if !ok || kind != "SyntaxError" {
		return false
	}
	for _, prefix := range recoverablePrefixes {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

func errorShape(err error) (kind, msg string, ok bool) {
	var diagErr *diag.Error
	if errors.As(err, &diagErr) {
		return diagErr.Type, diagErr.Message, true
	}
	var exc *Exception
	if errors.As(err, &exc) {
		return exc.Kind, exc.Message, true
	}
	return "", "", false
}
