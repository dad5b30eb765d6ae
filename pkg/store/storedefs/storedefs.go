// Package storedefs contains definitions of the store API.
//
// It is a separate package so that packages that only depend on the store API
// does not need to depend on the concrete implementation.
package storedefs

import "errors"

// ErrNoMatchingCmd is the error returned when a command history query
// completes with no result.
var ErrNoMatchingCmd = errors.New("no matching command")

// ErrNoCompiled is returned by GetCompiled when nothing is cached under the
// key.
var ErrNoCompiled = errors.New("no compiled code for key")

// Store is an interface satisfied by the storage service.
type Store interface {
	NextCmdSeq() (int, error)
	AddCmd(text, session string) (int, error)
	Cmd(seq int) (Cmd, error)
	CmdsWithSeq(from, upto int) ([]Cmd, error)

	GetCompiled(key string) (string, error)
	PutCompiled(key, code string) error
}

// Cmd is an entry in the command history.
type Cmd struct {
	Text string
	Seq  int
	// Session is the ID of the REPL session the command was entered in.
	Session string
}
