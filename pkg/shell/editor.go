package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/peterh/liner"

	"src.tsrepl.dev/pkg/strutil"
	"src.tsrepl.dev/pkg/sys"
)

// ErrInterrupted is returned by Editor.ReadCode when the user aborts the
// current line, for example with Ctrl-C.
var ErrInterrupted = errors.New("interrupted")

// Editor is the interface the line source has to satisfy.
type Editor interface {
	// ReadCode shows the prompt and reads one line, without the line ending.
	// It returns io.EOF when the input ends.
	ReadCode(prompt string) (string, error)
	// AddHistory adds a completed turn to the in-memory history.
	AddHistory(code string)
	Close() error
}

func newEditor(in io.Reader, out io.Writer) Editor {
	if f, ok := in.(*os.File); ok && f == os.Stdin && sys.IsATTY(f.Fd()) {
		logger.Println("using line editor")
		return newLinerEditor()
	}
	return newMinEditor(in, out)
}

// A line editor for terminals.
type linerEditor struct {
	state *liner.State
}

func newLinerEditor() *linerEditor {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &linerEditor{state}
}

func (ed *linerEditor) ReadCode(prompt string) (string, error) {
	line, err := ed.state.Prompt(prompt)
	if err == liner.ErrPromptAborted {
		return "", ErrInterrupted
	}
	return line, err
}

func (ed *linerEditor) AddHistory(code string) { ed.state.AppendHistory(code) }

func (ed *linerEditor) Close() error { return ed.state.Close() }

// Used when the input is not a terminal.
type minEditor struct {
	in  *bufio.Reader
	out io.Writer
}

func newMinEditor(in io.Reader, out io.Writer) *minEditor {
	return &minEditor{bufio.NewReader(in), out}
}

func (ed *minEditor) ReadCode(prompt string) (string, error) {
	fmt.Fprint(ed.out, prompt)
	line, err := ed.in.ReadString('\n')
	if err == io.EOF && line != "" {
		// The last line has no line ending.
		err = nil
	}
	return strutil.ChopLineEnding(line), err
}

func (ed *minEditor) AddHistory(string) {}

func (ed *minEditor) Close() error { return nil }
