// Package shell is the interactive front end of tsrepl: the REPL session, its
// dot-commands and custom methods, line editors and the program entry point.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dop251/goja"
	"github.com/google/uuid"

	"src.tsrepl.dev/pkg/compile"
	"src.tsrepl.dev/pkg/diag"
	"src.tsrepl.dev/pkg/eval"
	"src.tsrepl.dev/pkg/logutil"
	"src.tsrepl.dev/pkg/parse"
	"src.tsrepl.dev/pkg/store/storedefs"
	"src.tsrepl.dev/pkg/sys"
)

var logger = logutil.GetLogger("[shell] ")

// ErrAlreadyRunning is returned by (*Session).Run when the session is already
// running or has run.
var ErrAlreadyRunning = errors.New("session already running")

// ErrExit can be returned by command actions to end the session.
var ErrExit = errors.New("exit requested")

// Config keeps configuration for a Session. All fields are optional.
type Config struct {
	// Where lines are read from and where results and errors are written to.
	// Default to os.Stdin and os.Stdout.
	In  io.Reader
	Out io.Writer
	// Where console.error and console.warn write to. Defaults to os.Stderr.
	Err io.Writer
	// Reads lines. Defaults to a line editor if In is a terminal and a plain
	// line reader otherwise.
	Editor Editor
	// Compiles each turn. Defaults to compile.ESBuild{}.
	Compiler compile.Compiler
	// Persists the input history. Without a Store, history only lives in the
	// line editor.
	Store storedefs.Store
	// Defaults to "> " and "... ".
	Prompt, ContinuationPrompt string
	// Don't print results that are undefined.
	IgnoreUndefined bool
	// Number of history entries to load into the line editor.
	HistorySize int
	// Maximal width of a printed result. Defaults to the width of Out if it
	// is a terminal and 80 otherwise.
	Width int
}

// Session is one REPL session. Its Evaler, and the JavaScript context within,
// lives as long as the session.
type Session struct {
	// ID identifies the session in logs and in the history.
	ID string

	cfg       Config
	ev        *eval.Evaler
	inspector eval.Inspector
	methods   methodRegistry
	commands  map[string]*command

	running bool
	editor  Editor
	// Lines of an incomplete turn.
	buffer []string
	// Completed turns, written by .save.
	turns []string
}

// New creates a new Session.
func New(cfg Config) *Session {
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Err == nil {
		cfg.Err = os.Stderr
	}
	if cfg.Prompt == "" {
		cfg.Prompt = "> "
	}
	if cfg.ContinuationPrompt == "" {
		cfg.ContinuationPrompt = "... "
	}
	if cfg.Width == 0 {
		cfg.Width = 80
		if f, ok := cfg.Out.(*os.File); ok {
			cfg.Width = sys.Width(f, cfg.Width)
		}
	}
	s := &Session{
		ID:  uuid.NewString(),
		cfg: cfg,
		ev: eval.NewEvaler(eval.Config{
			Compiler: cfg.Compiler, Stdout: cfg.Out, Stderr: cfg.Err}),
		inspector: eval.Inspector{Width: cfg.Width, Depth: eval.DefaultInspector.Depth},
		commands:  make(map[string]*command),
		editor:    cfg.Editor,
	}
	addBuiltinCommands(s)
	return s
}

// Evaler returns the Evaler of the session.
func (s *Session) Evaler() *eval.Evaler { return s.ev }

// Out returns the writer results are written to.
func (s *Session) Out() io.Writer { return s.cfg.Out }

// Run reads and evaluates lines until the input ends, a command action returns
// ErrExit or ctx is done. Methods added with AddMethod before Run are bound
// when Run starts. Run can only be called once, unless binding the methods
// fails.
//
// The context is checked between lines; a pending read is not interrupted.
func (s *Session) Run(ctx context.Context) error {
	if s.running {
		return ErrAlreadyRunning
	}
	if err := s.methods.materializeInto(s.ev.Env(), s); err != nil {
		return err
	}
	s.running = true
	logger.Printf("session %s starting", s.ID)
	defer logger.Printf("session %s ended", s.ID)

	if s.editor == nil {
		s.editor = newEditor(s.cfg.In, s.cfg.Out)
	}
	defer s.editor.Close()
	s.loadHistory()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		prompt := s.cfg.Prompt
		if len(s.buffer) > 0 {
			prompt = s.cfg.ContinuationPrompt
		}
		line, err := s.editor.ReadCode(prompt)
		if errors.Is(err, ErrInterrupted) {
			// Like Ctrl-C in a shell: abandon the current turn.
			s.buffer = nil
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		if cmd, arg, ok := s.parseCommand(line); ok {
			if err := cmd.action(s, arg); errors.Is(err, ErrExit) {
				return nil
			} else if err != nil {
				diag.ShowError(s.cfg.Out, err)
			}
			continue
		}
		s.feed(line)
	}
}

// Adds a line to the current turn and evaluates it. The turn stays open if
// the code is incomplete.
func (s *Session) feed(line string) {
	if len(s.buffer) == 0 && parse.IsBlank(line) {
		return
	}
	code := strings.Join(append(s.buffer, line), "\n")
	v, err := s.ev.Eval(code)
	if errors.Is(err, eval.ErrIncomplete) {
		s.buffer = append(s.buffer, line)
		return
	}
	s.buffer = nil
	s.record(code)
	s.show(v, err)
}

// Evaluates a complete piece of code as one turn, as .load does.
func (s *Session) evalTurn(code string) {
	v, err := s.ev.Eval(code)
	var incomplete *eval.IncompleteError
	if errors.As(err, &incomplete) {
		// There is no more input; show the syntax error itself.
		err = incomplete.Err
	}
	s.record(code)
	s.show(v, err)
}

func (s *Session) show(v goja.Value, err error) {
	if err != nil {
		diag.ShowError(s.cfg.Out, err)
		return
	}
	if s.cfg.IgnoreUndefined && (v == nil || goja.IsUndefined(v)) {
		return
	}
	fmt.Fprintln(s.cfg.Out, s.inspector.Inspect(v))
}

// Records a completed turn in the history.
func (s *Session) record(code string) {
	s.turns = append(s.turns, code)
	s.editor.AddHistory(code)
	if s.cfg.Store != nil {
		if _, err := s.cfg.Store.AddCmd(code, s.ID); err != nil {
			logger.Println("failed to add history:", err)
		}
	}
}

func (s *Session) loadHistory() {
	if s.cfg.Store == nil || s.cfg.HistorySize <= 0 {
		return
	}
	next, err := s.cfg.Store.NextCmdSeq()
	if err != nil {
		logger.Println("failed to query history:", err)
		return
	}
	cmds, err := s.cfg.Store.CmdsWithSeq(next-s.cfg.HistorySize, next)
	if err != nil {
		logger.Println("failed to load history:", err)
		return
	}
	for _, cmd := range cmds {
		s.editor.AddHistory(cmd.Text)
	}
}
