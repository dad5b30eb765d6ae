package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"src.tsrepl.dev/pkg/strutil"
)

// CommandFunc implements a dot-command. It is called with the text after the
// command name, with surrounding spaces removed. Returning ErrExit ends the
// session; after any other return value the session shows the next prompt.
type CommandFunc func(s *Session, arg string) error

type command struct {
	help   string
	action CommandFunc
}

// DefineCommand defines a dot-command, invoked by typing "." followed by the
// name. Defining a command with the name of an existing one replaces it.
func (s *Session) DefineCommand(name, help string, action CommandFunc) {
	s.commands[name] = &command{help, action}
}

// Returns the command invoked by line, if any. Unknown commands are only
// reported when no turn is open, since a line starting with "." may continue
// an expression.
func (s *Session) parseCommand(line string) (*command, string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ".") {
		return nil, "", false
	}
	name, arg, _ := strings.Cut(trimmed[1:], " ")
	if cmd, ok := s.commands[name]; ok {
		return cmd, strings.TrimSpace(arg), true
	}
	if len(s.buffer) == 0 && isKeyword(name) {
		return &command{action: invalidKeyword}, "", true
	}
	return nil, "", false
}

func isKeyword(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z') {
			return false
		}
	}
	return true
}

func invalidKeyword(*Session, string) error {
	return errors.New("Invalid REPL keyword")
}

func addBuiltinCommands(s *Session) {
	s.DefineCommand("help", "Print this help message", helpCommand)
	s.DefineCommand("exit", "Exit the REPL", func(*Session, string) error { return ErrExit })
	s.DefineCommand("break", "Sometimes you get stuck, this gets you out", breakCommand)
	s.DefineCommand("load", "Load TS/JS from a file into the REPL session", loadCommand)
	s.DefineCommand("save", "Save all evaluated commands in this REPL session to a file", saveCommand)
	s.DefineCommand("methods", "List the custom methods of this session", methodsCommand)
	s.DefineCommand("history", "Show the last n (default 10) entries of the history", historyCommand)
}

func helpCommand(s *Session, _ string) error {
	names := make([]string, 0, len(s.commands))
	width := 0
	for name := range s.commands {
		names = append(names, name)
		width = max(width, len(name)+1)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(s.cfg.Out, "%s    %s\n", strutil.PadRight("."+name, width), s.commands[name].help)
	}
	fmt.Fprintln(s.cfg.Out)
	fmt.Fprintln(s.cfg.Out, "Press Ctrl+C to abort current expression, Ctrl+D to exit the REPL")
	return nil
}

func breakCommand(s *Session, _ string) error {
	s.buffer = nil
	return nil
}

func loadCommand(s *Session, arg string) error {
	if arg == "" {
		return errors.New("usage: .load <file>")
	}
	code, err := os.ReadFile(arg)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", arg, err)
	}
	s.evalTurn(string(code))
	return nil
}

func saveCommand(s *Session, arg string) error {
	if arg == "" {
		return errors.New("usage: .save <file>")
	}
	var sb strings.Builder
	for _, turn := range s.turns {
		sb.WriteString(turn + "\n")
	}
	if err := os.WriteFile(arg, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to save %s: %w", arg, err)
	}
	fmt.Fprintf(s.cfg.Out, "Session saved to: %s\n", arg)
	return nil
}

func methodsCommand(s *Session, _ string) error {
	names := s.methods.names()
	if len(names) == 0 {
		fmt.Fprintln(s.cfg.Out, "No custom methods")
		return nil
	}
	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}
	for _, name := range names {
		fmt.Fprintf(s.cfg.Out, "%s    %s\n",
			strutil.PadRight(name, width), s.methods.entries[name].opts.Description)
	}
	return nil
}

func historyCommand(s *Session, arg string) error {
	n := 10
	if arg != "" {
		var err error
		n, err = strconv.Atoi(arg)
		if err != nil || n <= 0 {
			return fmt.Errorf("not a positive number: %q", arg)
		}
	}
	st := s.cfg.Store
	if st == nil {
		for i := max(0, len(s.turns)-n); i < len(s.turns); i++ {
			showHistoryEntry(s.cfg.Out, i+1, s.turns[i])
		}
		return nil
	}
	next, err := st.NextCmdSeq()
	if err != nil {
		return err
	}
	cmds, err := st.CmdsWithSeq(next-n, next)
	if err != nil {
		return err
	}
	for _, cmd := range cmds {
		showHistoryEntry(s.cfg.Out, cmd.Seq, cmd.Text)
	}
	return nil
}

// Shows a history entry, with continuation lines aligned with the first.
func showHistoryEntry(w io.Writer, seq int, text string) {
	for i, line := range strutil.SplitLines(text) {
		if i == 0 {
			fmt.Fprintf(w, "%5d  %s\n", seq, line)
		} else {
			fmt.Fprintf(w, "       %s\n", line)
		}
	}
}
