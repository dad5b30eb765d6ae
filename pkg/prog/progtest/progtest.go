// Package progtest contains utilities for testing subprograms.
package progtest

import (
	"io"
	"os"
	"strings"
	"testing"

	"src.tsrepl.dev/pkg/must"
	"src.tsrepl.dev/pkg/prog"
)

// Case is a test case that can be used in Test.
type Case struct {
	args   []string
	stdin  string
	want   result
	checks struct{ stdout, stderr check }
}

type result struct {
	exitCode int
}

type check struct {
	content string
	match   func(got, want string) bool
	set     bool
}

// ThatTsrepl returns a new Case with the specified CLI arguments.
//
// The new Case expects the program run to exit with 0, and write nothing to
// stdout or stderr.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "tsrepl -bad-flag" exits with 2 reads
// like:
//
//	ThatTsrepl("-bad-flag").ExitsWith(2)
func ThatTsrepl(args ...string) Case {
	return Case{args: args}
}

// WithStdin returns an altered Case that feeds the given text to stdin.
func (c Case) WithStdin(s string) Case {
	c.stdin = s
	return c
}

// DoesNothing returns c itself. It is useful to mark tests that otherwise don't
// have any expectations, for example:
//
//	ThatTsrepl("-nohist").DoesNothing()
func (c Case) DoesNothing() Case {
	return c
}

// ExitsWith returns an altered Case that requires the program run to return
// with the given exit code.
func (c Case) ExitsWith(code int) Case {
	c.want.exitCode = code
	return c
}

// WritesStdout returns an altered Case that requires the program run to write
// exactly the given text to stdout.
func (c Case) WritesStdout(s string) Case {
	c.checks.stdout = check{s, equal, true}
	return c
}

// WritesStdoutContaining returns an altered Case that requires the program run
// to write output to stdout that contains the given text as a substring.
func (c Case) WritesStdoutContaining(s string) Case {
	c.checks.stdout = check{s, strings.Contains, true}
	return c
}

// WritesStderr returns an altered Case that requires the program run to write
// exactly the given text to stderr.
func (c Case) WritesStderr(s string) Case {
	c.checks.stderr = check{s, equal, true}
	return c
}

// WritesStderrContaining returns an altered Case that requires the program run
// to write output to stderr that contains the given text as a substring.
func (c Case) WritesStderrContaining(s string) Case {
	c.checks.stderr = check{s, strings.Contains, true}
	return c
}

func equal(got, want string) bool { return got == want }

// Test runs test cases against a given program.
func Test(t *testing.T, p prog.Program, cases ...Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			t.Helper()
			exit, stdout, stderr := Run(p, c.stdin, c.args...)
			if exit != c.want.exitCode {
				t.Errorf("got exit code %v, want %v", exit, c.want.exitCode)
			}
			checkOutput(t, "stdout", stdout, c.checks.stdout)
			checkOutput(t, "stderr", stderr, c.checks.stderr)
		})
	}
}

func checkOutput(t *testing.T, name, got string, c check) {
	t.Helper()
	if !c.set {
		if got != "" {
			t.Errorf("got %s %q, want empty", name, got)
		}
		return
	}
	if !c.match(got, c.content) {
		t.Errorf("got %s %q, want %q", name, got, c.content)
	}
}

// Run runs a Program with the given stdin and arguments. It returns the exit
// code and output to stdout and stderr. The program name "tsrepl" is added
// before args.
func Run(p prog.Program, stdin string, args ...string) (exit int, stdout, stderr string) {
	r0, w0 := must.OK2(os.Pipe())
	r1, w1 := must.OK2(os.Pipe())
	r2, w2 := must.OK2(os.Pipe())
	go func() {
		io.WriteString(w0, stdin)
		w0.Close()
	}()
	// Output is read concurrently so that the program doesn't block on a full
	// pipe.
	outCh, errCh := readAllAsync(r1), readAllAsync(r2)

	exit = prog.Run([3]*os.File{r0, w1, w2}, append([]string{"tsrepl"}, args...), p)
	r0.Close()
	w1.Close()
	w2.Close()
	return exit, <-outCh, <-errCh
}

func readAllAsync(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() {
		defer r.Close()
		ch <- string(must.OK1(io.ReadAll(r)))
	}()
	return ch
}
