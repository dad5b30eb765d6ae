// Tsrepl is an interactive TypeScript and JavaScript REPL. Each line is
// compiled with esbuild and evaluated in an embedded JavaScript engine that
// keeps its state for the whole session.
package main

import (
	"os"

	"src.tsrepl.dev/pkg/buildinfo"
	"src.tsrepl.dev/pkg/prog"
	"src.tsrepl.dev/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(&buildinfo.Program{}, &shell.Program{})))
}
