// Package parse holds the source representation and a lexical scanner for
// the JavaScript and TypeScript code typed into the REPL.
//
// The scanner is not a full parser: it only knows enough of the grammar to
// tell strings, comments, templates and regular expressions apart from code,
// which is what source rewriting needs.
package parse

// Source describes a piece of source code.
type Source struct {
	// Name is a virtual filename used in diagnostics; it does not need to
	// exist on disk.
	Name string
	Code string
}

// Keywords that make a following "/" start a regular expression.
var regexpAfterKeyword = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "throw": true, "case": true,
	"do": true, "else": true, "yield": true, "await": true,
}
