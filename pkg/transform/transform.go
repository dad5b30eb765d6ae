// Package transform rewrites REPL input before it is compiled.
//
// The only rewrite is for top-level await: a script cannot contain await
// outside of an async function, so input using it is wrapped in an
// immediately invoked async arrow function. Declarations are turned into
// assignments to names hoisted out of the wrapper so that they remain
// visible to later inputs, and the value of a trailing expression statement is
// returned from the wrapper so that it becomes the fulfillment value of the
// resulting promise.
package transform

import (
	"strings"

	"src.tsrepl.dev/pkg/parse"
)

// TopLevelAwait rewrites code that uses await outside of any function into
// an expression that evaluates to a promise. Code that does not use top-level
// await, or that cannot be scanned or has unbalanced brackets, is returned
// unchanged. The result never uses top-level await itself, so applying
// TopLevelAwait twice is the same as applying it once.
func TopLevelAwait(code string) string {
	tokens, err := parse.Scan(parse.Source{Code: code})
	if err != nil || !parse.Balanced(tokens) || !parse.HasTopLevelAwait(tokens) {
		return code
	}
	return rewrite(code, tokens)
}

func rewrite(code string, tokens []parse.Token) string {
	stmts := splitStatements(code, tokens)
	h := &hoister{}

	var body strings.Builder
	lead := code[:tokens[0].From]
	if strings.HasPrefix(lead, "#!") {
		lead = lead[strings.IndexByte(lead, '\n')+1:]
	}
	body.WriteString(lead)
	for i, st := range stmts {
		last := i == len(stmts)-1
		body.WriteString(h.rewriteStatement(code, st, last))
		if last {
			body.WriteString(code[st.end():])
		} else {
			body.WriteString(code[st.end():stmts[i+1].start()])
		}
	}

	return h.declarations() + "(async () => {" + body.String() + "\n})()"
}

type statement struct {
	code   string
	tokens []parse.Token
}

func (st statement) start() int { return st.tokens[0].From }
func (st statement) end() int   { return st.tokens[len(st.tokens)-1].To }
func (st statement) text() string {
	return st.code[st.start():st.end()]
}

// Keywords that can begin a statement but never an expression statement.
var statementKeywords = map[string]bool{
	"const": true, "let": true, "var": true, "function": true, "class": true,
	"if": true, "for": true, "while": true, "do": true, "try": true,
	"switch": true, "return": true, "throw": true, "break": true,
	"continue": true, "import": true, "export": true, "debugger": true,
	"with": true, "interface": true, "type": true, "enum": true,
	"declare": true, "{": true, ";": true,
}

func (st statement) isExpression() bool {
	first := st.tokens[0]
	if statementKeywords[first.Text] {
		return false
	}
	if first.Is("async") && len(st.tokens) > 1 && st.tokens[1].Is("function") {
		return false
	}
	// Labeled statement.
	return !(first.Type == parse.Ident && len(st.tokens) > 1 && st.tokens[1].Is(":"))
}

type hoister struct {
	lets []string
	vars []string
	seen map[string]bool
}

func (h *hoister) add(kind string, names ...string) {
	if h.seen == nil {
		h.seen = make(map[string]bool)
	}
	for _, name := range names {
		if h.seen[name] {
			continue
		}
		h.seen[name] = true
		if kind == "var" {
			h.vars = append(h.vars, name)
		} else {
			h.lets = append(h.lets, name)
		}
	}
}

func (h *hoister) declarations() string {
	var sb strings.Builder
	if len(h.lets) > 0 {
		sb.WriteString("let " + strings.Join(h.lets, ", ") + "; ")
	}
	if len(h.vars) > 0 {
		sb.WriteString("var " + strings.Join(h.vars, ", ") + "; ")
	}
	return sb.String()
}

func (h *hoister) rewriteStatement(code string, st statement, last bool) string {
	toks := st.tokens
	switch {
	case isDeclaration(toks):
		return h.rewriteDeclaration(code, toks)
	case toks[0].Is("function") && len(toks) > 1:
		if name, ok := declaredName(toks[1:]); ok {
			h.add("var", name)
			return name + " = " + st.text() + ";"
		}
	case toks[0].Is("async") && len(toks) > 2 && toks[1].Is("function"):
		if name, ok := declaredName(toks[2:]); ok {
			h.add("var", name)
			return name + " = " + st.text() + ";"
		}
	case toks[0].Is("class") && len(toks) > 1 && toks[1].Type == parse.Ident:
		name := toks[1].Text
		h.add("let", name)
		return name + " = " + st.text() + ";"
	}
	if last && st.isExpression() {
		return "return (" + st.text() + ")"
	}
	return st.text()
}

// Returns the name of a function declaration given the tokens after the
// "function" keyword.
func declaredName(toks []parse.Token) (string, bool) {
	if toks[0].Is("*") {
		toks = toks[1:]
	}
	if len(toks) == 0 || toks[0].Type != parse.Ident {
		return "", false
	}
	return toks[0].Text, true
}

func isDeclaration(toks []parse.Token) bool {
	if len(toks) < 2 {
		return false
	}
	switch toks[0].Text {
	case "var":
		return true
	case "const":
		return !toks[1].Is("enum")
	case "let":
		next := toks[1]
		return next.Type == parse.Ident || next.Is("{") || next.Is("[")
	}
	return false
}

// Rewrites "const a = x, {b} = y" into "void (a = x, {b} = y)", hoisting the
// declared names. TypeScript annotations on the bindings are dropped.
func (h *hoister) rewriteDeclaration(code string, toks []parse.Token) string {
	kind := toks[0].Text
	var assigns []string
	for _, decl := range splitTopLevel(toks[1:], ",") {
		if len(decl) == 0 {
			continue
		}
		pattern, init := splitDeclarator(decl)
		h.add(kind, patternNames(pattern)...)
		switch {
		case init != nil:
			assigns = append(assigns, textOf(code, pattern)+" = "+textOf(code, init))
		case kind != "var" && len(pattern) == 1:
			assigns = append(assigns, pattern[0].Text+" = undefined")
		}
	}
	if len(assigns) == 0 {
		return ""
	}
	return "void (" + strings.Join(assigns, ", ") + ")"
}

func splitDeclarator(decl []parse.Token) (pattern, init []parse.Token) {
	rest := decl[1:]
	pattern = decl[:1]
	if decl[0].Is("{") || decl[0].Is("[") {
		if m := matchingCloser(decl); m > 0 {
			pattern, rest = decl[:m+1], decl[m+1:]
		}
	}
	if eq := indexTopLevel(rest, "="); eq >= 0 {
		init = rest[eq+1:]
		if len(init) == 0 {
			init = nil
		}
	}
	return pattern, init
}

func textOf(code string, toks []parse.Token) string {
	if len(toks) == 0 {
		return ""
	}
	return code[toks[0].From:toks[len(toks)-1].To]
}
